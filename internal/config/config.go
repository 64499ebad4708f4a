package config

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var (
	ErrNoToken    = errors.New("BOT_TOKEN must not be empty")
	ErrNoOperator = errors.New("OPERATOR_CHAT_ID must be a non-zero chat id")
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken       string        `envconfig:"BOT_TOKEN" required:"true"`
	OperatorChatID int64         `envconfig:"OPERATOR_CHAT_ID" required:"true"`
	ImagesPath     string        `envconfig:"IMAGES_PATH" default:"quote_images.txt"`
	Timezone       string        `envconfig:"TIMEZONE" default:"Europe/Moscow"`
	DispatchCron   string        `envconfig:"DISPATCH_CRON" default:"5 * * * *"` // hourly, minute 05
	ReportCron     string        `envconfig:"REPORT_CRON" default:"10 * * * *"`  // hourly, minute 10
	ResetCron      string        `envconfig:"RESET_CRON" default:"0 0 * * *"`    // local midnight
	SendTimeout    time.Duration `envconfig:"SEND_TIMEOUT" default:"15s"`
	HumanContact   string        `envconfig:"HUMAN_CONTACT" default:"@aawolf_1979"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if strings.TrimSpace(cfg.BotToken) == "" {
		return cfg, ErrNoToken
	}
	if cfg.OperatorChatID == 0 {
		return cfg, ErrNoOperator
	}
	return cfg, nil
}
