package domain

import "strings"

// Reply button labels. Matching is case-insensitive.
const (
	LabelYes         = "Да"
	LabelNo          = "Нет"
	LabelTalkToHuman = "Поговорить с Артёмом"
	LabelStay        = "Просто остаться в рассылке"
)

// Intent is a recognized free-text reply from an active user.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentContinue
	IntentDecline
	IntentTalkToHuman
	IntentStay
)

func (i Intent) String() string {
	switch i {
	case IntentContinue:
		return "continue"
	case IntentDecline:
		return "decline"
	case IntentTalkToHuman:
		return "talk_to_human"
	case IntentStay:
		return "stay"
	default:
		return "unknown"
	}
}

// ParseIntent maps raw reply text onto an Intent after trimming and lower-casing.
func ParseIntent(text string) Intent {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case strings.ToLower(LabelYes):
		return IntentContinue
	case strings.ToLower(LabelNo):
		return IntentDecline
	case strings.ToLower(LabelTalkToHuman):
		return IntentTalkToHuman
	case strings.ToLower(LabelStay):
		return IntentStay
	default:
		return IntentUnknown
	}
}
