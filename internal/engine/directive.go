package engine

import "errors"

// Kind selects the transport call a Directive maps onto.
type Kind int

const (
	KindText Kind = iota
	KindPhoto
)

// Keyboard describes the quick-reply buttons attached to a text message.
// A zero Keyboard leaves whatever the user currently sees.
type Keyboard struct {
	Buttons []string
	Remove  bool
}

// Directive is one outbound message produced by the engine.
type Directive struct {
	Kind     Kind
	Text     string // message body, or caption for a photo
	Image    string // image reference for KindPhoto
	Keyboard Keyboard
}

func text(s string) Directive { return Directive{Kind: KindText, Text: s} }

func textWithButtons(s string, buttons ...string) Directive {
	return Directive{Kind: KindText, Text: s, Keyboard: Keyboard{Buttons: buttons}}
}

func photo(image, caption string) Directive {
	return Directive{Kind: KindPhoto, Image: image, Text: caption}
}

// Sender delivers messages to a chat. Implementations must bound every call
// with a timeout; a failure is returned, never panicked.
type Sender interface {
	SendPhoto(chatID int64, image, caption string) error
	SendText(chatID int64, text string, kb Keyboard) error
}

// Deliver sends every directive in order. A failed send does not stop the
// rest; all failures are joined into the returned error.
func Deliver(s Sender, chatID int64, ds []Directive) error {
	var errs []error
	for _, d := range ds {
		if err := send(s, chatID, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func send(s Sender, chatID int64, d Directive) error {
	switch d.Kind {
	case KindPhoto:
		return s.SendPhoto(chatID, d.Image, d.Text)
	default:
		return s.SendText(chatID, d.Text, d.Keyboard)
	}
}
