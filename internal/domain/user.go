package domain

import "cloud.google.com/go/civil"

// Phase is the enrollment phase of a user.
type Phase int

const (
	// PhaseAwaitingWindow: enrollment started, no valid window yet.
	PhaseAwaitingWindow Phase = iota
	// PhaseActive: hourly dispatch and continuation prompts apply.
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingWindow:
		return "awaiting_window"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// User represents one enrolled chat and its engagement state.
type User struct {
	ChatID        int64
	Window        Window              // meaningful only when Phase is PhaseActive
	UsedImages    map[string]struct{} // images sent since the last daily reset
	LastActionDay civil.Date          // last enrollment or continuation
	Streak        int                 // consecutive "да" replies
	Phase         Phase
}

// NewAwaiting returns a fresh record for a user who just started enrollment.
func NewAwaiting(chatID int64) User {
	return User{
		ChatID:     chatID,
		UsedImages: map[string]struct{}{},
		Phase:      PhaseAwaitingWindow,
	}
}

// Activate turns u into an active record with window w and resets engagement state.
func (u *User) Activate(w Window, today civil.Date) {
	u.Window = w
	u.UsedImages = map[string]struct{}{}
	u.LastActionDay = today
	u.Streak = 0
	u.Phase = PhaseActive
}

// DueAt reports whether the user should receive a dispatch at hour.
func (u *User) DueAt(hour int) bool {
	return u.Phase == PhaseActive && u.Window.Contains(hour)
}

// Clone returns a deep copy so callers never share the used-images set.
func (u User) Clone() User {
	used := make(map[string]struct{}, len(u.UsedImages))
	for k := range u.UsedImages {
		used[k] = struct{}{}
	}
	u.UsedImages = used
	return u
}
