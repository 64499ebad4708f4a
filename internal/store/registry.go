// Package store holds the volatile per-user registry. Nothing is persisted;
// a restart begins with an empty registry.
package store

import (
	"sync"

	"github.com/sovetnikUSSR/bot-smotry/internal/domain"
)

// Registry maps chat ids to user records. Every method is atomic with respect
// to a single entry; no cross-entry transaction is offered.
// Records cross the boundary by value (deep copy), so callers never alias
// the registry's internal state.
type Registry struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[int64]domain.User)}
}

// Get returns a copy of the record for chatID.
func (r *Registry) Get(chatID int64) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[chatID]
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

// Has reports whether chatID is enrolled.
func (r *Registry) Has(chatID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[chatID]
	return ok
}

// Upsert creates or overwrites the record for u.ChatID.
func (r *Registry) Upsert(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ChatID] = u.Clone()
}

// Delete removes chatID. Deleting an absent id is a no-op.
func (r *Registry) Delete(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, chatID)
}

// Update applies fn to the record for chatID under the write lock.
// It returns false, without calling fn, if the user is not enrolled,
// so a concurrent delete is never undone.
func (r *Registry) Update(chatID int64, fn func(u *domain.User)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[chatID]
	if !ok {
		return false
	}
	fn(&u)
	r.users[chatID] = u
	return true
}

// Snapshot copies every record at a single instant. Order is unspecified.
func (r *Registry) Snapshot() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Clone())
	}
	return out
}

// ResetUsedImages clears the used-images set of every record and returns
// how many records were touched.
func (r *Registry) ResetUsedImages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		u.UsedImages = map[string]struct{}{}
		r.users[id] = u
	}
	return len(r.users)
}

// Counts returns the number of records and how many of them are active.
func (r *Registry) Counts() (total, active int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Phase == domain.PhaseActive {
			active++
		}
	}
	return len(r.users), active
}
