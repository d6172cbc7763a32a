package store

import (
	"sync"

	"go-smartapply-bot/internal/models"
)

// Partial carries the profile fields to overwrite on upsert. Nil fields are
// left untouched.
type Partial struct {
	DisplayName     *string
	ResumeText      *string
	SuggestedTitles *[]string
	PreferredTitles *[]string
	Location        *string
}

// UserStore maps a chat id to its profile. Implementations never delete
// entries; profiles live for the process lifetime.
type UserStore interface {
	// Upsert creates the profile if needed and merges the supplied fields
	// into it. Returns a copy of the resulting profile.
	Upsert(id int64, p Partial) *models.UserProfile

	// Get returns a copy of the profile, or false when the id is unseen.
	Get(id int64) (*models.UserProfile, bool)
}

// Memory is the in-process UserStore.
// Mutex is required because Go maps are not safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	users map[int64]*models.UserProfile
}

func NewMemory() *Memory {
	return &Memory{users: make(map[int64]*models.UserProfile)}
}

func (m *Memory) Upsert(id int64, p Partial) *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		user = &models.UserProfile{
			ID:       id,
			Location: models.WorldwideLocation,
		}
		m.users[id] = user
	}

	if p.DisplayName != nil {
		user.DisplayName = *p.DisplayName
	}
	if p.ResumeText != nil {
		user.ResumeText = *p.ResumeText
	}
	if p.SuggestedTitles != nil {
		user.SuggestedTitles = copyStrings(*p.SuggestedTitles)
	}
	if p.PreferredTitles != nil {
		user.PreferredTitles = copyStrings(*p.PreferredTitles)
	}
	if p.Location != nil {
		user.Location = *p.Location
	}

	return copyProfile(user)
}

func (m *Memory) Get(id int64) (*models.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, false
	}
	return copyProfile(user), true
}

// copyProfile keeps callers from aliasing store-owned memory.
func copyProfile(u *models.UserProfile) *models.UserProfile {
	cp := *u
	cp.SuggestedTitles = copyStrings(u.SuggestedTitles)
	cp.PreferredTitles = copyStrings(u.PreferredTitles)
	return &cp
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Pointer helpers for building Partial values inline.
func String(s string) *string { return &s }

func Strings(s []string) *[]string { return &s }
