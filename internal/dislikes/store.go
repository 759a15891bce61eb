package dislikes

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrMalformed is returned when the persisted dislike file cannot be used.
var ErrMalformed = errors.New("dislikes: malformed store")

// Set maps a lowercased, trimmed product name to true. Membership is key
// presence; the stored value is not consulted.
type Set map[string]bool

// Store persists the dislike set.
type Store interface {
	Load() (Set, error)
	Save(Set) error
}

// Ensure implementations satisfy Store
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add marks every non-empty item as disliked and reports how many were new.
func (s Set) Add(items ...string) int {
	added := 0
	for _, item := range items {
		key := Normalize(item)
		if key == "" {
			continue
		}
		if _, ok := s[key]; !ok {
			added++
		}
		s[key] = true
	}
	return added
}

func (s Set) Has(name string) bool {
	_, ok := s[Normalize(name)]
	return ok
}

// Names returns the disliked names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MemoryStore keeps the set in process. Saves are counted so tests can check
// that every dislike turn persisted.
type MemoryStore struct {
	mu    sync.Mutex
	set   Set
	saves int
}

func NewMemoryStore(initial Set) *MemoryStore {
	if initial == nil {
		initial = Set{}
	}
	return &MemoryStore{set: initial.Clone()}
}

func (m *MemoryStore) Load() (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Clone(), nil
}

func (m *MemoryStore) Save(s Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = s.Clone()
	m.saves++
	return nil
}

func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
