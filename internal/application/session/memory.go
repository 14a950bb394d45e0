package session

import (
	"sync"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Memory implementación en memoria de Session (tests y dobles).
type Memory struct {
	mu      sync.Mutex
	token   string
	profile *entity.UserProfile
	flash   map[string]string
	navbar  bool
}

// NewMemory crea un almacén vacío.
func NewMemory() *Memory {
	return &Memory{flash: make(map[string]string)}
}

// NewMemoryWithToken crea un almacén con un token ya guardado.
func NewMemoryWithToken(token string) *Memory {
	m := NewMemory()
	m.token = token
	return m
}

var _ Session = (*Memory)(nil)

func (m *Memory) Set(token string, profile *entity.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.profile = nil
	if profile != nil {
		p := *profile
		m.profile = &p
	}
}

func (m *Memory) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *Memory) Profile() (*entity.UserProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil, false
	}
	p := *m.profile
	return &p, true
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.profile = nil
}

func (m *Memory) Put(key, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flash[key] = message
}

func (m *Memory) Take(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.flash[key]
	if ok {
		delete(m.flash, key)
	}
	return msg, ok && msg != ""
}

func (m *Memory) NavbarExpanded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.navbar
}

func (m *Memory) SetNavbarExpanded(expanded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navbar = expanded
}
