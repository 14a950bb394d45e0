package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

func TestMemory_SetGetClear(t *testing.T) {
	m := NewMemory()
	_, ok := m.Get()
	assert.False(t, ok, "almacén vacío no tiene token")

	m.Set("a.b.c", &entity.UserProfile{Email: "a@b.co", Role: entity.RoleAdmin})
	tok, ok := m.Get()
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", tok)

	p, ok := m.Profile()
	assert.True(t, ok)
	assert.Equal(t, entity.RoleAdmin, p.Role)

	m.Clear()
	_, ok = m.Get()
	assert.False(t, ok)
	_, ok = m.Profile()
	assert.False(t, ok, "Clear elimina también el perfil")
}

func TestMemory_FlashSeConsumeUnaVez(t *testing.T) {
	m := NewMemory()
	m.Put(FlashRegistrationError, "You need to create a company before registering users.")

	msg, ok := m.Take(FlashRegistrationError)
	assert.True(t, ok)
	assert.Equal(t, "You need to create a company before registering users.", msg)

	_, ok = m.Take(FlashRegistrationError)
	assert.False(t, ok, "el segundo Take no devuelve nada")
}

func TestMemory_Preferencias(t *testing.T) {
	m := NewMemory()
	assert.False(t, m.NavbarExpanded())
	m.SetNavbarExpanded(true)
	assert.True(t, m.NavbarExpanded())
}

func TestToken_AdaptaStore(t *testing.T) {
	m := NewMemoryWithToken("x.y.z")
	tok, ok := Token(m)()
	assert.True(t, ok)
	assert.Equal(t, "x.y.z", tok)
}

func TestMemory_SetSinPerfilDescartaElAnterior(t *testing.T) {
	m := NewMemory()
	m.Set("a.b.c", &entity.UserProfile{Email: "otra@cuenta.co", Role: entity.RoleAdmin})

	m.Set("d.e.f", nil)
	tok, _ := m.Get()
	assert.Equal(t, "d.e.f", tok)
	_, ok := m.Profile()
	assert.False(t, ok, "el perfil de la cuenta anterior no sobrevive a un nuevo login")
}
