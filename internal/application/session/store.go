// Package session define el almacén de sesión del cliente: token, instantánea de
// perfil, mensajes de un solo uso y preferencias de interfaz.
package session

import "github.com/jhoicas/distribo-web/internal/domain/entity"

// Claves fijas del almacenamiento persistente.
const (
	KeyToken          = "token"
	KeyUser           = "user"
	KeyNavbarExpanded = "navbarExpanded"
)

// Slots de mensajes de un solo uso que se consumen en la siguiente carga de profile.html.
const (
	FlashRegistrationError = "registrationError"
	FlashAccessError       = "accessError"
)

// Store token de sesión y perfil cacheado. Un único escritor a la vez:
// login y logout nunca ocurren en paralelo para la misma sesión.
type Store interface {
	// Set guarda el token y reemplaza la instantánea del perfil; con profile nil
	// la instantánea anterior se descarta.
	Set(token string, profile *entity.UserProfile)
	// Get devuelve el token si existe y no está vacío.
	Get() (string, bool)
	// Profile devuelve la instantánea cacheada (no es autoritativa).
	Profile() (*entity.UserProfile, bool)
	// Clear elimina token y perfil.
	Clear()
}

// Flash mensajes que sobreviven exactamente una redirección.
type Flash interface {
	Put(key, message string)
	// Take devuelve y elimina el mensaje.
	Take(key string) (string, bool)
}

// Preferences preferencias de interfaz persistidas.
type Preferences interface {
	NavbarExpanded() bool
	SetNavbarExpanded(expanded bool)
}

// Session agrupa las tres facetas; la implementación por cookies y la de memoria cumplen todas.
type Session interface {
	Store
	Flash
	Preferences
}

// Token adapta un Store a la forma que espera el cliente de la API.
func Token(s Store) func() (string, bool) {
	return s.Get
}
