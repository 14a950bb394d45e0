package entity

// Role clase de capacidades asignada por el servidor.
type Role string

// Roles válidos.
const (
	RoleUser        Role = "User"
	RoleAdmin       Role = "Admin"
	RoleRootUser    Role = "RootUser"
	RoleEmployee    Role = "Employee"
	RoleDistributor Role = "Distributor"
)

// ParseRole normaliza el nombre de rol. Vacío o desconocido cae en User.
func ParseRole(name string) Role {
	switch r := Role(name); r {
	case RoleUser, RoleAdmin, RoleRootUser, RoleEmployee, RoleDistributor:
		return r
	default:
		return RoleUser
	}
}

// In indica si r está en la lista.
func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

// RegistrableRoles roles que puede crear un usuario con rol r en la página de registro.
func (r Role) RegistrableRoles() []Role {
	switch r {
	case RoleAdmin:
		return []Role{RoleEmployee, RoleRootUser, RoleDistributor}
	case RoleRootUser:
		return []Role{RoleUser}
	default:
		return nil
	}
}

// UserProfile perfil del usuario actual (GET /users/me). Se cachea en sesión
// solo como instantánea; no se usa para autorizar.
type UserProfile struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
