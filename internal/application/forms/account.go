package forms

import (
	"strings"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Login formulario de login.html.
type Login struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Parse valida y arma la petición.
func (l Login) Parse() (dto.LoginRequest, error) {
	email := strings.TrimSpace(l.Email)
	if email == "" || l.Password == "" {
		return dto.LoginRequest{}, domain.Invalid("email", "Please enter your email and password.")
	}
	return dto.LoginRequest{Email: email, Password: l.Password}, nil
}

// RegisterUser formulario de register-user.html.
type RegisterUser struct {
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
	Role            string `form:"role"`
}

// Parse valida contra los roles que actor puede crear.
func (r RegisterUser) Parse(actor entity.Role) (dto.RegisterUserRequest, error) {
	email := strings.TrimSpace(r.Email)
	if !ValidEmail(email) {
		return dto.RegisterUserRequest{}, domain.Invalid("email", "Please enter a valid email address.")
	}
	if r.Password == "" {
		return dto.RegisterUserRequest{}, domain.Invalid("password", "Please enter a password.")
	}
	if r.Password != r.ConfirmPassword {
		return dto.RegisterUserRequest{}, domain.Invalid("confirmPassword", "Passwords do not match.")
	}
	role := entity.Role(strings.TrimSpace(r.Role))
	if role == "" || !role.In(actor.RegistrableRoles()...) {
		return dto.RegisterUserRequest{}, domain.Invalid("role", "Please select a role.")
	}
	return dto.RegisterUserRequest{Email: email, Password: r.Password, Role: string(role)}, nil
}
