package domain

import (
	"strings"

	"agendaConsole/internal/shared/validation"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleProfessional Role = "PROFESSIONAL"
)

// User is a console operator or professional (GET /users/:id).
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	LastLogin string `json:"lastLogin,omitempty"`
}

type Form struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=ADMIN PROFESSIONAL"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

// Payload is the body of POST /users and the partial body of PUT /users/:id.
type Payload struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

var FormMessages = validation.Messages{
	"name.required":     "El nombre es obligatorio",
	"email.required":    "Correo inválido",
	"email.email":       "Correo inválido",
	"password.required": "Mínimo 6 caracteres",
	"password.min":      "Mínimo 6 caracteres",
	"role.required":     "Selecciona un rol",
	"role.oneof":        "Rol inválido",
	"avatar.url":        "Debe ser una URL válida",
}

func DefaultForm() Form {
	return Form{Role: RoleProfessional}
}

// ToForm maps a user into the form. The stored password is never shown.
func ToForm(u User) Form {
	return Form{Name: u.Name, Email: u.Email, Role: u.Role, Avatar: u.Avatar}
}

// Validate applies the create schema, or the edit schema where the password may stay blank.
func (f Form) Validate(editing bool) error {
	n := f.normalized()
	err := validation.Struct(n, FormMessages)
	if !editing && n.Password == "" {
		fields, _ := validation.AsFieldErrors(err)
		return fields.Merge(validation.FieldErrors{"password": FormMessages["password.required"]})
	}
	return err
}

func (f Form) Payload() Payload {
	n := f.normalized()
	return Payload{Name: n.Name, Email: n.Email, Password: n.Password, Role: n.Role, Avatar: n.Avatar}
}

func (f Form) normalized() Form {
	return Form{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     Role(strings.ToUpper(strings.TrimSpace(string(f.Role)))),
		Avatar:   strings.TrimSpace(f.Avatar),
	}
}

func (u User) OptionLabel() string {
	return u.Name
}
