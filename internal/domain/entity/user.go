package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User representa un usuario registrado. Password guarda siempre el hash
// bcrypt, nunca la contraseña en claro después de persistir.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"` // único entre todos los usuarios
	Password  string    `json:"-"`     // hash bcrypt, nunca se serializa
	Role      string    `json:"role"`  // USER, ADMIN
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
