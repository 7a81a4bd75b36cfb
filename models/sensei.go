package models

import "time"

type SenseiRole string

const (
	RoleAdmin  SenseiRole = "admin"
	RoleSensei SenseiRole = "sensei"
)

// Sensei is an account holder: either a dojo instructor or an administrator.
type Sensei struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	DojoID       int        `json:"dojo_id"`
	Role         SenseiRole `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`

	Dojo *Dojo `json:"dojo,omitempty"`
}
