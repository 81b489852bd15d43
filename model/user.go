package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	RecoveryEmail *string   `json:"recovery_email,omitempty"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	ProfilePic    string    `json:"profile_pic"`
	CreatedAt     time.Time `json:"created_at"`
}

// Actor is the authenticated caller of a service operation. Services do
// their own role and ownership checks against it, regardless of which
// route the call came in through.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
