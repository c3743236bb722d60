package user

import (
	"time"

	"github.com/uptrace/bun"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	StudentCode string    `bun:"student_code,unique,notnull" json:"studentCode" validate:"required"`
	Email       string    `bun:"email,unique,nullzero" json:"email,omitempty" validate:"omitempty,email"`
	Password    string    `bun:"password,notnull" json:"-"` // Never expose password in JSON
	Name        string    `bun:"name,notnull" json:"name" validate:"required"`
	Course      string    `bun:"course" json:"course"`
	Year        int       `bun:"year" json:"year" validate:"min=0,max=10"`
	Role        Role      `bun:"role,notnull,default:'STUDENT'" json:"role"`
	IsActive    bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
