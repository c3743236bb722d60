// Package catalog holds the services a student can queue for
// (financial aid, registration, records, ...).
package catalog

import (
	"time"

	"github.com/uptrace/bun"
)

type Service struct {
	bun.BaseModel `bun:"table:services,alias:sv"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,unique,notnull" json:"name" validate:"required"`
	Description   string    `bun:"description" json:"description,omitempty"`
	EstimatedTime int       `bun:"estimated_time,notnull,default:15" json:"estimatedTime" validate:"min=0"` // minutes, informational
	IsActive      bool      `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
