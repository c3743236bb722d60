// Package activity records miscellaneous campus events shown on the demo
// dashboard. Rows come from seed tooling and are read-only afterwards.
package activity

import (
	"time"

	"github.com/uptrace/bun"
)

type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	UserID      *int      `bun:"user_id" json:"userId,omitempty"`
	Type        string    `bun:"type,notnull" json:"type"`
	Description string    `bun:"description,notnull" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
