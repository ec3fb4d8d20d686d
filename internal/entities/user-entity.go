package entities

import (
	"database/sql"
	"time"
)

// User is the joined shape of an account row and its optional profile row.
type User struct {
	ID        uint64
	Email     string
	Password  string
	FullName  sql.NullString
	Role      sql.NullString
	IsActive  sql.NullBool
	CreatedAt time.Time
	UpdatedAt sql.NullTime
	DeletedAt sql.NullTime
}
