package user

import "github.com/jmoiron/sqlx"

// Accessor is the DB layer entrypoint for user-related queries.
type Accessor struct {
	db *sqlx.DB
}

func NewAccessor(db *sqlx.DB) *Accessor {
	return &Accessor{db: db}
}
