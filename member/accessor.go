package member

import "github.com/jmoiron/sqlx"

type Accessor struct {
	db *sqlx.DB
}

func NewAccessor(db *sqlx.DB) *Accessor {
	return &Accessor{db: db}
}
