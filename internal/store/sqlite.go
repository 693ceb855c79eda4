// Package store persists finished pipeline output to sqlite. It is the
// durable side of the storage handoff: the pipeline fires results at the
// Store and moves on.
package store

import (
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}
