// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store is the record-store adapter: per-entity access to the flat
// persisted rows backing the catalog domain. It returns records in store
// order; the graph package restores request order. All writes go through a
// UnitOfWork and commit atomically.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Store bundles the per-entity record operations over one database pool.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by the given database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// idStrings converts uuids to text for use with = ANY($1::uuid[]) binds.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// namesJSON marshals a language->value map for a jsonb column. A nil map
// is stored as an empty object so scans never deal with SQL NULL.
func namesJSON(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal display names: %w", err)
	}
	return b, nil
}

// scanNames unmarshals a jsonb language->value column.
func scanNames(raw []byte) (map[string]string, error) {
	m := map[string]string{}
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal display names: %w", err)
	}
	return m, nil
}

// stringsJSON marshals a string slice for a jsonb column.
func stringsJSON(s []string) ([]byte, error) {
	if s == nil {
		s = []string{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return b, nil
}

// scanStrings unmarshals a jsonb string-list column.
func scanStrings(raw []byte) ([]string, error) {
	var s []string
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}
	return s, nil
}
