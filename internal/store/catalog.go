// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const catalogColumns = `id, name, virtual, languages, created_at, updated_at`

// scanCatalog scans a row into a CatalogRecord.
func scanCatalog(scanner interface{ Scan(...any) error }) (CatalogRecord, error) {
	var rec CatalogRecord
	var langs []byte
	err := scanner.Scan(&rec.ID, &rec.Name, &rec.Virtual, &langs, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	rec.Languages, err = scanStrings(langs)
	return rec, err
}

// CatalogsByIDs fetches catalog rows for the given ids. Missing ids are
// omitted; row order is store order.
func (s *Store) CatalogsByIDs(ctx context.Context, ids []uuid.UUID) ([]CatalogRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+catalogColumns+` FROM catalogs WHERE id = ANY($1::uuid[])`,
		idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch catalogs by ids: %w", err)
	}
	defer rows.Close()

	var recs []CatalogRecord
	for rows.Next() {
		rec, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListCatalogs returns all catalog rows ordered by name.
func (s *Store) ListCatalogs(ctx context.Context) ([]CatalogRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+catalogColumns+` FROM catalogs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var recs []CatalogRecord
	for rows.Next() {
		rec, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
