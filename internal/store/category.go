// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const categoryColumns = `id, catalog_id, parent_id, code, name, display_names, sort_order, created_at, updated_at`

// scanCategory scans a row into a CategoryRecord.
func scanCategory(scanner interface{ Scan(...any) error }) (CategoryRecord, error) {
	var rec CategoryRecord
	var names []byte
	err := scanner.Scan(&rec.ID, &rec.CatalogID, &rec.ParentID, &rec.Code,
		&rec.Name, &names, &rec.SortOrder, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	rec.DisplayNames, err = scanNames(names)
	return rec, err
}

// CategoriesByIDs fetches category rows for the given ids. Missing ids are
// omitted; row order is store order.
func (s *Store) CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]CategoryRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ANY($1::uuid[])`,
		idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch categories by ids: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

// CategoriesByCatalogs fetches every category row of the given catalogs.
// The dependency loader preloads whole catalogs so ancestor chains resolve
// from one map instead of per-parent round trips.
func (s *Store) CategoriesByCatalogs(ctx context.Context, catalogIDs []uuid.UUID) ([]CategoryRecord, error) {
	if len(catalogIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE catalog_id = ANY($1::uuid[])
		 ORDER BY sort_order, code`,
		idStrings(catalogIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch categories by catalogs: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

func collectCategories(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]CategoryRecord, error) {
	var recs []CategoryRecord
	for rows.Next() {
		rec, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
