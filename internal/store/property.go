// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const propertyColumns = `id, catalog_id, category_id, code, kind, required, multivalue, created_at, updated_at`

// scanProperty scans a row into a PropertyRecord.
func scanProperty(scanner interface{ Scan(...any) error }) (PropertyRecord, error) {
	var rec PropertyRecord
	err := scanner.Scan(&rec.ID, &rec.CatalogID, &rec.CategoryID, &rec.Code,
		&rec.Kind, &rec.Required, &rec.Multivalue, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

// PropertiesByIDs fetches property rows for the given ids.
func (s *Store) PropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]PropertyRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ANY($1::uuid[])`,
		idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch properties by ids: %w", err)
	}
	defer rows.Close()
	return collectProperties(rows)
}

// PropertiesByCatalogs fetches every property row (catalog-level and
// category-level) of the given catalogs.
func (s *Store) PropertiesByCatalogs(ctx context.Context, catalogIDs []uuid.UUID) ([]PropertyRecord, error) {
	if len(catalogIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties
		 WHERE catalog_id = ANY($1::uuid[])
		 ORDER BY code`,
		idStrings(catalogIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch properties by catalogs: %w", err)
	}
	defer rows.Close()
	return collectProperties(rows)
}

func collectProperties(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]PropertyRecord, error) {
	var recs []PropertyRecord
	for rows.Next() {
		rec, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// PropertyNamesByProperties fetches the per-language display-name rows of
// the given properties.
func (s *Store) PropertyNamesByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]PropertyNameRecord, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT property_id, language, value FROM property_names
		 WHERE property_id = ANY($1::uuid[])
		 ORDER BY property_id, language`,
		idStrings(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch property names: %w", err)
	}
	defer rows.Close()

	var recs []PropertyNameRecord
	for rows.Next() {
		var rec PropertyNameRecord
		if err := rows.Scan(&rec.PropertyID, &rec.Language, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan property name: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// PropertyValuesByProperties fetches the dictionary-value rows of the
// given properties.
func (s *Store) PropertyValuesByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]PropertyValueRecord, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, property_id, alias, display_names, sort_order FROM property_values
		 WHERE property_id = ANY($1::uuid[])
		 ORDER BY property_id, sort_order`,
		idStrings(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch property values: %w", err)
	}
	defer rows.Close()

	var recs []PropertyValueRecord
	for rows.Next() {
		var rec PropertyValueRecord
		var names []byte
		if err := rows.Scan(&rec.ID, &rec.PropertyID, &rec.Alias, &names, &rec.SortOrder); err != nil {
			return nil, fmt.Errorf("scan property value: %w", err)
		}
		if rec.DisplayNames, err = scanNames(names); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
