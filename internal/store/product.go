// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const productColumns = `id, catalog_id, category_id, main_product_id, sku, name, display_names, created_at, updated_at`

// scanProduct scans a row into a ProductRecord.
func scanProduct(scanner interface{ Scan(...any) error }) (ProductRecord, error) {
	var rec ProductRecord
	var names []byte
	err := scanner.Scan(&rec.ID, &rec.CatalogID, &rec.CategoryID, &rec.MainProductID,
		&rec.SKU, &rec.Name, &names, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	rec.DisplayNames, err = scanNames(names)
	return rec, err
}

// ProductsByIDs fetches product rows for the given ids. Missing ids are
// omitted; row order is store order.
func (s *Store) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`,
		idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch products by ids: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// VariationsByMainProducts fetches all variation rows whose main product
// is one of the given ids.
func (s *Store) VariationsByMainProducts(ctx context.Context, mainIDs []uuid.UUID) ([]ProductRecord, error) {
	if len(mainIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE main_product_id = ANY($1::uuid[])
		 ORDER BY sku`,
		idStrings(mainIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch variations: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ProductsByCategory lists products directly assigned to a category.
func (s *Store) ProductsByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]ProductRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE category_id = $1
		 ORDER BY sku
		 LIMIT $2 OFFSET $3`,
		categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch products by category: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]ProductRecord, error) {
	var recs []ProductRecord
	for rows.Next() {
		rec, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
