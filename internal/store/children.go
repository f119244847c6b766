// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LinksByOwners fetches link rows for a batch of owner entities of one kind.
func (s *Store) LinksByOwners(ctx context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]LinkRecord, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_kind, owner_id, target_catalog_id, target_category_id, sort_order
		 FROM links
		 WHERE owner_kind = $1 AND owner_id = ANY($2::uuid[])
		 ORDER BY owner_id, sort_order`,
		ownerKind, idStrings(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch links by owners: %w", err)
	}
	defer rows.Close()

	var recs []LinkRecord
	for rows.Next() {
		var rec LinkRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerKind, &rec.OwnerID,
			&rec.TargetCatalogID, &rec.TargetCategoryID, &rec.SortOrder); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ImagesByOwners fetches image rows for a batch of owner entities of one kind.
func (s *Store) ImagesByOwners(ctx context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]ImageRecord, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_kind, owner_id, url, relative_url, alt, sort_order
		 FROM images
		 WHERE owner_kind = $1 AND owner_id = ANY($2::uuid[])
		 ORDER BY owner_id, sort_order`,
		ownerKind, idStrings(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("fetch images by owners: %w", err)
	}
	defer rows.Close()

	var recs []ImageRecord
	for rows.Next() {
		var rec ImageRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerKind, &rec.OwnerID,
			&rec.URL, &rec.RelativeURL, &rec.Alt, &rec.SortOrder); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
