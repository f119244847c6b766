// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// UnitOfWork groups record mutations into one transaction. Nothing is
// visible to readers until Commit; generated primary keys are written back
// into the passed records as inserts run.
type UnitOfWork struct {
	tx *sql.Tx
}

// Begin opens a unit of work.
func (s *Store) Begin(ctx context.Context) (*UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	return &UnitOfWork{tx: tx}, nil
}

// Commit atomically applies every change in the unit of work.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

// Rollback discards the unit of work. Safe to defer after Commit.
func (u *UnitOfWork) Rollback() {
	_ = u.tx.Rollback()
}

// InsertCatalog inserts a catalog row and writes the generated id back.
func (u *UnitOfWork) InsertCatalog(ctx context.Context, rec *CatalogRecord) error {
	langs, err := stringsJSON(rec.Languages)
	if err != nil {
		return err
	}
	err = u.tx.QueryRowContext(ctx, `
		INSERT INTO catalogs (name, virtual, languages)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, rec.Name, rec.Virtual, langs).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	return nil
}

// UpdateCatalog updates a catalog row in place.
func (u *UnitOfWork) UpdateCatalog(ctx context.Context, rec *CatalogRecord) error {
	langs, err := stringsJSON(rec.Languages)
	if err != nil {
		return err
	}
	_, err = u.tx.ExecContext(ctx, `
		UPDATE catalogs SET name = $1, virtual = $2, languages = $3, updated_at = NOW()
		WHERE id = $4
	`, rec.Name, rec.Virtual, langs, rec.ID)
	if err != nil {
		return fmt.Errorf("update catalog %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteCatalog removes a catalog row.
func (u *UnitOfWork) DeleteCatalog(ctx context.Context, id uuid.UUID) error {
	if _, err := u.tx.ExecContext(ctx, `DELETE FROM catalogs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete catalog %s: %w", id, err)
	}
	return nil
}

// InsertCategory inserts a category row and writes the generated id back.
func (u *UnitOfWork) InsertCategory(ctx context.Context, rec *CategoryRecord) error {
	names, err := namesJSON(rec.DisplayNames)
	if err != nil {
		return err
	}
	err = u.tx.QueryRowContext(ctx, `
		INSERT INTO categories (catalog_id, parent_id, code, name, display_names, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, rec.CatalogID, rec.ParentID, rec.Code, rec.Name, names, rec.SortOrder).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// UpdateCategory updates a category row in place.
func (u *UnitOfWork) UpdateCategory(ctx context.Context, rec *CategoryRecord) error {
	names, err := namesJSON(rec.DisplayNames)
	if err != nil {
		return err
	}
	_, err = u.tx.ExecContext(ctx, `
		UPDATE categories SET catalog_id = $1, parent_id = $2, code = $3, name = $4,
		       display_names = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $7
	`, rec.CatalogID, rec.ParentID, rec.Code, rec.Name, names, rec.SortOrder, rec.ID)
	if err != nil {
		return fmt.Errorf("update category %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteCategory removes a category row.
func (u *UnitOfWork) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := u.tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

// InsertProduct inserts a product row and writes the generated id back.
func (u *UnitOfWork) InsertProduct(ctx context.Context, rec *ProductRecord) error {
	names, err := namesJSON(rec.DisplayNames)
	if err != nil {
		return err
	}
	err = u.tx.QueryRowContext(ctx, `
		INSERT INTO products (catalog_id, category_id, main_product_id, sku, name, display_names)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, rec.CatalogID, rec.CategoryID, rec.MainProductID, rec.SKU, rec.Name, names).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct updates a product row in place.
func (u *UnitOfWork) UpdateProduct(ctx context.Context, rec *ProductRecord) error {
	names, err := namesJSON(rec.DisplayNames)
	if err != nil {
		return err
	}
	_, err = u.tx.ExecContext(ctx, `
		UPDATE products SET catalog_id = $1, category_id = $2, main_product_id = $3,
		       sku = $4, name = $5, display_names = $6, updated_at = NOW()
		WHERE id = $7
	`, rec.CatalogID, rec.CategoryID, rec.MainProductID, rec.SKU, rec.Name, names, rec.ID)
	if err != nil {
		return fmt.Errorf("update product %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteProduct removes a product row.
func (u *UnitOfWork) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := u.tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// InsertProperty inserts a property row and writes the generated id back.
func (u *UnitOfWork) InsertProperty(ctx context.Context, rec *PropertyRecord) error {
	err := u.tx.QueryRowContext(ctx, `
		INSERT INTO properties (catalog_id, category_id, code, kind, required, multivalue)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, rec.CatalogID, rec.CategoryID, rec.Code, rec.Kind, rec.Required, rec.Multivalue).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// UpdateProperty updates a property row in place.
func (u *UnitOfWork) UpdateProperty(ctx context.Context, rec *PropertyRecord) error {
	_, err := u.tx.ExecContext(ctx, `
		UPDATE properties SET catalog_id = $1, category_id = $2, code = $3, kind = $4,
		       required = $5, multivalue = $6, updated_at = NOW()
		WHERE id = $7
	`, rec.CatalogID, rec.CategoryID, rec.Code, rec.Kind, rec.Required, rec.Multivalue, rec.ID)
	if err != nil {
		return fmt.Errorf("update property %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteProperty removes a property row. Name and value rows go with it
// (ON DELETE CASCADE).
func (u *UnitOfWork) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if _, err := u.tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}

// SetPropertyName upserts a single per-language display-name row. Language
// normalization patches individual rows, never the whole set.
func (u *UnitOfWork) SetPropertyName(ctx context.Context, rec PropertyNameRecord) error {
	_, err := u.tx.ExecContext(ctx, `
		INSERT INTO property_names (property_id, language, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (property_id, language) DO UPDATE SET value = EXCLUDED.value
	`, rec.PropertyID, rec.Language, rec.Value)
	if err != nil {
		return fmt.Errorf("set property name %s/%s: %w", rec.PropertyID, rec.Language, err)
	}
	return nil
}

// DeletePropertyName removes one per-language display-name row.
func (u *UnitOfWork) DeletePropertyName(ctx context.Context, propertyID uuid.UUID, language string) error {
	_, err := u.tx.ExecContext(ctx,
		`DELETE FROM property_names WHERE property_id = $1 AND language = $2`,
		propertyID, language)
	if err != nil {
		return fmt.Errorf("delete property name %s/%s: %w", propertyID, language, err)
	}
	return nil
}

// ReplacePropertyValues swaps a dictionary property's value rows.
func (u *UnitOfWork) ReplacePropertyValues(ctx context.Context, propertyID uuid.UUID, values []PropertyValueRecord) error {
	if _, err := u.tx.ExecContext(ctx,
		`DELETE FROM property_values WHERE property_id = $1`, propertyID); err != nil {
		return fmt.Errorf("clear property values %s: %w", propertyID, err)
	}
	for i := range values {
		rec := &values[i]
		names, err := namesJSON(rec.DisplayNames)
		if err != nil {
			return err
		}
		err = u.tx.QueryRowContext(ctx, `
			INSERT INTO property_values (property_id, alias, display_names, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, propertyID, rec.Alias, names, rec.SortOrder).Scan(&rec.ID)
		if err != nil {
			return fmt.Errorf("insert property value %s/%s: %w", propertyID, rec.Alias, err)
		}
	}
	return nil
}

// ReplaceLinks swaps an owner's link rows.
func (u *UnitOfWork) ReplaceLinks(ctx context.Context, ownerKind string, ownerID uuid.UUID, links []LinkRecord) error {
	if _, err := u.tx.ExecContext(ctx,
		`DELETE FROM links WHERE owner_kind = $1 AND owner_id = $2`, ownerKind, ownerID); err != nil {
		return fmt.Errorf("clear links %s/%s: %w", ownerKind, ownerID, err)
	}
	for i := range links {
		rec := &links[i]
		err := u.tx.QueryRowContext(ctx, `
			INSERT INTO links (owner_kind, owner_id, target_catalog_id, target_category_id, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, ownerKind, ownerID, rec.TargetCatalogID, rec.TargetCategoryID, rec.SortOrder).Scan(&rec.ID)
		if err != nil {
			return fmt.Errorf("insert link %s/%s: %w", ownerKind, ownerID, err)
		}
	}
	return nil
}

// ReplaceImages swaps an owner's image rows.
func (u *UnitOfWork) ReplaceImages(ctx context.Context, ownerKind string, ownerID uuid.UUID, images []ImageRecord) error {
	if _, err := u.tx.ExecContext(ctx,
		`DELETE FROM images WHERE owner_kind = $1 AND owner_id = $2`, ownerKind, ownerID); err != nil {
		return fmt.Errorf("clear images %s/%s: %w", ownerKind, ownerID, err)
	}
	for i := range images {
		rec := &images[i]
		err := u.tx.QueryRowContext(ctx, `
			INSERT INTO images (owner_kind, owner_id, url, relative_url, alt, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, ownerKind, ownerID, rec.URL, rec.RelativeURL, rec.Alt, rec.SortOrder).Scan(&rec.ID)
		if err != nil {
			return fmt.Errorf("insert image %s/%s: %w", ownerKind, ownerID, err)
		}
	}
	return nil
}
