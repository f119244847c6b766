package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with a small development catalog: one
// two-level category tree, a catalog-level property, and a product with a
// variation. Skipped when any catalog already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM catalogs").Scan(&count); err != nil {
		return fmt.Errorf("seed check catalogs: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var catalogID string
	err := db.QueryRow(`
		INSERT INTO catalogs (name, virtual, languages)
		VALUES ('demo', FALSE, '["en", "de"]')
		RETURNING id
	`).Scan(&catalogID)
	if err != nil {
		return fmt.Errorf("seed insert catalog: %w", err)
	}

	var rootID string
	err = db.QueryRow(`
		INSERT INTO categories (catalog_id, code, name, display_names)
		VALUES ($1, 'apparel', 'Apparel', '{"en": "Apparel", "de": "Bekleidung"}')
		RETURNING id
	`, catalogID).Scan(&rootID)
	if err != nil {
		return fmt.Errorf("seed insert root category: %w", err)
	}

	var childID string
	err = db.QueryRow(`
		INSERT INTO categories (catalog_id, parent_id, code, name, display_names)
		VALUES ($1, $2, 'shirts', 'Shirts', '{"en": "Shirts"}')
		RETURNING id
	`, catalogID, rootID).Scan(&childID)
	if err != nil {
		return fmt.Errorf("seed insert child category: %w", err)
	}

	var propertyID string
	err = db.QueryRow(`
		INSERT INTO properties (catalog_id, code, kind)
		VALUES ($1, 'color', 'dictionary')
		RETURNING id
	`, catalogID).Scan(&propertyID)
	if err != nil {
		return fmt.Errorf("seed insert property: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO property_names (property_id, language, value)
		VALUES ($1, 'en', 'Color'), ($1, 'de', 'Farbe')
	`, propertyID)
	if err != nil {
		return fmt.Errorf("seed insert property names: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO property_values (property_id, alias, display_names, sort_order)
		VALUES ($1, 'black', '{"en": "Black", "de": "Schwarz"}', 0),
		       ($1, 'white', '{"en": "White", "de": "Weiss"}', 1)
	`, propertyID)
	if err != nil {
		return fmt.Errorf("seed insert property values: %w", err)
	}

	var mainID string
	err = db.QueryRow(`
		INSERT INTO products (catalog_id, category_id, sku, name, display_names)
		VALUES ($1, $2, 'SHIRT-001', 'Plain Shirt', '{"en": "Plain Shirt", "de": "Einfaches Hemd"}')
		RETURNING id
	`, catalogID, childID).Scan(&mainID)
	if err != nil {
		return fmt.Errorf("seed insert product: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO products (catalog_id, main_product_id, sku, name)
		VALUES ($1, $2, 'SHIRT-001-BLK', '')
	`, catalogID, mainID)
	if err != nil {
		return fmt.Errorf("seed insert variation: %w", err)
	}

	slog.Info("database seeded with demo catalog", "catalog_id", catalogID)
	return nil
}
