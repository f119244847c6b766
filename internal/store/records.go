// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"time"

	"github.com/google/uuid"
)

// Records are the flat persisted rows, one struct per table. They carry no
// object references — only ids. The graph package materializes them into
// domain objects.

// CatalogRecord is a row of the catalogs table.
type CatalogRecord struct {
	ID        uuid.UUID
	Name      string
	Virtual   bool
	Languages []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryRecord is a row of the categories table.
type CategoryRecord struct {
	ID           uuid.UUID
	CatalogID    uuid.UUID
	ParentID     *uuid.UUID
	Code         string
	Name         string
	DisplayNames map[string]string
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PropertyRecord is a row of the properties table.
type PropertyRecord struct {
	ID         uuid.UUID
	CatalogID  uuid.UUID
	CategoryID *uuid.UUID
	Code       string
	Kind       string
	Required   bool
	Multivalue bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PropertyNameRecord is one per-language display name row of a property.
// Names live in their own table so language patches touch individual rows.
type PropertyNameRecord struct {
	PropertyID uuid.UUID
	Language   string
	Value      string
}

// PropertyValueRecord is one allowed value of a dictionary property.
type PropertyValueRecord struct {
	ID           uuid.UUID
	PropertyID   uuid.UUID
	Alias        string
	DisplayNames map[string]string
	SortOrder    int
}

// ProductRecord is a row of the products table.
type ProductRecord struct {
	ID            uuid.UUID
	CatalogID     uuid.UUID
	CategoryID    *uuid.UUID
	MainProductID *uuid.UUID
	SKU           string
	Name          string
	DisplayNames  map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LinkRecord is a row of the links table (polymorphic owner).
type LinkRecord struct {
	ID               uuid.UUID
	OwnerKind        string
	OwnerID          uuid.UUID
	TargetCatalogID  uuid.UUID
	TargetCategoryID *uuid.UUID
	SortOrder        int
}

// ImageRecord is a row of the images table (polymorphic owner).
type ImageRecord struct {
	ID          uuid.UUID
	OwnerKind   string
	OwnerID     uuid.UUID
	URL         string
	RelativeURL string
	Alt         string
	SortOrder   int
}
