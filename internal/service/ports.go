// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service is the entry point into the catalog engine: the Reader
// serves cached, inheritance-resolved aggregates; the Writer diffs
// incoming entities against persisted records, commits atomically, and
// keeps the cache and subscribers in sync.
package service

import (
	"context"

	"github.com/google/uuid"

	"catalogd/internal/store"
)

// Cache region names, one per entity type.
const (
	RegionCatalog  = "Catalog"
	RegionCategory = "Category"
	RegionProduct  = "Product"
	RegionProperty = "Property"
)

// Invalidator expires cache state after committed writes. The cache bus
// implements it with local expiry plus cross-node broadcast.
type Invalidator interface {
	ExpireRegion(ctx context.Context, name string)
	ExpireEntity(ctx context.Context, id uuid.UUID)
}

// UnitOfWork is the transactional mutation surface of the record store.
// store.UnitOfWork implements it; writer tests substitute a fake.
type UnitOfWork interface {
	InsertCatalog(ctx context.Context, rec *store.CatalogRecord) error
	UpdateCatalog(ctx context.Context, rec *store.CatalogRecord) error
	DeleteCatalog(ctx context.Context, id uuid.UUID) error

	InsertCategory(ctx context.Context, rec *store.CategoryRecord) error
	UpdateCategory(ctx context.Context, rec *store.CategoryRecord) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	InsertProduct(ctx context.Context, rec *store.ProductRecord) error
	UpdateProduct(ctx context.Context, rec *store.ProductRecord) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	InsertProperty(ctx context.Context, rec *store.PropertyRecord) error
	UpdateProperty(ctx context.Context, rec *store.PropertyRecord) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error

	SetPropertyName(ctx context.Context, rec store.PropertyNameRecord) error
	DeletePropertyName(ctx context.Context, propertyID uuid.UUID, language string) error
	ReplacePropertyValues(ctx context.Context, propertyID uuid.UUID, values []store.PropertyValueRecord) error

	ReplaceLinks(ctx context.Context, ownerKind string, ownerID uuid.UUID, links []store.LinkRecord) error
	ReplaceImages(ctx context.Context, ownerKind string, ownerID uuid.UUID, images []store.ImageRecord) error

	Commit(ctx context.Context) error
	Rollback()
}

// BeginFunc opens a unit of work. Adapts store.Store.Begin.
type BeginFunc func(ctx context.Context) (UnitOfWork, error)

// MediaStore removes stored media objects when their image rows go away.
// Optional; a nil MediaStore skips media cleanup.
type MediaStore interface {
	// RelativeKey maps an absolute url back to a storage key, reporting
	// whether the url belongs to this store at all.
	RelativeKey(url string) (string, bool)
	Delete(ctx context.Context, key string) error
}
