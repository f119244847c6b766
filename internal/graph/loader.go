// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package graph

import (
	"context"

	"github.com/google/uuid"

	"catalogd/internal/models"
	"catalogd/internal/store"
)

// Source is the record-store contract the loader fetches from. The store
// package implements it; tests substitute an in-memory fake.
type Source interface {
	CatalogsByIDs(ctx context.Context, ids []uuid.UUID) ([]store.CatalogRecord, error)
	ListCatalogs(ctx context.Context) ([]store.CatalogRecord, error)
	CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]store.CategoryRecord, error)
	CategoriesByCatalogs(ctx context.Context, catalogIDs []uuid.UUID) ([]store.CategoryRecord, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]store.ProductRecord, error)
	VariationsByMainProducts(ctx context.Context, mainIDs []uuid.UUID) ([]store.ProductRecord, error)
	PropertiesByCatalogs(ctx context.Context, catalogIDs []uuid.UUID) ([]store.PropertyRecord, error)
	PropertyNamesByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]store.PropertyNameRecord, error)
	PropertyValuesByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]store.PropertyValueRecord, error)
	LinksByOwners(ctx context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]store.LinkRecord, error)
	ImagesByOwners(ctx context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]store.ImageRecord, error)
}

// URLResolver resolves image urls to their absolute form.
type URLResolver interface {
	ResolveAbsoluteURL(raw string) string
}

// Arena holds every entity materialized during one load, keyed by id.
// Back-references (parent, link target) are non-owning pointers into the
// arena, resolved by id lookup — never embedded owned copies.
type Arena struct {
	Catalogs   map[uuid.UUID]*models.Catalog
	Categories map[uuid.UUID]*models.Category
	Products   map[uuid.UUID]*models.Product
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{
		Catalogs:   make(map[uuid.UUID]*models.Catalog),
		Categories: make(map[uuid.UUID]*models.Category),
		Products:   make(map[uuid.UUID]*models.Product),
	}
}

// Loader materializes records and wires their cross-entity references
// through a fixed sequence of batched lookups — never per-entity round
// trips.
type Loader struct {
	src  Source
	urls URLResolver
}

// NewLoader returns a Loader reading from src and resolving image urls
// through urls.
func NewLoader(src Source, urls URLResolver) *Loader {
	return &Loader{src: src, urls: urls}
}

// Catalogs loads catalogs with their catalog-level properties, in request
// order. Missing ids are omitted.
func (l *Loader) Catalogs(ctx context.Context, ids []uuid.UUID) ([]*models.Catalog, *Arena, error) {
	recs, err := l.src.CatalogsByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, nil, err
	}
	a := NewArena()
	for _, rec := range recs {
		a.Catalogs[rec.ID] = MaterializeCatalog(rec)
	}
	if err := l.attachCatalogProperties(ctx, a); err != nil {
		return nil, nil, err
	}
	return orderByIDs(a.Catalogs, ids), a, nil
}

// AllCatalogs loads every catalog with catalog-level properties.
func (l *Loader) AllCatalogs(ctx context.Context) ([]*models.Catalog, *Arena, error) {
	recs, err := l.src.ListCatalogs(ctx)
	if err != nil {
		return nil, nil, err
	}
	a := NewArena()
	out := make([]*models.Catalog, 0, len(recs))
	for _, rec := range recs {
		c := MaterializeCatalog(rec)
		a.Catalogs[rec.ID] = c
		out = append(out, c)
	}
	if err := l.attachCatalogProperties(ctx, a); err != nil {
		return nil, nil, err
	}
	return out, a, nil
}

// Categories loads the given categories with their full ancestor closure,
// links, properties, and images, in request order. Missing ids are
// omitted; a dangling reference on a found entity is fatal.
func (l *Loader) Categories(ctx context.Context, ids []uuid.UUID) ([]*models.Category, *Arena, error) {
	b := newBuild(l)
	recs, err := l.src.CategoriesByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, nil, err
	}
	b.addCategorySeeds(recs)
	if err := b.preloadCatalogTrees(ctx); err != nil {
		return nil, nil, err
	}

	found := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		found = append(found, rec.ID)
	}
	if err := b.fetchLinks(ctx, models.OwnerCategory, found); err != nil {
		return nil, nil, err
	}
	if err := b.fetchLinkTargetCategories(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.fetchCatalogs(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.wireCategories(); err != nil {
		return nil, nil, err
	}
	if err := b.wireLinks(); err != nil {
		return nil, nil, err
	}
	if err := b.attachProperties(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.attachCategoryImages(ctx); err != nil {
		return nil, nil, err
	}
	return orderByIDs(b.arena.Categories, ids), b.arena, nil
}

// Products loads the given products together with their main products,
// variations, category closures, links, properties, and images, in request
// order. Missing ids are omitted; a dangling reference on a found entity
// is fatal.
func (l *Loader) Products(ctx context.Context, ids []uuid.UUID) ([]*models.Product, *Arena, error) {
	b := newBuild(l)
	recs, err := l.src.ProductsByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, nil, err
	}
	found := make([]uuid.UUID, 0, len(recs))
	inBatch := make(map[uuid.UUID]struct{}, len(recs))
	for _, rec := range recs {
		found = append(found, rec.ID)
		inBatch[rec.ID] = struct{}{}
	}

	// Main products referenced by variations in the batch.
	var mainIDs []uuid.UUID
	for _, rec := range recs {
		if rec.MainProductID != nil {
			if _, ok := inBatch[*rec.MainProductID]; !ok {
				mainIDs = append(mainIDs, *rec.MainProductID)
			}
		}
	}
	mainRecs, err := l.src.ProductsByIDs(ctx, dedupe(mainIDs))
	if err != nil {
		return nil, nil, err
	}

	for _, rec := range append(recs, mainRecs...) {
		b.arena.Products[rec.ID] = MaterializeProduct(rec)
	}
	for _, rec := range recs {
		if rec.MainProductID == nil {
			continue
		}
		main, ok := b.arena.Products[*rec.MainProductID]
		if !ok {
			return nil, nil, &models.ResolutionError{
				Kind: models.KindProduct, Field: "main_product_id",
				ID: *rec.MainProductID, OwnerKind: models.KindProduct, OwnerID: rec.ID,
			}
		}
		b.arena.Products[rec.ID].MainProduct = main
	}

	// Variations of the requested products. List entries are materialized
	// fresh (never arena-shared) and carry no MainProduct back-pointer, so
	// the graph stays acyclic even when a variation is itself requested.
	varRecs, err := l.src.VariationsByMainProducts(ctx, found)
	if err != nil {
		return nil, nil, err
	}
	varEntries := make([]*models.Product, 0, len(varRecs))
	for _, rec := range varRecs {
		v := MaterializeProduct(rec)
		varEntries = append(varEntries, v)
		if main, ok := b.arena.Products[*rec.MainProductID]; ok {
			main.Variations = append(main.Variations, v)
		}
	}

	// Every product object that needs reference wiring and images.
	wireSet := make(map[uuid.UUID][]*models.Product)
	for id, p := range b.arena.Products {
		wireSet[id] = append(wireSet[id], p)
	}
	for _, v := range varEntries {
		wireSet[v.ID] = append(wireSet[v.ID], v)
	}

	// Category closure for every involved product.
	var categoryIDs []uuid.UUID
	for _, ps := range wireSet {
		for _, p := range ps {
			if p.CategoryID != nil {
				categoryIDs = append(categoryIDs, *p.CategoryID)
			}
			b.catalogIDs[p.CatalogID] = struct{}{}
		}
	}
	catRecs, err := l.src.CategoriesByIDs(ctx, dedupe(categoryIDs))
	if err != nil {
		return nil, nil, err
	}
	b.addCategorySeeds(catRecs)
	if err := b.preloadCatalogTrees(ctx); err != nil {
		return nil, nil, err
	}

	if err := b.fetchLinks(ctx, models.OwnerProduct, found); err != nil {
		return nil, nil, err
	}
	if err := b.fetchLinkTargetCategories(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.fetchCatalogs(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.wireCategories(); err != nil {
		return nil, nil, err
	}
	if err := b.wireLinks(); err != nil {
		return nil, nil, err
	}
	if err := b.attachProperties(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.attachCategoryImages(ctx); err != nil {
		return nil, nil, err
	}
	if err := b.attachProductImages(ctx, wireSet); err != nil {
		return nil, nil, err
	}
	if err := b.wireProducts(wireSet); err != nil {
		return nil, nil, err
	}
	return orderByIDs(b.arena.Products, ids), b.arena, nil
}

// attachCatalogProperties loads catalog-level property definitions for
// every catalog already in the arena.
func (l *Loader) attachCatalogProperties(ctx context.Context, a *Arena) error {
	ids := make([]uuid.UUID, 0, len(a.Catalogs))
	for id := range a.Catalogs {
		ids = append(ids, id)
	}
	props, err := l.loadProperties(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range props {
		if p.CategoryID != nil {
			continue // category-level overrides are not part of a catalog aggregate
		}
		cat := a.Catalogs[p.CatalogID]
		p.AttachCatalog(cat)
		cat.Properties = append(cat.Properties, p)
	}
	return nil
}

// loadProperties fetches property definitions of the given catalogs with
// their display-name rows and dictionary values attached.
func (l *Loader) loadProperties(ctx context.Context, catalogIDs []uuid.UUID) ([]*models.Property, error) {
	recs, err := l.src.PropertiesByCatalogs(ctx, catalogIDs)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	props := make([]*models.Property, 0, len(recs))
	byID := make(map[uuid.UUID]*models.Property, len(recs))
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		p := MaterializeProperty(rec)
		props = append(props, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	names, err := l.src.PropertyNamesByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if p, ok := byID[n.PropertyID]; ok {
			p.DisplayNames[n.Language] = n.Value
		}
	}

	values, err := l.src.PropertyValuesByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		p, ok := byID[v.PropertyID]
		if !ok {
			continue
		}
		p.DictionaryValues = append(p.DictionaryValues, &models.PropertyValue{
			ID:           v.ID,
			PropertyID:   v.PropertyID,
			Alias:        v.Alias,
			DisplayNames: copyNames(v.DisplayNames),
			SortOrder:    v.SortOrder,
		})
	}
	return props, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
