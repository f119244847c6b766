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

// build accumulates one load's state across the fixed lookup sequence.
type build struct {
	loader *Loader
	arena  *Arena

	// detailCatalogs are catalogs whose whole category tree is preloaded,
	// so every ancestor chain inside them resolves from the arena. Link
	// targets in other catalogs stay reduced-detail: no parent wiring.
	detailCatalogs map[uuid.UUID]struct{}
	catalogIDs     map[uuid.UUID]struct{}
	links          []*models.Link
}

func newBuild(l *Loader) *build {
	return &build{
		loader:         l,
		arena:          NewArena(),
		detailCatalogs: make(map[uuid.UUID]struct{}),
		catalogIDs:     make(map[uuid.UUID]struct{}),
	}
}

// addCategorySeeds materializes category records into the arena and marks
// their catalogs for full-tree preload.
func (b *build) addCategorySeeds(recs []store.CategoryRecord) {
	for _, rec := range recs {
		if _, ok := b.arena.Categories[rec.ID]; !ok {
			b.arena.Categories[rec.ID] = MaterializeCategory(rec)
		}
		b.detailCatalogs[rec.CatalogID] = struct{}{}
		b.catalogIDs[rec.CatalogID] = struct{}{}
	}
}

// preloadCatalogTrees fetches every category of the detail catalogs into
// the arena. Ancestor chains then resolve from one map instead of
// recursive per-parent fetches.
func (b *build) preloadCatalogTrees(ctx context.Context) error {
	ids := make([]uuid.UUID, 0, len(b.detailCatalogs))
	for id := range b.detailCatalogs {
		ids = append(ids, id)
	}
	recs, err := b.loader.src.CategoriesByCatalogs(ctx, ids)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if _, ok := b.arena.Categories[rec.ID]; !ok {
			b.arena.Categories[rec.ID] = MaterializeCategory(rec)
		}
	}
	return nil
}

// fetchLinks loads the link rows of the given owners, attaches them, and
// queues their targets for resolution.
func (b *build) fetchLinks(ctx context.Context, ownerKind models.OwnerKind, ownerIDs []uuid.UUID) error {
	recs, err := b.loader.src.LinksByOwners(ctx, string(ownerKind), ownerIDs)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		l := MaterializeLink(rec)
		if owner, ok := b.owner(ownerKind, rec.OwnerID); ok {
			if holder, can := owner.(models.HasLinks); can {
				holder.AttachLink(l)
			}
		}
		b.links = append(b.links, l)
		b.catalogIDs[l.TargetCatalogID] = struct{}{}
	}
	return nil
}

// owner resolves a polymorphic owner reference to the arena entity.
func (b *build) owner(kind models.OwnerKind, id uuid.UUID) (models.Entity, bool) {
	switch kind {
	case models.OwnerCategory:
		if c, ok := b.arena.Categories[id]; ok {
			return c, true
		}
	case models.OwnerProduct:
		if p, ok := b.arena.Products[id]; ok {
			return p, true
		}
	}
	return nil, false
}

// wireRefs resolves an entity's catalog and category references through
// its capabilities. A lookup miss for a non-nil id aborts the load.
func (b *build) wireRefs(e models.Entity) error {
	if ref, ok := e.(models.HasCatalogRef); ok {
		cat, found := b.arena.Catalogs[ref.CatalogRefID()]
		if !found {
			return &models.ResolutionError{
				Kind: models.KindCatalog, Field: "catalog_id",
				ID: ref.CatalogRefID(), OwnerKind: e.EntityKind(), OwnerID: e.EntityID(),
			}
		}
		ref.AttachCatalog(cat)
	}
	if ref, ok := e.(models.HasCategoryRef); ok {
		if id := ref.CategoryRefID(); id != nil {
			c, found := b.arena.Categories[*id]
			if !found {
				return &models.ResolutionError{
					Kind: models.KindCategory, Field: "category_id",
					ID: *id, OwnerKind: e.EntityKind(), OwnerID: e.EntityID(),
				}
			}
			ref.AttachCategory(c)
		}
	}
	return nil
}

// fetchLinkTargetCategories loads link-target categories that are not
// already in the arena (targets living in catalogs outside the preloaded
// trees). They stay reduced-detail.
func (b *build) fetchLinkTargetCategories(ctx context.Context) error {
	var missing []uuid.UUID
	for _, l := range b.links {
		if l.TargetCategoryID == nil {
			continue
		}
		if _, ok := b.arena.Categories[*l.TargetCategoryID]; !ok {
			missing = append(missing, *l.TargetCategoryID)
		}
	}
	recs, err := b.loader.src.CategoriesByIDs(ctx, dedupe(missing))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if _, ok := b.arena.Categories[rec.ID]; !ok {
			b.arena.Categories[rec.ID] = MaterializeCategory(rec)
		}
		b.catalogIDs[rec.CatalogID] = struct{}{}
	}
	return nil
}

// fetchCatalogs loads every catalog collected so far into the arena.
func (b *build) fetchCatalogs(ctx context.Context) error {
	var ids []uuid.UUID
	for id := range b.catalogIDs {
		if _, ok := b.arena.Catalogs[id]; !ok {
			ids = append(ids, id)
		}
	}
	recs, err := b.loader.src.CatalogsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		b.arena.Catalogs[rec.ID] = MaterializeCatalog(rec)
	}
	return nil
}

// wireCategories resolves each arena category's catalog and parent
// references. A lookup miss for a non-nil id aborts the load.
func (b *build) wireCategories() error {
	for _, c := range b.arena.Categories {
		if err := b.wireRefs(c); err != nil {
			return err
		}

		if _, full := b.detailCatalogs[c.CatalogID]; !full || c.ParentID == nil {
			continue
		}
		parent, ok := b.arena.Categories[*c.ParentID]
		if !ok {
			return &models.ResolutionError{
				Kind: models.KindCategory, Field: "parent_id",
				ID: *c.ParentID, OwnerKind: models.KindCategory, OwnerID: c.ID,
			}
		}
		c.Parent = parent
	}
	return nil
}

// wireLinks resolves link targets to live references.
func (b *build) wireLinks() error {
	for _, l := range b.links {
		cat, ok := b.arena.Catalogs[l.TargetCatalogID]
		if !ok {
			return &models.ResolutionError{
				Kind: models.KindCatalog, Field: "target_catalog_id",
				ID: l.TargetCatalogID, OwnerKind: models.EntityKind(l.OwnerKind), OwnerID: l.OwnerID,
			}
		}
		l.Catalog = cat
		if l.TargetCategoryID == nil {
			continue
		}
		c, ok := b.arena.Categories[*l.TargetCategoryID]
		if !ok {
			return &models.ResolutionError{
				Kind: models.KindCategory, Field: "target_category_id",
				ID: *l.TargetCategoryID, OwnerKind: models.EntityKind(l.OwnerKind), OwnerID: l.OwnerID,
			}
		}
		l.Category = c
	}
	return nil
}

// attachProperties loads the property definitions of the detail catalogs
// and attaches them: catalog-level to the catalog, category-level to the
// owning category.
func (b *build) attachProperties(ctx context.Context) error {
	ids := make([]uuid.UUID, 0, len(b.detailCatalogs))
	for id := range b.detailCatalogs {
		ids = append(ids, id)
	}
	props, err := b.loader.loadProperties(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range props {
		if err := b.wireRefs(p); err != nil {
			return err
		}
		if p.CategoryID == nil {
			p.Catalog.Properties = append(p.Catalog.Properties, p)
			continue
		}
		c, ok := b.arena.Categories[*p.CategoryID]
		if !ok {
			return &models.ResolutionError{
				Kind: models.KindCategory, Field: "category_id",
				ID: *p.CategoryID, OwnerKind: models.KindProperty, OwnerID: p.ID,
			}
		}
		c.OwnProperties = append(c.OwnProperties, p)
	}
	return nil
}

// attachCategoryImages loads images for every full-detail category,
// defaults blank relative urls, and resolves absolute urls.
func (b *build) attachCategoryImages(ctx context.Context) error {
	var ids []uuid.UUID
	for id, c := range b.arena.Categories {
		if _, full := b.detailCatalogs[c.CatalogID]; full {
			ids = append(ids, id)
		}
	}
	recs, err := b.loader.src.ImagesByOwners(ctx, string(models.OwnerCategory), ids)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		owner, ok := b.owner(models.OwnerCategory, rec.OwnerID)
		if !ok {
			continue
		}
		if holder, can := owner.(models.HasImages); can {
			holder.AttachImage(b.resolveImage(rec))
		}
	}
	return nil
}

// attachProductImages loads images for every product object in the wire
// set (requested, mains, variation entries).
func (b *build) attachProductImages(ctx context.Context, wireSet map[uuid.UUID][]*models.Product) error {
	ids := make([]uuid.UUID, 0, len(wireSet))
	for id := range wireSet {
		ids = append(ids, id)
	}
	recs, err := b.loader.src.ImagesByOwners(ctx, string(models.OwnerProduct), ids)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		for _, p := range wireSet[rec.OwnerID] {
			p.AttachImage(b.resolveImage(rec))
		}
	}
	return nil
}

// resolveImage materializes an image record, defaulting a blank relative
// url to the stored url before resolving the absolute form.
func (b *build) resolveImage(rec store.ImageRecord) *models.Image {
	img := MaterializeImage(rec)
	if img.RelativeURL == "" {
		img.RelativeURL = img.URL
	}
	img.URL = b.loader.urls.ResolveAbsoluteURL(img.URL)
	return img
}

// wireProducts resolves each product object's catalog and category
// references through its capabilities.
func (b *build) wireProducts(wireSet map[uuid.UUID][]*models.Product) error {
	for _, ps := range wireSet {
		for _, p := range ps {
			if err := b.wireRefs(p); err != nil {
				return err
			}
		}
	}
	return nil
}
