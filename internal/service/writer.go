// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"catalogd/internal/events"
	"catalogd/internal/inherit"
	"catalogd/internal/models"
	"catalogd/internal/store"
)

// WriteSource is the read surface the writer diffs incoming entities
// against. store.Store implements it.
type WriteSource interface {
	CatalogsByIDs(ctx context.Context, ids []uuid.UUID) ([]store.CatalogRecord, error)
	CategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]store.CategoryRecord, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]store.ProductRecord, error)
	PropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]store.PropertyRecord, error)
	PropertyNamesByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]store.PropertyNameRecord, error)
	ImagesByOwners(ctx context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]store.ImageRecord, error)
}

// Writer persists whole batches of entities in one unit of work. Each save
// validates the batch up front, diffs it against persisted state, patches
// or inserts row by row, and commits once. Entities whose id is unknown
// are re-keyed on insert; generated keys are written back into the passed
// models. After commit the writer expires the affected cache tokens and
// notifies subscribers.
//
// Subscribers see two notifications per batch: "changing" fires inside the
// open transaction and a subscriber error rolls the whole batch back;
// "changed" fires after commit and cannot fail the write.
type Writer struct {
	src    WriteSource
	begin  BeginFunc
	inval  Invalidator
	events events.Publisher
	media  MediaStore
}

// NewWriter wires a Writer. events and media may be nil; inval may be nil
// in tests that do not exercise cache coherency.
func NewWriter(src WriteSource, begin BeginFunc, inval Invalidator, pub events.Publisher, media MediaStore) *Writer {
	return &Writer{src: src, begin: begin, inval: inval, events: pub, media: media}
}

// SaveCatalogs inserts or patches a batch of catalogs.
func (w *Writer) SaveCatalogs(ctx context.Context, cats []*models.Catalog) error {
	if len(cats) == 0 {
		return nil
	}
	if err := validateCatalogs(cats); err != nil {
		return fmt.Errorf("save catalogs: %w", err)
	}
	persisted, err := w.persistedCatalogs(ctx, catalogIDsOf(cats))
	if err != nil {
		return err
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(cats))
	inserted := false
	for _, c := range cats {
		prev, exists := persisted[c.ID]
		rec := store.CatalogRecord{ID: c.ID, Name: c.Name, Virtual: c.Virtual, Languages: c.Languages}
		if exists {
			rec.CreatedAt = prev.CreatedAt
			if err := uow.UpdateCatalog(ctx, &rec); err != nil {
				return err
			}
			entries = append(entries, events.Entry{Kind: models.KindCatalog, ID: c.ID, State: events.StateModified})
			continue
		}
		if err := uow.InsertCatalog(ctx, &rec); err != nil {
			return err
		}
		c.ID, c.CreatedAt, c.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
		inserted = true
		entries = append(entries, events.Entry{Kind: models.KindCatalog, ID: c.ID, State: events.StateAdded})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("save catalogs vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// A new catalog is not among any cached list's dependency tokens, so
	// inserts flush the whole region.
	if inserted {
		w.expireRegion(ctx, RegionCatalog)
	}
	for _, c := range cats {
		w.expire(ctx, c.ID)
	}
	w.notifyChanged(ctx, entries)
	return nil
}

// SaveCategories inserts or patches a batch of categories. A nil Links or
// Images slice leaves the persisted rows untouched; a non-nil slice
// replaces them (empty slice clears).
func (w *Writer) SaveCategories(ctx context.Context, cats []*models.Category) error {
	if len(cats) == 0 {
		return nil
	}
	if err := validateCategories(cats); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		if c.ID != uuid.Nil {
			ids = append(ids, c.ID)
		}
	}
	persisted, err := w.persistedCategories(ctx, ids)
	if err != nil {
		return err
	}
	orphans, err := w.collectImageOrphans(ctx, models.OwnerCategory, categoriesReplacingImages(cats, persisted))
	if err != nil {
		return err
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(cats))
	for _, c := range cats {
		prev, exists := persisted[c.ID]
		rec := store.CategoryRecord{
			ID:           c.ID,
			CatalogID:    c.CatalogID,
			ParentID:     c.ParentID,
			Code:         c.Code,
			Name:         c.Name,
			DisplayNames: c.DisplayNames,
			SortOrder:    c.SortOrder,
		}
		state := events.StateModified
		if exists {
			rec.CreatedAt = prev.CreatedAt
			if err := uow.UpdateCategory(ctx, &rec); err != nil {
				return err
			}
		} else {
			if err := uow.InsertCategory(ctx, &rec); err != nil {
				return err
			}
			c.ID, c.CreatedAt, c.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
			state = events.StateAdded
		}
		if err := w.replaceLinks(ctx, uow, models.OwnerCategory, c.ID, c.Links); err != nil {
			return err
		}
		if err := w.replaceImages(ctx, uow, models.OwnerCategory, c.ID, c.Images); err != nil {
			return err
		}
		entries = append(entries, events.Entry{Kind: models.KindCategory, ID: c.ID, State: state})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("save categories vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for _, c := range cats {
		w.expire(ctx, c.ID)
		w.expire(ctx, c.CatalogID)
	}
	w.cleanupMedia(ctx, orphans, cats)
	w.notifyChanged(ctx, entries)
	return nil
}

// SaveProducts inserts or patches a batch of products and variations.
func (w *Writer) SaveProducts(ctx context.Context, prods []*models.Product) error {
	if len(prods) == 0 {
		return nil
	}
	if err := validateProducts(prods); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(prods))
	for _, p := range prods {
		if p.ID != uuid.Nil {
			ids = append(ids, p.ID)
		}
	}
	persisted, err := w.persistedProducts(ctx, ids)
	if err != nil {
		return err
	}
	orphans, err := w.collectImageOrphans(ctx, models.OwnerProduct, productsReplacingImages(prods, persisted))
	if err != nil {
		return err
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(prods))
	for _, p := range prods {
		prev, exists := persisted[p.ID]
		rec := store.ProductRecord{
			ID:            p.ID,
			CatalogID:     p.CatalogID,
			CategoryID:    p.CategoryID,
			MainProductID: p.MainProductID,
			SKU:           p.SKU,
			Name:          p.Name,
			DisplayNames:  p.DisplayNames,
		}
		state := events.StateModified
		if exists {
			rec.CreatedAt = prev.CreatedAt
			if err := uow.UpdateProduct(ctx, &rec); err != nil {
				return err
			}
		} else {
			if err := uow.InsertProduct(ctx, &rec); err != nil {
				return err
			}
			p.ID, p.CreatedAt, p.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
			state = events.StateAdded
		}
		if err := w.replaceLinks(ctx, uow, models.OwnerProduct, p.ID, p.Links); err != nil {
			return err
		}
		if err := w.replaceImages(ctx, uow, models.OwnerProduct, p.ID, p.Images); err != nil {
			return err
		}
		entries = append(entries, events.Entry{Kind: models.KindProduct, ID: p.ID, State: state})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("save products vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for _, p := range prods {
		w.expire(ctx, p.ID)
		// A variation is embedded in its main product's aggregate but never
		// appears among that aggregate's arena tokens, so the main is
		// expired explicitly. Category pages likewise.
		if p.MainProductID != nil {
			w.expire(ctx, *p.MainProductID)
		}
		if p.CategoryID != nil {
			w.expire(ctx, *p.CategoryID)
		}
	}
	w.cleanupMediaProducts(ctx, orphans, prods)
	w.notifyChanged(ctx, entries)
	return nil
}

// SaveProperties inserts or patches a batch of property definitions. Each
// definition's display names are normalized to the owning catalog's
// language set first; persisted per-language name rows are then patched by
// difference, never rewritten wholesale.
func (w *Writer) SaveProperties(ctx context.Context, props []*models.Property) error {
	if len(props) == 0 {
		return nil
	}
	if err := validateProperties(props); err != nil {
		return fmt.Errorf("save properties: %w", err)
	}

	catalogs, err := w.persistedCatalogs(ctx, propertyCatalogIDs(props))
	if err != nil {
		return err
	}
	for _, p := range props {
		cat, ok := catalogs[p.CatalogID]
		if !ok {
			return &models.ResolutionError{
				Kind: models.KindCatalog, Field: "catalog_id",
				ID: p.CatalogID, OwnerKind: models.KindProperty, OwnerID: p.ID,
			}
		}
		if p.DisplayNames == nil {
			p.DisplayNames = make(map[string]string, len(cat.Languages))
		}
		inherit.NormalizeDisplayNames(p.DisplayNames, cat.Languages)
	}

	ids := make([]uuid.UUID, 0, len(props))
	for _, p := range props {
		if p.ID != uuid.Nil {
			ids = append(ids, p.ID)
		}
	}
	persisted, err := w.persistedProperties(ctx, ids)
	if err != nil {
		return err
	}
	prevNames, err := w.persistedNames(ctx, ids)
	if err != nil {
		return err
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(props))
	for _, p := range props {
		prev, exists := persisted[p.ID]
		have := prevNames[p.ID]
		rec := store.PropertyRecord{
			ID:         p.ID,
			CatalogID:  p.CatalogID,
			CategoryID: p.CategoryID,
			Code:       p.Code,
			Kind:       string(p.Kind),
			Required:   p.Required,
			Multivalue: p.Multivalue,
		}
		state := events.StateModified
		if exists {
			rec.CreatedAt = prev.CreatedAt
			if err := uow.UpdateProperty(ctx, &rec); err != nil {
				return err
			}
		} else {
			if err := uow.InsertProperty(ctx, &rec); err != nil {
				return err
			}
			p.ID, p.CreatedAt, p.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
			state = events.StateAdded
		}

		for lang, val := range p.DisplayNames {
			if hv, ok := have[lang]; !ok || hv != val {
				err := uow.SetPropertyName(ctx, store.PropertyNameRecord{PropertyID: p.ID, Language: lang, Value: val})
				if err != nil {
					return err
				}
			}
		}
		for lang := range have {
			if _, keep := p.DisplayNames[lang]; !keep {
				if err := uow.DeletePropertyName(ctx, p.ID, lang); err != nil {
					return err
				}
			}
		}

		if p.Kind == models.PropertyKindDictionary && p.DictionaryValues != nil {
			values := make([]store.PropertyValueRecord, len(p.DictionaryValues))
			for i, v := range p.DictionaryValues {
				values[i] = store.PropertyValueRecord{
					PropertyID:   p.ID,
					Alias:        v.Alias,
					DisplayNames: v.DisplayNames,
					SortOrder:    v.SortOrder,
				}
			}
			if err := uow.ReplacePropertyValues(ctx, p.ID, values); err != nil {
				return err
			}
			for i, v := range p.DictionaryValues {
				v.ID, v.PropertyID = values[i].ID, p.ID
			}
		}
		entries = append(entries, events.Entry{Kind: models.KindProperty, ID: p.ID, State: state})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("save properties vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// Property definitions surface on every resolved aggregate of the
	// catalog, and every such cache entry carries the catalog id token.
	for _, p := range props {
		w.expire(ctx, p.CatalogID)
		if p.CategoryID != nil {
			w.expire(ctx, *p.CategoryID)
		}
	}
	w.notifyChanged(ctx, entries)
	return nil
}

// DeleteCatalogs removes catalogs with everything under them. Unknown ids
// are skipped.
func (w *Writer) DeleteCatalogs(ctx context.Context, ids []uuid.UUID) error {
	persisted, err := w.persistedCatalogs(ctx, ids)
	if err != nil {
		return err
	}
	if len(persisted) == 0 {
		return nil
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(persisted))
	for _, id := range ids {
		if _, ok := persisted[id]; !ok {
			continue
		}
		if err := uow.DeleteCatalog(ctx, id); err != nil {
			return err
		}
		entries = append(entries, events.Entry{Kind: models.KindCatalog, ID: id, State: events.StateDeleted})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("delete catalogs vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	// The cascade reaches entities this process never saw; flush wholesale.
	w.expireRegion(ctx, RegionCatalog)
	w.expireRegion(ctx, RegionCategory)
	w.expireRegion(ctx, RegionProduct)
	w.notifyChanged(ctx, entries)
	return nil
}

// DeleteCategories removes categories. Child categories go with them;
// products referencing a removed category become uncategorized. Unknown
// ids are skipped.
func (w *Writer) DeleteCategories(ctx context.Context, ids []uuid.UUID) error {
	persisted, err := w.persistedCategories(ctx, ids)
	if err != nil {
		return err
	}
	if len(persisted) == 0 {
		return nil
	}
	orphans, err := w.ownedImageKeys(ctx, models.OwnerCategory, keysOf(persisted))
	if err != nil {
		return err
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(persisted))
	for _, id := range ids {
		if _, ok := persisted[id]; !ok {
			continue
		}
		// Links and images are polymorphic rows with no cascading key.
		if err := uow.ReplaceLinks(ctx, string(models.OwnerCategory), id, nil); err != nil {
			return err
		}
		if err := uow.ReplaceImages(ctx, string(models.OwnerCategory), id, nil); err != nil {
			return err
		}
		if err := uow.DeleteCategory(ctx, id); err != nil {
			return err
		}
		entries = append(entries, events.Entry{Kind: models.KindCategory, ID: id, State: events.StateDeleted})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("delete categories vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for id, rec := range persisted {
		w.expire(ctx, id)
		w.expire(ctx, rec.CatalogID)
	}
	w.deleteMedia(ctx, orphans)
	w.notifyChanged(ctx, entries)
	return nil
}

// DeleteProducts removes products and their variations. Unknown ids are
// skipped.
func (w *Writer) DeleteProducts(ctx context.Context, ids []uuid.UUID) error {
	persisted, err := w.persistedProducts(ctx, ids)
	if err != nil {
		return err
	}
	if len(persisted) == 0 {
		return nil
	}
	orphans, err := w.ownedImageKeys(ctx, models.OwnerProduct, keysOf(persisted))
	if err != nil {
		return err
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(persisted))
	for _, id := range ids {
		if _, ok := persisted[id]; !ok {
			continue
		}
		if err := uow.ReplaceLinks(ctx, string(models.OwnerProduct), id, nil); err != nil {
			return err
		}
		if err := uow.ReplaceImages(ctx, string(models.OwnerProduct), id, nil); err != nil {
			return err
		}
		if err := uow.DeleteProduct(ctx, id); err != nil {
			return err
		}
		entries = append(entries, events.Entry{Kind: models.KindProduct, ID: id, State: events.StateDeleted})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("delete products vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for id, rec := range persisted {
		w.expire(ctx, id)
		if rec.MainProductID != nil {
			w.expire(ctx, *rec.MainProductID)
		}
		if rec.CategoryID != nil {
			w.expire(ctx, *rec.CategoryID)
		}
	}
	w.deleteMedia(ctx, orphans)
	w.notifyChanged(ctx, entries)
	return nil
}

// DeleteProperties removes property definitions with their name and value
// rows. Unknown ids are skipped.
func (w *Writer) DeleteProperties(ctx context.Context, ids []uuid.UUID) error {
	persisted, err := w.persistedProperties(ctx, ids)
	if err != nil {
		return err
	}
	if len(persisted) == 0 {
		return nil
	}

	uow, err := w.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	entries := make([]events.Entry, 0, len(persisted))
	for _, id := range ids {
		if _, ok := persisted[id]; !ok {
			continue
		}
		if err := uow.DeleteProperty(ctx, id); err != nil {
			return err
		}
		entries = append(entries, events.Entry{Kind: models.KindProperty, ID: id, State: events.StateDeleted})
	}

	if err := w.publish(ctx, events.PhaseChanging, entries); err != nil {
		return fmt.Errorf("delete properties vetoed: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for _, rec := range persisted {
		w.expire(ctx, rec.CatalogID)
		if rec.CategoryID != nil {
			w.expire(ctx, *rec.CategoryID)
		}
	}
	w.notifyChanged(ctx, entries)
	return nil
}

// replaceLinks swaps an owner's link rows and writes generated keys back.
// A nil slice leaves persisted rows untouched.
func (w *Writer) replaceLinks(ctx context.Context, uow UnitOfWork, kind models.OwnerKind, ownerID uuid.UUID, links []*models.Link) error {
	if links == nil {
		return nil
	}
	recs := make([]store.LinkRecord, len(links))
	for i, l := range links {
		recs[i] = store.LinkRecord{
			OwnerKind:        string(kind),
			OwnerID:          ownerID,
			TargetCatalogID:  l.TargetCatalogID,
			TargetCategoryID: l.TargetCategoryID,
			SortOrder:        l.SortOrder,
		}
	}
	if err := uow.ReplaceLinks(ctx, string(kind), ownerID, recs); err != nil {
		return err
	}
	for i, l := range links {
		l.ID, l.OwnerKind, l.OwnerID = recs[i].ID, kind, ownerID
	}
	return nil
}

// replaceImages swaps an owner's image rows and writes generated keys back.
// A nil slice leaves persisted rows untouched.
func (w *Writer) replaceImages(ctx context.Context, uow UnitOfWork, kind models.OwnerKind, ownerID uuid.UUID, images []*models.Image) error {
	if images == nil {
		return nil
	}
	recs := make([]store.ImageRecord, len(images))
	for i, img := range images {
		recs[i] = store.ImageRecord{
			OwnerKind:   string(kind),
			OwnerID:     ownerID,
			URL:         img.URL,
			RelativeURL: img.RelativeURL,
			Alt:         img.Alt,
			SortOrder:   img.SortOrder,
		}
	}
	if err := uow.ReplaceImages(ctx, string(kind), ownerID, recs); err != nil {
		return err
	}
	for i, img := range images {
		img.ID, img.OwnerKind, img.OwnerID = recs[i].ID, kind, ownerID
	}
	return nil
}

// collectImageOrphans snapshots the persisted image rows of owners about to
// replace their image sets, keyed by owner id. Compared against the
// incoming sets after commit to find media objects nothing references
// anymore.
func (w *Writer) collectImageOrphans(ctx context.Context, kind models.OwnerKind, ownerIDs []uuid.UUID) (map[uuid.UUID][]store.ImageRecord, error) {
	if w.media == nil || len(ownerIDs) == 0 {
		return nil, nil
	}
	recs, err := w.src.ImagesByOwners(ctx, string(kind), ownerIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]store.ImageRecord)
	for _, rec := range recs {
		out[rec.OwnerID] = append(out[rec.OwnerID], rec)
	}
	return out, nil
}

// ownedImageKeys returns the storage keys of every image owned by the given
// entities, for cleanup after a delete.
func (w *Writer) ownedImageKeys(ctx context.Context, kind models.OwnerKind, ownerIDs []uuid.UUID) ([]string, error) {
	if w.media == nil || len(ownerIDs) == 0 {
		return nil, nil
	}
	recs, err := w.src.ImagesByOwners(ctx, string(kind), ownerIDs)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, rec := range recs {
		if key, ok := w.media.RelativeKey(rec.URL); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (w *Writer) cleanupMedia(ctx context.Context, orphans map[uuid.UUID][]store.ImageRecord, cats []*models.Category) {
	if w.media == nil || len(orphans) == 0 {
		return
	}
	for _, c := range cats {
		if c.Images == nil {
			continue
		}
		w.deleteMedia(ctx, orphanKeys(orphans[c.ID], c.Images))
	}
}

func (w *Writer) cleanupMediaProducts(ctx context.Context, orphans map[uuid.UUID][]store.ImageRecord, prods []*models.Product) {
	if w.media == nil || len(orphans) == 0 {
		return
	}
	for _, p := range prods {
		if p.Images == nil {
			continue
		}
		w.deleteMedia(ctx, orphanKeys(orphans[p.ID], p.Images))
	}
}

// orphanKeys returns storage keys of previously persisted images the
// incoming set no longer references.
func orphanKeys(prev []store.ImageRecord, next []*models.Image) []string {
	retained := make(map[string]struct{}, len(next))
	for _, img := range next {
		retained[img.URL] = struct{}{}
		if img.RelativeURL != "" {
			retained[img.RelativeURL] = struct{}{}
		}
	}
	var keys []string
	for _, rec := range prev {
		if _, keep := retained[rec.URL]; keep {
			continue
		}
		if _, keep := retained[rec.RelativeURL]; keep {
			continue
		}
		keys = append(keys, rec.RelativeURL)
	}
	return keys
}

// deleteMedia removes storage objects best-effort. Rows are already gone;
// a failed object delete only leaks storage, never consistency.
func (w *Writer) deleteMedia(ctx context.Context, keys []string) {
	if w.media == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := w.media.Delete(ctx, key); err != nil {
			slog.Warn("orphaned media delete failed", "key", key, "error", err)
		}
	}
}

func (w *Writer) publish(ctx context.Context, phase events.Phase, entries []events.Entry) error {
	if w.events == nil {
		return nil
	}
	return w.events.Publish(ctx, events.Event{Phase: phase, Entries: entries, At: time.Now()})
}

func (w *Writer) notifyChanged(ctx context.Context, entries []events.Entry) {
	if err := w.publish(ctx, events.PhaseChanged, entries); err != nil {
		slog.Warn("changed event delivery failed", "entries", len(entries), "error", err)
	}
}

func (w *Writer) expire(ctx context.Context, id uuid.UUID) {
	if w.inval != nil {
		w.inval.ExpireEntity(ctx, id)
	}
}

func (w *Writer) expireRegion(ctx context.Context, name string) {
	if w.inval != nil {
		w.inval.ExpireRegion(ctx, name)
	}
}

func (w *Writer) persistedCatalogs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]store.CatalogRecord, error) {
	recs, err := w.src.CatalogsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]store.CatalogRecord, len(recs))
	for _, rec := range recs {
		out[rec.ID] = rec
	}
	return out, nil
}

func (w *Writer) persistedCategories(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]store.CategoryRecord, error) {
	recs, err := w.src.CategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]store.CategoryRecord, len(recs))
	for _, rec := range recs {
		out[rec.ID] = rec
	}
	return out, nil
}

func (w *Writer) persistedProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]store.ProductRecord, error) {
	recs, err := w.src.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]store.ProductRecord, len(recs))
	for _, rec := range recs {
		out[rec.ID] = rec
	}
	return out, nil
}

func (w *Writer) persistedProperties(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]store.PropertyRecord, error) {
	recs, err := w.src.PropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]store.PropertyRecord, len(recs))
	for _, rec := range recs {
		out[rec.ID] = rec
	}
	return out, nil
}

func (w *Writer) persistedNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]map[string]string, error) {
	recs, err := w.src.PropertyNamesByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]map[string]string)
	for _, rec := range recs {
		if out[rec.PropertyID] == nil {
			out[rec.PropertyID] = make(map[string]string)
		}
		out[rec.PropertyID][rec.Language] = rec.Value
	}
	return out, nil
}

func catalogIDsOf(cats []*models.Catalog) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		if c.ID != uuid.Nil {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func propertyCatalogIDs(props []*models.Property) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(props))
	ids := make([]uuid.UUID, 0, len(props))
	for _, p := range props {
		if _, dup := seen[p.CatalogID]; dup {
			continue
		}
		seen[p.CatalogID] = struct{}{}
		ids = append(ids, p.CatalogID)
	}
	return ids
}

// categoriesReplacingImages returns the ids of already-persisted categories
// whose incoming image set is non-nil (about to replace rows).
func categoriesReplacingImages(cats []*models.Category, persisted map[uuid.UUID]store.CategoryRecord) []uuid.UUID {
	var ids []uuid.UUID
	for _, c := range cats {
		if c.Images == nil {
			continue
		}
		if _, ok := persisted[c.ID]; ok {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func productsReplacingImages(prods []*models.Product, persisted map[uuid.UUID]store.ProductRecord) []uuid.UUID {
	var ids []uuid.UUID
	for _, p := range prods {
		if p.Images == nil {
			continue
		}
		if _, ok := persisted[p.ID]; ok {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func keysOf[T any](m map[uuid.UUID]T) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}
