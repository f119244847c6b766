// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"catalogd/internal/cache"
	"catalogd/internal/graph"
	"catalogd/internal/inherit"
	"catalogd/internal/models"
	"catalogd/internal/store"
)

// ProductLister pages product rows of one category. The record store
// implements it.
type ProductLister interface {
	ProductsByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]store.ProductRecord, error)
}

// Reader serves fully resolved catalog aggregates out of the region cache.
// Every miss loads the dependency closure, runs inheritance resolution,
// trims to the requested response group, and caches the snapshot together
// with the entity ids it depends on. Returned objects are clones; callers
// may mutate them freely.
type Reader struct {
	loader *graph.Loader
	lister ProductLister
	cache  *cache.Cache
}

// NewReader wires a Reader over the given loader, lister, and cache.
func NewReader(loader *graph.Loader, lister ProductLister, c *cache.Cache) *Reader {
	return &Reader{loader: loader, lister: lister, cache: c}
}

// Catalogs returns every catalog with its catalog-level properties.
func (r *Reader) Catalogs(ctx context.Context) ([]*models.Catalog, error) {
	key := cache.Key{Region: RegionCatalog, Op: "all"}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		cats, arena, err := r.loader.AllCatalogs(ctx)
		if err != nil {
			return nil, nil, err
		}
		inherit.ResolveCatalogs(arena)
		return cloneCatalogs(cats), arenaDeps(arena, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneCatalogs(v.([]*models.Catalog)), nil
}

// CatalogByID returns one catalog, or models.ErrNotFound.
func (r *Reader) CatalogByID(ctx context.Context, id uuid.UUID) (*models.Catalog, error) {
	key := cache.Key{Region: RegionCatalog, Op: "by-id", IDs: []uuid.UUID{id}}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		cats, arena, err := r.loader.Catalogs(ctx, []uuid.UUID{id})
		if err != nil {
			return nil, nil, err
		}
		if len(cats) == 0 {
			// Negative entry: the id itself is the invalidation token, so
			// creating the catalog later expires this miss.
			return (*models.Catalog)(nil), []uuid.UUID{id}, nil
		}
		inherit.ResolveCatalogs(arena)
		return cats[0].Clone(), arenaDeps(arena, []uuid.UUID{id}), nil
	})
	if err != nil {
		return nil, err
	}
	snap := v.(*models.Catalog)
	if snap == nil {
		return nil, fmt.Errorf("catalog %s: %w", id, models.ErrNotFound)
	}
	return snap.Clone(), nil
}

// CategoriesByIDs returns the given categories fully resolved, in request
// order. Ids that do not exist are omitted from the result.
func (r *Reader) CategoriesByIDs(ctx context.Context, ids []uuid.UUID, g models.ResponseGroup) ([]*models.Category, error) {
	key := cache.Key{Region: RegionCategory, Op: "by-ids", IDs: ids, Params: g.String()}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		cats, arena, err := r.loader.Categories(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		if err := inherit.Resolve(arena); err != nil {
			return nil, nil, err
		}
		snap := make([]*models.Category, len(cats))
		for i, c := range cats {
			snap[i] = c.Clone()
			trimCategory(snap[i], g)
		}
		return snap, arenaDeps(arena, ids), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneCategories(v.([]*models.Category)), nil
}

// CategoryByID returns one fully resolved category, or models.ErrNotFound.
func (r *Reader) CategoryByID(ctx context.Context, id uuid.UUID, g models.ResponseGroup) (*models.Category, error) {
	key := cache.Key{Region: RegionCategory, Op: "by-id", IDs: []uuid.UUID{id}, Params: g.String()}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		cats, arena, err := r.loader.Categories(ctx, []uuid.UUID{id})
		if err != nil {
			return nil, nil, err
		}
		if len(cats) == 0 {
			return (*models.Category)(nil), []uuid.UUID{id}, nil
		}
		if err := inherit.Resolve(arena); err != nil {
			return nil, nil, err
		}
		snap := cats[0].Clone()
		trimCategory(snap, g)
		return snap, arenaDeps(arena, []uuid.UUID{id}), nil
	})
	if err != nil {
		return nil, err
	}
	snap := v.(*models.Category)
	if snap == nil {
		return nil, fmt.Errorf("category %s: %w", id, models.ErrNotFound)
	}
	return snap.Clone(), nil
}

// ProductsByIDs returns the given products fully resolved, in request
// order. Ids that do not exist are omitted from the result.
func (r *Reader) ProductsByIDs(ctx context.Context, ids []uuid.UUID, g models.ResponseGroup) ([]*models.Product, error) {
	key := cache.Key{Region: RegionProduct, Op: "by-ids", IDs: ids, Params: g.String()}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		prods, arena, err := r.loader.Products(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		if err := inherit.Resolve(arena); err != nil {
			return nil, nil, err
		}
		snap := make([]*models.Product, len(prods))
		for i, p := range prods {
			snap[i] = p.Clone()
			trimProduct(snap[i], g)
		}
		return snap, arenaDeps(arena, ids), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneProductList(v.([]*models.Product)), nil
}

// ProductByID returns one fully resolved product, or models.ErrNotFound.
func (r *Reader) ProductByID(ctx context.Context, id uuid.UUID, g models.ResponseGroup) (*models.Product, error) {
	key := cache.Key{Region: RegionProduct, Op: "by-id", IDs: []uuid.UUID{id}, Params: g.String()}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		prods, arena, err := r.loader.Products(ctx, []uuid.UUID{id})
		if err != nil {
			return nil, nil, err
		}
		if len(prods) == 0 {
			return (*models.Product)(nil), []uuid.UUID{id}, nil
		}
		if err := inherit.Resolve(arena); err != nil {
			return nil, nil, err
		}
		snap := prods[0].Clone()
		trimProduct(snap, g)
		return snap, arenaDeps(arena, []uuid.UUID{id}), nil
	})
	if err != nil {
		return nil, err
	}
	snap := v.(*models.Product)
	if snap == nil {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return snap.Clone(), nil
}

// ProductsByCategory pages a category's products, fully resolved. The page
// is cached under the category's invalidation token, so any write touching
// the category or its products expires it.
func (r *Reader) ProductsByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int, g models.ResponseGroup) ([]*models.Product, error) {
	params := g.String() + "|" + strconv.Itoa(limit) + "," + strconv.Itoa(offset)
	key := cache.Key{Region: RegionProduct, Op: "by-category", IDs: []uuid.UUID{categoryID}, Params: params}
	v, err := r.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, []uuid.UUID, error) {
		recs, err := r.lister.ProductsByCategory(ctx, categoryID, limit, offset)
		if err != nil {
			return nil, nil, err
		}
		ids := make([]uuid.UUID, len(recs))
		for i, rec := range recs {
			ids[i] = rec.ID
		}
		prods, arena, err := r.loader.Products(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		if err := inherit.Resolve(arena); err != nil {
			return nil, nil, err
		}
		snap := make([]*models.Product, len(prods))
		for i, p := range prods {
			snap[i] = p.Clone()
			trimProduct(snap[i], g)
		}
		return snap, arenaDeps(arena, append(ids, categoryID)), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneProductList(v.([]*models.Product)), nil
}

// arenaDeps collects the invalidation tokens of one load: the requested
// ids plus every entity materialized into the arena. A cached entry is
// dropped when any of them changes.
func arenaDeps(a *graph.Arena, requested []uuid.UUID) []uuid.UUID {
	deps := make([]uuid.UUID, 0, len(requested)+len(a.Catalogs)+len(a.Categories)+len(a.Products))
	deps = append(deps, requested...)
	for id := range a.Catalogs {
		deps = append(deps, id)
	}
	for id := range a.Categories {
		deps = append(deps, id)
	}
	for id := range a.Products {
		deps = append(deps, id)
	}
	return deps
}

func cloneCatalogs(in []*models.Catalog) []*models.Catalog {
	out := make([]*models.Catalog, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneCategories(in []*models.Category) []*models.Category {
	out := make([]*models.Category, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneProductList(in []*models.Product) []*models.Product {
	out := make([]*models.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
