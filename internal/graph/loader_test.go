// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"catalogd/internal/models"
	"catalogd/internal/store"
)

// fakeSource is an in-memory Source used across the loader tests.
type fakeSource struct {
	catalogs   map[uuid.UUID]store.CatalogRecord
	categories map[uuid.UUID]store.CategoryRecord
	products   map[uuid.UUID]store.ProductRecord
	properties []store.PropertyRecord
	names      []store.PropertyNameRecord
	values     []store.PropertyValueRecord
	links      []store.LinkRecord
	images     []store.ImageRecord
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		catalogs:   make(map[uuid.UUID]store.CatalogRecord),
		categories: make(map[uuid.UUID]store.CategoryRecord),
		products:   make(map[uuid.UUID]store.ProductRecord),
	}
}

func (f *fakeSource) addCatalog(name string, languages ...string) uuid.UUID {
	id := uuid.New()
	f.catalogs[id] = store.CatalogRecord{ID: id, Name: name, Languages: languages}
	return id
}

func (f *fakeSource) addCategory(catalogID uuid.UUID, parentID *uuid.UUID, code string) uuid.UUID {
	id := uuid.New()
	f.categories[id] = store.CategoryRecord{
		ID: id, CatalogID: catalogID, ParentID: parentID, Code: code, Name: code,
		DisplayNames: map[string]string{},
	}
	return id
}

func (f *fakeSource) addProduct(catalogID uuid.UUID, categoryID, mainID *uuid.UUID, sku string) uuid.UUID {
	id := uuid.New()
	f.products[id] = store.ProductRecord{
		ID: id, CatalogID: catalogID, CategoryID: categoryID, MainProductID: mainID,
		SKU: sku, Name: sku, DisplayNames: map[string]string{},
	}
	return id
}

func (f *fakeSource) CatalogsByIDs(_ context.Context, ids []uuid.UUID) ([]store.CatalogRecord, error) {
	var out []store.CatalogRecord
	for _, id := range ids {
		if rec, ok := f.catalogs[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) ListCatalogs(_ context.Context) ([]store.CatalogRecord, error) {
	var out []store.CatalogRecord
	for _, rec := range f.catalogs {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeSource) CategoriesByIDs(_ context.Context, ids []uuid.UUID) ([]store.CategoryRecord, error) {
	var out []store.CategoryRecord
	for _, id := range ids {
		if rec, ok := f.categories[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) CategoriesByCatalogs(_ context.Context, catalogIDs []uuid.UUID) ([]store.CategoryRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(catalogIDs))
	for _, id := range catalogIDs {
		in[id] = struct{}{}
	}
	var out []store.CategoryRecord
	for _, rec := range f.categories {
		if _, ok := in[rec.CatalogID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) ProductsByIDs(_ context.Context, ids []uuid.UUID) ([]store.ProductRecord, error) {
	var out []store.ProductRecord
	for _, id := range ids {
		if rec, ok := f.products[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) VariationsByMainProducts(_ context.Context, mainIDs []uuid.UUID) ([]store.ProductRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(mainIDs))
	for _, id := range mainIDs {
		in[id] = struct{}{}
	}
	var out []store.ProductRecord
	for _, rec := range f.products {
		if rec.MainProductID == nil {
			continue
		}
		if _, ok := in[*rec.MainProductID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) PropertiesByCatalogs(_ context.Context, catalogIDs []uuid.UUID) ([]store.PropertyRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(catalogIDs))
	for _, id := range catalogIDs {
		in[id] = struct{}{}
	}
	var out []store.PropertyRecord
	for _, rec := range f.properties {
		if _, ok := in[rec.CatalogID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) PropertyNamesByProperties(_ context.Context, propertyIDs []uuid.UUID) ([]store.PropertyNameRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		in[id] = struct{}{}
	}
	var out []store.PropertyNameRecord
	for _, rec := range f.names {
		if _, ok := in[rec.PropertyID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) PropertyValuesByProperties(_ context.Context, propertyIDs []uuid.UUID) ([]store.PropertyValueRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		in[id] = struct{}{}
	}
	var out []store.PropertyValueRecord
	for _, rec := range f.values {
		if _, ok := in[rec.PropertyID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) LinksByOwners(_ context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]store.LinkRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		in[id] = struct{}{}
	}
	var out []store.LinkRecord
	for _, rec := range f.links {
		if rec.OwnerKind != ownerKind {
			continue
		}
		if _, ok := in[rec.OwnerID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) ImagesByOwners(_ context.Context, ownerKind string, ownerIDs []uuid.UUID) ([]store.ImageRecord, error) {
	in := make(map[uuid.UUID]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		in[id] = struct{}{}
	}
	var out []store.ImageRecord
	for _, rec := range f.images {
		if rec.OwnerKind != ownerKind {
			continue
		}
		if _, ok := in[rec.OwnerID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// cdnResolver prefixes relative keys like the storage client does.
type cdnResolver struct{}

func (cdnResolver) ResolveAbsoluteURL(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://cdn.example.com/" + raw
}

func newTestLoader(src *fakeSource) *Loader {
	return &Loader{src: src, urls: cdnResolver{}}
}

func TestCategoriesRequestOrderPreserved(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	a := src.addCategory(catalogID, nil, "a")
	b := src.addCategory(catalogID, nil, "b")
	c := src.addCategory(catalogID, nil, "c")

	cats, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{c, a, b})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("got %d categories, want 3", len(cats))
	}
	want := []string{"c", "a", "b"}
	for i, cat := range cats {
		if cat.Code != want[i] {
			t.Errorf("cats[%d].Code = %q, want %q", i, cat.Code, want[i])
		}
	}
}

func TestCategoriesMissingIDsOmitted(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	a := src.addCategory(catalogID, nil, "a")

	cats, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{uuid.New(), a, uuid.New()})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != a {
		t.Fatalf("expected only the existing category, got %d", len(cats))
	}
}

func TestCategoriesDuplicateIDsCollapse(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	a := src.addCategory(catalogID, nil, "a")

	cats, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{a, a, a})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("got %d categories, want 1", len(cats))
	}
}

func TestCategoryAncestorsWired(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	root := src.addCategory(catalogID, nil, "root")
	child := src.addCategory(catalogID, &root, "child")

	cats, arena, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{child})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	c := cats[0]
	if c.Parent == nil || c.Parent.ID != root {
		t.Fatal("child's parent not wired")
	}
	if c.Catalog == nil || c.Catalog.ID != catalogID {
		t.Fatal("child's catalog not wired")
	}
	// The whole tree is preloaded; the parent is the same arena object.
	if arena.Categories[root] != c.Parent {
		t.Error("parent is not the arena object")
	}
}

func TestCategoryDanglingParentFails(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	ghost := uuid.New()
	child := src.addCategory(catalogID, &ghost, "orphan")

	_, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{child})
	var resolution *models.ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resolution.Field != "parent_id" || resolution.ID != ghost {
		t.Errorf("unexpected resolution error: %v", resolution)
	}
}

func TestLinkTargetStaysReducedDetail(t *testing.T) {
	src := newFakeSource()
	catalogA := src.addCatalog("a", "en")
	catalogB := src.addCatalog("b", "en")
	rootB := src.addCategory(catalogB, nil, "b-root")
	childB := src.addCategory(catalogB, &rootB, "b-child")
	owner := src.addCategory(catalogA, nil, "owner")
	src.links = append(src.links, store.LinkRecord{
		ID: uuid.New(), OwnerKind: "category", OwnerID: owner,
		TargetCatalogID: catalogB, TargetCategoryID: &childB,
	})

	cats, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{owner})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	links := cats[0].Links
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	target := links[0].Category
	if target == nil || target.ID != childB {
		t.Fatal("link target category not wired")
	}
	// Catalog B's tree was not preloaded: the target keeps its parent id
	// but gets no parent wiring.
	if target.ParentID == nil || target.Parent != nil {
		t.Error("link target should stay reduced-detail")
	}
}

func TestPropertiesAttached(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en", "de")
	catID := src.addCategory(catalogID, nil, "shirts")

	catalogProp := uuid.New()
	src.properties = append(src.properties, store.PropertyRecord{
		ID: catalogProp, CatalogID: catalogID, Code: "color", Kind: "dictionary",
	})
	categoryProp := uuid.New()
	src.properties = append(src.properties, store.PropertyRecord{
		ID: categoryProp, CatalogID: catalogID, CategoryID: &catID, Code: "sleeve", Kind: "string",
	})
	src.names = append(src.names,
		store.PropertyNameRecord{PropertyID: catalogProp, Language: "en", Value: "Color"},
		store.PropertyNameRecord{PropertyID: catalogProp, Language: "de", Value: "Farbe"},
	)
	src.values = append(src.values, store.PropertyValueRecord{
		ID: uuid.New(), PropertyID: catalogProp, Alias: "black",
		DisplayNames: map[string]string{"en": "Black"},
	})

	cats, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{catID})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	c := cats[0]
	if len(c.OwnProperties) != 1 || c.OwnProperties[0].Code != "sleeve" {
		t.Fatalf("category-level property not attached: %+v", c.OwnProperties)
	}
	catProps := c.Catalog.Properties
	if len(catProps) != 1 || catProps[0].Code != "color" {
		t.Fatalf("catalog-level property not attached: %+v", catProps)
	}
	if catProps[0].DisplayNames["de"] != "Farbe" {
		t.Error("property display names not loaded")
	}
	if len(catProps[0].DictionaryValues) != 1 || catProps[0].DictionaryValues[0].Alias != "black" {
		t.Error("dictionary values not loaded")
	}
}

func TestProductVariationsStayAcyclic(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	main := src.addProduct(catalogID, nil, nil, "MAIN")
	variation := src.addProduct(catalogID, nil, &main, "VAR")

	prods, _, err := newTestLoader(src).Products(context.Background(), []uuid.UUID{main})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	p := prods[0]
	if len(p.Variations) != 1 || p.Variations[0].ID != variation {
		t.Fatalf("variation list not attached: %+v", p.Variations)
	}
	// Variation list entries never point back at the main, so the graph
	// can be cloned without cycle tracking.
	if p.Variations[0].MainProduct != nil {
		t.Error("variation entry carries a main product back-pointer")
	}

	// Requesting the variation itself wires the main product reference.
	prods, _, err = newTestLoader(src).Products(context.Background(), []uuid.UUID{variation})
	if err != nil {
		t.Fatalf("Products(variation): %v", err)
	}
	v := prods[0]
	if v.MainProduct == nil || v.MainProduct.ID != main {
		t.Fatal("variation's main product not wired")
	}
}

func TestProductCategoryClosureWired(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	root := src.addCategory(catalogID, nil, "root")
	child := src.addCategory(catalogID, &root, "child")
	prodID := src.addProduct(catalogID, &child, nil, "SKU-1")

	prods, arena, err := newTestLoader(src).Products(context.Background(), []uuid.UUID{prodID})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	p := prods[0]
	if p.Category == nil || p.Category.ID != child {
		t.Fatal("product category not wired")
	}
	if p.Category.Parent == nil || p.Category.Parent.ID != root {
		t.Fatal("product category's ancestors not wired")
	}
	if _, ok := arena.Categories[root]; !ok {
		t.Error("ancestor missing from arena")
	}
}

func TestImageURLResolution(t *testing.T) {
	src := newFakeSource()
	catalogID := src.addCatalog("demo", "en")
	catID := src.addCategory(catalogID, nil, "shirts")
	src.images = append(src.images,
		store.ImageRecord{ID: uuid.New(), OwnerKind: "category", OwnerID: catID, URL: "media/a.jpg"},
		store.ImageRecord{ID: uuid.New(), OwnerKind: "category", OwnerID: catID, URL: "https://elsewhere.example.com/b.jpg", RelativeURL: "b.jpg", SortOrder: 1},
	)

	cats, _, err := newTestLoader(src).Categories(context.Background(), []uuid.UUID{catID})
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	images := cats[0].Images
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	var relative, absolute *models.Image
	for _, img := range images {
		if img.RelativeURL == "media/a.jpg" {
			relative = img
		} else {
			absolute = img
		}
	}
	if relative == nil {
		t.Fatal("blank relative url was not defaulted to the stored url")
	}
	if relative.URL != "https://cdn.example.com/media/a.jpg" {
		t.Errorf("relative image url = %q, want resolved cdn url", relative.URL)
	}
	if absolute == nil || absolute.URL != "https://elsewhere.example.com/b.jpg" {
		t.Error("absolute image url should pass through unchanged")
	}
}

func TestCatalogsByIDs(t *testing.T) {
	src := newFakeSource()
	a := src.addCatalog("a", "en")
	b := src.addCatalog("b", "en", "de")

	cats, _, err := newTestLoader(src).Catalogs(context.Background(), []uuid.UUID{b, a, uuid.New()})
	if err != nil {
		t.Fatalf("Catalogs: %v", err)
	}
	if len(cats) != 2 || cats[0].ID != b || cats[1].ID != a {
		t.Fatalf("unexpected catalog batch: %+v", cats)
	}
}
