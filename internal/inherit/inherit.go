// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package inherit resolves inherited attributes across a loaded arena.
// A child's explicitly-set values win; unset values fall back to the
// resolved value of the inheritance source: catalog → category chain →
// product/variation. Resolution is idempotent — running it twice yields
// the same graph as running it once.
package inherit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"catalogd/internal/graph"
	"catalogd/internal/models"
)

// CyclicParentError reports a category whose parent chain loops back onto
// itself. This is a fatal configuration error, never a hang.
type CyclicParentError struct {
	CategoryID uuid.UUID
}

func (e *CyclicParentError) Error() string {
	return fmt.Sprintf("cyclic parent chain at category %s", e.CategoryID)
}

// Resolve runs the full resolution pass over an arena: catalog property
// normalization, then categories in ascending depth order, then products.
func Resolve(a *graph.Arena) error {
	ResolveCatalogs(a)
	if err := ResolveCategories(a); err != nil {
		return err
	}
	return ResolveProducts(a)
}

// ResolveCatalogs normalizes every catalog-level property's display names
// to the owning catalog's language set.
func ResolveCatalogs(a *graph.Arena) {
	for _, cat := range a.Catalogs {
		for _, p := range cat.Properties {
			NormalizeDisplayNames(p.DisplayNames, cat.Languages)
		}
	}
}

// ResolveCategories builds ancestor chains and merges inherited attributes
// into every full-detail category. Categories are processed shallowest
// first so each parent is fully resolved before its children inherit from
// it — the one ordering rule correctness depends on.
func ResolveCategories(a *graph.Arena) error {
	var resolvable []*models.Category
	for _, c := range a.Categories {
		// A category with a parent id but no wired parent is a
		// reduced-detail link target; it does not take part in resolution.
		if c.ParentID != nil && c.Parent == nil {
			continue
		}
		chain, err := ancestorChain(c)
		if err != nil {
			return err
		}
		c.Parents = chain
		c.Level = len(chain)
		resolvable = append(resolvable, c)
	}

	sort.SliceStable(resolvable, func(i, j int) bool {
		return resolvable[i].Level < resolvable[j].Level
	})

	for _, c := range resolvable {
		for _, p := range c.OwnProperties {
			NormalizeDisplayNames(p.DisplayNames, c.Catalog.Languages)
		}

		base := c.Catalog.Properties
		if c.Parent != nil {
			base = c.Parent.Properties
		}
		c.Properties = mergeProperties(base, c.OwnProperties)

		if c.Parent != nil {
			inheritNames(c.DisplayNames, c.Parent.DisplayNames, c.Catalog.Languages)
			if len(c.Images) == 0 {
				c.Images = c.Parent.Images
			}
		}

		c.Outline = buildOutline(c.Catalog.ID, c.Parents, c.ID)
	}
	return nil
}

// ResolveProducts merges inherited attributes into every product: a
// variation inherits from its main product first, then every product
// falls back to its category's resolved values, or the catalog's when
// uncategorized. Categories must already be resolved.
func ResolveProducts(a *graph.Arena) error {
	// Mains before variations: a variation reads its main's resolved state.
	var mains, variations []*models.Product
	for _, p := range a.Products {
		if p.MainProduct != nil {
			variations = append(variations, p)
		} else {
			mains = append(mains, p)
		}
	}

	for _, p := range mains {
		resolveProduct(p)
		for _, v := range p.Variations {
			inheritFromMain(v, p)
			resolveProduct(v)
		}
	}
	for _, p := range variations {
		inheritFromMain(p, p.MainProduct)
		resolveProduct(p)
	}
	return nil
}

// resolveProduct applies category/catalog inheritance to one product.
func resolveProduct(p *models.Product) {
	if p.Category != nil {
		p.Properties = p.Category.Properties
		p.Outline = p.Category.Outline + "/" + p.ID.String()
		return
	}
	if p.Catalog != nil {
		p.Properties = p.Catalog.Properties
		p.Outline = p.Catalog.ID.String() + "/" + p.ID.String()
	}
}

// inheritFromMain fills a variation's unset fields from its main product.
func inheritFromMain(v, main *models.Product) {
	if v.Name == "" {
		v.Name = main.Name
	}
	if v.CategoryID == nil && main.CategoryID != nil {
		id := *main.CategoryID
		v.CategoryID = &id
		v.Category = main.Category
	}
	if v.Catalog == nil {
		v.Catalog = main.Catalog
	}
	if len(v.Images) == 0 {
		v.Images = main.Images
	}
	for lang, name := range main.DisplayNames {
		if v.DisplayNames[lang] == "" && name != "" {
			if v.DisplayNames == nil {
				v.DisplayNames = make(map[string]string)
			}
			v.DisplayNames[lang] = name
		}
	}
}

// ancestorChain walks parent pointers to the root, returning the chain
// root first. A revisit means the chain is cyclic.
func ancestorChain(c *models.Category) ([]*models.Category, error) {
	var chain []*models.Category
	visited := map[uuid.UUID]struct{}{c.ID: {}}
	for cur := c.Parent; cur != nil; cur = cur.Parent {
		if _, seen := visited[cur.ID]; seen {
			return nil, &CyclicParentError{CategoryID: c.ID}
		}
		visited[cur.ID] = struct{}{}
		chain = append(chain, cur)
	}
	// Reverse: collected child-to-root, callers want root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// mergeProperties overlays own definitions onto the inherited base: an
// own property with the same code replaces the inherited one. The result
// is sorted by code so repeated resolution is stable.
func mergeProperties(base, own []*models.Property) []*models.Property {
	ownCodes := make(map[string]struct{}, len(own))
	for _, p := range own {
		ownCodes[p.Code] = struct{}{}
	}
	out := make([]*models.Property, 0, len(base)+len(own))
	for _, p := range base {
		if _, overridden := ownCodes[p.Code]; !overridden {
			out = append(out, p)
		}
	}
	out = append(out, own...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// inheritNames fills blank per-language names from the parent's resolved
// names, for the declared languages only.
func inheritNames(names, parent map[string]string, languages []string) {
	for _, lang := range languages {
		if names[lang] == "" && parent[lang] != "" {
			names[lang] = parent[lang]
		}
	}
}

// buildOutline renders the breadcrumb path root → entity.
func buildOutline(catalogID uuid.UUID, parents []*models.Category, id uuid.UUID) string {
	var b strings.Builder
	b.WriteString(catalogID.String())
	for _, p := range parents {
		b.WriteByte('/')
		b.WriteString(p.ID.String())
	}
	b.WriteByte('/')
	b.WriteString(id.String())
	return b.String()
}
