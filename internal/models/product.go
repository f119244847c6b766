// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item, or a variation of one when MainProductID is
// set. Variations inherit the bulk of their data from the main product;
// the main product in turn inherits from its category or catalog.
type Product struct {
	ID            uuid.UUID         `json:"id"`
	CatalogID     uuid.UUID         `json:"catalog_id"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	MainProductID *uuid.UUID        `json:"main_product_id,omitempty"`
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	DisplayNames  map[string]string `json:"display_names,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Wired at load time.
	Catalog     *Catalog  `json:"-"`
	Category    *Category `json:"-"`
	MainProduct *Product  `json:"-"`

	// Variations carry no MainProduct back-pointer; the relation is
	// id-based to keep the graph acyclic.
	Variations []*Product `json:"variations,omitempty"`

	Links  []*Link  `json:"links,omitempty"`
	Images []*Image `json:"images,omitempty"`

	// Properties is the effective set after inheritance resolution
	// (category's resolved properties, or the catalog's when uncategorized).
	Properties []*Property `json:"properties,omitempty"`

	// Computed by the inheritance resolver.
	Outline string `json:"outline,omitempty"`
}

// EntityID implements Entity.
func (p *Product) EntityID() uuid.UUID { return p.ID }

// EntityKind implements Entity.
func (p *Product) EntityKind() EntityKind { return KindProduct }

// CatalogRefID implements HasCatalogRef.
func (p *Product) CatalogRefID() uuid.UUID { return p.CatalogID }

// AttachCatalog implements HasCatalogRef.
func (p *Product) AttachCatalog(c *Catalog) { p.Catalog = c }

// CategoryRefID implements HasCategoryRef.
func (p *Product) CategoryRefID() *uuid.UUID { return p.CategoryID }

// AttachCategory implements HasCategoryRef.
func (p *Product) AttachCategory(c *Category) { p.Category = c }

// LinkRefs implements HasLinks.
func (p *Product) LinkRefs() []*Link { return p.Links }

// AttachLink implements HasLinks.
func (p *Product) AttachLink(l *Link) { p.Links = append(p.Links, l) }

// ImageRefs implements HasImages.
func (p *Product) ImageRefs() []*Image { return p.Images }

// AttachImage implements HasImages.
func (p *Product) AttachImage(img *Image) { p.Images = append(p.Images, img) }

// IsVariation reports whether the product inherits from a main product.
func (p *Product) IsVariation() bool { return p.MainProductID != nil }

// Clone returns a deep copy of the product, its variations, and its wired
// references.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	out := *p
	out.CategoryID = cloneID(p.CategoryID)
	out.MainProductID = cloneID(p.MainProductID)
	out.DisplayNames = cloneStringMap(p.DisplayNames)
	out.Catalog = p.Catalog.Clone()
	out.Category = p.Category.Clone()
	out.MainProduct = p.MainProduct.Clone()
	out.Variations = make([]*Product, len(p.Variations))
	for i, v := range p.Variations {
		out.Variations[i] = v.Clone()
	}
	out.Links = cloneLinks(p.Links)
	out.Images = cloneImages(p.Images)
	out.Properties = cloneProperties(p.Properties)
	return &out
}
