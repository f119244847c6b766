// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// OwnerKind identifies which entity type a child row (image, link) belongs to.
type OwnerKind string

const (
	OwnerCategory OwnerKind = "category"
	OwnerProduct  OwnerKind = "product"
)

// Image is a media attachment on a category or product. RelativeURL is the
// storage key; URL is the resolved absolute location. When RelativeURL is
// blank at load time the dependency loader defaults it to URL.
type Image struct {
	ID          uuid.UUID `json:"id"`
	OwnerKind   OwnerKind `json:"-"`
	OwnerID     uuid.UUID `json:"-"`
	URL         string    `json:"url"`
	RelativeURL string    `json:"relative_url,omitempty"`
	Alt         string    `json:"alt,omitempty"`
	SortOrder   int       `json:"sort_order"`
}

// Link points a category or product at a target catalog, and optionally a
// category inside it. Targets are resolved to live reduced-detail
// references at read time.
type Link struct {
	ID               uuid.UUID  `json:"id"`
	OwnerKind        OwnerKind  `json:"-"`
	OwnerID          uuid.UUID  `json:"-"`
	TargetCatalogID  uuid.UUID  `json:"target_catalog_id"`
	TargetCategoryID *uuid.UUID `json:"target_category_id,omitempty"`
	SortOrder        int        `json:"sort_order"`

	// Wired at load time. Non-owning references.
	Catalog  *Catalog  `json:"-"`
	Category *Category `json:"-"`
}

func cloneImages(in []*Image) []*Image {
	if in == nil {
		return nil
	}
	out := make([]*Image, len(in))
	for i, img := range in {
		c := *img
		out[i] = &c
	}
	return out
}

func cloneLinks(in []*Link) []*Link {
	if in == nil {
		return nil
	}
	out := make([]*Link, len(in))
	for i, l := range in {
		c := *l
		c.TargetCategoryID = cloneID(l.TargetCategoryID)
		// Link targets are reduced-detail references; a shallow catalog
		// clone keeps the snapshot isolated without dragging the whole
		// target graph along.
		c.Catalog = l.Catalog.Clone()
		c.Category = nil
		if l.Category != nil {
			cc := *l.Category
			cc.Catalog = nil
			cc.Parent = nil
			cc.Parents = nil
			cc.OwnProperties = nil
			cc.Properties = nil
			cc.Links = nil
			cc.Images = nil
			cc.DisplayNames = cloneStringMap(l.Category.DisplayNames)
			c.Category = &cc
		}
		out[i] = &c
	}
	return out
}

func cloneProperties(in []*Property) []*Property {
	if in == nil {
		return nil
	}
	out := make([]*Property, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneID(in *uuid.UUID) *uuid.UUID {
	if in == nil {
		return nil
	}
	id := *in
	return &id
}
