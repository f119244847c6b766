// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in a catalog's hierarchy. Parent and Parents are
// derived at load time from the parent-id chain; they are never persisted
// as objects, only as ids.
type Category struct {
	ID           uuid.UUID         `json:"id"`
	CatalogID    uuid.UUID         `json:"catalog_id"`
	ParentID     *uuid.UUID        `json:"parent_id,omitempty"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	DisplayNames map[string]string `json:"display_names,omitempty"` // language code -> name
	SortOrder    int               `json:"sort_order"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Wired at load time. Non-owning references resolved by id lookup.
	Catalog *Catalog    `json:"-"`
	Parent  *Category   `json:"-"`
	Parents []*Category `json:"-"` // ancestor chain, root first

	// Computed by the inheritance resolver.
	Level   int    `json:"level"`
	Outline string `json:"outline,omitempty"`

	// OwnProperties are the category-level property definitions as loaded;
	// Properties is the effective set after inheritance resolution.
	OwnProperties []*Property `json:"-"`
	Properties    []*Property `json:"properties,omitempty"`

	Links  []*Link  `json:"links,omitempty"`
	Images []*Image `json:"images,omitempty"`
}

// EntityID implements Entity.
func (c *Category) EntityID() uuid.UUID { return c.ID }

// EntityKind implements Entity.
func (c *Category) EntityKind() EntityKind { return KindCategory }

// CatalogRefID implements HasCatalogRef.
func (c *Category) CatalogRefID() uuid.UUID { return c.CatalogID }

// AttachCatalog implements HasCatalogRef.
func (c *Category) AttachCatalog(cat *Catalog) { c.Catalog = cat }

// LinkRefs implements HasLinks.
func (c *Category) LinkRefs() []*Link { return c.Links }

// AttachLink implements HasLinks.
func (c *Category) AttachLink(l *Link) { c.Links = append(c.Links, l) }

// ImageRefs implements HasImages.
func (c *Category) ImageRefs() []*Image { return c.Images }

// AttachImage implements HasImages.
func (c *Category) AttachImage(img *Image) { c.Images = append(c.Images, img) }

// Clone returns a deep copy of the category including its ancestor chain.
// The chain is cloned once, root first, and relinked node by node, so the
// copy stays a single object graph: every ancestor's Parent is the
// preceding cloned ancestor and a shared catalog stays one object.
func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	out := c.cloneOwn()
	out.Catalog = c.Catalog.Clone()

	chain := make([]*Category, len(c.Parents))
	for i, p := range c.Parents {
		cp := p.cloneOwn()
		if p.Catalog == c.Catalog {
			cp.Catalog = out.Catalog
		} else {
			cp.Catalog = p.Catalog.Clone()
		}
		cp.Parents = make([]*Category, i)
		copy(cp.Parents, chain[:i])
		if i > 0 {
			cp.Parent = chain[i-1]
		} else {
			cp.Parent = nil
		}
		chain[i] = cp
	}
	out.Parents = chain
	if n := len(chain); n > 0 {
		out.Parent = chain[n-1]
	} else {
		out.Parent = c.Parent.Clone()
	}
	return out
}

// cloneOwn copies the node's own fields, leaving the chain and catalog
// references to the caller.
func (c *Category) cloneOwn() *Category {
	out := *c
	out.ParentID = cloneID(c.ParentID)
	out.DisplayNames = cloneStringMap(c.DisplayNames)
	out.OwnProperties = cloneProperties(c.OwnProperties)
	out.Properties = cloneProperties(c.Properties)
	out.Links = cloneLinks(c.Links)
	out.Images = cloneImages(c.Images)
	return &out
}
