// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog domain objects: catalogs, categories,
// properties, products, and their child collections (images, links). The
// structs here are plain data; reference wiring and inheritance resolution
// happen in the graph and inherit packages.
package models

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind identifies a top-level catalog entity type. Used in cache
// regions, change notifications, and resolution errors.
type EntityKind string

const (
	KindCatalog  EntityKind = "catalog"
	KindCategory EntityKind = "category"
	KindProperty EntityKind = "property"
	KindProduct  EntityKind = "product"
)

// Catalog is the root of the inheritance chain. It declares the set of
// display languages every property under it must cover, and owns
// catalog-level properties that categories and products inherit.
type Catalog struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Virtual   bool      `json:"virtual"`
	Languages []string  `json:"languages"` // ordered language codes, e.g. ["en", "fr"]
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Catalog-level properties, populated by the read path.
	Properties []*Property `json:"properties,omitempty"`
}

// EntityID implements Entity.
func (c *Catalog) EntityID() uuid.UUID { return c.ID }

// EntityKind implements Entity.
func (c *Catalog) EntityKind() EntityKind { return KindCatalog }

// HasLanguage reports whether the catalog declares the given language code.
func (c *Catalog) HasLanguage(code string) bool {
	for _, l := range c.Languages {
		if l == code {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Cached aggregates are immutable snapshots;
// callers always receive clones so their mutations never reach the cache.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := *c
	out.Languages = append([]string(nil), c.Languages...)
	out.Properties = cloneProperties(c.Properties)
	return &out
}
