// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyKind distinguishes free-form properties from enumerated
// (dictionary) ones.
type PropertyKind string

const (
	PropertyKindString     PropertyKind = "string"
	PropertyKindDictionary PropertyKind = "dictionary"
)

// Property is a property definition scoped to a catalog, or to a single
// category when CategoryID is set (category-level override).
//
// Invariant: DisplayNames must cover exactly the owning catalog's declared
// language set. The inherit package enforces this with a set-difference
// patch rather than a full overwrite.
type Property struct {
	ID           uuid.UUID         `json:"id"`
	CatalogID    uuid.UUID         `json:"catalog_id"`
	CategoryID   *uuid.UUID        `json:"category_id,omitempty"`
	Code         string            `json:"code"`
	Kind         PropertyKind      `json:"kind"`
	Required     bool              `json:"required"`
	Multivalue   bool              `json:"multivalue"`
	DisplayNames map[string]string `json:"display_names,omitempty"` // language code -> label
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// DictionaryValues holds the allowed values for dictionary properties.
	DictionaryValues []*PropertyValue `json:"dictionary_values,omitempty"`

	// Wired at load time.
	Catalog *Catalog `json:"-"`
}

// PropertyValue is one allowed value of a dictionary property.
type PropertyValue struct {
	ID           uuid.UUID         `json:"id"`
	PropertyID   uuid.UUID         `json:"property_id"`
	Alias        string            `json:"alias"`
	DisplayNames map[string]string `json:"display_names,omitempty"`
	SortOrder    int               `json:"sort_order"`
}

// EntityID implements Entity.
func (p *Property) EntityID() uuid.UUID { return p.ID }

// EntityKind implements Entity.
func (p *Property) EntityKind() EntityKind { return KindProperty }

// CatalogRefID implements HasCatalogRef.
func (p *Property) CatalogRefID() uuid.UUID { return p.CatalogID }

// AttachCatalog implements HasCatalogRef.
func (p *Property) AttachCatalog(c *Catalog) { p.Catalog = c }

// Clone returns a deep copy of the property and its dictionary values.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	out := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
	}
	out.DisplayNames = cloneStringMap(p.DisplayNames)
	out.DictionaryValues = make([]*PropertyValue, len(p.DictionaryValues))
	for i, v := range p.DictionaryValues {
		cv := *v
		cv.DisplayNames = cloneStringMap(v.DisplayNames)
		out.DictionaryValues[i] = &cv
	}
	out.Catalog = nil // re-wired by the caller when needed
	return &out
}
