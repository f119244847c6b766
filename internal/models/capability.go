// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Entity is implemented by every top-level catalog entity.
type Entity interface {
	EntityID() uuid.UUID
	EntityKind() EntityKind
}

// HasCatalogRef is implemented by entities that belong to a catalog. The
// dependency loader wires the catalog reference through this capability
// instead of switching on concrete types.
type HasCatalogRef interface {
	Entity
	CatalogRefID() uuid.UUID
	AttachCatalog(*Catalog)
}

// HasCategoryRef is implemented by entities that may belong to a category.
// A nil ref id means the entity hangs directly off the catalog.
type HasCategoryRef interface {
	Entity
	CategoryRefID() *uuid.UUID
	AttachCategory(*Category)
}

// HasLinks is implemented by entities carrying category/catalog links.
// The loader attaches loaded link rows through AttachLink.
type HasLinks interface {
	Entity
	LinkRefs() []*Link
	AttachLink(*Link)
}

// HasImages is implemented by entities carrying image attachments. The
// loader attaches resolved images through AttachImage.
type HasImages interface {
	Entity
	ImageRefs() []*Image
	AttachImage(*Image)
}
