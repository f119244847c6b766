// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package graph turns flat store records into the wired in-memory object
// graph: materialization (pure 1:1 record-to-object mapping) followed by
// dependency loading (batched fetches of referenced catalogs, categories,
// link targets, and images). Inheritance is NOT applied here; see the
// inherit package.
package graph

import (
	"github.com/google/uuid"

	"catalogd/internal/models"
	"catalogd/internal/store"
)

// MaterializeCatalog maps a catalog record to its domain object.
func MaterializeCatalog(rec store.CatalogRecord) *models.Catalog {
	return &models.Catalog{
		ID:        rec.ID,
		Name:      rec.Name,
		Virtual:   rec.Virtual,
		Languages: append([]string(nil), rec.Languages...),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// MaterializeCategory maps a category record to its domain object.
// Parent/Parents stay nil; the dependency loader wires them.
func MaterializeCategory(rec store.CategoryRecord) *models.Category {
	return &models.Category{
		ID:           rec.ID,
		CatalogID:    rec.CatalogID,
		ParentID:     copyID(rec.ParentID),
		Code:         rec.Code,
		Name:         rec.Name,
		DisplayNames: copyNames(rec.DisplayNames),
		SortOrder:    rec.SortOrder,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

// MaterializeProperty maps a property record to its domain object.
// Display names and dictionary values are attached separately from their
// own record batches.
func MaterializeProperty(rec store.PropertyRecord) *models.Property {
	return &models.Property{
		ID:           rec.ID,
		CatalogID:    rec.CatalogID,
		CategoryID:   copyID(rec.CategoryID),
		Code:         rec.Code,
		Kind:         models.PropertyKind(rec.Kind),
		Required:     rec.Required,
		Multivalue:   rec.Multivalue,
		DisplayNames: map[string]string{},
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

// MaterializeProduct maps a product record to its domain object.
func MaterializeProduct(rec store.ProductRecord) *models.Product {
	return &models.Product{
		ID:            rec.ID,
		CatalogID:     rec.CatalogID,
		CategoryID:    copyID(rec.CategoryID),
		MainProductID: copyID(rec.MainProductID),
		SKU:           rec.SKU,
		Name:          rec.Name,
		DisplayNames:  copyNames(rec.DisplayNames),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// MaterializeLink maps a link record to its domain object.
func MaterializeLink(rec store.LinkRecord) *models.Link {
	return &models.Link{
		ID:               rec.ID,
		OwnerKind:        models.OwnerKind(rec.OwnerKind),
		OwnerID:          rec.OwnerID,
		TargetCatalogID:  rec.TargetCatalogID,
		TargetCategoryID: copyID(rec.TargetCategoryID),
		SortOrder:        rec.SortOrder,
	}
}

// MaterializeImage maps an image record to its domain object.
func MaterializeImage(rec store.ImageRecord) *models.Image {
	return &models.Image{
		ID:          rec.ID,
		OwnerKind:   models.OwnerKind(rec.OwnerKind),
		OwnerID:     rec.OwnerID,
		URL:         rec.URL,
		RelativeURL: rec.RelativeURL,
		Alt:         rec.Alt,
		SortOrder:   rec.SortOrder,
	}
}

// orderByIDs restores request order over a batch fetched in store order.
// Requested ids absent from the batch are skipped.
func orderByIDs[T any](byID map[uuid.UUID]T, ids []uuid.UUID) []T {
	out := make([]T, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func copyID(in *uuid.UUID) *uuid.UUID {
	if in == nil {
		return nil
	}
	id := *in
	return &id
}

func copyNames(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
