// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"catalogd/internal/models"
)

// Batch validation runs before anything is written. Violations across the
// whole batch are collected into one error so a caller fixing input sees
// every problem at once, not just the first.

func validateCatalogs(cats []*models.Catalog) error {
	var merr *multierror.Error
	for i, c := range cats {
		if c.Name == "" {
			merr = multierror.Append(merr, fmt.Errorf("catalog[%d]: name is required", i))
		}
		if len(c.Languages) == 0 {
			merr = multierror.Append(merr, fmt.Errorf("catalog[%d] %q: at least one language is required", i, c.Name))
		}
	}
	return merr.ErrorOrNil()
}

func validateCategories(cats []*models.Category) error {
	var merr *multierror.Error
	for i, c := range cats {
		if c.CatalogID == uuid.Nil {
			merr = multierror.Append(merr, fmt.Errorf("category[%d] %q: catalog id is required", i, c.Code))
		}
		if c.Code == "" {
			merr = multierror.Append(merr, fmt.Errorf("category[%d]: code is required", i))
		}
		if c.ID != uuid.Nil && c.ParentID != nil && *c.ParentID == c.ID {
			merr = multierror.Append(merr, fmt.Errorf("category[%d] %q: cannot be its own parent", i, c.Code))
		}
	}
	return merr.ErrorOrNil()
}

func validateProducts(prods []*models.Product) error {
	var merr *multierror.Error
	for i, p := range prods {
		if p.CatalogID == uuid.Nil {
			merr = multierror.Append(merr, fmt.Errorf("product[%d] %q: catalog id is required", i, p.SKU))
		}
		if p.SKU == "" {
			merr = multierror.Append(merr, fmt.Errorf("product[%d]: sku is required", i))
		}
		// Variations may leave the name blank and inherit it from the main
		// product; standalone products must name themselves.
		if p.Name == "" && p.MainProductID == nil {
			merr = multierror.Append(merr, fmt.Errorf("product[%d] %q: name is required", i, p.SKU))
		}
		if p.ID != uuid.Nil && p.MainProductID != nil && *p.MainProductID == p.ID {
			merr = multierror.Append(merr, fmt.Errorf("product[%d] %q: cannot be its own main product", i, p.SKU))
		}
	}
	return merr.ErrorOrNil()
}

func validateProperties(props []*models.Property) error {
	var merr *multierror.Error
	for i, p := range props {
		if p.CatalogID == uuid.Nil {
			merr = multierror.Append(merr, fmt.Errorf("property[%d] %q: catalog id is required", i, p.Code))
		}
		if p.Code == "" {
			merr = multierror.Append(merr, fmt.Errorf("property[%d]: code is required", i))
		}
		switch p.Kind {
		case models.PropertyKindString, models.PropertyKindDictionary:
		default:
			merr = multierror.Append(merr, fmt.Errorf("property[%d] %q: unknown kind %q", i, p.Code, p.Kind))
		}
		if p.Kind == models.PropertyKindString && len(p.DictionaryValues) > 0 {
			merr = multierror.Append(merr, fmt.Errorf("property[%d] %q: string properties take no dictionary values", i, p.Code))
		}
	}
	return merr.ErrorOrNil()
}
