// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"catalogd/internal/models"
	"catalogd/internal/service"
)

// CatalogsSave inserts or patches a batch of catalogs. Generated ids are
// reflected in the response.
func (a *API) CatalogsSave(w http.ResponseWriter, r *http.Request) {
	var cats []*models.Catalog
	if !decodeBody(w, r, &cats) {
		return
	}
	if err := a.writer.SaveCatalogs(r.Context(), cats); err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// CatalogDelete removes a catalog and everything under it.
func (a *API) CatalogDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteOne(w, r, a.writer.DeleteCatalogs)
}

// CategoriesSave inserts or patches a batch of categories.
func (a *API) CategoriesSave(w http.ResponseWriter, r *http.Request) {
	var cats []*models.Category
	if !decodeBody(w, r, &cats) {
		return
	}
	if err := a.writer.SaveCategories(r.Context(), cats); err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// CategoryDelete removes a category and its subtree.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteOne(w, r, a.writer.DeleteCategories)
}

// ProductsSave inserts or patches a batch of products.
func (a *API) ProductsSave(w http.ResponseWriter, r *http.Request) {
	var prods []*models.Product
	if !decodeBody(w, r, &prods) {
		return
	}
	if err := a.writer.SaveProducts(r.Context(), prods); err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prods)
}

// ProductDelete removes a product and its variations.
func (a *API) ProductDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteOne(w, r, a.writer.DeleteProducts)
}

// PropertiesSave inserts or patches a batch of property definitions.
func (a *API) PropertiesSave(w http.ResponseWriter, r *http.Request) {
	var props []*models.Property
	if !decodeBody(w, r, &props) {
		return
	}
	if err := a.writer.SaveProperties(r.Context(), props); err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, props)
}

// PropertyDelete removes a property definition.
func (a *API) PropertyDelete(w http.ResponseWriter, r *http.Request) {
	a.deleteOne(w, r, a.writer.DeleteProperties)
}

// ProductsBulk pushes a large product batch through the bulk updater and
// returns the final progress, including per-chunk failures.
func (a *API) ProductsBulk(w http.ResponseWriter, r *http.Request) {
	var prods []*models.Product
	if !decodeBody(w, r, &prods) {
		return
	}
	prog, err := a.bulk.UpdateProducts(r.Context(), prods, func(p service.Progress) {
		slog.Debug("bulk update progress",
			"description", p.Description,
			"processed", p.ProcessedCount,
			"total", p.TotalCount,
			"errors", len(p.Errors),
		)
	})
	if err != nil {
		// Partial progress is still reported alongside the error.
		respondJSON(w, http.StatusInternalServerError, prog)
		return
	}
	status := http.StatusOK
	if len(prog.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	respondJSON(w, status, prog)
}

// deleteOne parses the path id and runs one of the writer's batch deletes
// with a single-element batch.
func (a *API) deleteOne(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, ids []uuid.UUID) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), []uuid.UUID{id}); err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
