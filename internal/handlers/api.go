// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the catalog engine over a JSON HTTP API: read
// endpoints serve cached resolved aggregates, write endpoints accept whole
// batches, and a small ops surface covers cache invalidation and media
// upload.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"catalogd/internal/models"
	"catalogd/internal/service"
	"catalogd/internal/storage"
)

// API bundles the handlers' dependencies.
type API struct {
	reader  *service.Reader
	writer  *service.Writer
	bulk    *service.BulkUpdater
	inval   service.Invalidator
	storage *storage.Client
}

// NewAPI wires the API handlers. storage may be nil (uploads disabled).
func NewAPI(reader *service.Reader, writer *service.Writer, bulk *service.BulkUpdater, inval service.Invalidator, st *storage.Client) *API {
	return &API{reader: reader, writer: writer, bulk: bulk, inval: inval, storage: st}
}

// CatalogsList returns every catalog.
func (a *API) CatalogsList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.reader.Catalogs(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// CatalogGet returns one catalog by id.
func (a *API) CatalogGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cat, err := a.reader.CatalogByID(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// CategoryGet returns one resolved category. The optional "group" query
// parameter selects the response group; absent means full detail.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g := models.ParseResponseGroup(r.URL.Query().Get("group"))
	cat, err := a.reader.CategoryByID(r.Context(), id, g)
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// batchRequest is the body of the batch read endpoints. Result order
// follows request order; missing ids are omitted.
type batchRequest struct {
	IDs   []uuid.UUID `json:"ids"`
	Group string      `json:"group,omitempty"`
}

// CategoriesBatch returns the requested categories in request order.
func (a *API) CategoriesBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cats, err := a.reader.CategoriesByIDs(r.Context(), req.IDs, models.ParseResponseGroup(req.Group))
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// ProductGet returns one resolved product.
func (a *API) ProductGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g := models.ParseResponseGroup(r.URL.Query().Get("group"))
	p, err := a.reader.ProductByID(r.Context(), id, g)
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ProductsBatch returns the requested products in request order.
func (a *API) ProductsBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prods, err := a.reader.ProductsByIDs(r.Context(), req.IDs, models.ParseResponseGroup(req.Group))
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prods)
}

// CategoryProducts pages a category's resolved products.
func (a *API) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	g := models.ParseResponseGroup(r.URL.Query().Get("group"))
	prods, err := a.reader.ProductsByCategory(r.Context(), id, limit, offset, g)
	if err != nil {
		a.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prods)
}

// invalidateRequest targets either a whole region or a single entity.
type invalidateRequest struct {
	Region string     `json:"region,omitempty"`
	ID     *uuid.UUID `json:"id,omitempty"`
}

// CacheInvalidate expires cache state across all nodes.
func (a *API) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	switch {
	case req.ID != nil:
		a.inval.ExpireEntity(r.Context(), *req.ID)
	case req.Region != "":
		a.inval.ExpireRegion(r.Context(), req.Region)
	default:
		for _, region := range []string{service.RegionCatalog, service.RegionCategory, service.RegionProduct, service.RegionProperty} {
			a.inval.ExpireRegion(r.Context(), region)
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps service errors onto HTTP statuses.
func (a *API) fail(w http.ResponseWriter, err error) {
	var resolution *models.ResolutionError
	var merr *multierror.Error
	switch {
	case errors.Is(err, models.ErrNotFound):
		errorJSON(w, http.StatusNotFound, err)
	case errors.As(err, &resolution):
		errorJSON(w, http.StatusUnprocessableEntity, err)
	case errors.As(err, &merr):
		errorJSON(w, http.StatusUnprocessableEntity, err)
	default:
		slog.Error("request failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, errors.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errorJSON(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func errorJSON(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
