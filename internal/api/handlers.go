package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/container"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// maxValueSize bounds cache values accepted over HTTP.
const maxValueSize = 1 << 20

type tenantResponse struct {
	ID        uuid.UUID      `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// signup hands out a ready tenant, provisioning one when the pool is empty.
func (a *api) signup(w http.ResponseWriter, r *http.Request) {
	t, ok, err := a.manager.PullPending(r.Context(), true)
	if err != nil && !ok {
		a.logger.ErrorContext(r.Context(), "signup failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to allocate tenant")
		return
	}
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no tenant available, retry later")
		return
	}
	if err != nil {
		// Claimed, but a pulled listener failed. The tenant is still the caller's.
		a.logger.WarnContext(r.Context(), "tenant pulled with listener error", logger.TenantID(t.ID), logger.Error(err))
	}
	writeJSON(w, http.StatusCreated, tenantResponse{ID: t.ID, Data: t.Data, CreatedAt: t.CreatedAt})
}

func (a *api) poolStatus(w http.ResponseWriter, r *http.Request) {
	n, err := a.manager.Store().Count(r.Context(), tenant.OnlyPending)
	if err != nil {
		a.logger.ErrorContext(r.Context(), "pool status failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read pool")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"pending": n})
}

func (a *api) tenancyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrNoTenantInContext):
		writeError(w, http.StatusBadRequest, "missing "+TenantHeader+" header")
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		writeError(w, http.StatusBadRequest, "invalid tenant identifier")
	case errors.Is(err, tenant.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, "tenant not found")
	default:
		a.logger.ErrorContext(r.Context(), "tenant context failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (a *api) store(w http.ResponseWriter, r *http.Request) (cache.Store, bool) {
	s, err := container.AccessorFromContext[cache.Store](r.Context(), cache.Slot)
	if err != nil {
		a.logger.ErrorContext(r.Context(), "cache store unavailable", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return nil, false
	}
	return s, true
}

func (a *api) getCache(w http.ResponseWriter, r *http.Request) {
	s, ok := a.store(w, r)
	if !ok {
		return
	}
	value, err := s.Get(r.Context(), chi.URLParam(r, "key"))
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		writeError(w, http.StatusNotFound, "key not found")
	case err != nil:
		a.cacheFailure(w, r, err)
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(value)
	}
}

// putCache stores the request body. The optional ttl query parameter is a Go duration.
func (a *api) putCache(w http.ResponseWriter, r *http.Request) {
	s, ok := a.store(w, r)
	if !ok {
		return
	}

	var ttl time.Duration
	if raw := r.URL.Query().Get("ttl"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid ttl")
			return
		}
		ttl = d
	}

	value, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxValueSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "value too large")
		return
	}
	if err := s.Set(r.Context(), chi.URLParam(r, "key"), value, ttl); err != nil {
		a.cacheFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) deleteCache(w http.ResponseWriter, r *http.Request) {
	s, ok := a.store(w, r)
	if !ok {
		return
	}
	if err := s.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		a.cacheFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) flushCache(w http.ResponseWriter, r *http.Request) {
	s, ok := a.store(w, r)
	if !ok {
		return
	}
	if err := s.Flush(r.Context()); err != nil {
		a.cacheFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) cacheFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, cache.ErrEmptyKey) {
		writeError(w, http.StatusBadRequest, "empty key")
		return
	}
	a.logger.ErrorContext(r.Context(), "cache operation failed", logger.Error(err))
	writeError(w, http.StatusInternalServerError, "cache operation failed")
}
