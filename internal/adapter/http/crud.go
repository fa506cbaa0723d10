package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Strob0t/CRMForge/internal/domain"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// ---------------------------------------------------------------------------
// Generic screen handler factories
// ---------------------------------------------------------------------------

// listFunc loads a screen view for a parsed query and search term.
type listFunc[V any] func(r *http.Request, q database.Query, term string) (V, error)

// handleList parses gateway parameters and renders a screen view.
func handleList[V any](schema *database.Schema, list listFunc[V], screenParams ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		q, err := parseQuery(params, schema, screenParams...)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorMessage(err, domain.ErrValidation))
			return
		}
		view, err := list(r, q, params.Get("q"))
		if err != nil {
			writeDomainError(r, w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type countResponse struct {
	Count int64 `json:"count"`
}

// handleCount returns the number of the caller's rows matching the filters.
func handleCount(schema *database.Schema, count func(ctx context.Context, q database.Query) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r.URL.Query(), schema)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorMessage(err, domain.ErrValidation))
			return
		}
		n, err := count(r.Context(), q)
		if err != nil {
			writeDomainError(r, w, err)
			return
		}
		writeJSON(w, http.StatusOK, countResponse{Count: n})
	}
}

// handleGet retrieves a single row by URL param "id".
func handleGet[T any](get func(ctx context.Context, id string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := get(r.Context(), urlParam(r, "id"))
		if err != nil {
			writeDomainError(r, w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleCreate decodes a form and creates a row.
func handleCreate[F any, R any](create func(ctx context.Context, form F) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := readJSON[F](w, r)
		if !ok {
			return
		}
		res, err := create(r.Context(), form)
		if err != nil {
			writeDomainError(r, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// handleUpdate decodes a form and overwrites the row at URL param "id".
func handleUpdate[F any, R any](update func(ctx context.Context, id string, form F) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := readJSON[F](w, r)
		if !ok {
			return
		}
		res, err := update(r.Context(), urlParam(r, "id"), form)
		if err != nil {
			writeDomainError(r, w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// handleDelete removes the row at URL param "id". The client must pass
// confirm=true.
func handleDelete[R any](del func(ctx context.Context, id string, confirmed bool) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		res, err := del(r.Context(), urlParam(r, "id"), confirmed)
		if err != nil {
			writeDomainError(r, w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
