// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP endpoints of the orgchart service.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"orgchart/internal/hierarchy"
	"orgchart/internal/middleware"
)

// Response messages of the employee endpoint.
const (
	msgInvalidID     = "Invalid employee ID."
	msgNotFound      = "Employee with ID %d not found."
	msgInternalError = "An error occurred while retrieving the employee."
)

// HierarchyFetcher loads an employee with all transitive subordinates.
type HierarchyFetcher interface {
	Fetch(ctx context.Context, rootID int64) (*hierarchy.Node, error)
}

// Employees serves the employee hierarchy endpoint.
type Employees struct {
	fetcher HierarchyFetcher
	timeout time.Duration
}

// NewEmployees creates the employee handler. A positive timeout bounds
// each fetch.
func NewEmployees(fetcher HierarchyFetcher, timeout time.Duration) *Employees {
	return &Employees{fetcher: fetcher, timeout: timeout}
}

// Get handles GET /employee/{id} and returns the employee tree as JSON.
func (h *Employees) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	// A panic while loading the tree still answers with the endpoint's own
	// error body rather than the generic one from the recovery middleware.
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		slog.Error("fetch employee hierarchy panicked",
			"employee_id", id,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", rec,
			"stack", string(debug.Stack()),
		)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}()

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	tree, err := h.fetcher.Fetch(ctx, id)
	switch {
	case errors.Is(err, hierarchy.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf(msgNotFound, id))
		return
	case err != nil:
		slog.Error("fetch employee hierarchy failed",
			"employee_id", id,
			"request_id", middleware.RequestIDFromContext(ctx),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, tree)
}
