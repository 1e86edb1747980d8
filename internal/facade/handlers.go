// Package facade implements the minimal HTTP surface this project allows:
// a single health-check endpoint. The read-only query façade (listing
// markets, consensus history, accuracy leaderboards) is explicitly out of
// scope, so this handler set stays deliberately small — but it follows
// api-gateway's respondJSON/HealthCheck shape, since that shape is the
// ambient stack this project carries regardless of how few routes sit
// behind it.
package facade

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/derdennis123/forecise/internal/cache"
)

// Version identifies this build in the health response.
const Version = "0.1.0"

// Handler holds the façade's dependencies.
type Handler struct {
	db    *sql.DB
	cache *cache.Client
}

// NewHandler builds a Handler. cache may be nil if Redis is unconfigured;
// the health check then omits the cache field rather than reporting it
// unhealthy.
func NewHandler(db *sql.DB, cache *cache.Client) *Handler {
	return &Handler{db: db, cache: cache}
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}

// HealthCheck reports database (and, if configured, Redis) connectivity.
// It never returns an error envelope: a failed ping degrades the status
// field instead of failing the request.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:   "healthy",
		Version:  Version,
		Service:  "forecise-facade",
		Database: "connected",
	}

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "disconnected"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = "disconnected"
		} else {
			resp.Cache = "connected"
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}
