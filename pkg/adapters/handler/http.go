package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/services"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

type HTTPHandler struct {
	service ports.LinkService
	log     zerolog.Logger
}

func NewHTTPHandler(service ports.LinkService, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// CreateLinkRequest payload
type CreateLinkRequest struct {
	Title string      `json:"title"`
	URL   string      `json:"url"`
	Icon  domain.Icon `json:"icon"`
}

// ReorderRequest payload: every link id of the owner in the new order
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// ToggleRequest payload
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// List links of a profile
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("id")

	var links []domain.Link
	var err error
	if visible, _ := strconv.ParseBool(r.URL.Query().Get("visible")); visible {
		links, err = h.service.ListVisible(r.Context(), ownerID)
	} else {
		links, err = h.service.List(r.Context(), ownerID)
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	links = services.FilterByTitle(links, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  links,
		"total": len(links),
	})
}

// Create Link
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	link, err := h.service.Create(r.Context(), r.PathValue("id"), req.Title, req.URL, req.Icon)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// Reorder links of a profile
func (h *HTTPHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ownerID := r.PathValue("id")
	if err := h.service.Reorder(r.Context(), ownerID, req.IDs); err != nil {
		h.log.Warn().Err(err).Str("owner_id", ownerID).Msg("reorder failed")
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Update Link
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.LinkPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	link, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Toggle Link visibility
func (h *HTTPHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	link, err := h.service.Toggle(r.Context(), r.PathValue("id"), req.Enabled)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete Link
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Redirect to the link target and count the click in the background
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	link, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if r.URL.Query().Get("no_stat") == "" {
		referer, userAgent, ip := r.Header.Get("Referer"), r.UserAgent(), clientIP(r)
		go func() {
			// Request context is cancelled once the redirect is written
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := h.service.RecordClick(ctx, id, referer, userAgent, ip); err != nil {
				h.log.Warn().Err(err).Str("link_id", id).Msg("click not recorded")
			}
		}()
	}

	http.Redirect(w, r, link.URL, http.StatusFound)
}

// Track a click without redirecting
func (h *HTTPHandler) Track(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.RecordClick(r.Context(), r.PathValue("id"), r.Header.Get("Referer"), r.UserAgent(), clientIP(r))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"click_count": link.ClickCount})
}

// Stats for a Link
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetLinkStats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// OwnerStats returns the dashboard summary of a profile
func (h *HTTPHandler) OwnerStats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	stats, err := h.service.GetOwnerStats(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
