package controllers

import (
	"net/http"
	"strconv"

	"github.com/blogem/windows-live-authenticator/models"
	"github.com/blogem/windows-live-authenticator/services"
	"github.com/blogem/windows-live-authenticator/userctx"
)

// ProfileController handles requests of authenticated users
type ProfileController struct {
	services *services.Services
}

// NewProfileController creates a new profile controller
func NewProfileController(services *services.Services) *ProfileController {
	return &ProfileController{
		services: services,
	}
}

// Me handles GET /me
func (c *ProfileController) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"subject":       userctx.GetSubject(r.Context()),
		"authenticator": userctx.GetAuthenticator(r.Context()),
	})
}

// Audit handles GET /audit. Events are limited to the caller's own subject;
// the summary only holds counts.
func (c *ProfileController) Audit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := c.services.Audit.RecentForSubject(r.Context(), userctx.GetSubject(r.Context()), limit)
	if err != nil {
		http.Error(w, "Failed to load authentication events", http.StatusInternalServerError)
		return
	}

	summary, err := c.services.Audit.Summary(r.Context())
	if err != nil {
		http.Error(w, "Failed to load authentication summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Summary *services.AuditSummary       `json:"summary"`
		Events  []models.AuthenticationEvent `json:"events"`
	}{
		Summary: summary,
		Events:  events,
	})
}
