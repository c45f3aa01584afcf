package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/audit"
	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/service"
)

// StaffHandler serves the staff-side API: token issuance, portal enablement,
// and the job mutations that feed the live fanout.
type StaffHandler struct {
	tokenService   *service.TokenService
	contactService *service.ContactService
	jobService     *service.JobService
	defaultTTL     time.Duration
	portalBaseURL  string
}

func NewStaffHandler(
	tokenService *service.TokenService,
	contactService *service.ContactService,
	jobService *service.JobService,
	defaultTTL time.Duration,
	portalBaseURL string,
) *StaffHandler {
	return &StaffHandler{
		tokenService:   tokenService,
		contactService: contactService,
		jobService:     jobService,
		defaultTTL:     defaultTTL,
		portalBaseURL:  portalBaseURL,
	}
}

func (h *StaffHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/portal-tokens", h.IssueToken)

	r.Route("/contacts/{id}", func(r chi.Router) {
		r.Post("/enable-portal", h.EnablePortal)
		r.Post("/disable-portal", h.DisablePortal)
	})

	r.Route("/jobs/{id}", func(r chi.Router) {
		r.Post("/stage", h.UpdateStage)
		r.Post("/files", h.AddFile)
		r.Delete("/files/{fileID}", h.DeleteFile)
		r.Post("/messages", h.AddMessage)
		r.Post("/notes", h.AddNote)
	})

	return r
}

// POST /api/portal-tokens
func (h *StaffHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID    string `json:"jobId"`
		TTLHours int    `json:"ttlHours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.JobID == "" {
		writeError(w, apperrors.MissingRequired("jobId"))
		return
	}

	ttl := h.defaultTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}

	token, record, err := h.tokenService.Issue(r.Context(), req.JobID, ttl)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventTokenIssued, JobID: req.JobID})

	resp := map[string]any{
		"token":     token,
		"jobId":     record.JobID,
		"expiresAt": formatTime(record.ExpiresAt),
	}
	if h.portalBaseURL != "" {
		resp["url"] = fmt.Sprintf("%s/portal/%s", h.portalBaseURL, token)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// POST /api/contacts/{id}/enable-portal
func (h *StaffHandler) EnablePortal(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	if err := h.contactService.EnablePortal(r.Context(), contactID, req.Password); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPortalEnabled, ContactID: contactID})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /api/contacts/{id}/disable-portal
func (h *StaffHandler) DisablePortal(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")

	if err := h.contactService.DisablePortal(r.Context(), contactID); err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPortalDisabled, ContactID: contactID})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /api/jobs/{id}/stage
func (h *StaffHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	job, err := h.jobService.UpdateStage(r.Context(), jobID, model.JobStage(req.Stage))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// POST /api/jobs/{id}/files
func (h *StaffHandler) AddFile(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var req struct {
		Name      string `json:"name"`
		URL       string `json:"url"`
		SizeBytes int64  `json:"sizeBytes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.Name == "" {
		writeError(w, apperrors.MissingRequired("name"))
		return
	}
	if req.URL == "" {
		writeError(w, apperrors.MissingRequired("url"))
		return
	}

	file, err := h.jobService.AddFile(r.Context(), model.CreateJobFileParams{
		JobID:     jobID,
		Name:      req.Name,
		URL:       req.URL,
		SizeBytes: req.SizeBytes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

// DELETE /api/jobs/{id}/files/{fileID}
func (h *StaffHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	fileID := chi.URLParam(r, "fileID")

	if err := h.jobService.DeleteFile(r.Context(), jobID, fileID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /api/jobs/{id}/messages
func (h *StaffHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var req struct {
		Sender string `json:"sender"`
		Body   string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.Body == "" {
		writeError(w, apperrors.MissingRequired("body"))
		return
	}

	msg, err := h.jobService.AddMessage(r.Context(), model.CreateJobMessageParams{
		JobID:  jobID,
		Sender: req.Sender,
		Body:   req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// POST /api/jobs/{id}/notes
func (h *StaffHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.Body == "" {
		writeError(w, apperrors.MissingRequired("body"))
		return
	}

	note, err := h.jobService.AddNote(r.Context(), model.CreateJobNoteParams{
		JobID: jobID,
		Body:  req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	log.Debug().Str("jobId", jobID).Msg("job note added")
	writeJSON(w, http.StatusCreated, note)
}
