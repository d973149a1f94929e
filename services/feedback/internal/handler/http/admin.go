package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akajrolkar2644/Assessment/pkg/httputil"
	"github.com/akajrolkar2644/Assessment/pkg/pagination"
	"github.com/akajrolkar2644/Assessment/pkg/validator"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/auth"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/service"
)

// AdminHandler handles the admin dashboard endpoints.
type AdminHandler struct {
	service *service.FeedbackService
	auth    *auth.AdminAuthenticator
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.FeedbackService, authenticator *auth.AdminAuthenticator, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		auth:    authenticator,
		logger:  logger,
	}
}

// --- Request / response DTOs ---

// LoginRequest is the JSON request body for admin login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// ReviewDetail is a review with its recommended actions split into items.
type ReviewDetail struct {
	domain.Review
	ActionItems []string `json:"action_items"`
}

// --- Handlers ---

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: token})
}

// ListReviews handles GET /api/v1/admin/reviews
func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	filter := service.ListFilter{
		Status:     r.URL.Query().Get("status"),
		Pagination: p,
	}

	reviews, total, err := h.service.ListReviews(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, p.Page, p.PerPage))
}

// GetReview handles GET /api/v1/admin/reviews/{id}
func (h *AdminHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ReviewDetail{
		Review:      *review,
		ActionItems: review.ActionItems(),
	}})
}

// MarkReviewed handles PUT /api/v1/admin/reviews/{id}/reviewed
func (h *AdminHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	review, err := h.service.MarkReviewed(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// GetStatistics handles GET /api/v1/admin/statistics
func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// ExportCSV handles GET /api/v1/admin/export.csv
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	// Buffer so a read failure can still be reported as a JSON error.
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, service.ExportCSV); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.CSVFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
