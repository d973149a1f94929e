package http

import (
	"log/slog"
	"net/http"

	"github.com/akajrolkar2644/Assessment/pkg/httputil"
	"github.com/akajrolkar2644/Assessment/pkg/validator"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/service"
)

// maxBodyBytes caps request bodies. Reviews are at most 500 characters.
const maxBodyBytes = 64 << 10

// FeedbackHandler handles the public feedback endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
	logger  *slog.Logger
}

// NewFeedbackHandler creates a new feedback HTTP handler.
func NewFeedbackHandler(svc *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitFeedbackRequest is the JSON request body for submitting a review.
type SubmitFeedbackRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required,notblank,max=500"`
}

// --- Handlers ---

// SubmitFeedback handles POST /api/v1/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req SubmitFeedbackRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), req.Rating, req.Review)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// GetStatistics handles GET /api/v1/feedback/statistics
func (h *FeedbackHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
