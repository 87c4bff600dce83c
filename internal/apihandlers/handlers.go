package apihandlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"leavereason/internal/app"
	"leavereason/internal/models"
	"leavereason/internal/services"
	"leavereason/internal/store"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

type predictRequest struct {
	// Pointer so an explicit empty reason is accepted while a missing one is not.
	Reason *string `json:"reason" binding:"required"`
}

type predictResponse struct {
	Category models.Label `json:"category"`
}

// PredictHandler returns the single label for a leave reason.
func (h *APIHandler) PredictHandler(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	label, err := h.App.Predictions.Predict(ctx, *req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrModelUnavailable) {
			ModelUnavailable(c, err.Error())
			return
		}
		Internal(c, "prediction failed: "+err.Error())
		return
	}

	if _, err := h.App.Predictions.Record(ctx, *req.Reason, label); err != nil {
		log.WithError(err).Warn("Failed to record prediction")
	}
	c.JSON(http.StatusOK, predictResponse{Category: label})
}

// LabelsHandler lists every category the classifier can emit.
func (h *APIHandler) LabelsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"labels": models.AllLabels()})
}

// ModelHandler describes the loaded artifact.
func (h *APIHandler) ModelHandler(c *gin.Context) {
	info, err := h.App.Predictions.Info(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrModelUnavailable) {
			ModelUnavailable(c, err.Error())
			return
		}
		Internal(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListHistoryHandler lists recorded predictions, newest first.
// Query: limit, offset, label (comma separated).
func (h *APIHandler) ListHistoryHandler(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	predictions, err := h.App.History.ListPredictions(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, store.ErrHistoryOffline) {
			HistoryDisabled(c)
			return
		}
		Internal(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": predictions})
}

// GetHistoryHandler fetches one recorded prediction.
func (h *APIHandler) GetHistoryHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "Invalid prediction ID")
		return
	}

	p, err := h.App.History.GetPrediction(c.Request.Context(), id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": p})
	case errors.Is(err, store.ErrHistoryOffline):
		HistoryDisabled(c)
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "Prediction not found")
	default:
		Internal(c, err.Error())
	}
}

func parseListOptions(c *gin.Context) (store.ListOptions, error) {
	opts := store.ListOptions{Limit: 20}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errors.New("limit must be a positive integer")
		}
		opts.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("offset must be a non-negative integer")
		}
		opts.Offset = n
	}
	if v := c.Query("label"); v != "" {
		for _, part := range strings.Split(v, ",") {
			l, err := models.ParseLabel(strings.TrimSpace(part))
			if err != nil {
				return opts, err
			}
			opts.Categories = append(opts.Categories, l)
		}
	}
	return opts, nil
}
