package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecotrack/internal/domain"
)

// ActivityHandler registra eco-acciones. Superficie de colaborador: valida
// y hace eco del registro generado, sin persistencia.
type ActivityHandler struct {
	logger *zap.Logger
}

func NewActivityHandler(logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{logger: logger}
}

// LogActivity maneja POST /api/activities.
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	var req struct {
		UserID       string `json:"user_id"`
		ActionType   string `json:"action_type"`
		ImpactPoints *int   `json:"impact_points"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest,
			"user_id, action_type, and impact_points are required", CodeMissingFields)
		return
	}

	if req.UserID == "" || req.ActionType == "" || req.ImpactPoints == nil {
		respondError(c, http.StatusBadRequest,
			"user_id, action_type, and impact_points are required", CodeMissingFields)
		return
	}
	if *req.ImpactPoints < 0 {
		respondError(c, http.StatusBadRequest,
			"impact_points must be a positive number", CodeInvalidImpactPoints)
		return
	}

	c.JSON(http.StatusCreated, domain.Activity{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		ActionType:   req.ActionType,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ImpactPoints: *req.ImpactPoints,
	})
}
