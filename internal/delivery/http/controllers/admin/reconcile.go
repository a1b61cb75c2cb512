package admin

import (
	"JapaneseShikhi/internal/delivery/http/controllers/respond"
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Reconciler interface {
	Run(ctx context.Context) (*models.ReconcileReport, error)
}

type ReconcileHandler struct {
	log        logger.Log
	reconciler Reconciler
}

func NewReconcileHandler(l logger.Log, r Reconciler) *ReconcileHandler {
	return &ReconcileHandler{
		log:        l,
		reconciler: r,
	}
}

func (h *ReconcileHandler) Run(c *gin.Context) {
	report, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
