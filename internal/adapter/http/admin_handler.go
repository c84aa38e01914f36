package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/repo"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/logging"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/usecase"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc *usecase.OrderService
}

func NewAdminHandler(svc *usecase.OrderService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListOrders returns the full collection, newest first.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.svc.List(ctx)
	if err != nil {
		logging.From(c).Error("list orders failed", "error", err)
		c.String(http.StatusInternalServerError, "error")
		return
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus transitions one order's status. Any non-empty string is
// accepted as the new status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	_, err := h.svc.UpdateStatus(ctx, c.Param("id"), req.Status)
	switch {
	case err == nil:
		c.String(http.StatusOK, "ok")
	case errors.Is(err, repo.ErrNotFound):
		c.String(http.StatusNotFound, "not found")
	case errors.Is(err, usecase.ErrEmptyStatus):
		c.String(http.StatusBadRequest, "bad request")
	default:
		logging.From(c).Error("update status failed", "order_id", c.Param("id"), "error", err)
		c.String(http.StatusInternalServerError, "error")
	}
}
