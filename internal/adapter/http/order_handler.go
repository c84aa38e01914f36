package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/storage"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/logging"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc *usecase.OrderService
}

func NewOrderHandler(svc *usecase.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// SubmitOrder accepts the public multipart order form
// (name, product, note?, payment, file proof?).
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	in := usecase.SubmitInput{
		Name:           c.PostForm("name"),
		Product:        c.PostForm("product"),
		Note:           c.PostForm("note"),
		Payment:        c.PostForm("payment"),
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
	}

	fh, err := c.FormFile("proof")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		c.String(http.StatusBadRequest, "Field kurang lengkap")
		return
	}
	if fh != nil {
		f, err := fh.Open()
		if err != nil {
			logging.From(c).Error("open uploaded proof", "error", err)
			c.String(http.StatusInternalServerError, "error")
			return
		}
		defer f.Close()
		in.Attachment = &usecase.AttachmentUpload{Reader: f, Filename: fh.Filename}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.svc.Submit(ctx, in); err != nil {
		switch {
		case errors.Is(err, entity.ErrMissingFields):
			c.String(http.StatusBadRequest, "Field kurang lengkap")
		case errors.Is(err, storage.ErrTooLarge):
			c.String(http.StatusRequestEntityTooLarge, "file terlalu besar")
		case errors.Is(err, usecase.ErrDuplicate):
			c.String(http.StatusConflict, "duplicate")
		default:
			logging.From(c).Error("submit order failed", "error", err)
			c.String(http.StatusInternalServerError, "error")
		}
		return
	}

	c.String(http.StatusOK, "ok")
}
