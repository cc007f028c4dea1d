package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-admin-api/internal/service"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
	"github.com/noah-isme/edu-admin-api/pkg/response"
)

// RefundHandler exposes refund request endpoints.
type RefundHandler struct {
	refunds *service.RefundService
}

// NewRefundHandler constructs RefundHandler.
func NewRefundHandler(refunds *service.RefundService) *RefundHandler {
	return &RefundHandler{refunds: refunds}
}

// List godoc
// @Summary List refund requests
// @Tags Refunds
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /refunds [get]
func (h *RefundHandler) List(c *gin.Context) {
	refunds, pagination, err := h.refunds.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refunds, pagination)
}

// Get godoc
// @Summary Get refund request detail
// @Tags Refunds
// @Produce json
// @Param id path string true "Refund ID"
// @Success 200 {object} response.Envelope
// @Router /refunds/{id} [get]
func (h *RefundHandler) Get(c *gin.Context) {
	refund, err := h.refunds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refund, nil)
}

// Create godoc
// @Summary File refund request
// @Tags Refunds
// @Accept json
// @Produce json
// @Param payload body service.CreateRefundRequest true "Refund payload"
// @Success 201 {object} response.Envelope
// @Router /refunds [post]
func (h *RefundHandler) Create(c *gin.Context) {
	var req service.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	refund, err := h.refunds.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, refund)
}

// Resolve godoc
// @Summary Approve or reject refund request
// @Tags Refunds
// @Accept json
// @Produce json
// @Param id path string true "Refund ID"
// @Param payload body service.ResolveRefundRequest true "Resolution payload"
// @Success 200 {object} response.Envelope
// @Router /refunds/{id} [put]
func (h *RefundHandler) Resolve(c *gin.Context) {
	var req service.ResolveRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	refund, err := h.refunds.Resolve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refund, nil)
}

// Delete godoc
// @Summary Delete refund request
// @Tags Refunds
// @Produce json
// @Param id path string true "Refund ID"
// @Success 204
// @Router /refunds/{id} [delete]
func (h *RefundHandler) Delete(c *gin.Context) {
	if err := h.refunds.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
