package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-admin-api/internal/service"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
	"github.com/noah-isme/edu-admin-api/pkg/response"
)

// PaymentHistoryHandler exposes the payment audit trail.
type PaymentHistoryHandler struct {
	histories *service.PaymentHistoryService
}

// NewPaymentHistoryHandler constructs PaymentHistoryHandler.
func NewPaymentHistoryHandler(histories *service.PaymentHistoryService) *PaymentHistoryHandler {
	return &PaymentHistoryHandler{histories: histories}
}

// List godoc
// @Summary List payment history rows
// @Tags PaymentHistories
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /payment-histories [get]
func (h *PaymentHistoryHandler) List(c *gin.Context) {
	histories, pagination, err := h.histories.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, histories, pagination)
}

// Get godoc
// @Summary Get payment history detail
// @Tags PaymentHistories
// @Produce json
// @Param id path string true "History ID"
// @Success 200 {object} response.Envelope
// @Router /payment-histories/{id} [get]
func (h *PaymentHistoryHandler) Get(c *gin.Context) {
	history, err := h.histories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// Create godoc
// @Summary Append payment history row
// @Tags PaymentHistories
// @Accept json
// @Produce json
// @Param payload body service.PaymentHistoryRequest true "History payload"
// @Success 201 {object} response.Envelope
// @Router /payment-histories [post]
func (h *PaymentHistoryHandler) Create(c *gin.Context) {
	var req service.PaymentHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	history, err := h.histories.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, history)
}

// Update godoc
// @Summary Update payment history row
// @Tags PaymentHistories
// @Accept json
// @Produce json
// @Param id path string true "History ID"
// @Param payload body service.PaymentHistoryRequest true "History payload"
// @Success 200 {object} response.Envelope
// @Router /payment-histories/{id} [put]
func (h *PaymentHistoryHandler) Update(c *gin.Context) {
	var req service.PaymentHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	history, err := h.histories.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// Delete godoc
// @Summary Delete payment history row
// @Tags PaymentHistories
// @Produce json
// @Param id path string true "History ID"
// @Success 204
// @Router /payment-histories/{id} [delete]
func (h *PaymentHistoryHandler) Delete(c *gin.Context) {
	if err := h.histories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
