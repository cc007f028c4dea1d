package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-admin-api/internal/dto"
	"github.com/noah-isme/edu-admin-api/internal/service"
	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
	"github.com/noah-isme/edu-admin-api/pkg/response"
)

// AccessHandler exposes the credential verification endpoint.
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler constructs AccessHandler.
func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// Check godoc
// @Summary Verify caller credentials
// @Tags Access
// @Accept json
// @Produce json
// @Param payload body dto.AccessCheckRequest true "Secret plus one or more codes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /access/check [post]
func (h *AccessHandler) Check(c *gin.Context) {
	var req dto.AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.access.Check(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
