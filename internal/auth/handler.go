package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/richxcame/fx-gateway/pkg/common"
	"github.com/richxcame/fx-gateway/pkg/validation"
)

// Handler exposes the login endpoint.
type Handler struct {
	service *Service
}

// NewHandler creates an auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth endpoints on the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/auth")
	{
		group.POST("/login", h.Login)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			vErr := validation.NewValidationError(validationErrs)
			common.ErrorResponseWithDetails(c, http.StatusBadRequest, "invalid request", vErr.Errors)
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	common.SuccessResponse(c, gin.H{"token": token})
}
