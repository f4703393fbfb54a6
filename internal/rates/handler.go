package rates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/richxcame/fx-gateway/pkg/common"
	"github.com/richxcame/fx-gateway/pkg/logger"
	"github.com/richxcame/fx-gateway/pkg/pagination"
	"github.com/richxcame/fx-gateway/pkg/resilience"
	"github.com/richxcame/fx-gateway/pkg/validation"
	"go.uber.org/zap"
)

// Handler exposes the rates service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a rates handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the rates endpoints on the given group. Latest and
// convert are public; history requires an authenticated admin. The rate
// limiter runs after auth on history so the window is keyed by principal.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth, requireAdmin, rateLimit gin.HandlerFunc) {
	group := api.Group("/rates")
	{
		group.GET("/latest", rateLimit, h.GetLatest)
		group.GET("/convert", rateLimit, h.Convert)
		group.GET("/history", auth, requireAdmin, rateLimit, h.GetHistory)
	}
}

type latestQuery struct {
	Base string `form:"base" binding:"omitempty,len=3,alpha"`
}

type convertQuery struct {
	From   string  `form:"from" binding:"required,len=3,alpha"`
	To     string  `form:"to" binding:"required,len=3,alpha"`
	Amount float64 `form:"amount" binding:"required,gt=0"`
}

type historyQuery struct {
	Base  string `form:"base" binding:"omitempty,len=3,alpha"`
	To    string `form:"to" binding:"omitempty,len=3,alpha"`
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

// GetLatest handles GET /rates/latest
func (h *Handler) GetLatest(c *gin.Context) {
	var query latestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindingError(c, err)
		return
	}

	snapshot, err := h.service.GetLatestRates(c.Request.Context(), query.Base)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"base":  snapshot.Base,
		"date":  snapshot.Date,
		"rates": snapshot.Rates,
	})
}

// Convert handles GET /rates/convert
func (h *Handler) Convert(c *gin.Context) {
	var query convertQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindingError(c, err)
		return
	}

	result, err := h.service.Convert(c.Request.Context(), query.From, query.To, query.Amount)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"base":      result.From,
		"to":        result.To,
		"amount":    result.Amount,
		"converted": result.Converted,
		"rate":      result.Rate,
		"date":      result.Date,
	})
}

// GetHistory handles GET /rates/history
func (h *Handler) GetHistory(c *gin.Context) {
	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindingError(c, err)
		return
	}

	if query.Start > query.End {
		common.ErrorResponse(c, http.StatusBadRequest, "start date must not be after end date")
		return
	}

	params := pagination.ParseParams(c)

	page, err := h.service.GetHistoricalRates(c.Request.Context(), query.Base, query.To, query.Start, query.End, params)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"base":       page.Base,
		"to":         page.Quote,
		"start_date": page.Start,
		"end_date":   page.End,
		"pagination": page.Meta,
		"rates":      page.Points,
	})
}

// serviceError maps domain errors onto HTTP statuses: policy violations are
// the caller's fault (400), an open breaker means back off (503), anything
// else from upstream is a bad gateway (502).
func (h *Handler) serviceError(c *gin.Context, err error) {
	var policyErr *ExcludedCurrencyError
	if errors.As(err, &policyErr) {
		common.ErrorResponseWithDetails(c, http.StatusBadRequest,
			"currency not supported for conversion",
			gin.H{"excludedCurrencies": policyErr.Excluded},
		)
		return
	}

	if errors.Is(err, resilience.ErrCircuitOpen) {
		common.ErrorResponse(c, http.StatusServiceUnavailable,
			"exchange rate provider temporarily unavailable, please retry later")
		return
	}

	logger.WithContext(c.Request.Context()).Error("rates request failed", zap.Error(err))

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		common.ErrorResponse(c, http.StatusBadGateway, "exchange rate provider error")
		return
	}

	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

func bindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		vErr := validation.NewValidationError(validationErrs)
		common.ErrorResponseWithDetails(c, http.StatusBadRequest, "invalid request", vErr.Errors)
		return
	}
	common.ErrorResponse(c, http.StatusBadRequest, "invalid request")
}
