package http

import (
	"errors"
	"net/http"
	"strings"

	"finsight/internal/assistant/dto"
	"finsight/internal/assistant/service"
	"finsight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AssistantHandler serves the free-text query endpoints.
type AssistantHandler struct {
	logger       *logger.Logger
	queryService service.QueryService
}

func NewAssistantHandler(log *logger.Logger, queryService service.QueryService) *AssistantHandler {
	return &AssistantHandler{
		logger:       log,
		queryService: queryService,
	}
}

func (h *AssistantHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/assistant/query", h.Query)
	g.GET("/assistant/result", h.LatestResult)
}

// Query answers a free-text financial question. Provider failures surface as
// a 503 with a fixed user-facing message rather than the raw error.
func (h *AssistantHandler) Query(c echo.Context) error {
	var req dto.QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "query must not be empty"})
	}

	resp, err := h.queryService.Query(c.Request().Context(), req.Query)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Query failed", logger.ErrorField(err))
		if errors.Is(err, service.ErrAllProvidersExhausted) {
			return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: service.UserFacingErrorMessage})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: service.UserFacingErrorMessage})
	}

	return c.JSON(http.StatusOK, resp)
}

// LatestResult returns the most recently completed answer, if any.
func (h *AssistantHandler) LatestResult(c echo.Context) error {
	resp, ok := h.queryService.LatestResult()
	if !ok {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no result available yet"})
	}
	return c.JSON(http.StatusOK, resp)
}
