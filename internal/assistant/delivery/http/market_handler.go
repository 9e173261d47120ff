package http

import (
	"context"
	"net/http"

	"finsight/internal/assistant/dto"
	"finsight/internal/assistant/service"
	"finsight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler serves the market-data snapshots.
type MarketHandler struct {
	logger        *logger.Logger
	marketService service.MarketService
}

func NewMarketHandler(log *logger.Logger, marketService service.MarketService) *MarketHandler {
	return &MarketHandler{
		logger:        log,
		marketService: marketService,
	}
}

func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/market/stocks", h.Stocks)
	g.GET("/market/indexes", h.Indexes)
	g.GET("/market/news", h.News)
	g.POST("/market/refresh", h.Refresh)
}

func (h *MarketHandler) Stocks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.marketService.Stocks())
}

func (h *MarketHandler) Indexes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.marketService.Indexes())
}

func (h *MarketHandler) News(c echo.Context) error {
	return c.JSON(http.StatusOK, h.marketService.News())
}

// Refresh triggers an immediate refresh of all three collections. The fetch
// runs detached from the request so slow providers do not hold the response.
func (h *MarketHandler) Refresh(c echo.Context) error {
	if h.marketService.Refreshing() {
		return c.JSON(http.StatusAccepted, dto.RefreshResponse{Refreshing: true})
	}

	go h.marketService.Refresh(context.Background(), true)

	return c.JSON(http.StatusAccepted, dto.RefreshResponse{Refreshing: true})
}
