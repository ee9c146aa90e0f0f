package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nestegg/internal/contrib"
	apperrors "nestegg/internal/errors"
	"nestegg/internal/forecast"
	"nestegg/internal/models"
	"nestegg/internal/pagination"
	"nestegg/internal/store"
)

type PortfolioHandler struct {
	provider store.Provider
}

func NewPortfolioHandler(provider store.Provider) *PortfolioHandler {
	return &PortfolioHandler{provider: provider}
}

// OverviewResponse is the aggregate portfolio view computed from the current
// snapshot. LargestAsset and LargestProfit are null when no asset qualifies.
type OverviewResponse struct {
	TotalValue               float64                `json:"total_value"`
	WeightedAverageRate      float64                `json:"weighted_average_rate"`
	TotalProjectedProfit     float64                `json:"total_projected_profit"`
	TotalMonthlyContribution float64                `json:"total_monthly_contribution"`
	AverageAssetValue        float64                `json:"average_asset_value"`
	AssetCount               int                    `json:"asset_count"`
	CategoryCount            int                    `json:"category_count"`
	FirstAssetDate           time.Time              `json:"first_asset_date"`
	LargestAsset             *models.Asset          `json:"largest_asset"`
	LargestProfit            *metricsCategoryProfit `json:"largest_profit"`
	Loading                  bool                   `json:"loading"`
	Syncing                  bool                   `json:"syncing"`
}

type metricsCategoryProfit struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Profit       float64 `json:"profit"`
}

// GetOverview godoc
// @Summary      Portfolio overview with derived aggregates
// @Tags         portfolio
// @Produce      json
// @Success      200 {object} OverviewResponse
// @Router       /portfolio [get]
func (h *PortfolioHandler) GetOverview(c *gin.Context) {
	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := OverviewResponse{
		TotalValue:               p.TotalValue(),
		WeightedAverageRate:      p.WeightedAverageRate(),
		TotalProjectedProfit:     p.TotalProjectedProfit(),
		TotalMonthlyContribution: p.TotalMonthlyContribution(),
		AverageAssetValue:        p.AverageAssetValue(),
		AssetCount:               len(p.Assets()),
		CategoryCount:            len(p.Categories()),
		FirstAssetDate:           p.FirstAssetDate(),
		Loading:                  p.Loading(),
		Syncing:                  p.Syncing(),
	}
	resp.LargestAsset = p.LargestAsset()
	if entry := p.LargestProfit(); entry != nil {
		resp.LargestProfit = &metricsCategoryProfit{
			CategoryID:   entry.Category.ID,
			CategoryName: entry.Category.Name,
			Profit:       entry.Profit,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListAssets godoc
// @Summary      List assets in insertion order
// @Tags         portfolio
// @Produce      json
// @Success      200 {array} models.Asset
// @Router       /assets [get]
func (h *PortfolioHandler) ListAssets(c *gin.Context) {
	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Assets())
}

// GetHistory godoc
// @Summary      Paged change history, newest first
// @Tags         portfolio
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} pagination.PageResponse[models.HistoryEntry]
// @Router       /history [get]
func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := p.History(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

type forecastQuery struct {
	Horizon string `form:"horizon" binding:"omitempty,forecast_horizon"`
}

// GetForecast godoc
// @Summary      Compound-growth projection over a horizon
// @Tags         portfolio
// @Produce      json
// @Param        horizon query string false "Projection horizon" Enums(1y, 5y, 10y)
// @Success      200 {object} forecast.Result
// @Router       /forecast [get]
func (h *PortfolioHandler) GetForecast(c *gin.Context) {
	var q forecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	horizon := forecast.Horizon(q.Horizon)
	if q.Horizon == "" {
		horizon = forecast.Horizon1Y
	}

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result := forecast.Project(forecast.Input{
		TotalValue:          p.TotalValue(),
		WeightedRate:        p.WeightedAverageRate(),
		MonthlyContribution: p.TotalMonthlyContribution(),
		Assets:              p.Assets(),
		FirstAssetDate:      p.FirstAssetDate(),
	}, horizon)

	c.JSON(http.StatusOK, result)
}

// GetReminders godoc
// @Summary      Contribution reminders due within the next week or overdue
// @Tags         portfolio
// @Produce      json
// @Success      200 {array} contrib.Reminder
// @Router       /contributions/reminders [get]
func (h *PortfolioHandler) GetReminders(c *gin.Context) {
	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminders := contrib.DueReminders(p.Assets(), p.Categories(), time.Now())
	c.JSON(http.StatusOK, reminders)
}
