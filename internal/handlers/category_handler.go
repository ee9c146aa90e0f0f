package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nestegg/internal/errors"
	"nestegg/internal/models"
	"nestegg/internal/store"
)

type CategoryHandler struct {
	provider store.Provider
}

func NewCategoryHandler(provider store.Provider) *CategoryHandler {
	return &CategoryHandler{provider: provider}
}

type CreateCategoryRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=50"`
	Icon         string   `json:"icon" binding:"omitempty,icon_name"`
	Color        string   `json:"color" binding:"omitempty,color_key"`
	InterestRate *float64 `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
}

type UpdateCategoryRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=50"`
	Icon         *string  `json:"icon" binding:"omitempty,icon_name"`
	Color        *string  `json:"color" binding:"omitempty,color_key"`
	InterestRate *float64 `json:"interest_rate" binding:"omitempty,gte=0,lte=100"`
	IsActive     *bool    `json:"is_active"`
}

// CategorySummary is a category together with its derived aggregates.
type CategorySummary struct {
	models.Category
	Total               float64 `json:"total"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	ProjectedProfit     float64 `json:"projected_profit"`
	AssetCount          int     `json:"asset_count"`
}

// ListCategories godoc
// @Summary      List categories with per-category aggregates
// @Tags         categories
// @Produce      json
// @Success      200 {array} CategorySummary
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories := p.Categories()
	summaries := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		summaries = append(summaries, CategorySummary{
			Category:            cat,
			Total:               p.CategoryTotal(cat.ID),
			MonthlyContribution: p.CategoryMonthlyContribution(cat.ID),
			ProjectedProfit:     p.CategoryProfit(cat.ID),
			AssetCount:          len(p.AssetsByCategory(cat.ID)),
		})
	}

	c.JSON(http.StatusOK, summaries)
}

// CreateCategory godoc
// @Summary      Create a custom category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body CreateCategoryRequest true "Category details"
// @Success      201 {object} models.Category
// @Router       /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rate := models.DefaultInterestRate
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}

	category, err := p.AddCategory(req.Name, req.Icon, req.Color, rate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID"
// @Param        request body UpdateCategoryRequest true "Fields to update"
// @Success      200 {object} models.Category
// @Router       /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := p.UpdateCategory(categoryID, store.CategoryPatch{
		Name:         req.Name,
		Icon:         req.Icon,
		Color:        req.Color,
		InterestRate: req.InterestRate,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary      Delete a custom category and its assets
// @Tags         categories
// @Param        id path string true "Category ID"
// @Success      204
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := p.DeleteCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
