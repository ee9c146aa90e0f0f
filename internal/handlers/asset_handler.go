package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nestegg/internal/errors"
	"nestegg/internal/models"
	"nestegg/internal/store"
)

type AssetHandler struct {
	provider store.Provider
}

func NewAssetHandler(provider store.Provider) *AssetHandler {
	return &AssetHandler{provider: provider}
}

type CreateAssetRequest struct {
	Name                string  `json:"name" binding:"required,min=1,max=100"`
	Amount              float64 `json:"amount" binding:"required,gt=0"`
	CategoryID          string  `json:"category_id" binding:"required"`
	MonthlyContribution float64 `json:"monthly_contribution" binding:"omitempty,gte=0"`
	ContributionDay     int     `json:"contribution_day" binding:"omitempty,min=1,max=28"`
	Origin              string  `json:"origin" binding:"omitempty,asset_origin"`
}

type UpdateAssetRequest struct {
	Name                *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Amount              *float64 `json:"amount" binding:"omitempty,gt=0"`
	CategoryID          *string  `json:"category_id" binding:"omitempty"`
	MonthlyContribution *float64 `json:"monthly_contribution" binding:"omitempty,gte=0"`
	ContributionDay     *int     `json:"contribution_day" binding:"omitempty,min=0,max=28"`
}

type ContributionRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreateAsset godoc
// @Summary      Add an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body CreateAssetRequest true "Asset details"
// @Success      201 {object} models.Asset
// @Router       /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	origin := models.AssetOriginManual
	if req.Origin != "" {
		origin = models.AssetOrigin(req.Origin)
	}

	asset, err := p.AddAsset(req.Name, req.Amount, req.CategoryID, req.MonthlyContribution, req.ContributionDay, origin)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// UpdateAsset godoc
// @Summary      Update an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body UpdateAssetRequest true "Fields to update"
// @Success      200 {object} models.Asset
// @Router       /assets/{id} [patch]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	assetID := c.Param("id")

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := p.UpdateAsset(assetID, store.AssetPatch{
		Name:                req.Name,
		Amount:              req.Amount,
		CategoryID:          req.CategoryID,
		MonthlyContribution: req.MonthlyContribution,
		ContributionDay:     req.ContributionDay,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

// DeleteAsset godoc
// @Summary      Delete an asset
// @Tags         assets
// @Param        id path string true "Asset ID"
// @Success      204
// @Router       /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	assetID := c.Param("id")

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := p.DeleteAsset(assetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddContribution godoc
// @Summary      Record a contribution against an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body ContributionRequest true "Contribution amount"
// @Success      200 {object} models.Asset
// @Router       /assets/{id}/contributions [post]
func (h *AssetHandler) AddContribution(c *gin.Context) {
	assetID := c.Param("id")

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	p, err := portfolioFor(c, h.provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := p.AddContribution(assetID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}
