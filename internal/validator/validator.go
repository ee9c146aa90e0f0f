// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"nestegg/internal/forecast"
	"nestegg/internal/models"
)

var (
	colorKeys = make(map[string]bool)
	iconNames = make(map[string]bool)
)

func init() {
	for _, k := range models.ColorKeys {
		colorKeys[k] = true
	}
	for _, n := range models.IconNames {
		iconNames[n] = true
	}
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("color_key", validateColorKey)
		_ = v.RegisterValidation("icon_name", validateIconName)
		_ = v.RegisterValidation("asset_origin", validateAssetOrigin)
		_ = v.RegisterValidation("forecast_horizon", validateForecastHorizon)
	}
}

func validateColorKey(fl validator.FieldLevel) bool {
	return colorKeys[fl.Field().String()]
}

func validateIconName(fl validator.FieldLevel) bool {
	return iconNames[fl.Field().String()]
}

func validateAssetOrigin(fl validator.FieldLevel) bool {
	switch models.AssetOrigin(fl.Field().String()) {
	case models.AssetOriginManual, models.AssetOriginContribution:
		return true
	}
	return false
}

func validateForecastHorizon(fl validator.FieldLevel) bool {
	return forecast.Horizon(fl.Field().String()).Valid()
}
