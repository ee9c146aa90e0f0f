package models

// Category groups assets sharing one annual interest rate and activation
// state. Icon and color are cosmetic keys interpreted by clients only.
type Category struct {
	Base
	Name string `gorm:"not null" json:"name"`
	Icon string `json:"icon"`
	// Color is a key into the fixed client palette, not a hex value.
	Color string `json:"color"`
	// InterestRate is the annualized nominal rate in percent, applied
	// uniformly to every asset in the category.
	InterestRate float64 `gorm:"not null;default:0" json:"interest_rate"`
	// IsDefault marks seeded categories, which cannot be deleted.
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`
	// IsActive controls whether the category and its assets count toward
	// portfolio-wide totals, weighted rates, and forecasts. Inactive
	// categories are retained and still answer direct per-category queries.
	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}

// DefaultInterestRate is assumed for new categories created without an
// explicit rate.
const DefaultInterestRate = 5.0

// ColorKeys is the fixed palette of category color keys.
var ColorKeys = []string{
	"emerald", "violet", "amber", "sky", "lime",
	"rose", "orange", "cyan", "indigo", "pink",
}

// IconNames is the fixed set of category icon names.
var IconNames = []string{
	"TrendingUp", "FileText", "Lock", "Wallet", "Banknote", "PieChart",
	"Building", "Coins", "CreditCard", "DollarSign", "Gem", "Gift",
	"Globe", "Home", "Landmark", "Layers", "LineChart", "Package",
	"Percent", "Shield", "Star", "Target", "Vault", "Zap",
}
