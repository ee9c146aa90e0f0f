package models

// DefaultCategories returns the fixed category seed created on first use of
// a portfolio. Ids and interest rates are a compatibility contract: persisted
// data referencing these ids must keep resolving across versions.
func DefaultCategories() []Category {
	return []Category{
		{Base: Base{ID: "stocks"}, Name: "Stocks", Icon: "TrendingUp", Color: "emerald", InterestRate: 8, IsDefault: true, IsActive: true},
		{Base: Base{ID: "bonds"}, Name: "Bonds", Icon: "FileText", Color: "violet", InterestRate: 6, IsDefault: true, IsActive: true},
		{Base: Base{ID: "deposits"}, Name: "Term deposits", Icon: "Lock", Color: "amber", InterestRate: 5, IsDefault: true, IsActive: true},
		{Base: Base{ID: "savings"}, Name: "Savings accounts", Icon: "Wallet", Color: "sky", InterestRate: 4, IsDefault: true, IsActive: true},
		{Base: Base{ID: "bank"}, Name: "Bank account", Icon: "Landmark", Color: "indigo", InterestRate: 0, IsDefault: true, IsActive: true},
		{Base: Base{ID: "cash"}, Name: "Cash", Icon: "Banknote", Color: "lime", InterestRate: 0, IsDefault: true, IsActive: true},
		{Base: Base{ID: "funds"}, Name: "Funds", Icon: "PieChart", Color: "rose", InterestRate: 7, IsDefault: true, IsActive: true},
		{Base: Base{ID: "crypto"}, Name: "Crypto", Icon: "Coins", Color: "orange", InterestRate: 10, IsDefault: true, IsActive: true},
		{Base: Base{ID: "other"}, Name: "Other", Icon: "Package", Color: "cyan", InterestRate: 0, IsDefault: true, IsActive: true},
	}
}
