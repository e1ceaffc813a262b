package subscription

import (
	"github.com/shopspring/decimal"
)

// Plan identifies a subscription tier
type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// IsValid checks if the plan is a known tier
func (p Plan) IsValid() bool {
	switch p {
	case PlanBasic, PlanPremium, PlanEnterprise:
		return true
	default:
		return false
	}
}

// PlanDetails describes what a tier costs and allows. Nil limits mean
// unlimited.
type PlanDetails struct {
	Name        string
	Price       decimal.Decimal // KSh per month
	MaxProducts *int
	MaxStores   *int
	Features    []string
}

func intPtr(v int) *int { return &v }

// planCatalog is the fixed tier catalog
var planCatalog = map[Plan]PlanDetails{
	PlanBasic: {
		Name:        "Basic",
		Price:       decimal.NewFromInt(999),
		MaxProducts: intPtr(50),
		MaxStores:   intPtr(1),
		Features: []string{
			"Priority listing",
			"Basic analytics",
			"Store customization",
			"Verified badge",
			"Up to 50 products",
			"1 storefront",
			"Email support",
		},
	},
	PlanPremium: {
		Name:        "Premium",
		Price:       decimal.NewFromInt(1999),
		MaxProducts: intPtr(200),
		MaxStores:   intPtr(3),
		Features: []string{
			"Everything in Basic",
			"Advanced analytics",
			"Bulk product upload",
			"Inventory management",
			"Product bundles",
			"Up to 200 products",
			"3 storefronts",
			"Priority support",
		},
	},
	PlanEnterprise: {
		Name:        "Enterprise",
		Price:       decimal.NewFromInt(4999),
		MaxProducts: nil,
		MaxStores:   nil,
		Features: []string{
			"Everything in Premium",
			"Custom integrations",
			"API access",
			"Unlimited products",
			"Unlimited storefronts",
			"Custom domain",
			"Dedicated support",
			"White-label options",
		},
	},
}

// Details returns the tier's catalog entry
func (p Plan) Details() (PlanDetails, bool) {
	d, ok := planCatalog[p]
	return d, ok
}

// MonthlyPrice returns the tier's monthly price in KSh
func (p Plan) MonthlyPrice() decimal.Decimal {
	if d, ok := planCatalog[p]; ok {
		return d.Price
	}
	return decimal.Zero
}

// AllowsProducts reports whether the tier allows the given product count
func (p Plan) AllowsProducts(count int) bool {
	d, ok := planCatalog[p]
	if !ok {
		return false
	}
	if d.MaxProducts == nil {
		return true
	}
	return count <= *d.MaxProducts
}

// AllowsStores reports whether the tier allows the given store count
func (p Plan) AllowsStores(count int) bool {
	d, ok := planCatalog[p]
	if !ok {
		return false
	}
	if d.MaxStores == nil {
		return true
	}
	return count <= *d.MaxStores
}

// AllPlans returns the tiers in ascending price order
func AllPlans() []Plan {
	return []Plan{PlanBasic, PlanPremium, PlanEnterprise}
}
