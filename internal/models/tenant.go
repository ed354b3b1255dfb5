package models

type Tenant struct {
	Base
	Name       string         `json:"name"`
	OwnerEmail string         `json:"ownerEmail"`
	Plan       TenantPlan     `json:"plan"`
	IsActive   bool           `json:"isActive"`
	Settings   TenantSettings `json:"settings"`
}

type TenantSettings struct {
	Timezone string   `json:"timezone"`
	Currency string   `json:"currency"`
	Features []string `json:"features"`
}

type TenantPlan string

const (
	TenantPlanBasic      TenantPlan = "basic"
	TenantPlanPremium    TenantPlan = "premium"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

func (p TenantPlan) Valid() bool {
	switch p {
	case TenantPlanBasic, TenantPlanPremium, TenantPlanEnterprise:
		return true
	}
	return false
}

// Features returns the modules enabled for the plan tier.
func (p TenantPlan) Features() []string {
	if p == TenantPlanPremium || p == TenantPlanEnterprise {
		return []string{"members", "plans", "trainers", "analytics", "reports"}
	}
	return []string{"members", "plans"}
}
