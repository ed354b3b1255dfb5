package models

type Plan struct {
	Base
	Name        string       `json:"name"`
	Price       float64      `json:"price"`
	Duration    PlanDuration `json:"duration"`
	Features    []string     `json:"features"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
}

type PlanDuration string

const (
	Daily     PlanDuration = "daily"
	Weekly    PlanDuration = "weekly"
	Monthly   PlanDuration = "monthly"
	Quarterly PlanDuration = "quarterly"
	Yearly    PlanDuration = "yearly"
)

func (d PlanDuration) Valid() bool {
	switch d {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}
