package models

type Trainer struct {
	Base
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	HourlyRate     float64 `json:"hourlyRate"`
	Bio            string  `json:"bio"`
	Rating         float64 `json:"rating"`
	TotalSessions  int     `json:"totalSessions"`
	IsActive       bool    `json:"isActive"`
}
