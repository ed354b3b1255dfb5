package auth

import (
	"regexp"
	"unicode/utf8"
)

const MinPasswordLength = 8

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	nonWordRe = regexp.MustCompile(`\W`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type PasswordRequirements struct {
	MinLength      bool `json:"minLength"`
	HasUpperCase   bool `json:"hasUpperCase"`
	HasLowerCase   bool `json:"hasLowerCase"`
	HasNumbers     bool `json:"hasNumbers"`
	HasSpecialChar bool `json:"hasSpecialChar"`
}

type PasswordStrength struct {
	IsValid      bool                 `json:"isValid"`
	Strength     string               `json:"strength"`
	Score        int                  `json:"score"`
	Requirements PasswordRequirements `json:"requirements"`
}

// ValidatePasswordStrength scores five criteria; three are enough to pass.
func ValidatePasswordStrength(password string) PasswordStrength {
	req := PasswordRequirements{
		MinLength:      utf8.RuneCountInString(password) >= MinPasswordLength,
		HasUpperCase:   upperRe.MatchString(password),
		HasLowerCase:   lowerRe.MatchString(password),
		HasNumbers:     digitRe.MatchString(password),
		HasSpecialChar: nonWordRe.MatchString(password),
	}

	score := 0
	for _, ok := range []bool{req.MinLength, req.HasUpperCase, req.HasLowerCase, req.HasNumbers, req.HasSpecialChar} {
		if ok {
			score++
		}
	}

	strength := "weak"
	switch {
	case score >= 4:
		strength = "strong"
	case score == 3:
		strength = "medium"
	}

	return PasswordStrength{
		IsValid:      score >= 3,
		Strength:     strength,
		Score:        score,
		Requirements: req,
	}
}

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}
