package services

import (
	"errors"

	"gymflow/internal/apperr"
	"gymflow/internal/store"
)

var (
	ErrAccountInactive = apperr.Authorization("ACCOUNT_INACTIVE", "Account is deactivated")
	ErrInvalidEmail    = apperr.Validation("VALIDATION_ERROR", "Invalid email format")
	ErrEmailExists     = apperr.Conflict("EMAIL_EXISTS", "An account with this email already exists")
	ErrTenantExists    = apperr.Conflict("TENANT_EXISTS", "Gym name is not available, please choose another")
	ErrWeakPassword    = apperr.Validation("WEAK_PASSWORD", "Password does not meet security requirements")
	ErrSessionNotFound = apperr.NotFound("SESSION_NOT_FOUND", "Session not found")
	ErrTenantNotFound  = apperr.NotFound("TENANT_NOT_FOUND", "Tenant not found")

	ErrInvalidTenantPlan = apperr.Validation("VALIDATION_ERROR", "Invalid plan type. Must be one of: basic, premium, enterprise")

	ErrMemberNotFound    = apperr.NotFound("MEMBER_NOT_FOUND", "Member not found")
	ErrMemberExists      = apperr.Conflict("MEMBER_EXISTS", "Member with this email already exists")
	ErrMemberEmailExists = apperr.Conflict("EMAIL_EXISTS", "Member with this email already exists")
	ErrInvalidPlan       = apperr.Validation("INVALID_PLAN", "Invalid plan ID")
	ErrInvalidStatus     = apperr.Validation("VALIDATION_ERROR", "Invalid status. Must be one of: active, inactive, suspended, expired")

	ErrPlanNotFound    = apperr.NotFound("PLAN_NOT_FOUND", "Plan not found")
	ErrPlanExists      = apperr.Conflict("PLAN_EXISTS", "Plan with this name already exists")
	ErrPlanNameTaken   = apperr.Conflict("NAME_EXISTS", "Plan with this name already exists")
	ErrPlanInUse       = apperr.Conflict("PLAN_IN_USE", "Cannot delete plan that is assigned to members")
	ErrInvalidPrice    = apperr.Validation("VALIDATION_ERROR", "Price must be a positive number")
	ErrInvalidDuration = apperr.Validation("VALIDATION_ERROR", "Invalid duration. Must be one of: daily, weekly, monthly, quarterly, yearly")

	ErrTrainerNotFound    = apperr.NotFound("TRAINER_NOT_FOUND", "Trainer not found")
	ErrTrainerExists      = apperr.Conflict("TRAINER_EXISTS", "Trainer with this email already exists")
	ErrTrainerEmailExists = apperr.Conflict("EMAIL_EXISTS", "Trainer with this email already exists")
	ErrInvalidRate        = apperr.Validation("VALIDATION_ERROR", "Hourly rate must be a positive number")
)

func required(message string, fields ...string) *apperr.Error {
	return apperr.Validation("VALIDATION_ERROR", message).With("required", fields)
}

// notFoundAs swaps store.ErrNotFound for the caller's domain error and
// passes every other error through.
func notFoundAs(err error, domain *apperr.Error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
