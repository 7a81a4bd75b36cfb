package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidModality      = errors.New("modality must be Individual or Equipos")
	ErrInvalidGender        = errors.New("invalid gender value")
	ErrInvalidGrade         = errors.New("invalid grade value")
	ErrInvalidAgeRange      = errors.New("age range is invalid")
	ErrInvalidDiscipline    = errors.New("unknown discipline code")
	ErrWinnerRequired       = errors.New("winner id is required")
	ErrWinnerNotInMatch     = errors.New("winner must be one of the match competitors")
	ErrSlotOutOfRange       = errors.New("slot must be 1 or 2")
	ErrTargetCategoryNeeded = errors.New("target category id is required")
	ErrLogoStorageDisabled  = errors.New("logo storage is not configured")

	// Conflicts
	ErrBracketAlreadyExists = errors.New("a bracket already exists for this category")
	ErrBracketEditConflict  = errors.New("bracket was modified by someone else, reload and retry")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrAdminOnly          = errors.New("only administrators can perform this action")

	// Entity lookups (repositories carry their own NotFound errors; these
	// cover cases the service detects itself)
	ErrBracketNotFound = errors.New("bracket not found")
	ErrRoundNotFound   = errors.New("round not found")
	ErrMatchNotFound   = errors.New("match not found")
)
