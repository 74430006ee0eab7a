package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrNameRequired     = errors.New("name is required")

	// Format settings
	ErrUnknownFormatMode    = errors.New("unknown format mode")
	ErrNotEnoughTeams       = errors.New("not enough teams for this format")
	ErrDuplicateTeamID      = errors.New("team id appears more than once")
	ErrReservedTeamID       = errors.New("team id is reserved")
	ErrInvalidLegs          = errors.New("legs must be between 1 and 4")
	ErrInvalidGroupRounds   = errors.New("group rounds must be 1 or 2")
	ErrInvalidQualifiers    = errors.New("playoff qualifiers must be 0 or between 2 and the number of teams")
	ErrInvalidGroupSettings = errors.New("invalid group settings")

	// Results
	ErrInvalidScore          = errors.New("both scores are required and must not be negative")
	ErrMatchNotReady         = errors.New("match participants are not decided yet")
	ErrPlayoffDrawNotAllowed = errors.New("a playoff match cannot end in a draw")
	ErrResultLocked          = errors.New("result cannot be changed once a later playoff match has been played")
	ErrScheduleLocked        = errors.New("schedule cannot be regenerated once results are recorded")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entities
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrScheduleNotFound   = errors.New("schedule has not been generated")
)
