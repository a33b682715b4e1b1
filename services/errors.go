package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed         = errors.New("validation failed")
	ErrInsufficientTeams        = errors.New("not enough teams to generate a schedule")
	ErrInvalidStatusTransition  = errors.New("invalid match status transition")
	ErrInvalidEvent             = errors.New("invalid match event")
	ErrUnevenBracket            = errors.New("bracket round has an odd number of matches")
	ErrRoundNotComplete         = errors.New("bracket round still has unfinished matches")
	ErrMatchLocked              = errors.New("match result is fully confirmed and locked")
	ErrMatchNotCompleted        = errors.New("operation requires a completed match")
	ErrMatchNotDecisive         = errors.New("knockout match finished level with no shootout result")
	ErrPenaltyScoreInconsistent = errors.New("penalty scores are only valid on a completed drawn match with a shootout")
	ErrConfirmRoleNotApplicable = errors.New("confirmation role does not apply to this match")

	// Ошибки турниров
	ErrTournamentNotFound                = errors.New("tournament not found")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrTournamentInvalidTeamBounds       = errors.New("tournament min teams must not exceed max teams")
	ErrTournamentInvalidDateRange        = errors.New("tournament end date must be after start date")
	ErrTournamentNameConflict            = errors.New("tournament name already exists")

	// Ошибки, специфичные для сущностей
	ErrMatchNotFound = errors.New("match not found")
	ErrEventNotFound = errors.New("match event not found")
	ErrTeamNotFound  = errors.New("team not found")

	// Ошибки аутентификации и авторизации
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)
