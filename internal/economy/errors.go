package economy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrUnknownPerk        = errors.New("unknown_perk")
	ErrUnknownAction      = errors.New("unknown_action")
	ErrTicketNotFound     = errors.New("ticket_not_found")
	ErrRoleRestricted     = errors.New("role_restricted")
	ErrPerkAlreadyActive  = errors.New("perk_already_active")
	ErrInsufficientGold   = errors.New("insufficient_gold")
	ErrWalletNotConnected = errors.New("wallet_not_connected")
	ErrClaimCooldown      = errors.New("claim_cooldown")
	ErrActionCooldown     = errors.New("action_cooldown")
	ErrModelRequired      = errors.New("model_required")
	ErrModelNotUnique     = errors.New("model_not_unique")
	ErrDailyLimitReached  = errors.New("daily_limit_reached")
	ErrTicketProcessed    = errors.New("ticket_already_processed")
	ErrTicketExpired      = errors.New("ticket_expired")
	ErrSyncFailed         = errors.New("sync_failed")
)

// Rejection is an expected, user-facing refusal of an operation. Error
// returns the display reason; errors.Is matches the code.
type Rejection struct {
	Code   error
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func (r *Rejection) Unwrap() error {
	return r.Code
}

func reject(code error, format string, args ...any) error {
	return &Rejection{Code: code, Reason: fmt.Sprintf(format, args...)}
}

type Kind string

const (
	KindValidation Kind = "validation"
	KindState      Kind = "state"
	KindSync       Kind = "sync"
	KindInternal   Kind = "internal"
)

// KindOf classifies err by its rejection code.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTicketProcessed), errors.Is(err, ErrTicketExpired):
		return KindState
	case errors.Is(err, ErrSyncFailed):
		return KindSync
	}
	var r *Rejection
	if errors.As(err, &r) {
		return KindValidation
	}
	return KindInternal
}

// CodeOf returns the snake_case code of a rejection, or "internal_error".
func CodeOf(err error) string {
	var r *Rejection
	if errors.As(err, &r) && r.Code != nil {
		return r.Code.Error()
	}
	return "internal_error"
}

// ReasonOf returns the user-facing reason for err.
func ReasonOf(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// MutatesOnReject reports whether a rejected operation still changed state.
// Lazy ticket expiry is the only case.
func MutatesOnReject(err error) bool {
	return errors.Is(err, ErrTicketExpired)
}
