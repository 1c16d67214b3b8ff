package account

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrUnknownOutcome = errors.New("unknown_outcome")
	ErrUnknownReward  = errors.New("unknown_reward_kind")
)
