package mcpserver

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		return maxTransactionLimit
	}
	return limit
}

func isAllowedOutcome(v string) bool {
	return v == "WIN" || v == "LOSS" || v == "DRAW"
}
