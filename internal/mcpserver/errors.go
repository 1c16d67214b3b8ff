package mcpserver

import (
	"errors"
	"fmt"

	"gold-economy/internal/app/account"
	"gold-economy/internal/economy"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, account.ErrInvalidRequest):
		return toolError("invalid_request", err.Error())
	case errors.Is(err, account.ErrUnknownOutcome):
		return toolError("unknown_outcome", "outcome must be WIN|LOSS|DRAW")
	case errors.Is(err, account.ErrUnknownReward):
		return toolError("unknown_reward_kind", err.Error())
	}
	var r *economy.Rejection
	if errors.As(err, &r) {
		return toolError(economy.CodeOf(err), r.Reason)
	}
	return toolError("internal_error", err.Error())
}
