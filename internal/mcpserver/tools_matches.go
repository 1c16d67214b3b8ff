package mcpserver

import (
	"context"
	"strings"

	"gold-economy/internal/app/account"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerMatchTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("start_match", mcp.WithDescription("Start a game match and get its id")),
		s.handleStartMatch,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"finish_match",
			mcp.WithDescription("Finish a match; issues one reward ticket per match id"),
			mcp.WithString("match_id", mcp.Required(), mcp.Description("Match id from start_match")),
			mcp.WithString("outcome", mcp.Required(), mcp.Description("WIN|LOSS|DRAW")),
		),
		s.handleFinishMatch,
	)
}

func (s *Server) handleStartMatch(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.svc.StartMatch()), nil
}

func (s *Server) handleFinishMatch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matchID, err := request.RequireString("match_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	outcome := strings.ToUpper(strings.TrimSpace(request.GetString("outcome", "")))
	if !isAllowedOutcome(outcome) {
		return toolError("invalid_request", "outcome must be WIN|LOSS|DRAW"), nil
	}
	res, svcErr := s.svc.FinishMatch(account.FinishMatchRequest{MatchID: matchID, Outcome: outcome})
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(res), nil
}
