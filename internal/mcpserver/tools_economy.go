package mcpserver

import (
	"context"

	"gold-economy/internal/app/account"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerEconomyTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_economy_state", mcp.WithDescription("Balance, perks, NFTs, tickets, actions and entitlements")),
		s.handleGetState,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("list_perks", mcp.WithDescription("Perk catalog and earning actions with availability")),
		s.handleListPerks,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"buy_perk",
			mcp.WithDescription("Buy a perk from the catalog with Gold"),
			mcp.WithString("perk_id", mcp.Required(), mcp.Description("Perk id, e.g. perk_gold_pass")),
		),
		s.handleBuyPerk,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("claim_daily_gold", mcp.WithDescription("Claim the daily Gold reward (wallet required, once per 24h)")),
		s.handleClaimDaily,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"perform_earning_action",
			mcp.WithDescription("Perform an earning action for Gold"),
			mcp.WithString("action_id", mcp.Required(), mcp.Description("Action id, e.g. PLAY_MATCH")),
			mcp.WithString("model_id", mcp.Description("Model id for model-scoped actions")),
			mcp.WithBoolean("dry_run", mcp.Description("Only check availability")),
		),
		s.handlePerformAction,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"claim_reward_ticket",
			mcp.WithDescription("Redeem a pending reward ticket"),
			mcp.WithString("ticket_id", mcp.Required(), mcp.Description("Ticket id")),
		),
		s.handleClaimTicket,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_transactions",
			mcp.WithDescription("Ledger entries, newest first"),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 200")),
		),
		s.handleListTransactions,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"mint_nft",
			mcp.WithDescription("Spend Gold on an off-chain placeholder NFT"),
			mcp.WithString("tier", mcp.Description("silver|gold|diamond, default gold")),
		),
		s.handleMintNFT,
	)
	s.mcpServer.AddTool(
		mcp.NewTool("sync_economy", mcp.WithDescription("Reconcile with the remote economy backend")),
		s.handleSync,
	)
}

func (s *Server) handleGetState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.svc.State()), nil
}

func (s *Server) handleListPerks(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.svc.Catalog()), nil
}

func (s *Server) handleBuyPerk(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	perkID, err := request.RequireString("perk_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	res, svcErr := s.svc.BuyPerk(account.BuyPerkRequest{PerkID: perkID})
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleClaimDaily(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.ClaimDaily()
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handlePerformAction(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actionID, err := request.RequireString("action_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	req := account.ActionRequest{ActionID: actionID, ModelID: request.GetString("model_id", "")}
	if request.GetBool("dry_run", false) {
		res, svcErr := s.svc.CheckAction(req)
		if svcErr != nil {
			return mapDomainError(svcErr), nil
		}
		return toolResult(res), nil
	}
	res, svcErr := s.svc.PerformAction(req)
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleClaimTicket(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticketID, err := request.RequireString("ticket_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	res, svcErr := s.svc.ClaimTicket(account.ClaimTicketRequest{TicketID: ticketID})
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleListTransactions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.svc.Transactions(clampLimit(request.GetInt("limit", defaultTransactionLimit)))), nil
}

func (s *Server) handleMintNFT(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.MintNFT(account.MintRequest{Tier: request.GetString("tier", "")})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleSync(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Sync(ctx)
	if err != nil {
		return toolError("sync_failed", res.Reason), nil
	}
	return toolResult(res), nil
}
