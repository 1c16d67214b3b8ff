package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gold-economy/internal/app/account"
	"gold-economy/internal/config"
	"gold-economy/internal/engine"
	"gold-economy/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Engine *engine.Engine
	Store  store.Store
	// MCP serves the tool endpoint when non-nil.
	MCP http.Handler
}

func NewRouter(deps Deps, cfg config.ServerConfig) *chi.Mux {
	svc := account.NewService(deps.Engine)
	economyHandlers := NewEconomyHandlers(svc)
	adminHandlers := NewAdminHandlers(svc, deps.Store)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	apiLog := APILogMiddleware()
	r.With(apiLog).Get("/healthz", adminHandlers.Health())
	r.Handle("/metrics", promhttp.Handler())
	if deps.MCP != nil {
		r.With(apiLog).Handle("/mcp", deps.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLog)
		r.Route("/economy", func(r chi.Router) {
			r.Get("/state", economyHandlers.State())
			r.Get("/entitlements", economyHandlers.Entitlements())
			r.Get("/catalog", economyHandlers.Catalog())
			r.Get("/transactions", economyHandlers.Transactions())
			r.Get("/earning-log", economyHandlers.EarningLog())
			r.Get("/events", economyHandlers.Events())
			r.Get("/stream", StreamHandler(deps.Engine))

			r.Post("/perks/buy", economyHandlers.BuyPerk())
			r.Post("/daily/claim", economyHandlers.ClaimDaily())
			r.Post("/actions/check", economyHandlers.CheckAction())
			r.Post("/actions/perform", economyHandlers.PerformAction())
			r.Post("/tickets/claim", economyHandlers.ClaimTicket())
			r.Post("/matches/start", economyHandlers.StartMatch())
			r.Post("/matches/finish", economyHandlers.FinishMatch())
			r.Post("/wallet/connect", economyHandlers.ConnectWallet())
			r.Post("/wallet/disconnect", economyHandlers.DisconnectWallet())
			r.Post("/nfts/mint", economyHandlers.MintNFT())
			r.Post("/sync", economyHandlers.Sync())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Use(BodyCaptureMiddleware(cfg.CaptureBodyBytes))
			r.Post("/airdrop", adminHandlers.Airdrop())
			r.Post("/perks/grant", adminHandlers.GrantPerk())
			r.Post("/tickets", adminHandlers.IssueTicket())
			r.Post("/role", adminHandlers.SetRole())
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	fmt.Fprintf(&b, "Registered routes (%d):\n", len(routes))
	for _, rt := range routes {
		fmt.Fprintf(&b, "  %-6s %s\n", rt.Method, rt.Path)
	}
	fmt.Print(b.String())
}
