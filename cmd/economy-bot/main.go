package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"gold-economy/internal/config"
	"gold-economy/internal/logging"

	"github.com/rs/zerolog/log"
)

var outcomes = []string{"WIN", "LOSS", "DRAW"}

type bot struct {
	base     string
	adminKey string
	client   *http.Client
}

type apiError struct {
	Status int
	Code   string `json:"error"`
	Reason string `json:"reason"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s %s", e.Status, e.Code, e.Reason)
}

func main() {
	if _, err := config.LoadEnvFiles(); err != nil {
		panic(err)
	}
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	b := &bot{
		base:     strings.TrimRight(cfg.EconomyURL, "/"),
		adminKey: cfg.AdminKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	if err := b.post("/api/economy/wallet/connect", map[string]any{"address": cfg.Wallet}, nil); err != nil {
		log.Fatal().Err(err).Msg("connect wallet failed")
	}
	if b.adminKey != "" {
		if err := b.post("/api/admin/airdrop", map[string]any{"amount": 100, "note": "bot seed"}, nil); err != nil {
			log.Warn().Err(err).Msg("seed airdrop failed")
		}
	}
	var daily map[string]any
	if err := b.post("/api/economy/daily/claim", nil, &daily); err != nil {
		log.Warn().Err(err).Msg("daily claim rejected")
	} else {
		log.Info().Interface("amount", daily["amount"]).Msg("daily claimed")
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for round := 1; round <= cfg.Rounds; round++ {
		b.playRound(round, rnd)
	}

	var state struct {
		Balance int64 `json:"balance"`
	}
	if err := b.get("/api/economy/state", &state); err != nil {
		log.Fatal().Err(err).Msg("read state failed")
	}
	log.Info().Int64("balance", state.Balance).Int("rounds", cfg.Rounds).Msg("bot finished")
}

func (b *bot) playRound(round int, rnd *rand.Rand) {
	if err := b.post("/api/economy/actions/perform", map[string]any{"actionId": "PLAY_MATCH"}, nil); err != nil {
		log.Debug().Err(err).Int("round", round).Msg("play action rejected")
	}
	var started struct {
		MatchID string `json:"matchId"`
	}
	if err := b.post("/api/economy/matches/start", nil, &started); err != nil {
		log.Warn().Err(err).Int("round", round).Msg("start match failed")
		return
	}
	outcome := outcomes[rnd.Intn(len(outcomes))]
	var finished struct {
		Ticket struct {
			ID string `json:"id"`
		} `json:"ticket"`
	}
	if err := b.post("/api/economy/matches/finish", map[string]any{"matchId": started.MatchID, "outcome": outcome}, &finished); err != nil {
		log.Warn().Err(err).Int("round", round).Msg("finish match failed")
		return
	}
	var claim map[string]any
	if err := b.post("/api/economy/tickets/claim", map[string]any{"ticketId": finished.Ticket.ID}, &claim); err != nil {
		log.Warn().Err(err).Str("ticket_id", finished.Ticket.ID).Msg("ticket claim failed")
		return
	}
	log.Info().Int("round", round).Str("match_id", started.MatchID).Str("outcome", outcome).Msg("round done")
}

func (b *bot) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	if err != nil {
		return err
	}
	return b.do(req, out)
}

func (b *bot) post(path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(http.MethodPost, b.base+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return b.do(req, out)
}

func (b *bot) do(req *http.Request, out any) error {
	if b.adminKey != "" {
		req.Header.Set("X-Admin-Key", b.adminKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
