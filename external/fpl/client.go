package fpl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
	"github.com/fantasyxi/fpl-insight/internal/platform/resilience"
	"github.com/fantasyxi/fpl-insight/internal/usecase"
)

const defaultBaseURL = "https://fantasy.premierleague.com/api"

var errTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	Throttle       time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client calls the public fantasy game API. The endpoints are unauthenticated
// but rate-limited, so requests carry a User-Agent and a polite throttle, and
// a breaker shields the service when the game site degrades.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	throttle       time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "fpl-insight/1.0"
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		throttle:       cfg.Throttle,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchBootstrap(ctx context.Context) (usecase.ExternalBootstrap, error) {
	var wire bootstrapWire
	if err := c.doJSON(ctx, "/bootstrap-static/", &wire); err != nil {
		return usecase.ExternalBootstrap{}, fmt.Errorf("fetch bootstrap: %w", err)
	}

	out := usecase.ExternalBootstrap{
		Teams:   make([]usecase.ExternalTeam, 0, len(wire.Teams)),
		Players: make([]usecase.ExternalPlayer, 0, len(wire.Elements)),
		Events:  make([]usecase.ExternalEvent, 0, len(wire.Events)),
	}
	for _, item := range wire.Teams {
		out.Teams = append(out.Teams, mapTeam(item))
	}
	for _, item := range wire.Elements {
		out.Players = append(out.Players, mapPlayer(item))
	}
	for _, item := range wire.Events {
		out.Events = append(out.Events, mapEvent(item))
	}

	return out, nil
}

func (c *Client) FetchFixtures(ctx context.Context) ([]usecase.ExternalFixture, error) {
	var wire []fixtureWire
	if err := c.doJSON(ctx, "/fixtures/", &wire); err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	out := make([]usecase.ExternalFixture, 0, len(wire))
	for _, item := range wire {
		out = append(out, mapFixture(item))
	}

	return out, nil
}

func (c *Client) FetchGameweekLive(ctx context.Context, gameweek int) ([]usecase.ExternalPlayerGameweekStat, error) {
	if gameweek <= 0 {
		return nil, fmt.Errorf("gameweek must be greater than zero")
	}

	var wire liveWire
	path := fmt.Sprintf("/event/%d/live/", gameweek)
	if err := c.doJSON(ctx, path, &wire); err != nil {
		return nil, fmt.Errorf("fetch gameweek %d live: %w", gameweek, err)
	}

	out := make([]usecase.ExternalPlayerGameweekStat, 0, len(wire.Elements))
	for _, item := range wire.Elements {
		out = append(out, mapLiveStat(item, gameweek))
	}

	return out, nil
}

func (c *Client) FetchEntry(ctx context.Context, entryID int) (usecase.ExternalEntry, error) {
	if entryID <= 0 {
		return usecase.ExternalEntry{}, fmt.Errorf("entry id must be greater than zero")
	}

	var wire entryWire
	path := fmt.Sprintf("/entry/%d/", entryID)
	if err := c.doJSON(ctx, path, &wire); err != nil {
		return usecase.ExternalEntry{}, fmt.Errorf("fetch entry %d: %w", entryID, err)
	}

	return usecase.ExternalEntry{
		ID:            wire.ID,
		FirstName:     wire.PlayerFirstName,
		LastName:      wire.PlayerLastName,
		TeamName:      wire.Name,
		OverallPoints: wire.SummaryOverallPoints,
		OverallRank:   wire.SummaryOverallRank,
		EventPoints:   wire.SummaryEventPoints,
		CurrentEvent:  wire.CurrentEvent,
	}, nil
}

func (c *Client) FetchEntryPicks(ctx context.Context, entryID, gameweek int) (usecase.ExternalEntryPicks, error) {
	if entryID <= 0 {
		return usecase.ExternalEntryPicks{}, fmt.Errorf("entry id must be greater than zero")
	}
	if gameweek <= 0 {
		return usecase.ExternalEntryPicks{}, fmt.Errorf("gameweek must be greater than zero")
	}

	var wire picksWire
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gameweek)
	if err := c.doJSON(ctx, path, &wire); err != nil {
		return usecase.ExternalEntryPicks{}, fmt.Errorf("fetch entry %d picks gw=%d: %w", entryID, gameweek, err)
	}

	out := usecase.ExternalEntryPicks{
		EntryID:       entryID,
		Gameweek:      gameweek,
		ActiveChip:    wire.ActiveChip,
		Points:        wire.EntryHistory.Points,
		TransfersMade: wire.EntryHistory.EventTransfers,
		TransfersCost: wire.EntryHistory.EventTransfersCost,
		Picks:         make([]usecase.ExternalEntryPick, 0, len(wire.Picks)),
	}
	for _, pick := range wire.Picks {
		out.Picks = append(out.Picks, usecase.ExternalEntryPick{
			PlayerID:      pick.Element,
			SlotPosition:  pick.Position,
			Multiplier:    pick.Multiplier,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}

	return out, nil
}

// FetchPlayerHistory returns the player's completed past seasons from
// the per-player summary endpoint.
func (c *Client) FetchPlayerHistory(ctx context.Context, playerID int) ([]usecase.ExternalSeasonHistory, error) {
	if playerID <= 0 {
		return nil, fmt.Errorf("player id must be greater than zero")
	}

	var wire elementSummaryWire
	path := fmt.Sprintf("/element-summary/%d/", playerID)
	if err := c.doJSON(ctx, path, &wire); err != nil {
		return nil, fmt.Errorf("fetch player %d history: %w", playerID, err)
	}

	out := make([]usecase.ExternalSeasonHistory, 0, len(wire.HistoryPast))
	for _, item := range wire.HistoryPast {
		out = append(out, mapPastSeason(item))
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: game api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode game api payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.throttle > 0 {
			timer := time.NewTimer(c.throttle)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: game api status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("game api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("game api request failed")
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
