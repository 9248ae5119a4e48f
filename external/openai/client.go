package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
	"github.com/fantasyxi/fpl-insight/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const systemPrompt = "You are a fantasy football analyst. Reply with a single JSON object " +
	`of the form {"player_ids": [..15 ids..], "reasoning": "..."} and nothing else. ` +
	"Respect the budget, the formation counts, and pick at most 3 players per club."

type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	Logger      *logging.Logger
}

// Client asks an OpenAI-compatible chat endpoint for squad suggestions.
// Its output is advisory only; every reply is re-validated by the caller
// and any transport or parse failure falls back to the deterministic
// builder.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxAttempts int
	logger      *logging.Logger
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) SuggestSquad(ctx context.Context, req usecase.OracleSquadRequest) (usecase.OracleSquadSuggestion, error) {
	if c.apiKey == "" {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: oracle api key is not configured", usecase.ErrDependencyUnavailable)
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return usecase.OracleSquadSuggestion{}, err
	}

	body, err := sonic.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return usecase.OracleSquadSuggestion{}, crerr.Wrap(err, "marshal oracle request")
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		suggestion, reqErr := c.complete(ctx, body)
		if reqErr == nil {
			return suggestion, nil
		}
		lastErr = reqErr
		if ctx.Err() != nil {
			break
		}
	}

	c.logger.WarnContext(ctx, "oracle request failed", "error", lastErr)
	return usecase.OracleSquadSuggestion{}, lastErr
}

func (c *Client) complete(ctx context.Context, body []byte) (usecase.OracleSquadSuggestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", strings.NewReader(string(body)))
	if err != nil {
		return usecase.OracleSquadSuggestion{}, crerr.Wrap(err, "build oracle request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: send oracle request: %v", usecase.ErrDependencyUnavailable, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: read oracle response: %v", usecase.ErrDependencyUnavailable, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: oracle status=%d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: decode oracle envelope: %v", usecase.ErrOracleParse, err)
	}
	if len(parsed.Choices) == 0 {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: oracle returned no choices", usecase.ErrOracleParse)
	}

	return parseSuggestion(parsed.Choices[0].Message.Content)
}

// parseSuggestion tolerates prose around the JSON object; models wrap
// answers in code fences or commentary even when told not to.
func parseSuggestion(content string) (usecase.OracleSquadSuggestion, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: no JSON object in oracle reply", usecase.ErrOracleParse)
	}

	var suggestion usecase.OracleSquadSuggestion
	if err := sonic.Unmarshal([]byte(content[start:end+1]), &suggestion); err != nil {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: decode oracle suggestion: %v", usecase.ErrOracleParse, err)
	}
	if len(suggestion.PlayerIDs) == 0 {
		return usecase.OracleSquadSuggestion{}, fmt.Errorf("%w: oracle suggestion has no players", usecase.ErrOracleParse)
	}

	return suggestion, nil
}

func buildPrompt(req usecase.OracleSquadRequest) (string, error) {
	candidates, err := sonic.Marshal(req.Candidates)
	if err != nil {
		return "", crerr.Wrap(err, "marshal oracle candidates")
	}
	formation, err := sonic.Marshal(req.Formation)
	if err != nil {
		return "", crerr.Wrap(err, "marshal oracle formation")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(fmt.Sprintf("Budget: %.1f\n", req.Budget))
	_, _ = buf.WriteString("Formation: ")
	_, _ = buf.Write(formation)
	_, _ = buf.WriteString("\nCandidates:\n")
	_, _ = buf.Write(candidates)

	return buf.String(), nil
}
