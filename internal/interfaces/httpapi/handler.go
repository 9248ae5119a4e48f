package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
	"github.com/fantasyxi/fpl-insight/internal/usecase"
)

type Handler struct {
	syncService           *usecase.SyncService
	playerService         *usecase.PlayerService
	teamService           *usecase.TeamService
	fixtureService        *usecase.FixtureService
	scoringService        *usecase.ScoringService
	transferService       *usecase.TransferService
	recommendationService *usecase.RecommendationService
	statsService          *usecase.StatsService
	entryService          *usecase.EntryService
	logger                *logging.Logger
	validator             *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	playerService *usecase.PlayerService,
	teamService *usecase.TeamService,
	fixtureService *usecase.FixtureService,
	scoringService *usecase.ScoringService,
	transferService *usecase.TransferService,
	recommendationService *usecase.RecommendationService,
	statsService *usecase.StatsService,
	entryService *usecase.EntryService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:           syncService,
		playerService:         playerService,
		teamService:           teamService,
		fixtureService:        fixtureService,
		scoringService:        scoringService,
		transferService:       transferService,
		recommendationService: recommendationService,
		statsService:          statsService,
		entryService:          entryService,
		logger:                logger,
		validator:             validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody parses and validates a JSON request body.
func (h *Handler) decodeBody(r *http.Request, dst any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt64(r *http.Request, name string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryBool(r *http.Request, name string) bool {
	raw := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(name)))
	return raw == "true" || raw == "1" || raw == "yes"
}
