package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/history"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	"github.com/fantasyxi/fpl-insight/internal/domain/syncstate"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type SyncConfig struct {
	RefreshInterval     time.Duration
	BackfillWorkers     int
	HistoryFetchWorkers int
}

// CollectionReport describes the outcome for one synced collection.
// InvalidRecords counts upstream rows that failed validation and were
// skipped without aborting the batch.
type CollectionReport struct {
	Attempted      bool   `json:"attempted"`
	Synced         int    `json:"synced"`
	InvalidRecords int    `json:"invalid_records"`
	Error          string `json:"error,omitempty"`
}

func (r CollectionReport) ok() bool {
	return r.Attempted && r.Error == ""
}

// SyncReport is the per-collection outcome of one sync pass. Success
// tracks the "data usable" bar: teams and players made it in. Fixture
// or stats failures are reported but not fatal.
type SyncReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Skipped    bool      `json:"skipped"`
	Success    bool      `json:"success"`
	Gameweek   int       `json:"gameweek,omitempty"`

	Teams    CollectionReport `json:"teams"`
	Players  CollectionReport `json:"players"`
	Fixtures CollectionReport `json:"fixtures"`
	Stats    CollectionReport `json:"stats"`
}

// SyncStatus reports freshness for the status endpoint.
type SyncStatus struct {
	LastFullSyncAt  *time.Time    `json:"last_full_sync_at,omitempty"`
	Stale           bool          `json:"stale"`
	RefreshInterval time.Duration `json:"refresh_interval"`
}

// SyncService reconciles upstream data into the local store. One pass
// covers four collections in dependency order: teams, players, fixtures,
// then current-gameweek live stats. Collections fail independently.
type SyncService struct {
	provider    DataProvider
	teamRepo    team.Repository
	playerRepo  player.Repository
	fixtureRepo fixture.Repository
	statsRepo   playerstats.Repository
	historyRepo history.Repository
	stateRepo   syncstate.Repository
	cfg         SyncConfig
	logger      *logging.Logger
	now         func() time.Time

	mu sync.Mutex
}

func NewSyncService(
	provider DataProvider,
	teamRepo team.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	statsRepo playerstats.Repository,
	historyRepo history.Repository,
	stateRepo syncstate.Repository,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 6 * time.Hour
	}
	if cfg.BackfillWorkers < 1 {
		cfg.BackfillWorkers = 4
	}
	if cfg.HistoryFetchWorkers < 1 {
		cfg.HistoryFetchWorkers = 2
	}

	return &SyncService{
		provider:    provider,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		fixtureRepo: fixtureRepo,
		statsRepo:   statsRepo,
		historyRepo: historyRepo,
		stateRepo:   stateRepo,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Sync runs one reconciliation pass. With force=false a pass inside the
// refresh interval is skipped. Only one pass runs at a time; callers are
// expected to retry on a schedule rather than in a loop.
func (s *SyncService) Sync(ctx context.Context, force bool) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Sync")
	defer span.End()

	if s.provider == nil {
		return SyncReport{}, fmt.Errorf("%w: no data provider configured", ErrDependencyUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report := SyncReport{StartedAt: s.now()}

	if !force {
		state, found, err := s.stateRepo.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "read sync state failed, treating data as stale", "error", err)
		} else if found && !state.Stale(report.StartedAt, s.cfg.RefreshInterval) {
			report.Skipped = true
			report.Success = true
			report.FinishedAt = s.now()
			s.logger.InfoContext(ctx, "sync skipped, data still fresh",
				"last_full_sync", state.LastFullSyncAt, "refresh_interval", s.cfg.RefreshInterval)
			return report, nil
		}
	}

	// The two upstream fetches are independent; run them together and
	// upsert in dependency order afterwards.
	var bootstrap ExternalBootstrap
	var bootstrapErr error
	var fixtures []ExternalFixture
	var fixturesErr error

	fetch := pool.New().WithContext(ctx)
	fetch.Go(func(ctx context.Context) error {
		bootstrap, bootstrapErr = s.provider.FetchBootstrap(ctx)
		return nil
	})
	fetch.Go(func(ctx context.Context) error {
		fixtures, fixturesErr = s.provider.FetchFixtures(ctx)
		return nil
	})
	_ = fetch.Wait()

	report.Teams = s.syncTeams(ctx, bootstrap, bootstrapErr)
	report.Players = s.syncPlayers(ctx, bootstrap, bootstrapErr)
	report.Fixtures = s.syncFixtures(ctx, fixtures, fixturesErr)

	gameweek := currentGameweekFromEvents(bootstrap.Events)
	if gameweek == 0 {
		gameweek = CurrentGameweekFromFixtures(mapExternalFixtures(fixtures, s.now()))
	}
	report.Gameweek = gameweek
	report.Stats = s.syncGameweekStats(ctx, gameweek)

	report.Success = report.Teams.ok() && report.Players.ok()
	report.FinishedAt = s.now()

	if report.Success && report.Fixtures.ok() && report.Stats.ok() {
		if err := s.stateRepo.Save(ctx, syncstate.State{LastFullSyncAt: report.FinishedAt}); err != nil {
			s.logger.WarnContext(ctx, "record sync timestamp failed", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "sync finished",
		"success", report.Success,
		"teams", report.Teams.Synced,
		"players", report.Players.Synced,
		"fixtures", report.Fixtures.Synced,
		"stats", report.Stats.Synced,
		"gameweek", gameweek,
	)

	return report, nil
}

// Status reports when the last full sync finished and whether it is due.
func (s *SyncService) Status(ctx context.Context) (SyncStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Status")
	defer span.End()

	status := SyncStatus{Stale: true, RefreshInterval: s.cfg.RefreshInterval}
	state, found, err := s.stateRepo.Get(ctx)
	if err != nil {
		return SyncStatus{}, fmt.Errorf("read sync state: %w", err)
	}
	if found && !state.LastFullSyncAt.IsZero() {
		at := state.LastFullSyncAt
		status.LastFullSyncAt = &at
		status.Stale = state.Stale(s.now(), s.cfg.RefreshInterval)
	}

	return status, nil
}

// BackfillGameweekStats fetches and upserts live stats for an inclusive
// gameweek range over a bounded worker pool. Gameweeks fail
// independently, mirroring per-collection isolation in Sync.
func (s *SyncService) BackfillGameweekStats(ctx context.Context, fromGW, toGW int) (map[int]CollectionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.BackfillGameweekStats")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: no data provider configured", ErrDependencyUnavailable)
	}
	if fromGW < 1 || toGW < fromGW {
		return nil, fmt.Errorf("%w: invalid gameweek range %d-%d", ErrInvalidInput, fromGW, toGW)
	}

	workers, err := ants.NewPool(s.cfg.BackfillWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var mu sync.Mutex
	reports := make(map[int]CollectionReport, toGW-fromGW+1)
	var wg sync.WaitGroup

	for gw := fromGW; gw <= toGW; gw++ {
		gw := gw
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			result := s.syncGameweekStats(ctx, gw)
			mu.Lock()
			reports[gw] = result
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			reports[gw] = CollectionReport{Attempted: false, Error: submitErr.Error()}
			mu.Unlock()
		}
	}
	wg.Wait()

	return reports, nil
}

// LoadSeasonHistory fetches completed past seasons for every known
// player over a bounded worker pool. Prior-season rows never change, so
// players that already have history are skipped; the operation is a
// one-off cold-start load, not part of the regular sync pass.
func (s *SyncService) LoadSeasonHistory(ctx context.Context) (CollectionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.LoadSeasonHistory")
	defer span.End()

	if s.provider == nil {
		return CollectionReport{}, fmt.Errorf("%w: no data provider configured", ErrDependencyUnavailable)
	}
	if s.historyRepo == nil {
		return CollectionReport{}, fmt.Errorf("%w: no history store configured", ErrDependencyUnavailable)
	}

	players, err := s.playerRepo.List(ctx, player.Filter{})
	if err != nil {
		return CollectionReport{}, fmt.Errorf("list players: %w", err)
	}

	workers, err := ants.NewPool(s.cfg.HistoryFetchWorkers)
	if err != nil {
		return CollectionReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	report := CollectionReport{Attempted: true}
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for _, p := range players {
		playerID := p.ID

		existing, err := s.historyRepo.ListByPlayer(ctx, playerID)
		if err != nil {
			return CollectionReport{}, fmt.Errorf("list history for player %d: %w", playerID, err)
		}
		if len(existing) > 0 {
			continue
		}

		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()

			seasons, fetchErr := s.provider.FetchPlayerHistory(ctx, playerID)
			if fetchErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: player %d: %v", ErrUpstreamFetch, playerID, fetchErr)
				}
				mu.Unlock()
				return
			}

			items, invalid := mapExternalSeasonHistory(playerID, seasons, s.now())
			if upsertErr := s.historyRepo.Upsert(ctx, items); upsertErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("upsert history for player %d: %w", playerID, upsertErr)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			report.Synced += len(items)
			report.InvalidRecords += invalid
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit history fetch for player %d: %w", playerID, submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		report.Error = firstErr.Error()
	}

	s.logger.InfoContext(ctx, "season history load finished",
		"players", len(players),
		"rows", report.Synced,
		"invalid", report.InvalidRecords,
		"error", report.Error,
	)

	return report, nil
}

func (s *SyncService) syncTeams(ctx context.Context, bootstrap ExternalBootstrap, fetchErr error) CollectionReport {
	report := CollectionReport{Attempted: true}
	if fetchErr != nil {
		report.Error = fmt.Errorf("%w: %v", ErrUpstreamFetch, fetchErr).Error()
		return report
	}

	items, invalid := mapExternalTeams(bootstrap.Teams, s.now())
	report.InvalidRecords = invalid
	if err := s.teamRepo.Upsert(ctx, items); err != nil {
		report.Error = fmt.Sprintf("upsert teams: %v", err)
		return report
	}
	report.Synced = len(items)
	return report
}

func (s *SyncService) syncPlayers(ctx context.Context, bootstrap ExternalBootstrap, fetchErr error) CollectionReport {
	report := CollectionReport{Attempted: true}
	if fetchErr != nil {
		report.Error = fmt.Errorf("%w: %v", ErrUpstreamFetch, fetchErr).Error()
		return report
	}

	items, invalid := mapExternalPlayers(bootstrap.Players, s.now())
	report.InvalidRecords = invalid
	if err := s.playerRepo.Upsert(ctx, items); err != nil {
		report.Error = fmt.Sprintf("upsert players: %v", err)
		return report
	}
	report.Synced = len(items)
	return report
}

func (s *SyncService) syncFixtures(ctx context.Context, items []ExternalFixture, fetchErr error) CollectionReport {
	report := CollectionReport{Attempted: true}
	if fetchErr != nil {
		report.Error = fmt.Errorf("%w: %v", ErrUpstreamFetch, fetchErr).Error()
		return report
	}

	mapped := mapExternalFixtures(items, s.now())
	valid := make([]fixture.Fixture, 0, len(mapped))
	for _, item := range mapped {
		if err := item.Validate(); err != nil {
			report.InvalidRecords++
			continue
		}
		valid = append(valid, item)
	}
	if err := s.fixtureRepo.Upsert(ctx, valid); err != nil {
		report.Error = fmt.Sprintf("upsert fixtures: %v", err)
		return report
	}
	report.Synced = len(valid)
	return report
}

func (s *SyncService) syncGameweekStats(ctx context.Context, gameweek int) CollectionReport {
	report := CollectionReport{Attempted: true}
	if gameweek <= 0 {
		// Pre-season: nothing to fetch yet, and that is not a failure.
		return report
	}

	stats, err := s.provider.FetchGameweekLive(ctx, gameweek)
	if err != nil {
		report.Error = fmt.Errorf("%w: %v", ErrUpstreamFetch, err).Error()
		return report
	}

	items, invalid := mapExternalGameweekStats(stats, s.now())
	report.InvalidRecords = invalid
	if err := s.statsRepo.Upsert(ctx, items); err != nil {
		report.Error = fmt.Sprintf("upsert gameweek stats: %v", err)
		return report
	}
	report.Synced = len(items)
	return report
}

func currentGameweekFromEvents(events []ExternalEvent) int {
	for _, event := range events {
		if event.IsCurrent {
			return event.ID
		}
	}
	return 0
}

func mapExternalTeams(items []ExternalTeam, now time.Time) ([]team.Team, int) {
	out := make([]team.Team, 0, len(items))
	invalid := 0
	for _, item := range items {
		mapped := team.Team{
			ID:                  item.ID,
			Code:                item.Code,
			Name:                item.Name,
			ShortName:           item.ShortName,
			Strength:            item.Strength,
			StrengthOverallHome: item.StrengthOverallHome,
			StrengthOverallAway: item.StrengthOverallAway,
			StrengthAttackHome:  item.StrengthAttackHome,
			StrengthAttackAway:  item.StrengthAttackAway,
			StrengthDefenceHome: item.StrengthDefenceHome,
			StrengthDefenceAway: item.StrengthDefenceAway,
			UpdatedAt:           now,
		}
		if err := mapped.Validate(); err != nil {
			invalid++
			continue
		}
		out = append(out, mapped)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, invalid
}

func mapExternalPlayers(items []ExternalPlayer, now time.Time) ([]player.Player, int) {
	out := make([]player.Player, 0, len(items))
	invalid := 0
	for _, item := range items {
		position, err := player.PositionFromCode(item.PositionCode)
		if err != nil {
			invalid++
			continue
		}
		mapped := player.Player{
			ID:                       item.ID,
			Code:                     item.Code,
			FirstName:                item.FirstName,
			SecondName:               item.SecondName,
			WebName:                  item.WebName,
			TeamID:                   item.TeamID,
			Position:                 position,
			Price:                    int64(item.NowCost),
			TotalPoints:              item.TotalPoints,
			EventPoints:              item.EventPoints,
			Form:                     item.Form,
			PointsPerGame:            item.PointsPerGame,
			SelectedByPercent:        item.SelectedByPercent,
			Minutes:                  item.Minutes,
			GoalsScored:              item.GoalsScored,
			Assists:                  item.Assists,
			CleanSheets:              item.CleanSheets,
			GoalsConceded:            item.GoalsConceded,
			YellowCards:              item.YellowCards,
			RedCards:                 item.RedCards,
			Saves:                    item.Saves,
			Bonus:                    item.Bonus,
			BPS:                      item.BPS,
			Influence:                item.Influence,
			Creativity:               item.Creativity,
			Threat:                   item.Threat,
			ICTIndex:                 item.ICTIndex,
			ExpectedGoals:            item.ExpectedGoals,
			ExpectedAssists:          item.ExpectedAssists,
			ExpectedGoalInvolvements: item.ExpectedGoalInvolvements,
			Status:                   player.AvailabilityFromStatus(item.Status),
			News:                     item.News,
			TransfersIn:              item.TransfersIn,
			TransfersOut:             item.TransfersOut,
			UpdatedAt:                now,
		}
		if err := mapped.Validate(); err != nil {
			invalid++
			continue
		}
		out = append(out, mapped)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, invalid
}

func mapExternalFixtures(items []ExternalFixture, now time.Time) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		out = append(out, fixture.Fixture{
			ID:                  item.ID,
			Code:                item.Code,
			Gameweek:            item.Gameweek,
			HomeTeamID:          item.HomeTeamID,
			AwayTeamID:          item.AwayTeamID,
			KickoffAt:           cloneTimePtr(item.KickoffAt),
			HomeScore:           cloneIntPtr(item.HomeScore),
			AwayScore:           cloneIntPtr(item.AwayScore),
			Started:             item.Started,
			Finished:            item.Finished,
			FinishedProvisional: item.FinishedProvisional,
			HomeDifficulty:      item.HomeDifficulty,
			AwayDifficulty:      item.AwayDifficulty,
			Minutes:             item.Minutes,
			UpdatedAt:           now,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func mapExternalGameweekStats(items []ExternalPlayerGameweekStat, now time.Time) ([]playerstats.GameweekStats, int) {
	out := make([]playerstats.GameweekStats, 0, len(items))
	invalid := 0
	for _, item := range items {
		mapped := playerstats.GameweekStats{
			PlayerID:                 item.PlayerID,
			Gameweek:                 item.Gameweek,
			Minutes:                  item.Minutes,
			GoalsScored:              item.GoalsScored,
			Assists:                  item.Assists,
			CleanSheets:              item.CleanSheets,
			GoalsConceded:            item.GoalsConceded,
			OwnGoals:                 item.OwnGoals,
			PenaltiesSaved:           item.PenaltiesSaved,
			PenaltiesMissed:          item.PenaltiesMissed,
			YellowCards:              item.YellowCards,
			RedCards:                 item.RedCards,
			Saves:                    item.Saves,
			Bonus:                    item.Bonus,
			BPS:                      item.BPS,
			Influence:                item.Influence,
			Creativity:               item.Creativity,
			Threat:                   item.Threat,
			ICTIndex:                 item.ICTIndex,
			ExpectedGoals:            item.ExpectedGoals,
			ExpectedAssists:          item.ExpectedAssists,
			ExpectedGoalInvolvements: item.ExpectedGoalInvolvements,
			ExpectedGoalsConceded:    item.ExpectedGoalsConceded,
			TotalPoints:              item.TotalPoints,
			InDreamteam:              item.InDreamteam,
			UpdatedAt:                now,
		}
		if err := mapped.Validate(); err != nil {
			invalid++
			continue
		}
		out = append(out, mapped)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, invalid
}

func mapExternalSeasonHistory(playerID int, items []ExternalSeasonHistory, now time.Time) ([]history.SeasonStats, int) {
	out := make([]history.SeasonStats, 0, len(items))
	invalid := 0
	for _, item := range items {
		mapped := history.SeasonStats{
			PlayerID:      playerID,
			Season:        item.Season,
			TotalPoints:   item.TotalPoints,
			Minutes:       item.Minutes,
			GoalsScored:   item.GoalsScored,
			Assists:       item.Assists,
			CleanSheets:   item.CleanSheets,
			Bonus:         item.Bonus,
			PointsPerGame: item.PointsPerGame,
			StartPrice:    int64(item.StartPrice),
			EndPrice:      int64(item.EndPrice),
			LoadedAt:      now,
		}
		if err := mapped.Validate(); err != nil {
			invalid++
			continue
		}
		out = append(out, mapped)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out, invalid
}

func cloneIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	out := *src
	return &out
}

func cloneTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	out := *src
	return &out
}
