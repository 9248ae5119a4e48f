// Package cache wraps repositories with a read-through TTL cache.
// Upserts invalidate by key prefix, so readers never observe data
// older than one sync cycle plus the TTL.
package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	basecache "github.com/fantasyxi/fpl-insight/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) Upsert(ctx context.Context, items []team.Team) error {
	if err := r.next.Upsert(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:id:"+strconv.Itoa(teamID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) Upsert(ctx context.Context, items []player.Player) error {
	if err := r.next.Upsert(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:id:"+strconv.Itoa(playerID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

func playerListKey(filter player.Filter) string {
	var b strings.Builder
	b.WriteString("player:list:")
	b.WriteString(string(filter.Position))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(filter.TeamID))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(filter.MaxPrice, 10))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(filter.MinPoints))
	b.WriteByte(':')
	b.WriteString(strings.ToLower(strings.TrimSpace(filter.Search)))
	b.WriteByte(':')
	b.WriteString(strconv.FormatBool(filter.OnlyActive))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(filter.Limit))
	return b.String()
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) Upsert(ctx context.Context, items []fixture.Fixture) error {
	if err := r.next.Upsert(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fixture:")
	return nil
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	return r.cachedList(ctx, "fixture:list", func(ctx context.Context) ([]fixture.Fixture, error) {
		return r.next.List(ctx)
	})
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	key := "fixture:gw:" + strconv.Itoa(gameweek)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]fixture.Fixture, error) {
		return r.next.ListByGameweek(ctx, gameweek)
	})
}

func (r *FixtureRepository) ListByTeam(ctx context.Context, teamID int) ([]fixture.Fixture, error) {
	key := "fixture:team:" + strconv.Itoa(teamID)
	return r.cachedList(ctx, key, func(ctx context.Context) ([]fixture.Fixture, error) {
		return r.next.ListByTeam(ctx, teamID)
	})
}

func (r *FixtureRepository) cachedList(ctx context.Context, key string, load func(context.Context) ([]fixture.Fixture, error)) ([]fixture.Fixture, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

var (
	_ team.Repository    = (*TeamRepository)(nil)
	_ player.Repository  = (*PlayerRepository)(nil)
	_ fixture.Repository = (*FixtureRepository)(nil)
)
