// Package redis keeps the adventure scoreboard in Redis: per-user category
// tallies live in hashes, the weekly leaderboard in a single sorted set.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/adventure/internal/config"
	"github.com/cory-johannsen/adventure/internal/game/encounter"
)

var _ encounter.Scoreboard = (*Scoreboard)(nil)

const (
	tallyKeyPrefix = "adventure:tally:"
	weeklyKey      = "adventure:weekly"
)

// Connect opens a Redis client from the given configuration.
//
// Precondition: cfg must contain valid connection parameters.
// Postcondition: Returns a connected client or a non-nil error. The client is
// ready for commands upon successful return.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// WeeklyEntry is one row of the weekly leaderboard.
type WeeklyEntry struct {
	UserID string
	Score  int64
}

// Scoreboard records adventure outcomes and weekly scores.
type Scoreboard struct {
	client redis.UniversalClient
}

// NewScoreboard creates a Scoreboard backed by the given client.
//
// Precondition: client must be a valid, open Redis client.
func NewScoreboard(client redis.UniversalClient) *Scoreboard {
	return &Scoreboard{client: client}
}

// RecordAdventure bumps the user's counter for every category plus the
// wins-or-loses counter, in a single pipeline.
//
// Postcondition: All counters are incremented, or none are touched and a
// non-nil error is returned.
func (b *Scoreboard) RecordAdventure(ctx context.Context, userID string, categories []string, won bool) error {
	outcome := "loses"
	if won {
		outcome = "wins"
	}

	key := tallyKey(userID)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, cat := range categories {
			pipe.HIncrBy(ctx, key, cat, 1)
		}
		pipe.HIncrBy(ctx, key, outcome, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording adventure: %w", err)
	}
	return nil
}

// AddWeekly adds n to the user's weekly score.
func (b *Scoreboard) AddWeekly(ctx context.Context, userID string, n int64) error {
	if err := b.client.ZIncrBy(ctx, weeklyKey, float64(n), userID).Err(); err != nil {
		return fmt.Errorf("bumping weekly score: %w", err)
	}
	return nil
}

// Tally returns the user's counter for one category. Users and categories
// never recorded report zero.
func (b *Scoreboard) Tally(ctx context.Context, userID, category string) (int64, error) {
	n, err := b.client.HGet(ctx, tallyKey(userID), category).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading tally: %w", err)
	}
	return n, nil
}

// Tallies returns all of the user's counters keyed by category.
func (b *Scoreboard) Tallies(ctx context.Context, userID string) (map[string]int64, error) {
	raw, err := b.client.HGetAll(ctx, tallyKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading tallies: %w", err)
	}

	tallies := make(map[string]int64, len(raw))
	for cat, val := range raw {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing tally %q for %s: %w", val, cat, err)
		}
		tallies[cat] = n
	}
	return tallies, nil
}

// Weekly returns the user's weekly score, zero when unrecorded.
func (b *Scoreboard) Weekly(ctx context.Context, userID string) (int64, error) {
	score, err := b.client.ZScore(ctx, weeklyKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading weekly score: %w", err)
	}
	return int64(score), nil
}

// TopWeekly returns the n highest weekly scores, best first. Ties order by
// user id so the board is stable.
func (b *Scoreboard) TopWeekly(ctx context.Context, n int) ([]WeeklyEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := b.client.ZRevRangeWithScores(ctx, weeklyKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading weekly leaderboard: %w", err)
	}

	entries := make([]WeeklyEntry, 0, len(rows))
	for _, row := range rows {
		id, ok := row.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, WeeklyEntry{UserID: id, Score: int64(row.Score)})
	}
	// ZREVRANGE breaks ties in reverse lexical order; flip them back.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries, nil
}

// ResetWeekly wipes the weekly leaderboard for a fresh week.
func (b *Scoreboard) ResetWeekly(ctx context.Context) error {
	if err := b.client.Del(ctx, weeklyKey).Err(); err != nil {
		return fmt.Errorf("resetting weekly leaderboard: %w", err)
	}
	return nil
}

func tallyKey(userID string) string {
	return tallyKeyPrefix + userID
}
