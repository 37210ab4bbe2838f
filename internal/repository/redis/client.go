package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "connect4:score:"

// NewClient connects to Redis and checks it answers. The caller decides
// whether a failure disables the scoreboard or stops startup.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Totals is the all-time tally of finished games.
type Totals struct {
	PlayerOneWins int64 `json:"playerOneWins"`
	PlayerTwoWins int64 `json:"playerTwoWins"`
	Draws         int64 `json:"draws"`
}

// Scoreboard keeps win/draw counters in Redis.
type Scoreboard struct {
	client redis.UniversalClient
}

func NewScoreboard(client redis.UniversalClient) *Scoreboard {
	return &Scoreboard{client: client}
}

func scoreKey(result domain.Result) (string, bool) {
	switch {
	case result.Status == domain.StatusDraw:
		return keyPrefix + "draw", true
	case result.Status == domain.StatusWon && result.Winner != domain.Empty:
		return keyPrefix + result.Winner.String(), true
	default:
		return "", false
	}
}

// Record bumps the counter matching the outcome of result.
func (s *Scoreboard) Record(ctx context.Context, result domain.Result) error {
	key, ok := scoreKey(result)
	if !ok {
		return fmt.Errorf("cannot score game %s with status %q", result.GameID, result.Status)
	}

	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Set(ctx, keyPrefix+"last_game", result.GameID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update scoreboard: %w", err)
	}
	return nil
}

func (s *Scoreboard) Totals(ctx context.Context) (Totals, error) {
	keys := []string{
		keyPrefix + domain.PlayerOne.String(),
		keyPrefix + domain.PlayerTwo.String(),
		keyPrefix + "draw",
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return Totals{}, fmt.Errorf("failed to read scoreboard: %w", err)
	}

	counts := make([]int64, len(keys))
	for i, v := range values {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return Totals{}, fmt.Errorf("unexpected scoreboard value for %s: %v", keys[i], v)
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return Totals{}, fmt.Errorf("unexpected scoreboard value for %s: %w", keys[i], err)
		}
		counts[i] = n
	}

	return Totals{PlayerOneWins: counts[0], PlayerTwoWins: counts[1], Draws: counts[2]}, nil
}

// LastGame returns the id of the most recently scored game, or "" if none.
func (s *Scoreboard) LastGame(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, keyPrefix+"last_game").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last game: %w", err)
	}
	return id, nil
}
