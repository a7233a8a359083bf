package backplane

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Channel all instances meet on. Frames carry the room name themselves, so a
// single channel keeps subscription management trivial.
const redisChannel = "codepair.rooms"

// Redis is a Backplane over redis pub/sub.
type Redis struct {
	client *redis.Client
	log    *zerolog.Logger
}

// NewRedis connects to redis and verifies the connection. Callers should
// treat a connection error as "run single-instance", not as fatal.
func NewRedis(ctx context.Context, addr string, logger *zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &Redis{client: client, log: logger}, nil
}

func (r *Redis) Publish(ctx context.Context, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if err := r.client.Publish(ctx, redisChannel, data).Err(); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

func (r *Redis) Subscribe(ctx context.Context) (<-chan Frame, error) {
	sub := r.client.Subscribe(ctx, redisChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	frames := make(chan Frame)
	go func() {
		defer close(frames)
		defer sub.Close()
		for {
			select {
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var f Frame
				if err := json.Unmarshal([]byte(msg.Payload), &f); err != nil {
					r.log.Warn().Err(err).Msg("drop malformed backplane frame")
					continue
				}
				select {
				case frames <- f:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return frames, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
