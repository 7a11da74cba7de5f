package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// DefaultRedisChannel is the pub/sub channel shared by all instances.
const DefaultRedisChannel = "advisor:messages"

// envelope is the pub/sub payload.
type envelope struct {
	SessionID string              `json:"sessionId"`
	Message   *models.ChatMessage `json:"message"`
}

// RedisRelay publishes through Redis so listeners attached to any instance
// receive the message. Local delivery happens when the instance's own
// forwarder receives the publish back from Redis.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  zerolog.Logger
	cancel  context.CancelFunc
	done    chan struct{}
}

// RedisRelayConfig holds the configuration for a RedisRelay.
type RedisRelayConfig struct {
	Client  *redis.Client
	Channel string
	Hub     *Hub
	Logger  *zerolog.Logger
}

// NewRedisRelay subscribes to the channel and starts forwarding into the hub.
func NewRedisRelay(ctx context.Context, cfg *RedisRelayConfig) (*RedisRelay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.Hub == nil {
		return nil, fmt.Errorf("hub is required")
	}

	r := &RedisRelay{
		client:  cfg.Client,
		channel: cfg.Channel,
		hub:     cfg.Hub,
		logger:  log.Logger,
		done:    make(chan struct{}),
	}
	if r.channel == "" {
		r.channel = DefaultRedisChannel
	}
	if cfg.Logger != nil {
		r.logger = *cfg.Logger
	}

	sub := r.client.Subscribe(ctx, r.channel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	fwdCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	go r.forward(fwdCtx, sub)
	return r, nil
}

func (r *RedisRelay) forward(ctx context.Context, sub *redis.PubSub) {
	defer close(r.done)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok || m == nil {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil || env.Message == nil {
				r.logger.Warn().Err(err).Msg("bad broadcast payload")
				continue
			}
			_ = r.hub.Publish(ctx, env.SessionID, env.Message)
		}
	}
}

// Subscribe registers a local listener.
func (r *RedisRelay) Subscribe(sessionID string) *Listener {
	return r.hub.Subscribe(sessionID)
}

// Unsubscribe removes a local listener.
func (r *RedisRelay) Unsubscribe(l *Listener) {
	r.hub.Unsubscribe(l)
}

// Publish sends msg to every instance through Redis.
func (r *RedisRelay) Publish(ctx context.Context, sessionID string, msg *models.ChatMessage) error {
	raw, err := json.Marshal(envelope{SessionID: sessionID, Message: msg})
	if err != nil {
		return fmt.Errorf("marshal broadcast: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Close stops the forwarder and closes local listeners. The Redis client is
// owned by the caller.
func (r *RedisRelay) Close() error {
	r.cancel()
	<-r.done
	return r.hub.Close()
}
