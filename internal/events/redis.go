package events

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisPublisher publishes envelopes on the session's channel so every
// server instance can push them to its websocket clients.
type RedisPublisher struct {
	client redis.UniversalClient
}

func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Dispatch(ctx context.Context, event Event) error {
	env, err := Encode(event)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "encode envelope")
	}
	if err := p.client.Publish(ctx, Topic(event.SessionID()), data).Err(); err != nil {
		return errors.Wrapf(err, "publish %s", event.Type())
	}
	return nil
}

type RedisSubscriber struct {
	client redis.UniversalClient
}

func NewRedisSubscriber(client redis.UniversalClient) *RedisSubscriber {
	return &RedisSubscriber{client: client}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, sessionID string) (<-chan Envelope, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := s.client.Subscribe(ctx, Topic(sessionID))
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, nil, errors.Wrap(err, "redis subscribe")
	}

	out := make(chan Envelope, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.WithError(err).WithField("channel", msg.Channel).Warn("malformed notification")
					continue
				}
				select {
				case out <- env:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, cancel, nil
}
