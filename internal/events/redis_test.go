package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPublishSubscribe(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()

	ch, cancel, err := NewRedisSubscriber(client).Subscribe(ctx, "s1")
	require.NoError(t, err)
	defer cancel()

	pub := NewRedisPublisher(client)
	require.NoError(t, pub.Dispatch(ctx, CartUpdated{Session: "s2", Count: 9}))
	require.NoError(t, pub.Dispatch(ctx, StepAdvanced{Session: "s1", Step: "payment-details"}))

	select {
	case env := <-ch:
		assert.Equal(t, TypeStepAdvanced, env.Type)
		var payload StepAdvanced
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, "payment-details", payload.Step)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestRedisPublishWireFormat(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	sub := mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe(Topic("s1"))

	require.NoError(t, NewRedisPublisher(client).Dispatch(ctx, CartUpdated{Session: "s1", Count: 2}))

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, Topic("s1"), msg.Channel)
		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(msg.Message), &env))
		assert.Equal(t, TypeCartUpdated, env.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("nothing published")
	}
}

func TestRedisSubscriberSkipsMalformed(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	ch, cancel, err := NewRedisSubscriber(client).Subscribe(ctx, "s1")
	require.NoError(t, err)
	defer cancel()

	mr.Publish(Topic("s1"), "{not json")
	require.NoError(t, NewRedisPublisher(client).Dispatch(ctx, CartUpdated{Session: "s1", Count: 1}))

	select {
	case env := <-ch:
		assert.Equal(t, TypeCartUpdated, env.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}
}

func TestRedisSubscribeServerDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	_, _, err := NewRedisSubscriber(client).Subscribe(context.Background(), "s1")
	assert.Error(t, err)
}
