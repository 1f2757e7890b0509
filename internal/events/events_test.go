package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labubu_store/internal/models"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Dispatch(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestEncode(t *testing.T) {
	env, err := Encode(StepAdvanced{Session: "s1", Step: "shipping-method"})

	require.NoError(t, err)
	assert.Equal(t, TypeStepAdvanced, env.Type)
	assert.JSONEq(t, `{"step":"shipping-method"}`, string(env.Payload))
}

func TestMultiDispatchesToAll(t *testing.T) {
	failing := &recorder{err: errors.New("boom")}
	ok := &recorder{}

	err := Multi{failing, ok}.Dispatch(context.Background(), StepAdvanced{Session: "s1"})

	assert.ErrorContains(t, err, "boom")
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestLogDispatcher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	d := &LogDispatcher{Logger: logger}

	order := models.OrderConfirmation{ConfirmationID: "LB1234ABCD", Total: decimal.RequireFromString("113.47")}
	require.NoError(t, d.Dispatch(context.Background(), OrderPlaced{Session: "s1", Order: order}))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, "order placed", entry.Message)
	assert.Equal(t, "LB1234ABCD", entry.Data["order"])
	assert.Equal(t, "113.47", entry.Data["total"])
	assert.Equal(t, "s1", entry.Data["session"])
}

func TestHub(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, "s1")
	require.NoError(t, err)
	other, cancelOther, _ := hub.Subscribe(ctx, "s2")
	defer cancelOther()

	require.NoError(t, hub.Dispatch(ctx, CartUpdated{Session: "s1", Count: 2}))

	select {
	case env := <-ch:
		assert.Equal(t, TypeCartUpdated, env.Type)
		var payload CartUpdated
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, 2, payload.Count)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}

	select {
	case env := <-other:
		t.Fatalf("unexpected notification for another session: %s", env.Type)
	default:
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers("s1"))
	assert.Equal(t, 1, hub.Subscribers("s2"))
}

func TestHubUnsubscribesWhenContextEnds(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _, err := hub.Subscribe(ctx, "s1")
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	hub := NewHub()
	ch, cancel, _ := hub.Subscribe(context.Background(), "s1")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Topic("s1"), Envelope{Type: TypeStepAdvanced})
	}
	assert.Len(t, ch, subscriberBuffer)
}
