package notifications

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

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))

	id, ok := parseUserChannel("notifications:user:100")
	assert.True(t, ok)
	assert.Equal(t, uint(100), id)

	for _, bad := range []string{"notifications:user:", "notifications:user:abc", "chat:conv:1", "notifications:user:0"} {
		_, ok := parseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	ctx := context.Background()
	assert.NoError(t, n.PublishUser(ctx, 1, "x"))
	assert.NoError(t, n.PublishEvent(ctx, 1, EventMessageCreated, map[string]int{"id": 1}))
	assert.NoError(t, n.StartPatternSubscriber(ctx, func(string, string) {}))
}

func TestHub_RegisterLimits(t *testing.T) {
	hub := NewHub()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(5, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(5, nil)
	assert.ErrorIs(t, err, ErrUserFull)
	assert.Equal(t, maxConnsPerUser, hub.ConnCount(5))

	_, err = hub.Register(6, nil)
	assert.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	require.NoError(t, hub.Shutdown(context.Background()))
	_, err = hub.Register(7, nil)
	assert.ErrorIs(t, err, ErrHubClosed)
	assert.Zero(t, hub.ConnCount(5))
}

func TestHub_BroadcastOnlyReachesTargetUser(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, "hello")
	select {
	case got := <-a.Send:
		assert.Equal(t, "hello", string(got))
	default:
		t.Fatal("expected message for user 1")
	}
	assert.Len(t, b.Send, 0)

	hub.UnregisterClient(a)
	assert.Zero(t, hub.ConnCount(1))
	assert.NotPanics(t, func() { a.TrySend([]byte("late")) })
	hub.UnregisterClient(a)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(1, nil)
	require.NoError(t, err)

	for i := 0; i < sendBuffer; i++ {
		c.TrySend([]byte("x"))
	}
	assert.NotPanics(t, func() { c.TrySend([]byte("overflow")) })
	assert.Len(t, c.Send, sendBuffer)
}

func TestHub_StartWiringDeliversPublishedEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	hub := NewHub()
	client, err := hub.Register(9, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	require.NoError(t, n.PublishEvent(ctx, 9, EventMessageCreated, map[string]any{"content": "hi"}))

	var raw []byte
	require.Eventually(t, func() bool {
		select {
		case raw = <-client.Send:
			return true
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	var ev struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, EventMessageCreated, ev.Type)
	assert.Equal(t, "hi", ev.Payload["content"])

	require.NoError(t, n.PublishBroadcast(ctx, "maintenance"))
	assert.Eventually(t, func() bool {
		select {
		case m := <-client.Send:
			return string(m) == "maintenance"
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)
}
