package server

import (
	"fmt"
	"net/http"
	"testing"

	"skyhub/internal/models"
	"skyhub/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderAndPaymentFlow(t *testing.T) {
	_, app := newTestServer(t, nil, "strict_order_status=true")
	seller := signup(t, app, "seller")
	buyer := signup(t, app, "buyer")
	stranger := signup(t, app, "stranger")

	status, body := call(t, app, http.MethodPost, "/api/drones", droneBody(800), seller.Token)
	require.Equal(t, http.StatusCreated, status)
	drone := decode[models.Drone](t, body)

	status, _ = call(t, app, http.MethodPost, "/api/orders",
		map[string]any{"drone_id": drone.ID, "seller_id": buyer.User.ID}, buyer.Token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodPost, "/api/orders",
		map[string]any{"drone_id": drone.ID, "seller_id": seller.User.ID}, buyer.Token)
	require.Equal(t, http.StatusCreated, status, string(body))
	order := decode[models.Order](t, body)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	status, body = call(t, app, http.MethodGet, "/api/orders", nil, buyer.Token)
	require.Equal(t, http.StatusOK, status)
	orders := decode[[]models.Order](t, body)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].Drone)
	assert.Equal(t, drone.ID, orders[0].Drone.ID)

	statusPath := fmt.Sprintf("/api/orders/%d/status", order.ID)
	status, _ = call(t, app, http.MethodPatch, statusPath, map[string]string{"status": "shipped"}, stranger.Token)
	assert.Equal(t, http.StatusForbidden, status)

	// strict ordering refuses to skip a step
	status, _ = call(t, app, http.MethodPatch, statusPath, map[string]string{"status": "delivered"}, seller.Token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodPatch, statusPath, map[string]string{"status": "shipped"}, seller.Token)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, models.OrderStatusShipped, decode[models.Order](t, body).Status)

	status, body = call(t, app, http.MethodPost, "/api/payments",
		map[string]any{"order_id": order.ID, "amount": 800}, stranger.Token)
	assert.Equal(t, http.StatusForbidden, status, string(body))

	status, body = call(t, app, http.MethodPost, "/api/payments",
		map[string]any{"order_id": order.ID, "amount": 800}, buyer.Token)
	require.Equal(t, http.StatusCreated, status, string(body))
	payment := decode[models.Payment](t, body)
	assert.Equal(t, buyer.User.ID, payment.UserID)

	payPath := fmt.Sprintf("/api/payments/%d/status", payment.ID)
	status, _ = call(t, app, http.MethodPatch, payPath, map[string]string{"status": "completed"}, seller.Token)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodPatch, payPath, map[string]string{"status": "completed"}, buyer.Token)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, models.PaymentStatus("completed"), decode[models.Payment](t, body).Status)

	status, body = call(t, app, http.MethodGet, "/api/payments", nil, buyer.Token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Payment](t, body), 1)
}

func TestMessagesConversation(t *testing.T) {
	_, app := newTestServer(t, nil, "")
	alice := signup(t, app, "alice")
	bobby := signup(t, app, "bobby")

	status, _ := call(t, app, http.MethodPost, "/api/messages",
		map[string]any{"receiver_id": 9999, "content": "hi"}, alice.Token)
	assert.Equal(t, http.StatusNotFound, status)

	for _, msg := range []struct {
		from    authResponse
		to      authResponse
		content string
	}{
		{alice, bobby, "is the drone still available?"},
		{bobby, alice, "yes"},
	} {
		status, body := call(t, app, http.MethodPost, "/api/messages",
			map[string]any{"receiver_id": msg.to.User.ID, "content": msg.content}, msg.from.Token)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body := call(t, app, http.MethodGet, fmt.Sprintf("/api/messages/%d", bobby.User.ID), nil, alice.Token)
	require.Equal(t, http.StatusOK, status)
	history := decode[[]models.Message](t, body)
	require.Len(t, history, 2)
	assert.Equal(t, "is the drone still available?", history[0].Content)
	assert.Equal(t, "yes", history[1].Content)
}

func TestForumAndReactions(t *testing.T) {
	_, app := newTestServer(t, nil, "")
	author := signup(t, app, "author")
	reader := signup(t, app, "reader")

	status, body := call(t, app, http.MethodPost, "/api/forum",
		map[string]string{"title": "Best beginner drone?", "body": "Looking for advice"}, author.Token)
	require.Equal(t, http.StatusCreated, status, string(body))
	entry := decode[models.ForumEntry](t, body)

	entryPath := fmt.Sprintf("/api/forum/%d", entry.ID)
	status, _ = call(t, app, http.MethodPut, entryPath, map[string]string{"title": "hijack"}, reader.Token)
	assert.Equal(t, http.StatusForbidden, status)

	for _, kind := range []string{"like", "like", "dislike"} {
		status, body = call(t, app, http.MethodPost, "/api/forum/reactions",
			map[string]any{"post_id": entry.ID, "reaction_type": kind}, reader.Token)
		require.Equal(t, http.StatusCreated, status, string(body))
	}
	status, _ = call(t, app, http.MethodPost, "/api/forum/reactions",
		map[string]any{"post_id": entry.ID, "reaction_type": "love"}, reader.Token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodGet,
		fmt.Sprintf("/api/forum/reactions/count?post_id=%d&reaction_type=like", entry.ID), nil, "")
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, int64(2), decode[service.ReactionCount](t, body).Count)

	status, body = call(t, app, http.MethodGet, fmt.Sprintf("/api/forum/reactions/%d?limit=2", entry.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.PostReaction](t, body), 2)

	status, _ = call(t, app, http.MethodDelete, entryPath, nil, author.Token)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, app, http.MethodGet, entryPath, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFeatureFlagsAdminOnly(t *testing.T) {
	s, app := newTestServer(t, nil, "cascade_soft_delete=true")
	user := signup(t, app, "regular")

	status, _ := call(t, app, http.MethodGet, "/api/admin/feature-flags", nil, user.Token)
	assert.Equal(t, http.StatusForbidden, status)

	_, err := s.userService.SetRole(t.Context(), user.User.ID, "admin")
	require.NoError(t, err)

	status, body := call(t, app, http.MethodGet, "/api/admin/feature-flags", nil, user.Token)
	require.Equal(t, http.StatusOK, status, string(body))
	flags := decode[featureFlagsResponse](t, body)
	assert.True(t, flags.Effective["cascade_soft_delete"])
	assert.False(t, flags.Effective["strict_order_status"])
	assert.Equal(t, "true", flags.Configured["cascade_soft_delete"])
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	_, app := newTestServer(t, nil, "")
	user := signup(t, app, "socket")

	status, _ := call(t, app, http.MethodGet, "/api/ws", nil, user.Token)
	assert.Equal(t, http.StatusUpgradeRequired, status)

	status, _ = call(t, app, http.MethodGet, "/api/ws?token=garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
