package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEvent(t *testing.T) {
	raw := []byte(`{"type":"message_created","payload":{"sender_id":7,"content":"still for sale?"}}`)
	assert.Equal(t, "[message_created] from user 7: still for sale?", formatEvent(raw))

	assert.Equal(t, `[order_shipped] {"id":3}`, formatEvent([]byte(`{"type":"order_shipped","payload":{"id":3}}`)))
	assert.Equal(t, "not json", formatEvent([]byte("not json")))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if r.URL.Path != "/api/auth/login" || body["password"] != "Passw0rd!" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "abc"})
	}))
	defer srv.Close()

	token, err := login(srv.URL, "a@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = login(srv.URL, "a@example.com", "wrong")
	assert.Error(t, err)
}
