// Command msgwatch logs in and prints the caller's realtime notifications.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skyhub/internal/notifications"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	secure := flag.Bool("tls", false, "use https/wss")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: msgwatch -email <email> -password <password> [-host host:port]")
		os.Exit(2)
	}

	httpScheme, wsScheme := "http", "ws"
	if *secure {
		httpScheme, wsScheme = "https", "wss"
	}

	token, err := login(httpScheme+"://"+*host, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	u := url.URL{Scheme: wsScheme, Host: *host, Path: "/api/ws", RawQuery: "token=" + url.QueryEscape(token)}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		log.Fatalf("WebSocket dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Printf("Connected to %s, waiting for events (Ctrl+C to quit)", u.Host)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("read: %v", err)
				}
				return
			}
			fmt.Println(formatEvent(raw))
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

// formatEvent renders one event line; unknown frames are printed raw.
func formatEvent(raw []byte) string {
	var ev notifications.Event
	if err := json.Unmarshal(raw, &ev); err != nil || ev.Type == "" {
		return string(raw)
	}
	if ev.Type == notifications.EventMessageCreated {
		if m, ok := ev.Payload.(map[string]any); ok {
			return fmt.Sprintf("[%s] from user %v: %v", ev.Type, m["sender_id"], m["content"])
		}
	}
	payload, _ := json.Marshal(ev.Payload)
	return fmt.Sprintf("[%s] %s", ev.Type, payload)
}

func login(baseURL, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(baseURL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}
