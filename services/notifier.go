package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"workhub-project/backend/logging"

	"github.com/sony/gobreaker"
)

// Notifier posts workspace events (member changes, assignments, forced timer
// stops) to the notifications webhook. Delivery is best-effort: failures are
// logged and never propagate to the primary operation.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewNotifier(webhookURL string, httpClient *http.Client) *Notifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &Notifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

// Notify delivers one event. A nil receiver or empty webhook URL disables
// delivery entirely.
func (n *Notifier) Notify(event string, payload map[string]any) {
	if n == nil || n.webhookURL == "" {
		return
	}

	body := map[string]any{
		"event":     event,
		"createdAt": time.Now().UTC(),
	}
	for k, v := range payload {
		body[k] = v
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFY_FAILED, Description: Failed to deliver %s notification: %v", event, err)
	}
}
