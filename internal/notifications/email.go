// Package notifications delivers transactional email through a Redis-backed
// task queue. The API process enqueues; the worker process sends.
package notifications

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskTypeSendEmail is the queue task carrying a single Email.
const TaskTypeSendEmail = "email:send"

// Kind labels an email for logging and metrics.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindBuyerBooking  Kind = "buyer_booking"
	KindSellerBooking Kind = "seller_booking"
)

// Email is the queued message payload.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Kind    Kind   `json:"kind"`
}

func (e Email) validate() error {
	if strings.TrimSpace(e.To) == "" {
		return fmt.Errorf("email recipient is required")
	}
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("email subject is required")
	}
	return nil
}

func encodeEmail(e Email) ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func decodeEmail(payload []byte) (Email, error) {
	var e Email
	if err := json.Unmarshal(payload, &e); err != nil {
		return Email{}, fmt.Errorf("decode email payload: %w", err)
	}
	if err := e.validate(); err != nil {
		return Email{}, err
	}
	return e, nil
}
