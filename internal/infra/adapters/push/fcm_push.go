package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"buildbid/internal/domain/ports/adapter"
)

var _ adapter.PushAdapter = (*FCMPush)(nil)

// FCMPush delivers notifications through the FCM legacy HTTP endpoint.
type FCMPush struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

func NewFCMPush(endpoint, serverKey string) (*FCMPush, error) {
	if serverKey == "" {
		return nil, errors.New("fcm server key empty")
	}
	if endpoint == "" {
		endpoint = "https://fcm.googleapis.com/fcm/send"
	}
	return &FCMPush{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (f *FCMPush) Name() string { return "fcm" }

func (f *FCMPush) Send(ctx context.Context, msg adapter.PushMessage) error {
	if msg.DeviceToken == "" {
		return errors.New("fcm: empty device token")
	}
	payload := map[string]any{
		"to": msg.DeviceToken,
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
	}
	if len(msg.Data) > 0 {
		payload["data"] = msg.Data
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+f.serverKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fcm http %d", resp.StatusCode)
	}
	var out struct {
		Success int `json:"success"`
		Failure int `json:"failure"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Success == 0 {
		return fmt.Errorf("fcm rejected message (failure=%d)", out.Failure)
	}
	return nil
}
