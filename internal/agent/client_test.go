// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProcessResponse_Text(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"single nesting",
			`{"status":"success","response":{"response_text":"hi"}}`,
			"hi",
		},
		{
			"double nesting",
			`{"status":"success","response":{"response":{"response_text":"nested"}}}`,
			"nested",
		},
		{
			"double nesting wins over single",
			`{"response":{"response_text":"outer","response":{"response_text":"inner"}}}`,
			"inner",
		},
		{
			"top-level fallback",
			`{"status":"success","response_text":"flat"}`,
			"flat",
		},
		{
			"whitespace trimmed",
			`{"response":{"response_text":"  padded  "}}`,
			"padded",
		},
		{
			"nothing extractable",
			`{"status":"success","response":{}}`,
			"",
		},
		{
			"non-object response ignored",
			`{"status":"success","response":"just a string"}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ProcessResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := resp.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcess_SendsRequestFields(t *testing.T) {
	var got ProcessRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/process" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":     "success",
			"session_id": "sess-1",
			"response":   map[string]any{"response_text": "Itinerary ready."},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	resp, err := client.Process(context.Background(), ProcessRequest{
		UserRequest: "plan a trip",
		UserID:      "u1",
		SessionID:   "local-1",
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if got.UserRequest != "plan a trip" || got.UserID != "u1" || got.SessionID != "local-1" {
		t.Errorf("request body = %+v", got)
	}
	if resp.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", resp.SessionID)
	}
	if resp.Text() != "Itinerary ready." {
		t.Errorf("Text() = %q", resp.Text())
	}
}

func TestProcess_OmitsEmptySessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, present := raw["session_id"]; present {
			t.Error("session_id must be omitted for a brand-new session")
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Process(context.Background(), ProcessRequest{UserRequest: "hi"}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}

func TestProcess_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Processing failed: boom"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Process(context.Background(), ProcessRequest{UserRequest: "hi"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "Processing failed: boom" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestProcess_Cancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := client.Process(ctx, ProcessRequest{UserRequest: "slow"})
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not return after cancellation")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "time": "2026-01-01T00:00:00Z"})
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if !status.OK {
		t.Error("expected ok=true")
	}
}

func TestNewAPIError_PlainBody(t *testing.T) {
	err := newAPIError(502, []byte("bad gateway"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected APIError")
	}
	if apiErr.Message != "bad gateway" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
