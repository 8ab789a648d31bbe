package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/language"
)

func TestTransportSend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantSuccess bool
		wantMessage string
		wantSources []conversation.Source
		wantError   string
	}{
		{
			name:        "success with document source",
			status:      http.StatusOK,
			body:        `{"success":true,"message":"Approximately 6.8 million people donate blood.","sources":[{"type":"DOCUMENT","url":"https://kb.example.org/Blood-101.pdf"}]}`,
			wantSuccess: true,
			wantMessage: "Approximately 6.8 million people donate blood.",
			wantSources: []conversation.Source{{Kind: conversation.SourceDocument, URL: "https://kb.example.org/Blood-101.pdf"}},
		},
		{
			name:        "source kind inferred when type missing",
			status:      http.StatusOK,
			body:        `{"success":true,"message":"ok","sources":[{"url":"https://www.redcross.org/give","title":"Give"},{"url":""}]}`,
			wantSuccess: true,
			wantMessage: "ok",
			wantSources: []conversation.Source{{Kind: conversation.SourceWeb, URL: "https://www.redcross.org/give", Title: "Give"}},
		},
		{
			name:        "no sources defaults to empty",
			status:      http.StatusOK,
			body:        `{"success":true,"message":"ok"}`,
			wantSuccess: true,
			wantMessage: "ok",
			wantSources: []conversation.Source{},
		},
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			body:      `internal error`,
			wantError: "HTTP error! status: 500",
		},
		{
			name:      "success false",
			status:    http.StatusOK,
			body:      `{"success":false,"error":"model unavailable"}`,
			wantError: "model unavailable",
		},
		{
			name:   "success absent",
			status: http.StatusOK,
			body:   `{"message":"hi"}`,
		},
		{
			name:      "success with empty message",
			status:    http.StatusOK,
			body:      `{"success":true,"message":"  "}`,
			wantError: "chat response has an empty message",
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `{"success":tru`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got := NewTransport(srv.URL, srv.Client(), nil).Send(context.Background(), "question", language.English)

			if got.Success != tt.wantSuccess {
				t.Fatalf("Success = %v, want %v (error %q)", got.Success, tt.wantSuccess, got.Error)
			}
			if got.RequestID == "" {
				t.Error("RequestID is empty")
			}
			if !tt.wantSuccess {
				if got.Error == "" {
					t.Error("Error is empty on failure")
				}
				if tt.wantError != "" && got.Error != tt.wantError {
					t.Errorf("Error = %q, want %q", got.Error, tt.wantError)
				}
				return
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if len(got.Sources) != len(tt.wantSources) {
				t.Fatalf("Sources = %+v, want %+v", got.Sources, tt.wantSources)
			}
			for i := range tt.wantSources {
				if got.Sources[i] != tt.wantSources[i] {
					t.Errorf("Sources[%d] = %+v, want %+v", i, got.Sources[i], tt.wantSources[i])
				}
			}
		})
	}
}

func TestTransportRequestShape(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	var gotID, gotMethod, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotID = r.Header.Get(RequestIDHeader)
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"success":true,"message":"Hola"}`))
	}))
	defer srv.Close()

	resp := NewTransport(srv.URL, srv.Client(), nil).Send(context.Background(), "¿Dónde puedo donar?", language.Spanish)

	if gotMethod != http.MethodPost || gotType != "application/json" {
		t.Errorf("method %s, content type %s", gotMethod, gotType)
	}
	if gotReq.Message != "¿Dónde puedo donar?" || gotReq.Language != "es" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotID == "" || gotID != resp.RequestID {
		t.Errorf("request id header %q, response id %q", gotID, resp.RequestID)
	}
}

func TestTransportNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := NewTransport(url, nil, nil).Send(context.Background(), "question", language.English)
	if got.Success || got.Error == "" {
		t.Errorf("got %+v, want failure", got)
	}
}

func TestHealthProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"healthy", http.StatusOK, false},
		{"no content", http.StatusNoContent, false},
		{"unhealthy", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewHealthProbe(srv.URL, srv.Client(), nil).Check(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
