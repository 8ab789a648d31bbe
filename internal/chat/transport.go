// Package chat talks to the backend inference API and drives the message
// lifecycle of one conversation: a submitted question becomes a SENT block,
// the answer (or an apology) becomes a RECEIVED block with its sources.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/errs"
	"github.com/abc-assistant/assistant/internal/language"
	"github.com/abc-assistant/assistant/internal/logger"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 4096

// Response is the interpreted answer of the chat endpoint. On failure
// Success is false and Error holds a diagnostic that is never shown to users.
type Response struct {
	Success   bool
	Message   string
	Sources   []conversation.Source
	Error     string
	RequestID string
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

type wireSource struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type chatResponse struct {
	Success *bool        `json:"success"`
	Message string       `json:"message"`
	Sources []wireSource `json:"sources"`
	Error   string       `json:"error"`
}

// Transport sends stateless chat requests over HTTP. Requests carry no
// timeout of their own; callers bound them with ctx.
type Transport struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewTransport creates a transport posting to endpoint.
func NewTransport(endpoint string, httpClient *http.Client, log *slog.Logger) *Transport {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Transport{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        log.With("component", "chat_transport"),
	}
}

// Send posts {message, language} and interprets the answer. It never returns
// a Go error: every failure is folded into a Response with Success false.
func (t *Transport) Send(ctx context.Context, text string, lang language.Code) Response {
	requestID := uuid.NewString()
	start := time.Now()

	resp, err := t.send(ctx, requestID, text, lang)
	duration := time.Since(start)
	requestDuration.Observe(duration.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(outcomeFailure).Inc()
		t.log.ErrorContext(ctx, "Chat request failed",
			"request_id", requestID,
			"language", lang,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return Response{Error: err.Error(), Sources: []conversation.Source{}, RequestID: requestID}
	}

	requestsTotal.WithLabelValues(outcomeSuccess).Inc()
	t.log.InfoContext(ctx, "Chat request completed",
		"request_id", requestID,
		"language", lang,
		"sources", len(resp.Sources),
		"duration_ms", duration.Milliseconds())
	resp.RequestID = requestID
	return resp
}

func (t *Transport) send(ctx context.Context, requestID, text string, lang language.Code) (Response, error) {
	body, err := json.Marshal(chatRequest{Message: text, Language: lang.String()})
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, errs.NewTransportError("failed to create chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	httpResp, err := t.httpClient.Do(req)
	if err != nil {
		return Response{}, errs.NewTransportError("chat request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		t.log.WarnContext(ctx, "Chat endpoint returned error status",
			"request_id", requestID,
			"status_code", httpResp.StatusCode,
			"body", logger.Truncate(strings.TrimSpace(string(raw)), 500))
		return Response{}, errs.NewTransportError(fmt.Sprintf("HTTP error! status: %d", httpResp.StatusCode), nil)
	}

	var data chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&data); err != nil {
		return Response{}, errs.NewTransportError("malformed chat response", err)
	}

	if data.Success == nil || !*data.Success {
		msg := data.Error
		if msg == "" {
			msg = "chat response reported no success"
		}
		return Response{}, errs.NewTransportError(msg, nil)
	}
	if strings.TrimSpace(data.Message) == "" {
		return Response{}, errs.NewTransportError("chat response has an empty message", nil)
	}

	sources := make([]conversation.Source, 0, len(data.Sources))
	for _, s := range data.Sources {
		if strings.TrimSpace(s.URL) == "" {
			continue
		}
		sources = append(sources, conversation.NewSource(s.Type, s.URL, s.Title))
	}

	return Response{Success: true, Message: data.Message, Sources: sources}, nil
}
