package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// HTTPStore talks to a remote conversation API:
//
//	GET    {base}/api/ai/conversation/list?limit=N[&userId=&status=&updatedBefore=]
//	GET    {base}/api/ai/conversation/{id}
//	POST   {base}/api/ai/conversation
//	DELETE {base}/api/ai/conversation/{id}
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithBearerToken sets the Authorization header on every request.
func WithBearerToken(token string) HTTPOption {
	return func(s *HTTPStore) { s.token = token }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) { s.client = c }
}

// NewHTTPStore creates a client for the API rooted at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatusError is returned for unexpected response codes.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("conversation api: status %d: %s", e.Code, e.Body)
}

func (s *HTTPStore) Save(ctx context.Context, c *model.ConversationState) error {
	c.SyncCount()
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", c.ID, err)
	}
	return s.do(ctx, http.MethodPost, "/api/ai/conversation", bytes.NewReader(body), nil)
}

func (s *HTTPStore) List(ctx context.Context, limit int) ([]model.ConversationState, error) {
	return s.Find(ctx, Query{Limit: limit})
}

// Find passes the filters as query parameters and applies them again to the
// response, since older servers only understand limit.
func (s *HTTPStore) Find(ctx context.Context, q Query) ([]model.ConversationState, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(listLimit(q.Limit)))
	if q.UserID != "" {
		params.Set("userId", q.UserID)
	}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if !q.UpdatedBefore.IsZero() {
		params.Set("updatedBefore", q.UpdatedBefore.UTC().Format(time.RFC3339Nano))
	}

	var resp model.ListConversationsResponse
	if err := s.do(ctx, http.MethodGet, "/api/ai/conversation/list?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return Select(resp.Conversations, q), nil
}

func (s *HTTPStore) Get(ctx context.Context, id string) (*model.ConversationState, error) {
	var resp model.ConversationResponse
	if err := s.do(ctx, http.MethodGet, "/api/ai/conversation/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Conversation == nil {
		return nil, ErrNotFound
	}
	return resp.Conversation, nil
}

func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/ai/conversation/"+url.PathEscape(id), nil, nil)
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
