package api2d

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/speaklab/speaklab/internal/config"
	"go.uber.org/zap"
)

const requestTimeout = 12 * time.Second

type httpClient struct {
	baseURL  string
	adminKey string
	client   *http.Client
	log      *zap.Logger
}

// NewHTTPClient builds the production client authenticated with the
// process-wide admin credential.
func NewHTTPClient(cfg config.Config, log *zap.Logger) Client {
	return &httpClient{
		baseURL:  strings.TrimRight(cfg.RemoteEndpoint, "/"),
		adminKey: strings.TrimSpace(cfg.RemoteAdminKey),
		client:   &http.Client{Timeout: requestTimeout},
		log:      log.Named("api2d.client"),
	}
}

type keyPayload struct {
	ID        int64  `json:"id"`
	UID       int64  `json:"uid"`
	Key       string `json:"key"`
	TypeID    string `json:"type_id"`
	CreatedAt string `json:"created_at"`
	Enabled   bool   `json:"enabled"`
}

type keyArrayResponse struct {
	Data struct {
		CustomKeyArray []keyPayload `json:"custom_key_array"`
	} `json:"data"`
}

func (c *httpClient) Issue(ctx context.Context, typeID string, n int) ([]Descriptor, error) {
	return c.doRequest(ctx, "/custom_key/save", map[string]any{
		"type_id": typeID,
		"n":       n,
	})
}

func (c *httpClient) Lookup(ctx context.Context, query string) ([]Descriptor, error) {
	return c.doRequest(ctx, "/custom_key/search_key", map[string]any{
		"query": query,
	})
}

func (c *httpClient) Resolve(ctx context.Context, key string) (*Descriptor, error) {
	matches, err := c.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	switch {
	case len(matches) == 0:
		return nil, ErrKeyNotFound
	case len(matches) > 1:
		return nil, ErrAmbiguousKey
	}

	descriptor := matches[0]
	if !descriptor.Enabled {
		return nil, ErrKeyDisabled
	}
	// A partial query can match a single longer key; only an exact match
	// may be bound.
	if descriptor.Key != key {
		return nil, ErrKeyMismatch
	}

	return &descriptor, nil
}

func (c *httpClient) doRequest(ctx context.Context, path string, payload map[string]any) ([]Descriptor, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.adminKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("remote request failed", zap.String("path", path), zap.Error(err))
		return nil, ErrRemoteUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Warn("remote request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, ErrRemoteUnavailable
	}

	var decoded keyArrayResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.log.Warn("remote response invalid", zap.String("path", path), zap.Error(err))
		return nil, ErrRemoteUnavailable
	}

	descriptors := make([]Descriptor, 0, len(decoded.Data.CustomKeyArray))
	for _, payload := range decoded.Data.CustomKeyArray {
		descriptors = append(descriptors, Descriptor{
			ID:        payload.ID,
			UID:       payload.UID,
			Key:       payload.Key,
			TypeID:    payload.TypeID,
			CreatedAt: parseRemoteTime(payload.CreatedAt),
			Enabled:   payload.Enabled,
		})
	}
	return descriptors, nil
}

// parseRemoteTime accepts the timestamp formats the remote service has been
// observed to emit. A zero time is returned for anything unparseable; the
// lifecycle manager falls back to its own clock in that case.
func parseRemoteTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
