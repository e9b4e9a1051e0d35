package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/speaklab/speaklab/internal/api2d"
	apikeydomain "github.com/speaklab/speaklab/internal/apikey/domain"
	"github.com/speaklab/speaklab/internal/config"
)

type fakeAPIKeyService struct {
	grant     *apikeydomain.Grant
	accessErr error
	bindErr   error
}

func (f *fakeAPIKeyService) Get(ctx context.Context, userID snowflake.ID) (*apikeydomain.Response, error) {
	_ = ctx
	_ = userID
	return nil, apikeydomain.ErrNoKey
}

func (f *fakeAPIKeyService) Bind(ctx context.Context, userID snowflake.ID, key string) (*apikeydomain.Response, error) {
	_ = ctx
	_ = userID
	if f.bindErr != nil {
		return nil, f.bindErr
	}
	return &apikeydomain.Response{Key: key, CreatedAt: time.Now().UTC()}, nil
}

func (f *fakeAPIKeyService) Provision(ctx context.Context, userID snowflake.ID) (*apikeydomain.Response, error) {
	_ = ctx
	_ = userID
	return nil, api2d.ErrRemoteUnavailable
}

func (f *fakeAPIKeyService) Delete(ctx context.Context, userID snowflake.ID) error {
	_ = ctx
	_ = userID
	return nil
}

func (f *fakeAPIKeyService) Access(ctx context.Context, userID snowflake.ID) (*apikeydomain.Grant, error) {
	_ = ctx
	_ = userID
	if f.accessErr != nil {
		return nil, f.accessErr
	}
	return f.grant, nil
}

func newFeatureTestRouter(svc apikeydomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		apiKeySvc: svc,
		features:  config.NewStaticFeatureSettings(config.DefaultFeatureSettings()),
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	fakeAuth := func(c *gin.Context) {
		c.Set(contextUserIDKey, snowflake.ID(42))
		c.Next()
	}
	router.GET("/api/features/speaking", fakeAuth, srv.SpeakingFeature)
	router.GET("/api/features/writing", fakeAuth, srv.WritingFeature)
	router.POST("/api/key", fakeAuth, srv.BindAPIKey)
	return router
}

func jsonBody(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body.Error
}

func TestSpeakingFeatureDeniedWithoutKey(t *testing.T) {
	router := newFeatureTestRouter(&fakeAPIKeyService{accessErr: apikeydomain.ErrNoKey})

	req := httptest.NewRequest(http.MethodGet, "/api/features/speaking", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	payload := decodeError(t, resp)
	if payload.Type != "no_key" {
		t.Fatalf("expected type no_key, got %q", payload.Type)
	}
	if payload.Redirect != apiKeyPagePath {
		t.Fatalf("expected redirect %q, got %q", apiKeyPagePath, payload.Redirect)
	}
}

func TestWritingFeatureDeniedWithExpiredKey(t *testing.T) {
	router := newFeatureTestRouter(&fakeAPIKeyService{accessErr: apikeydomain.ErrKeyExpired})

	req := httptest.NewRequest(http.MethodGet, "/api/features/writing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	payload := decodeError(t, resp)
	if payload.Type != "key_expired" {
		t.Fatalf("expected type key_expired, got %q", payload.Type)
	}
	if payload.Redirect != apiKeyPagePath {
		t.Fatalf("expected redirect %q, got %q", apiKeyPagePath, payload.Redirect)
	}
}

func TestSpeakingFeatureGrantsWithSettings(t *testing.T) {
	router := newFeatureTestRouter(&fakeAPIKeyService{
		grant: &apikeydomain.Grant{Key: "fk-valid"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/features/speaking", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body speakingFeatureResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Key != "fk-valid" {
		t.Fatalf("expected key fk-valid, got %q", body.Key)
	}
	defaults := config.DefaultFeatureSettings().Speaking
	if body.Endpoint != defaults.Endpoint || body.SttModel != defaults.SttModel {
		t.Fatalf("expected default speaking settings, got %+v", body)
	}
}

func TestBindAPIKeyRemoteUnavailableIs503(t *testing.T) {
	router := newFeatureTestRouter(&fakeAPIKeyService{bindErr: api2d.ErrRemoteUnavailable})

	req := httptest.NewRequest(http.MethodPost, "/api/key", jsonBody(`{"key":"fk-abc"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
	payload := decodeError(t, resp)
	if payload.Type != "service_unavailable" {
		t.Fatalf("expected type service_unavailable, got %q", payload.Type)
	}
}

func TestBindAPIKeyDuplicateKeyIs409(t *testing.T) {
	router := newFeatureTestRouter(&fakeAPIKeyService{bindErr: apikeydomain.ErrDuplicateKey})

	req := httptest.NewRequest(http.MethodPost, "/api/key", jsonBody(`{"key":"fk-abc"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	payload := decodeError(t, resp)
	if payload.Type != "duplicate_key" {
		t.Fatalf("expected type duplicate_key, got %q", payload.Type)
	}
}
