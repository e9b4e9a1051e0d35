package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/speaklab/speaklab/internal/auth/domain"
	"github.com/speaklab/speaklab/internal/auth/session"
	"github.com/speaklab/speaklab/internal/config"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
)

type fakePolicyService struct {
	listCalls   int
	deleteCalls int
}

func (f *fakePolicyService) List(ctx context.Context) ([]policydomain.Response, error) {
	f.listCalls++
	_ = ctx
	return []policydomain.Response{{ID: "1", Name: "standard", TypeID: "1", ValidDays: 30}}, nil
}

func (f *fakePolicyService) Create(ctx context.Context, req policydomain.CreateRequest) (*policydomain.Response, error) {
	_ = ctx
	return &policydomain.Response{Name: req.Name, TypeID: req.TypeID, ValidDays: req.ValidDays}, nil
}

func (f *fakePolicyService) Update(ctx context.Context, id string, req policydomain.UpdateRequest) (*policydomain.Response, error) {
	_ = ctx
	_ = req
	return &policydomain.Response{ID: id}, nil
}

func (f *fakePolicyService) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	_ = ctx
	_ = id
	return nil
}

func (f *fakePolicyService) GetByName(ctx context.Context, name string) (*policydomain.ExpirationPolicy, error) {
	_ = ctx
	_ = name
	return nil, policydomain.ErrPolicyNotFound
}

func (f *fakePolicyService) GetByTypeID(ctx context.Context, typeID string) (*policydomain.ExpirationPolicy, error) {
	_ = ctx
	_ = typeID
	return nil, policydomain.ErrPolicyNotFound
}

func (f *fakePolicyService) Default(ctx context.Context) (*policydomain.ExpirationPolicy, error) {
	_ = ctx
	return nil, policydomain.ErrNoPolicyConfigured
}

func newAdminTestRouter(authsvc authdomain.Service, policySvc policydomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		authsvc:   authsvc,
		sessions:  session.NewManager(config.Config{}),
		policySvc: policySvc,
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	admin := router.Group("/admin")
	admin.Use(srv.AuthRequired(), srv.AdminRequired())
	admin.GET("/policies", srv.ListPolicies)
	admin.DELETE("/policies/:id", srv.DeletePolicy)
	return router
}

func TestAdminRoutesForbiddenForRegularUser(t *testing.T) {
	policySvc := &fakePolicyService{}
	router := newAdminTestRouter(&fakeAuthService{userID: snowflake.ID(200)}, policySvc)

	req := httptest.NewRequest(http.MethodDelete, "/admin/policies/1", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeError(t, resp)
	if payload.Type != "forbidden" {
		t.Fatalf("unexpected error type %q", payload.Type)
	}
	if policySvc.deleteCalls != 0 {
		t.Fatal("expected Delete not to be called")
	}
}

func TestAdminRoutesAllowAdministrator(t *testing.T) {
	policySvc := &fakePolicyService{}
	router := newAdminTestRouter(&fakeAuthService{userID: snowflake.ID(200), isAdmin: true}, policySvc)

	req := httptest.NewRequest(http.MethodGet, "/admin/policies", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "session-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if policySvc.listCalls != 1 {
		t.Fatalf("expected one List call, got %d", policySvc.listCalls)
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	router := newAdminTestRouter(&fakeAuthService{}, &fakePolicyService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/policies", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}
