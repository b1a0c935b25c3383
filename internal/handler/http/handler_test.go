package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/mock"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// handlerFixture: Handler поверх моков всех сервисов
type handlerFixture struct {
	h       *Handler
	items   *mock.MockItemService
	auth    *mock.MockAuthService
	appInfo *mock.MockAppInfoService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &handlerFixture{
		items:   mock.NewMockItemService(ctrl),
		auth:    mock.NewMockAuthService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}
	f.h = NewHandler(&service.Services{
		ItemService:    f.items,
		AuthService:    f.auth,
		AppInfoService: f.appInfo,
	}, logger.Nop())
	return f
}

// authorize настраивает AuthService на приём токена "good" для principal
func (f *handlerFixture) authorize(principal string) {
	f.auth.EXPECT().ParseToken(gomock.Any(), "good").
		Return(models.Token{Principal: principal}, nil).AnyTimes()
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, log)

	require.NotNil(t, h)
	assert.Same(t, svc, h.services)
	assert.Same(t, log, h.logger)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, logger.Nop())
	h2 := NewHandler(&service.Services{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func TestInit_RegistersAllRoutes(t *testing.T) {
	f := newHandlerFixture(t)
	f.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("test-version").AnyTimes()
	router := f.h.Init()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/collections/habits/items"},
		{http.MethodPut, "/api/collections/habits/items"},
		{http.MethodPut, "/api/collections/habits/items/h1"},
		{http.MethodDelete, "/api/collections/habits/items/h1"},
		{http.MethodGet, "/api/collections/habits/subscribe"},
		{http.MethodGet, "/api/version/"},
	}

	for _, tc := range routes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			// collection routes answer 401 without a token, which still proves
			// the route exists
			assert.NotEqual(t, http.StatusNotFound, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	router := newHandlerFixture(t).h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns405(t *testing.T) {
	router := newHandlerFixture(t).h.Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/version/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestInit_SetsTraceIDHeader(t *testing.T) {
	f := newHandlerFixture(t)
	f.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("v1")

	rec := httptest.NewRecorder()
	f.h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version/", nil))

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}
