package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGetServerVersion_TableTest(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "semantic version", version: "1.2.3"},
		{name: "pre-release with build metadata", version: "v2.0.0-beta+build.42"},
		{name: "empty version", version: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return(tt.version)

			rec := httptest.NewRecorder()
			f.h.getServerVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.version, rec.Body.String())
			assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		})
	}
}

func TestGetServerVersion_ViaRouterWithoutAuth(t *testing.T) {
	f := newHandlerFixture(t)
	f.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("3.0.0")

	rec := httptest.NewRecorder()
	f.h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3.0.0", rec.Body.String())
}
