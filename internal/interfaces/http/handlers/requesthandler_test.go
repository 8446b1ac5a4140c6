package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netreq/internal/application/request"
	"netreq/internal/application/request/testutil"
	"netreq/internal/shared/authorization"
	"netreq/internal/shared/constants"
	"netreq/internal/shared/utils"
)

func newRequestListRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewStore()
	svc := request.NewService(
		store.Locations(),
		store.Resources(),
		store.Requests(),
		store.Notifications(),
		store,
		testutil.NopLogger(),
	)
	handler := NewRequestHandler(svc, testutil.NopLogger())

	router := gin.New()
	router.GET("/requests", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, uint(1))
		c.Set(constants.ContextKeyUserRole, string(authorization.RoleAdmin))
	}, handler.ListRequests)
	return router
}

func performListRequest(t *testing.T, router *gin.Engine, target string) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRequestHandler_ListRequests_RejectsMalformedFilters(t *testing.T) {
	router := newRequestListRouter(t)

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"malformed user_id", "/requests?user_id=abc", "user_id must be a positive integer"},
		{"zero user_id", "/requests?user_id=0", "user_id must be a positive integer"},
		{"malformed start_date", "/requests?start_date=2026-13-99", "start_date must be an RFC3339 timestamp"},
		{"malformed end_date", "/requests?end_date=yesterday", "end_date must be an RFC3339 timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := performListRequest(t, router, tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, "validation_error", body.Error.Type)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestRequestHandler_ListRequests_AcceptsWellFormedFilters(t *testing.T) {
	router := newRequestListRouter(t)

	w, body := performListRequest(t, router,
		"/requests?user_id=1&start_date=2026-08-01T00:00:00Z&end_date=2026-08-31T23:59:59Z&status=Pending")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
}
