package routes_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rosteriq/advisor-service/internal/api/handlers"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/api/routes"
	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/testutil"
	"github.com/rosteriq/advisor-service/internal/testutil/mocks"
)

func newRouter(advisor *mocks.MockAdvisor) http.Handler {
	pinger := new(mocks.MockPinger)
	pinger.On("Ping", mock.Anything).Return(nil)

	router := testutil.SetupTestRouter()
	routes.SetupWithMiddleware(router, &routes.Config{
		HealthHandler:   handlers.NewHealthHandler(pinger, pinger),
		SessionsHandler: handlers.NewSessionsHandler(advisor),
		MessagesHandler: handlers.NewMessagesHandler(advisor),
		StreamHandler:   handlers.NewStreamHandler(advisor, nil),
		CacheHandler:    handlers.NewCacheHandler(advisor),
		AuthMiddleware:  middleware.NewAuthMiddleware([]string{"service-key"}),
	}, middleware.DefaultCORSConfig(), middleware.NewLoggingMiddleware(), middleware.NewErrorMiddleware())
	return router
}

func TestRoutes_HealthIsPublic(t *testing.T) {
	w := testutil.PerformRequest(newRouter(new(mocks.MockAdvisor)), http.MethodGet, routes.BasePath+"/health", nil, nil)

	testutil.AssertStatusCode(t, http.StatusOK, w)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRoutes_SessionsRequireServiceKey(t *testing.T) {
	w := testutil.PerformRequest(newRouter(new(mocks.MockAdvisor)), http.MethodGet, routes.BasePath+"/sessions/s1", nil, nil)

	testutil.AssertStatusCode(t, http.StatusUnauthorized, w)
}

func TestRoutes_SessionsWithServiceKey(t *testing.T) {
	advisor := new(mocks.MockAdvisor)
	session := testutil.NewTestSession()
	advisor.On("GetSession", mock.Anything, session.ID).Return(session, nil)

	w := testutil.PerformRequest(newRouter(advisor), http.MethodGet, routes.BasePath+"/sessions/"+session.ID, nil,
		map[string]string{middleware.APIKeyHeader: "service-key"})

	testutil.AssertStatusCode(t, http.StatusOK, w)
	advisor.AssertExpectations(t)
}

func TestRoutes_ArchiveIsPost(t *testing.T) {
	advisor := new(mocks.MockAdvisor)
	session := testutil.NewTestSession()
	session.Status = models.SessionStatusArchived
	advisor.On("Archive", mock.Anything, session.ID).Return(session, nil)

	headers := map[string]string{middleware.APIKeyHeader: "service-key"}
	w := testutil.PerformRequest(newRouter(advisor), http.MethodPost, routes.BasePath+"/sessions/"+session.ID+"/archive", nil, headers)
	testutil.AssertStatusCode(t, http.StatusOK, w)

	w = testutil.PerformRequest(newRouter(advisor), http.MethodGet, routes.BasePath+"/sessions/"+session.ID+"/archive", nil, headers)
	testutil.AssertStatusCode(t, http.StatusMethodNotAllowed, w)
}

func TestRoutes_UnknownPath(t *testing.T) {
	w := testutil.PerformRequest(newRouter(new(mocks.MockAdvisor)), http.MethodGet, "/nope", nil, nil)

	testutil.AssertStatusCode(t, http.StatusNotFound, w)
}
