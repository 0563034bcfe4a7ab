package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/admin-console/internal/datarequest"
	"github.com/nhle/admin-console/internal/model"
	"github.com/nhle/admin-console/internal/sysnotify"
	"github.com/nhle/admin-console/tests/testutil"
)

func newTestRouter(t *testing.T, token string) (*gin.Engine, *test.Hook) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	d := datarequest.NewDispatcher(logger)
	sysnotify.New(testutil.NewTestStore(t), logger).Register(d)
	return NewRouter(d, logger, token), hook
}

func post(t *testing.T, r http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) datarequest.Envelope {
	t.Helper()
	var env datarequest.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func validDraft() model.Draft {
	return model.Draft{
		Title:     "Maintenance",
		Message:   "Down 5pm",
		Severity:  model.SeverityCritical,
		StartDate: "2026-10-14 17:00",
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, "secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateReturnsNotification(t *testing.T) {
	r, hook := newTestRouter(t, "")

	w := post(t, r, "/data/admin/systemNotificationCreate", validDraft(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var n model.Notification
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, model.SeverityCritical, n.Severity)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/data/admin/systemNotificationCreate", entry.Data["path"])
}

func TestStatusMapping(t *testing.T) {
	r, _ := newTestRouter(t, "")

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"invalid draft", "/data/admin/systemNotificationCreate", model.Draft{Title: "only"}, http.StatusBadRequest},
		{"malformed json", "/data/admin/systemNotificationCreate", "not an object", http.StatusBadRequest},
		{"unknown operation", "/data/admin/nope", nil, http.StatusNotFound},
		{"missing record", "/data/admin/systemNotificationDelete", sysnotify.DeleteRequest{NotificationID: "missing"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, r, tt.path, tt.body, "")
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, decodeEnvelope(t, w).Error)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	r, _ := newTestRouter(t, "secret")

	w := post(t, r, "/data/admin/systemNotificationList", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, r, "/data/admin/systemNotificationList", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, r, "/data/admin/systemNotificationList", nil, "secret")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientAgainstRouter(t *testing.T) {
	r, _ := newTestRouter(t, "secret")
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := datarequest.NewClient(srv.URL, "secret")
	ctx := context.Background()

	var created model.Notification
	require.NoError(t, c.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpCreate, validDraft(), &created))

	var list []model.Notification
	require.NoError(t, c.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpList, nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	err := c.Request(ctx, datarequest.CategoryAdmin, "nope", nil, nil)
	assert.ErrorIs(t, err, datarequest.ErrUnknownOperation)

	err = c.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpCreate, model.Draft{}, nil)
	assert.ErrorIs(t, err, datarequest.ErrRequestFailed)

	require.NoError(t, c.Request(ctx, datarequest.CategoryAdmin, sysnotify.OpDelete, sysnotify.DeleteRequest{NotificationID: created.ID}, nil))
}
