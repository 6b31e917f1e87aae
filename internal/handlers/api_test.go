package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"team-collab-api/internal/activity"
	"team-collab-api/internal/auth"
	"team-collab-api/internal/config"
	"team-collab-api/internal/logger"
	"team-collab-api/internal/models"
	"team-collab-api/internal/realtime"
	"team-collab-api/internal/routes"
	"team-collab-api/internal/testutil"
)

// setupAPI builds the full router against a fresh in-memory database.
func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB, *realtime.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	hub := realtime.NewHub()
	recorder := activity.NewRecorder(db, hub, logger.Get())
	r := routes.Setup(config.Get(), db, hub, recorder)
	return r, db, hub
}

// tokenFor issues a valid token for a seeded user.
func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional bearer token and JSON payload.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// captureClient is a fake live session recording every broadcast frame.
type captureClient struct {
	messages [][]byte
}

func (c *captureClient) Send(message []byte) bool {
	c.messages = append(c.messages, message)
	return true
}

func (c *captureClient) Close() {}

// decode unmarshals a response body into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
