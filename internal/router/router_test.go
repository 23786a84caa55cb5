package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/config"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/database"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/models"
	"github.com/MeldyTheCoder/AnovaIncomingsBackend/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// one shared in-memory database per test, named so parallel tests
	// cannot see each other's data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireMinutes: 30},
	}
	return router.SetupRouter(cfg, db), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, username, password, email string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPost, "/users/register", "", gin.H{
		"username": username,
		"password": password,
		"email":    email,
	})
}

// obtainToken registers nothing; it posts the form-encoded login and
// returns the bearer token string.
func obtainToken(t *testing.T, r *gin.Engine, username, password string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/users/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return w, ""
	}
	var resp struct {
		Token struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Bearer", resp.Token.TokenType)
	return w, resp.Token.AccessToken
}

func TestRegisterLoginHistoryFlow(t *testing.T) {
	r, _ := setupTest(t)

	w := register(t, r, "alice123", "p@ss", "a@b.com")
	require.Equal(t, http.StatusOK, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created["id"])
	require.Equal(t, "alice123", created["username"])
	require.Equal(t, "a@b.com", created["email"])
	require.NotContains(t, created, "password")

	_, token := obtainToken(t, r, "alice123", "p@ss")
	require.NotEmpty(t, token)

	w = doJSON(t, r, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "alice123", me.Username)

	w = doJSON(t, r, http.MethodPut, "/history/create", token, gin.H{
		"title":    "Coffee",
		"price":    5,
		"category": "another",
		"type":     "outcoming",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var record models.IncomingHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	require.Equal(t, me.ID, record.FromUserID)
	require.Equal(t, int64(5), record.Price)

	w = doJSON(t, r, http.MethodGet, "/history/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []models.IncomingHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	require.Equal(t, "Coffee", records[0].Title)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, _ := setupTest(t)

	require.Equal(t, http.StatusOK, register(t, r, "bob", "pass1", "b@c.com").Code)
	require.Equal(t, http.StatusConflict, register(t, r, "bob", "pass2", "b2@c.com").Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupTest(t)

	cases := []struct {
		name     string
		username string
		password string
		email    string
	}{
		{"short username", "ab", "pass", "a@b.com"},
		{"bad username chars", "bad user!", "pass", "a@b.com"},
		{"missing password", "gooduser", "", "a@b.com"},
		{"bad email", "gooduser", "pass", "not-an-email"},
		{"short email", "gooduser", "pass", "a@b"},
	}
	for _, tc := range cases {
		w := register(t, r, tc.username, tc.password, tc.email)
		require.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestTokenBadCredentials(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "carol", "right-pass", "c@d.com").Code)

	w, _ := obtainToken(t, r, "carol", "wrong-pass")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = obtainToken(t, r, "nobody", "whatever")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/users/me", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/history/", "garbage-token", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenForDeletedUser(t *testing.T) {
	r, db := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "ghost", "pass", "g@h.com").Code)
	_, token := obtainToken(t, r, "ghost", "pass")

	require.NoError(t, db.Where("username = ?", "ghost").Delete(&models.User{}).Error)

	w := doJSON(t, r, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecordValidation(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "dave", "pass", "d@e.com").Code)
	_, token := obtainToken(t, r, "dave", "pass")

	cases := []struct {
		name string
		body gin.H
	}{
		{"zero price", gin.H{"title": "x", "price": 0, "category": "taxi", "type": "outcoming"}},
		{"negative price", gin.H{"title": "x", "price": -5, "category": "taxi", "type": "outcoming"}},
		{"unknown category", gin.H{"title": "x", "price": 5, "category": "crypto", "type": "outcoming"}},
		{"unknown type", gin.H{"title": "x", "price": 5, "category": "taxi", "type": "sideways"}},
		{"title too long", gin.H{"title": strings.Repeat("a", 51), "price": 5, "category": "taxi", "type": "outcoming"}},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPut, "/history/create", token, tc.body)
		require.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestDeleteRecordOwnership(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "owner", "pass", "o@w.com").Code)
	require.Equal(t, http.StatusOK, register(t, r, "intruder", "pass", "i@n.com").Code)
	_, ownerToken := obtainToken(t, r, "owner", "pass")
	_, intruderToken := obtainToken(t, r, "intruder", "pass")

	w := doJSON(t, r, http.MethodPut, "/history/create", ownerToken, gin.H{
		"title":    "Groceries",
		"price":    120,
		"category": "supermarkets",
		"type":     "outcoming",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var record models.IncomingHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))

	// someone else's record looks missing
	path := fmt.Sprintf("/history/%d", record.ID)
	w = doJSON(t, r, http.MethodDelete, path, intruderToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// still there for the owner
	w = doJSON(t, r, http.MethodGet, "/history/", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []models.IncomingHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)

	w = doJSON(t, r, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangePassword(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "erin", "old-pass", "e@f.com").Code)
	_, token := obtainToken(t, r, "erin", "old-pass")

	w := doJSON(t, r, http.MethodPost, "/users/change-password", token, gin.H{
		"old_password": "wrong",
		"new_password": "new-pass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/users/change-password", token, gin.H{
		"old_password": "old-pass",
		"new_password": "new-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = obtainToken(t, r, "erin", "old-pass")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, newToken := obtainToken(t, r, "erin", "new-pass")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, newToken)
}

func TestEditProfilePartial(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "frank", "pass", "f@g.com").Code)
	require.Equal(t, http.StatusOK, register(t, r, "taken", "pass", "t@k.com").Code)
	_, token := obtainToken(t, r, "frank", "pass")

	// only email supplied: username untouched
	w := doJSON(t, r, http.MethodPost, "/users/edit", token, gin.H{"email": "new@g.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "frank", updated.Username)
	require.Equal(t, "new@g.com", updated.Email)

	// renaming onto an existing username conflicts
	w = doJSON(t, r, http.MethodPost, "/users/edit", token, gin.H{"username": "taken"})
	require.Equal(t, http.StatusConflict, w.Code)

	// the edit path may set a password, unguarded; it is stored hashed
	w = doJSON(t, r, http.MethodPost, "/users/edit", token, gin.H{"password": "edited-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = obtainToken(t, r, "frank", "pass")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = obtainToken(t, r, "frank", "edited-pass")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCheckUsernameAvailability(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users/registration/username/fresh", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Detail bool `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Detail)

	require.Equal(t, http.StatusOK, register(t, r, "fresh", "pass", "f@r.com").Code)

	w = doJSON(t, r, http.MethodPost, "/users/registration/username/fresh", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Detail)
}

func TestListUsersHidesPasswords(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "public", "secret-pass", "p@q.com").Code)

	// no auth needed on this surface
	w := doJSON(t, r, http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	require.NotContains(t, users[0], "password")
	require.NotContains(t, w.Body.String(), "secret-pass")
}

func TestExportCSVWithQueryToken(t *testing.T) {
	r, _ := setupTest(t)
	require.Equal(t, http.StatusOK, register(t, r, "grace", "pass", "g@r.com").Code)
	_, token := obtainToken(t, r, "grace", "pass")

	w := doJSON(t, r, http.MethodPut, "/history/create", token, gin.H{
		"title":    "Salary",
		"price":    1000,
		"category": "transfers",
		"type":     "incoming",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// download links carry the token as a query parameter
	req := httptest.NewRequest(http.MethodGet, "/history/export/csv?token="+url.QueryEscape(token), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, rec.Body.String(), "Salary")
	require.Contains(t, rec.Body.String(), "1000")
}
