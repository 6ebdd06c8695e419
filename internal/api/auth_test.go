package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestLoginValidation(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{"email": "nobody"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{"email": "nobody@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	s := setupTestServer(t)
	user := testhelpers.CreateUser(t, s.db, "cook")

	w := s.do(http.MethodPost, "/api/auth/token/logout/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/token/logout/", s.token(user), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTokenForDeletedUser(t *testing.T) {
	s := setupTestServer(t)
	user := testhelpers.CreateUser(t, s.db, "ghost")
	token := s.token(user)
	assert.NoError(t, s.db.Delete(user).Error)

	w := s.do(http.MethodGet, "/api/users/me/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
