package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": adminUser, "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "nobody", "password": adminPass,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginIssuesWorkingToken(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	require.Equal(t, "ADMIN", me["role"])
}

func TestMeRejectsGarbageToken(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/api/admin/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": adminUser, "password": adminPass,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// rotation: the old refresh token is now revoked
	rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshReturnsAccountIdentity(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": adminUser, "password": adminPass,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var refreshed struct {
		Admin struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"admin"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&refreshed))
	require.Equal(t, adminUser, refreshed.Admin.Username)
	require.Equal(t, "ADMIN", refreshed.Admin.Role)
}

func TestRefreshRejectsDeactivatedAdmin(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": adminUser, "password": adminPass,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	require.NoError(t, ts.admins.SetActive(context.Background(), ts.adminID, false))

	rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// the token was not rotated, so reactivating lets the session resume
	require.NoError(t, ts.admins.SetActive(context.Background(), ts.adminID, true))
	rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	ts := newTestServer(t, false)

	var sessions []string
	var access string
	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
			"username": adminUser, "password": adminPass,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var login struct {
			Access struct {
				Token string `json:"token"`
			} `json:"access"`
			Refresh struct {
				Token string `json:"token"`
			} `json:"refresh"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
		sessions = append(sessions, login.Refresh.Token)
		access = login.Access.Token
	}

	rec := ts.do(t, http.MethodPost, "/api/admin/logout-all", access, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, refresh := range sessions {
		rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
			"refresh_token": refresh,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestRegisterAdminRequiresAuth(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/admin/register", "", map[string]string{
		"username": "gatehouse", "password": "pa55word",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAdminCreatesWorkingAccount(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/admin/register", token, map[string]string{
		"username": "gatehouse", "password": "pa55word",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotZero(t, created.ID)
	require.Equal(t, "gatehouse", created.Username)
	require.Equal(t, "ADMIN", created.Role)

	// the new account can log in and reach the console
	rec = ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "gatehouse", "password": "pa55word",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// duplicates are refused
	rec = ts.do(t, http.MethodPost, "/api/admin/register", token, map[string]string{
		"username": "gatehouse", "password": "other"},
	)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": adminUser, "password": adminPass,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))

	rec = ts.do(t, http.MethodPost, "/api/admin/logout", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/refresh", "", map[string]string{
		"refresh_token": login.Refresh.Token,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
