package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/wanderobackend/models"
	"github.com/wandero/wanderobackend/token"
	"github.com/wandero/wanderobackend/utils"
)

var resetTokenPattern = regexp.MustCompile(`resetPassword/([0-9a-f]{64})`)

func TestSignup(t *testing.T) {
	e := newEnv()

	rec := e.do(t, http.MethodPost, "/api/v1/users/signup", gin.H{
		"name":            "Ada Lovelace",
		"email":           "ada@example.com",
		"password":        "correct-horse",
		"passwordConfirm": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := parseBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["token"])

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, "user", user["role"])

	// The credential never appears anywhere in the response.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "correct-horse")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, body["token"], cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)

	// Stored hashed, not in the clear.
	stored, err := e.users.GetByEmailWithPassword(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, utils.CheckPassword(stored.PasswordHash, "correct-horse"))
}

func TestSignupRejections(t *testing.T) {
	e := newEnv()
	seedUser(t, e, "Taken", "taken@example.com", "password-one", models.RoleUser)

	cases := []struct {
		name    string
		payload gin.H
		status  int
		message string
	}{
		{
			name: "password confirmation mismatch",
			payload: gin.H{
				"name": "A", "email": "a@example.com",
				"password": "password-one", "passwordConfirm": "password-two",
			},
			status:  http.StatusBadRequest,
			message: "passwords do not match",
		},
		{
			name: "password too short",
			payload: gin.H{
				"name": "A", "email": "a@example.com",
				"password": "short", "passwordConfirm": "short",
			},
			status:  http.StatusBadRequest,
			message: "password must have at least 8 characters",
		},
		{
			name: "missing email",
			payload: gin.H{
				"name": "A", "password": "password-one", "passwordConfirm": "password-one",
			},
			status:  http.StatusBadRequest,
			message: "please provide email",
		},
		{
			name: "duplicate email",
			payload: gin.H{
				"name": "B", "email": "taken@example.com",
				"password": "password-one", "passwordConfirm": "password-one",
			},
			status:  http.StatusBadRequest,
			message: "an account with this email already exists",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/v1/users/signup", tc.payload)
			require.Equal(t, tc.status, rec.Code)

			body := parseBody(t, rec)
			assert.Equal(t, "fail", body["status"])
			assert.Equal(t, tc.message, body["message"])
		})
	}

	// The rejected signups left no accounts behind.
	_, err := e.users.GetByEmail(context.Background(), "a@example.com")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	e := newEnv()
	seedUser(t, e, "Ada", "ada@example.com", "correct-horse", models.RoleUser)

	t.Run("valid credentials", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := parseBody(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.NotEmpty(t, body["token"])
		assert.NotContains(t, rec.Body.String(), "password")
		require.NotNil(t, sessionCookie(rec))

		// The issued token actually opens protected routes.
		me := e.do(t, http.MethodGet, "/api/v1/users/me", nil, withBearer(body["token"].(string)))
		assert.Equal(t, http.StatusOK, me.Code)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPassword := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "wrong-horse",
		})
		unknownEmail := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "nobody@example.com", "password": "correct-horse",
		})

		require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

		a := parseBody(t, wrongPassword)
		b := parseBody(t, unknownEmail)
		assert.Equal(t, "fail", a["status"])
		assert.Equal(t, a["message"], b["message"])
		assert.Equal(t, "incorrect email or password", a["message"])
		assert.Nil(t, sessionCookie(wrongPassword))
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{"email": "ada@example.com"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "please provide email and password", parseBody(t, rec)["message"])
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		gone := seedUser(t, e, "Gone", "gone@example.com", "correct-horse", models.RoleUser)
		require.NoError(t, e.users.Deactivate(context.Background(), gone.ID))

		rec := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "gone@example.com", "password": "correct-horse",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "incorrect email or password", parseBody(t, rec)["message"])
	})
}

func TestLogout(t *testing.T) {
	e := newEnv()

	rec := e.do(t, http.MethodPost, "/api/v1/users/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", parseBody(t, rec)["status"])

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "loggedout", cookie.Value)
	assert.Equal(t, 10, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}

func TestSessionCookieSecureFlag(t *testing.T) {
	e := newEnv()
	seedUser(t, e, "Ada", "ada@example.com", "correct-horse", models.RoleUser)

	plain := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, plain.Code)
	require.NotNil(t, sessionCookie(plain))
	assert.False(t, sessionCookie(plain).Secure)

	forwarded := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
		"email": "ada@example.com", "password": "correct-horse",
	}, withHeader("X-Forwarded-Proto", "https"))
	require.Equal(t, http.StatusOK, forwarded.Code)
	require.NotNil(t, sessionCookie(forwarded))
	assert.True(t, sessionCookie(forwarded).Secure)
}

func TestForgotPassword(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		e := newEnv()

		rec := e.do(t, http.MethodPost, "/api/v1/users/forgotPassword", gin.H{"email": "nobody@example.com"})
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := parseBody(t, rec)
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "there is no user with that email address", body["message"])
		assert.Zero(t, e.mail.count())
	})

	t.Run("sends the raw secret and stores only its digest", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "correct-horse", models.RoleUser)

		rec := e.do(t, http.MethodPost, "/api/v1/users/forgotPassword", gin.H{"email": "ada@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)

		body := parseBody(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "token sent to email", body["message"])

		msg := e.mail.last(t)
		assert.Equal(t, "ada@example.com", msg.To)
		assert.Contains(t, msg.Subject, "10 minutes")

		match := resetTokenPattern.FindStringSubmatch(msg.Body)
		require.Len(t, match, 2, "reset email must carry the raw token in its URL")
		raw := match[1]

		digest, expires, _ := e.users.resetState(user.ID)
		require.NotNil(t, digest)
		require.NotNil(t, expires)
		assert.Equal(t, token.HashResetSecret(raw), *digest)
		assert.NotEqual(t, raw, *digest)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), *expires, time.Minute)

		// The response never leaks the secret.
		assert.NotContains(t, rec.Body.String(), raw)
	})

	t.Run("delivery failure withdraws the token", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "correct-horse", models.RoleUser)
		e.mail.fail = errors.New("smtp: connection refused")

		rec := e.do(t, http.MethodPost, "/api/v1/users/forgotPassword", gin.H{"email": "ada@example.com"})
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := parseBody(t, rec)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "there was an error sending the email, try again later", body["message"])

		digest, expires, _ := e.users.resetState(user.ID)
		assert.Nil(t, digest)
		assert.Nil(t, expires)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("valid token swaps the credential once", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "old-password-1", models.RoleUser)

		forgot := e.do(t, http.MethodPost, "/api/v1/users/forgotPassword", gin.H{"email": "ada@example.com"})
		require.Equal(t, http.StatusOK, forgot.Code)
		raw := resetTokenPattern.FindStringSubmatch(e.mail.last(t).Body)[1]

		rec := e.do(t, http.MethodPatch, "/api/v1/users/resetPassword/"+raw, gin.H{
			"password": "new-password-1", "passwordConfirm": "new-password-1",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := parseBody(t, rec)
		assert.Equal(t, "success", body["status"])
		require.NotEmpty(t, body["token"])

		// Fresh session works immediately.
		me := e.do(t, http.MethodGet, "/api/v1/users/me", nil, withBearer(body["token"].(string)))
		assert.Equal(t, http.StatusOK, me.Code)

		// Old password is dead, new one logs in.
		old := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "old-password-1",
		})
		assert.Equal(t, http.StatusUnauthorized, old.Code)
		fresh := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "new-password-1",
		})
		assert.Equal(t, http.StatusOK, fresh.Code)

		// Token fields are gone, so the secret is single-use.
		digest, expires, _ := e.users.resetState(user.ID)
		assert.Nil(t, digest)
		assert.Nil(t, expires)

		reuse := e.do(t, http.MethodPatch, "/api/v1/users/resetPassword/"+raw, gin.H{
			"password": "sneaky-password", "passwordConfirm": "sneaky-password",
		})
		require.Equal(t, http.StatusBadRequest, reuse.Code)
		assert.Equal(t, "token is invalid or has expired", parseBody(t, reuse)["message"])
	})

	t.Run("expired token changes nothing", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "old-password-1", models.RoleUser)

		raw := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
		require.NoError(t, e.users.SetResetToken(
			context.Background(), user.ID, token.HashResetSecret(raw), time.Now().Add(-time.Minute)))

		rec := e.do(t, http.MethodPatch, "/api/v1/users/resetPassword/"+raw, gin.H{
			"password": "new-password-1", "passwordConfirm": "new-password-1",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "token is invalid or has expired", parseBody(t, rec)["message"])

		login := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "old-password-1",
		})
		assert.Equal(t, http.StatusOK, login.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPatch, "/api/v1/users/resetPassword/not-a-real-token", gin.H{
			"password": "new-password-1", "passwordConfirm": "new-password-1",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "fail", parseBody(t, rec)["status"])
	})

	t.Run("weak replacement password", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "old-password-1", models.RoleUser)

		raw := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
		require.NoError(t, e.users.SetResetToken(
			context.Background(), user.ID, token.HashResetSecret(raw), time.Now().Add(10*time.Minute)))

		rec := e.do(t, http.MethodPatch, "/api/v1/users/resetPassword/"+raw, gin.H{
			"password": "short", "passwordConfirm": "short",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "password must have at least 8 characters", parseBody(t, rec)["message"])
	})
}

func TestUpdatePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "old-password-1", models.RoleUser)

		rec := e.do(t, http.MethodPatch, "/api/v1/users/updateMyPassword", gin.H{
			"passwordCurrent": "not-my-password",
			"password":        "new-password-1",
			"passwordConfirm": "new-password-1",
		}, withBearer(issueFor(t, e, user)))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "your current password is wrong", parseBody(t, rec)["message"])

		// Credential untouched.
		login := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "old-password-1",
		})
		assert.Equal(t, http.StatusOK, login.Code)
	})

	t.Run("success invalidates older sessions", func(t *testing.T) {
		e := newEnv()
		user := seedUser(t, e, "Ada", "ada@example.com", "old-password-1", models.RoleUser)

		oldSession := backdatedToken(t, user.ID.Hex(), time.Now().Add(-10*time.Second))
		sanity := e.do(t, http.MethodGet, "/api/v1/users/me", nil, withBearer(oldSession))
		require.Equal(t, http.StatusOK, sanity.Code)

		rec := e.do(t, http.MethodPatch, "/api/v1/users/updateMyPassword", gin.H{
			"passwordCurrent": "old-password-1",
			"password":        "new-password-1",
			"passwordConfirm": "new-password-1",
		}, withBearer(issueFor(t, e, user)))
		require.Equal(t, http.StatusCreated, rec.Code)

		body := parseBody(t, rec)
		require.NotEmpty(t, body["token"])
		assert.NotContains(t, rec.Body.String(), "password")

		// The pre-change session is now stale.
		stale := e.do(t, http.MethodGet, "/api/v1/users/me", nil, withBearer(oldSession))
		require.Equal(t, http.StatusUnauthorized, stale.Code)
		assert.Equal(t, "password was changed recently, please log in again", parseBody(t, stale)["message"])

		// The one minted by the change works.
		fresh := e.do(t, http.MethodGet, "/api/v1/users/me", nil, withBearer(body["token"].(string)))
		assert.Equal(t, http.StatusOK, fresh.Code)

		login := e.do(t, http.MethodPost, "/api/v1/users/login", gin.H{
			"email": "ada@example.com", "password": "new-password-1",
		})
		assert.Equal(t, http.StatusOK, login.Code)
	})

	t.Run("requires a session", func(t *testing.T) {
		e := newEnv()
		rec := e.do(t, http.MethodPatch, "/api/v1/users/updateMyPassword", gin.H{
			"passwordCurrent": "x", "password": "new-password-1", "passwordConfirm": "new-password-1",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "you are not logged in, please log in to get access", parseBody(t, rec)["message"])
	})
}

func TestProtectedRoutesThroughRouter(t *testing.T) {
	e := newEnv()
	user := seedUser(t, e, "Ada", "ada@example.com", "correct-horse", models.RoleUser)

	t.Run("no token", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/v1/users/me", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "you are not logged in, please log in to get access", parseBody(t, rec)["message"])
	})

	t.Run("cookie carries the session too", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/v1/users/me", nil,
			withCookie("jwt", issueFor(t, e, user)))
		require.Equal(t, http.StatusOK, rec.Code)

		body := parseBody(t, rec)
		u := body["data"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "ada@example.com", u["email"])
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("deleted user token is rejected", func(t *testing.T) {
		ghost := seedUser(t, e, "Ghost", "ghost@example.com", "correct-horse", models.RoleUser)
		session := issueFor(t, e, ghost)
		require.NoError(t, e.users.Delete(context.Background(), ghost.ID))

		rec := e.do(t, http.MethodGet, "/api/v1/users/me", nil, withBearer(session))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "the user belonging to this token no longer exists", parseBody(t, rec)["message"])
	})

	t.Run("role gate", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/v1/tours", gin.H{}, withBearer(issueFor(t, e, user)))
		require.Equal(t, http.StatusForbidden, rec.Code)

		body := parseBody(t, rec)
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "you do not have permission to perform this action", body["message"])
	})
}
