package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kennelworks/studbook-server/internal/config"
	"github.com/kennelworks/studbook-server/internal/repository"
	"github.com/kennelworks/studbook-server/internal/utils"
)

const authorizedEmail = "owner@example.com"

// fakeMailer records the last delivery instead of calling out.
type fakeMailer struct {
	to, plain string
	err       error
	calls     int
}

func (m *fakeMailer) Send(_ context.Context, to, _, plain, _ string) error {
	m.calls++
	m.to = to
	m.plain = plain
	return m.err
}

func resetTestConfig() config.Config {
	return config.Config{
		BaseURL:     "https://kennel.example.com",
		ResetEmail:  authorizedEmail,
		ResetTTLMin: 60,
		BcryptCost:  bcrypt.MinCost,
	}
}

func newResetHandler(t *testing.T, mail *fakeMailer) (*ResetHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResetHandler(resetTestConfig(),
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		repository.NewResetTokenRepo(db),
		mail), mock
}

func doJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestForgotPasswordUnauthorizedEmail(t *testing.T) {
	mail := &fakeMailer{}
	h, mock := newResetHandler(t, mail)

	rec := doJSON(t, h.ForgotPassword, `{"email":"intruder@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"reset request failed"}`, rec.Body.String())
	assert.Zero(t, mail.calls)
	// No expectations were registered, so any store call would fail here.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordMailsResetLink(t *testing.T) {
	mail := &fakeMailer{}
	h, mock := newResetHandler(t, mail)

	mock.ExpectExec("INSERT INTO password_reset_tokens").
		WithArgs(authorizedEmail, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(t, h.ForgotPassword, `{"email":"Owner@Example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, authorizedEmail, mail.to)

	// The mailed link carries the raw token; the store only ever saw its hash.
	i := strings.Index(mail.plain, "reset-password?token=")
	require.GreaterOrEqual(t, i, 0)
	token := mail.plain[i+len("reset-password?token="):]
	token = strings.Fields(token)[0]
	assert.Len(t, token, 64)
	assert.Contains(t, mail.plain, "https://kennel.example.com/reset-password?token=")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordMailFailureFailsRequest(t *testing.T) {
	mail := &fakeMailer{err: errors.New("sendgrid down")}
	h, mock := newResetHandler(t, mail)

	mock.ExpectExec("INSERT INTO password_reset_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(t, h.ForgotPassword, `{"email":"owner@example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"reset request failed"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordMismatch(t *testing.T) {
	h, mock := newResetHandler(t, &fakeMailer{})

	rec := doJSON(t, h.ResetPassword, `{"token":"abc","new_password":"one","confirm_password":"two"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordUnknownToken(t *testing.T) {
	h, mock := newResetHandler(t, &fakeMailer{})

	mock.ExpectQuery("FROM password_reset_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token_hash", "expires_at", "used", "created_at"}))

	rec := doJSON(t, h.ResetPassword, `{"token":"nope","new_password":"pw","confirm_password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"reset request failed"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordHappyPath(t *testing.T) {
	h, mock := newResetHandler(t, &fakeMailer{})
	now := time.Now().UTC()
	raw := "a-raw-token"

	mock.ExpectQuery("FROM password_reset_tokens").
		WithArgs(utils.HashTokenRaw(raw)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token_hash", "expires_at", "used", "created_at"}).
			AddRow(3, authorizedEmail, utils.HashTokenRaw(raw), now.Add(30*time.Minute), false, now))
	mock.ExpectQuery("FROM users WHERE email=").
		WithArgs(authorizedEmail).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(1, "kennel-admin", authorizedEmail, "$2a$04$old", "ADMIN", now, now))
	mock.ExpectExec("UPDATE users SET password_hash=").
		WithArgs(sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE password_reset_tokens SET used=1").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=").
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	rec := doJSON(t, h.ResetPassword,
		`{"token":"a-raw-token","new_password":"new-secret","confirm_password":"new-secret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"password updated"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordSucceedsWhenMarkUsedFails(t *testing.T) {
	h, mock := newResetHandler(t, &fakeMailer{})
	now := time.Now().UTC()
	raw := "a-raw-token"

	mock.ExpectQuery("FROM password_reset_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "token_hash", "expires_at", "used", "created_at"}).
			AddRow(3, authorizedEmail, utils.HashTokenRaw(raw), now.Add(30*time.Minute), false, now))
	mock.ExpectQuery("FROM users WHERE email=").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(1, "kennel-admin", authorizedEmail, "$2a$04$old", "ADMIN", now, now))
	mock.ExpectExec("UPDATE users SET password_hash=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The cleanup steps fail; the password change already landed, so the
	// request still succeeds.
	mock.ExpectExec("UPDATE password_reset_tokens SET used=1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=").
		WillReturnError(errors.New("connection reset"))

	rec := doJSON(t, h.ResetPassword,
		`{"token":"a-raw-token","new_password":"new-secret","confirm_password":"new-secret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"password updated"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
