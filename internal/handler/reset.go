package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kennelworks/studbook-server/internal/config"
	"github.com/kennelworks/studbook-server/internal/queue"
	"github.com/kennelworks/studbook-server/internal/repository"
	"github.com/kennelworks/studbook-server/internal/service"
	"github.com/kennelworks/studbook-server/internal/utils"
)

// ResetHandler implements the password-reset flow.  The feature is locked
// to a single configured email address: this is a single-operator
// deployment and the allow-list is deliberate, not an oversight.
type ResetHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Resets *repository.ResetTokenRepo
	Mail   service.Mailer
}

func NewResetHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, r *repository.ResetTokenRepo, m service.Mailer) *ResetHandler {
	return &ResetHandler{Cfg: cfg, Users: u, Tokens: t, Resets: r, Mail: m}
}

type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// genericResetFailure is the one body every failed request gets, so the
// response never reveals whether an address is recognized or a token ever
// existed.
const genericResetFailure = "reset request failed"

// ForgotPassword issues a reset token for the authorized address and mails
// the link.  Any other address is turned away with the generic failure
// before a single store query runs.  A mail delivery failure also fails the
// request: a link nobody receives would leave the operator stranded.
func (h *ResetHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	if email != strings.ToLower(strings.TrimSpace(h.Cfg.ResetEmail)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": genericResetFailure})
	}

	tok, err := utils.NewResetToken(h.Cfg.ResetTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resets.Create(ctx, email, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		logrus.WithError(err).Error("reset: store token failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(h.Cfg.BaseURL, "/"), tok.Raw)
	plain := fmt.Sprintf("A password reset was requested for the kennel back office.\n\nReset link (valid %d minutes): %s\n\nIf you did not request this, ignore this message.", h.Cfg.ResetTTLMin, link)
	html := fmt.Sprintf(`<p>A password reset was requested for the kennel back office.</p><p><a href="%s">Reset your password</a> (valid %d minutes).</p><p>If you did not request this, ignore this message.</p>`, link, h.Cfg.ResetTTLMin)

	if err := h.Mail.Send(c.Request().Context(), email, "Password reset", plain, html); err != nil {
		logrus.WithError(err).Error("reset: mail delivery failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "reset link sent"})
}

// ResetPassword redeems a token and rotates the credential.  The password
// update is the primary effect; marking the token used is cleanup.  If the
// update lands but the mark fails, the token is left to die at its natural
// expiry and the incident is logged, never surfaced as a failure to the
// operator whose password did change.
func (h *ResetHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and passwords required"})
	}
	if req.NewPassword != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tok, err := h.Resets.FindRedeemable(ctx, utils.HashTokenRaw(req.Token))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": genericResetFailure})
		}
		logrus.WithError(err).Error("reset: token lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}
	// A token bound to anything but the authorized address is treated
	// exactly like a token that never existed.
	if !strings.EqualFold(tok.Email, strings.TrimSpace(h.Cfg.ResetEmail)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": genericResetFailure})
	}

	u, err := h.Users.GetByEmail(ctx, tok.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": genericResetFailure})
		}
		logrus.WithError(err).Error("reset: user lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		logrus.WithError(err).Error("reset: password update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericResetFailure})
	}

	// Cleanup after the primary effect: invalidate the token, drop live
	// sessions.  Both are best-effort.
	if err := h.Resets.MarkUsed(ctx, tok.ID); err != nil {
		logrus.WithError(err).WithField("token_id", tok.ID).
			Warn("reset: mark-used failed; token expires naturally")
	}
	if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		logrus.WithError(err).Warn("reset: revoke sessions failed")
	}
	_ = service.PublishAudit(c.Request().Context(), queue.AuditEvent{
		Action:   "password_changed",
		Entity:   "user",
		EntityID: u.ID,
		At:       time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
