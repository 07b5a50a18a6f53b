package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoangminh-dev/streetstore/internal/hash"
	"github.com/hoangminh-dev/streetstore/internal/logging"
	"github.com/hoangminh-dev/streetstore/internal/metrics"
	authmw "github.com/hoangminh-dev/streetstore/internal/middleware/auth"
	"github.com/hoangminh-dev/streetstore/internal/models"
	"github.com/hoangminh-dev/streetstore/internal/mykafka"
	"github.com/hoangminh-dev/streetstore/internal/repo"
	"github.com/hoangminh-dev/streetstore/internal/service/token"
)

type AuthHandler struct {
	Users    *repo.UserRepo
	Tokens   *token.Service
	Producer *mykafka.Producer
}

// publicUser is what login/register return. The profile endpoint adds
// phone and timestamps.
func publicUser(u *models.User) echo.Map {
	return echo.Map{
		"user_id":  u.ID,
		"username": u.Username,
		"email":    u.Email,
		"name":     u.Name,
		"role":     u.Role,
	}
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "topic", topic, "error", err.Error())
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	// Role is deliberately absent from the request shape: registration
	// can only ever produce a plain user.
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not hash password")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Role:         models.RoleUser,
	}
	if err := user.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "username or email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create user")
	}

	signed, err := h.Tokens.Issue(&user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	metrics.Registrations.Inc()
	h.publish(c, "user_events", map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registration successful",
		"token":   signed,
		"user":    publicUser(&user),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	// Unknown email and wrong password produce the same response so the
	// endpoint never reveals which identifiers exist.
	user, err := h.Users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not look up user")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	signed, err := h.Tokens.Issue(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.publish(c, "user_events", map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"token":   signed,
		"user":    publicUser(user),
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"user_id":      user.ID,
			"username":     user.Username,
			"email":        user.Email,
			"name":         user.Name,
			"phone_number": user.PhoneNumber,
			"role":         user.Role,
			"created_at":   user.CreatedAt,
		},
	})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PhoneNumber != "" && !models.ValidPhone(req.PhoneNumber) {
		return echo.NewHTTPError(http.StatusBadRequest, "phone number contains invalid characters")
	}

	updated, err := h.Users.UpdateProfile(c.Request().Context(), user.ID, req.Name, req.PhoneNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update profile")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"user": echo.Map{
			"user_id":      updated.ID,
			"username":     updated.Username,
			"email":        updated.Email,
			"name":         updated.Name,
			"phone_number": updated.PhoneNumber,
			"role":         updated.Role,
		},
	})
}
