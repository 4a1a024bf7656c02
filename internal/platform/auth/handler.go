package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/safesurgery/internal/platform/telemetry"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// Handler serves login, logout and the current session.
type Handler struct {
	creds    Authenticator
	sessions *SessionManager
	revoked  *TokenRevocationStore
	metrics  *telemetry.Provider
	logger   zerolog.Logger
}

func NewHandler(creds Authenticator, sessions *SessionManager, revoked *TokenRevocationStore, metrics *telemetry.Provider, logger zerolog.Logger) *Handler {
	return &Handler{
		creds:    creds,
		sessions: sessions,
		revoked:  revoked,
		metrics:  metrics,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// RegisterRoutes mounts the /auth endpoints. loginMW wraps only the login
// route, typically with a rate limiter.
func (h *Handler) RegisterRoutes(e *echo.Echo, loginMW ...echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/login", h.Login, loginMW...)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Current)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cred, err := h.creds.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.metrics.Login(telemetry.LoginFailure)
			h.logger.Warn().Str("remote_ip", c.RealIP()).Msg("login rejected")
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		h.metrics.Login(telemetry.LoginError)
		return err
	}

	token, sess, err := h.sessions.Issue(cred.Username, cred.Role)
	if err != nil {
		h.metrics.Login(telemetry.LoginError)
		return err
	}

	h.metrics.Login(telemetry.LoginSuccess)
	h.logger.Info().Str("username", sess.Username).Str("role", sess.Role).Msg("login")

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt,
		Username:  sess.Username,
		Role:      sess.Role,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	sess, ok := SessionFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	h.revoked.Revoke(sess.ID, sess.Username, sess.ExpiresAt)
	h.logger.Info().Str("username", sess.Username).Msg("logout")
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Current(c echo.Context) error {
	sess, ok := SessionFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, sess)
}
