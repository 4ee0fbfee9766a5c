package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	"github.com/BruksfildServices01/aklinic/internal/auth"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/metrics"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

type UserLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthHandler struct {
	users   UserLookup
	guard   *auth.Guard
	audit   audit.Recorder
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewAuthHandler(
	users UserLookup,
	guard *auth.Guard,
	audit audit.Recorder,
	m *metrics.Metrics,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:   users,
		guard:   guard,
		audit:   audit,
		metrics: m,
		log:     log,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// --------- Handlers ---------

// Login answers unknown emails and wrong passwords identically.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	_ = c.ShouldBind(&req)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		httperr.BadRequest(c, "", "Email and password are required")
		return
	}

	user, err := h.users.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.log.Error().Err(err).Msg("login lookup failed")
			httperr.Internal(c, "", "Internal server error")
			return
		}
		auth.BurnPasswordCheck(req.Password)
		h.rejectLogin(c)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.rejectLogin(c)
		return
	}

	token, err := h.guard.Codec().Issue(auth.IdentityOf(user))
	if err != nil {
		h.log.Error().Err(err).Msg("issue session failed")
		httperr.Internal(c, "", "Internal server error")
		return
	}

	h.guard.Cookies().Set(c, token)
	h.metrics.LoginAttempt("success")
	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "login",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusOK, auth.IdentityOf(user))
}

func (h *AuthHandler) rejectLogin(c *gin.Context) {
	h.metrics.LoginAttempt("rejected")
	httperr.Unauthorized(c, "", "Invalid credentials")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.guard.Cookies().Clear(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) Me(c *gin.Context) {
	id := identity(c)
	if id == nil {
		httperr.AbortUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, id)
}
