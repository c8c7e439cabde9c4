package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/config"
	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/pkg/helpers"
	"github.com/soundvault/vinylstore/pkg/mailer"
	tpl "github.com/soundvault/vinylstore/pkg/mailer/templates"
	"github.com/soundvault/vinylstore/pkg/response"
	"github.com/soundvault/vinylstore/pkg/validation"
)

type AuthHandler struct {
	Sessions *application.SessionService
	Users    *application.UserService
	JWT      *helpers.JWTManager
	RDB      *redis.Client
	Logger   *logrus.Logger
	Cfg      *config.Config
	Pub      *helpers.RabbitPublisher
	Cookies  *helpers.Manager
}

func NewAuthHandler(sessions *application.SessionService, users *application.UserService, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{
		Sessions: sessions,
		Users:    users,
		JWT:      jwt,
		RDB:      rdb,
		Logger:   logger,
		Cfg:      cfg,
		Pub:      pub,
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func keyResetToken(t string) string { return "pwd:reset:token:" + t }

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	Phone     string `json:"phone" binding:"omitempty,localphone"`
	Address   string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.Register(c.Request.Context(), application.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		if err == application.ErrEmailTaken {
			response.Fail(c, http.StatusConflict, "email already registered", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, userJSON(u), "registered", nil)
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	access, aexp, err := h.JWT.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	refresh, rexp, err := h.JWT.GenerateRefreshToken(u.ID, u.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}

	key := sessionKey(u.ID)
	pipe := h.RDB.Pipeline()
	pipe.HSet(c.Request.Context(), key, map[string]any{
		"user_id":   u.ID,
		"email":     u.Email,
		"name":      u.FullName(),
		"role":      u.Role,
		"logged_in": true,
	})
	pipe.Expire(c.Request.Context(), key, 24*time.Hour)
	if _, rErr := pipe.Exec(c.Request.Context()); rErr != nil {
		h.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
	}

	h.Cookies.SetPair(c, access, aexp, refresh, rexp)
	response.Success(c, http.StatusOK, userJSON(u), "login successful",
		map[string]any{"access_expires_at": aexp, "refresh_expires_at": rexp})
}

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	claims, err := h.JWT.ParseRefreshToken(token)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	access, aexp, err := h.JWT.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	refresh, rexp, err := h.JWT.GenerateRefreshToken(claims.UserID, claims.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	h.Cookies.SetPair(c, access, aexp, refresh, rexp)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed",
		map[string]any{"access_expires_at": aexp, "refresh_expires_at": rexp})
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetInt64("userID")
	h.Sessions.Logout()
	if uid != 0 {
		if err := h.RDB.Del(c.Request.Context(), sessionKey(uid)).Err(); err != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("session delete failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// ResetInit POST /api/auth/reset/init {email}
// Always returns OK to avoid account enumeration.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, _ := h.Users.Repo.GetByEmail(c.Request.Context(), req.Email)
	if u != nil && h.RDB != nil {
		tok, err := genToken(32)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, "token generation failed", nil)
			return
		}
		h.RDB.Set(c.Request.Context(), keyResetToken(tok), u.ID, 30*time.Minute)
		link := h.Cfg.ResetPasswordURL + "?token=" + tok
		if h.Pub != nil && h.Cfg.MailSendEnabled {
			job := mailer.EmailJob{
				To:       u.Email,
				Template: tpl.ResetPassword,
				Data: map[string]any{
					"Name":      u.FullName(),
					"ResetURL":  link,
					"ExpiresIn": "30 minutes",
				},
			}
			_ = h.Pub.PublishJSON(c.Request.Context(), job)
		}
	}
	response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "reset link sent if the account exists", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uidStr, err := h.RDB.Get(c.Request.Context(), keyResetToken(req.Token)).Result()
	if err != nil || uidStr == "" {
		response.Fail(c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	uid, err := strconv.ParseInt(uidStr, 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err := h.Users.ResetPassword(c.Request.Context(), uid, req.NewPassword); err != nil {
		response.Fail(c, http.StatusInternalServerError, "password update failed", nil)
		return
	}
	h.RDB.Del(c.Request.Context(), keyResetToken(req.Token))
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"phone":      u.Phone,
		"role":       u.Role,
		"address":    u.Address,
		"photo":      u.Photo,
		"created_at": u.CreatedAt,
	}
}
