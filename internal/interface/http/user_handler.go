package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/application"
	"github.com/soundvault/vinylstore/internal/interface/middleware"
	"github.com/soundvault/vinylstore/pkg/response"
	"github.com/soundvault/vinylstore/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone" binding:"omitempty,localphone"`
	Address   string `json:"address"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Fail(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile", nil)
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "failed to update profile", err.Error())
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile updated", nil)
}

// ChangePassword PUT /api/profile/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if err == application.ErrWrongPassword {
			response.Fail(c, http.StatusBadRequest, "current password does not match", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "password change failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"changed": true}, "password changed", nil)
}

// UploadPhoto POST /api/profile/photo (multipart form, field "photo")
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "unreadable photo file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	contentType := file.Header.Get("Content-Type")
	url, err := h.Svc.UploadPhoto(c.Request.Context(), middleware.UserID(c), src, file.Filename, contentType)
	if err != nil {
		h.Logger.WithError(err).Warn("photo upload failed")
		response.Fail(c, http.StatusInternalServerError, "photo upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photo": url}, "photo uploaded", nil)
}
