package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/security"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/errors"
)

var allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".webp"}

type registerRequest struct {
	Nick     string `json:"nick" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateNickRequest struct {
	Nick string `json:"nick" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type profileResponse struct {
	*models.User
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (h *HandlerManager) profile(c *gin.Context, user *models.User) profileResponse {
	return profileResponse{
		User:      user,
		AvatarURL: h.Images.SignedURLPtr(c.Request.Context(), user.AvatarPath),
	}
}

// Register creates an account and signs it in
func (h *HandlerManager) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.Users.Register(c.Request.Context(), req.Nick, req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}

	user, token, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": h.profile(c, user)})
}

func (h *HandlerManager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": h.profile(c, user)})
}

func (h *HandlerManager) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.Users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.profile(c, user))
}

func (h *HandlerManager) UpdateNick(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateNickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.Users.UpdateNick(c.Request.Context(), userID, req.Nick); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.Outcome{OK: true, Message: "Nick updated."})
}

func (h *HandlerManager) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.Users.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.Outcome{OK: true, Message: "Password changed."})
}

// UploadAvatar stores the "avatar" form file and points the profile at it
func (h *HandlerManager) UploadAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	key, ok := h.saveUploadedImage(c, "avatar", userID, services.ImageKindAvatar, true)
	if !ok {
		return
	}

	if err := h.Users.UpdateAvatar(c.Request.Context(), userID, key); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.Users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.profile(c, user))
}

// saveUploadedImage stores the multipart file under field. It returns "" and true
// when the field is absent and not required.
func (h *HandlerManager) saveUploadedImage(c *gin.Context, field string, userID uint, kind string, required bool) (string, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil {
		if required {
			respondError(c, errors.New(errors.ErrCodeValidation, "Choose an image to upload."))
			return "", false
		}
		return "", true
	}

	if !security.ValidateFileType(fileHeader.Filename, allowedImageTypes) {
		respondError(c, errors.New(errors.ErrCodeValidation, "Only JPG, PNG and WEBP images are accepted."))
		return "", false
	}
	if !security.ValidateFileSize(fileHeader.Size, h.Config.UploadMaxSize) {
		respondError(c, errors.New(errors.ErrCodeValidation, "The image is too large."))
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.New(errors.ErrCodeValidation, "Could not read the uploaded image."))
		return "", false
	}
	defer file.Close()

	key, err := h.Images.Save(c.Request.Context(), userID, kind, file)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return key, true
}
