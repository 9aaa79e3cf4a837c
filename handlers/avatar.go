package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/veselovese/bronitech/initializers"
	"github.com/veselovese/bronitech/types"
)

// UploadAvatar replaces the caller's profile picture. The same size and MIME
// policy applies as for space and event images.
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	// Limit request body size before reading multipart data.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, initializers.Storage.MaxSize)

	file, err := c.FormFile("file")
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, types.NewErrorResponse(types.ErrorCodeValidation, "file size exceeds the limit"))
			return
		}
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "file is required"))
		return
	}

	// Detect real MIME type from file content, not from the client header.
	sniff, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "cannot open uploaded file"))
		return
	}
	mt, detectErr := mimetype.DetectReader(sniff)
	_ = sniff.Close()
	if detectErr != nil || mt == nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "failed to detect file type"))
		return
	}
	contentType := strings.Split(mt.String(), ";")[0]

	if err := initializers.CheckFileAllowed(file.Size, contentType); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}

	objectKey := uuid.NewString()
	if err := putObject(file, objectKey, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	userID := c.GetInt("userId")
	previous, err := h.usersRepo.SetAvatar(userID, objectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if previous != nil {
		// Old blob removal is best effort; the row already points at the new
		// key.
		_ = initializers.MinioClient.RemoveObject(
			context.Background(),
			initializers.Storage.Bucket,
			*previous,
			minio.RemoveObjectOptions{},
		)
	}

	user, err := h.usersRepo.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(user))
}

// Avatar redirects to a presigned URL for the caller's stored avatar.
func (h *AuthHandler) Avatar(c *gin.Context) {
	user, err := h.usersRepo.GetUserByID(c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if user == nil || user.Profile == nil || user.Profile.AvatarKey == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Avatar not set"))
		return
	}
	url, err := initializers.PresignedObjectURL(*user.Profile.AvatarKey, "avatar")
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.Redirect(http.StatusFound, url)
}
