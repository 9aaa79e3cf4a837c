package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/veselovese/bronitech/initializers"
	"github.com/veselovese/bronitech/models"
	"github.com/veselovese/bronitech/repository"
	"github.com/veselovese/bronitech/types"
)

// ImagesHandler serves image upload, deletion and cover selection for spaces
// and events. Binary data goes to MinIO; rows only carry metadata.
type ImagesHandler struct {
	imagesRepo *repository.ImagesRepository
	spacesRepo *repository.SpacesRepository
	eventsRepo *repository.EventsRepository
}

func NewImagesHandler(imagesRepo *repository.ImagesRepository, spacesRepo *repository.SpacesRepository, eventsRepo *repository.EventsRepository) *ImagesHandler {
	return &ImagesHandler{imagesRepo: imagesRepo, spacesRepo: spacesRepo, eventsRepo: eventsRepo}
}

func (h *ImagesHandler) UploadSpaceImage(c *gin.Context) {
	spaceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}
	space, err := h.spacesRepo.GetSpaceByID(spaceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if space == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Space not found"))
		return
	}
	h.upload(c, func(img *models.Image) (*models.Image, error) {
		return h.imagesRepo.AddSpaceImage(spaceID, img)
	})
}

func (h *ImagesHandler) UploadEventImage(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid event ID"))
		return
	}
	event, err := h.eventsRepo.GetByID(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Event not found"))
		return
	}
	h.upload(c, func(img *models.Image) (*models.Image, error) {
		return h.imagesRepo.AddEventImage(eventID, img)
	})
}

func (h *ImagesHandler) upload(c *gin.Context, store func(*models.Image) (*models.Image, error)) {
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

	stored, err := store(&models.Image{
		ObjectKey:   objectKey,
		FileName:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(stored))
}

func putObject(file *multipart.FileHeader, objectKey, contentType string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = initializers.MinioClient.PutObject(
		context.Background(),
		initializers.Storage.Bucket,
		objectKey,
		src,
		file.Size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

// DownloadSpaceImage redirects to a presigned URL for the stored object.
func (h *ImagesHandler) DownloadSpaceImage(c *gin.Context) {
	spaceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid space ID"))
		return
	}
	imageID, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid image ID"))
		return
	}
	img, err := h.imagesRepo.GetSpaceImage(spaceID, imageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Image not found"))
		return
	}
	url, err := initializers.PresignedObjectURL(img.ObjectKey, img.FileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *ImagesHandler) DeleteSpaceImage(c *gin.Context) {
	h.remove(c, h.imagesRepo.DeleteSpaceImage)
}

func (h *ImagesHandler) DeleteEventImage(c *gin.Context) {
	h.remove(c, h.imagesRepo.DeleteEventImage)
}

func (h *ImagesHandler) remove(c *gin.Context, del func(ownerID, imageID int) (string, error)) {
	ownerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid ID"))
		return
	}
	imageID, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid image ID"))
		return
	}
	objectKey, err := del(ownerID, imageID)
	if err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Image not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	// Blob removal is best effort; the row is already gone.
	_ = initializers.MinioClient.RemoveObject(
		context.Background(),
		initializers.Storage.Bucket,
		objectKey,
		minio.RemoveObjectOptions{},
	)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"imageId": imageID}))
}

func (h *ImagesHandler) SetSpaceCover(c *gin.Context) {
	h.setCover(c, h.imagesRepo.SetSpaceCover)
}

func (h *ImagesHandler) SetEventCover(c *gin.Context) {
	h.setCover(c, h.imagesRepo.SetEventCover)
}

func (h *ImagesHandler) setCover(c *gin.Context, set func(ownerID, imageID int) error) {
	ownerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid ID"))
		return
	}
	imageID, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid image ID"))
		return
	}
	if err := set(ownerID, imageID); err != nil {
		if err == models.ErrNotFound {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Image not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"imageId": imageID, "cover": true}))
}
