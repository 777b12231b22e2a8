package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"easyloan/internal/app"
	"easyloan/internal/app/middleware"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes business errors as {message}. Anything that maps to a
// 5xx is logged and reported by code only.
func respondError(c *gin.Context, err error) {
	status := utils.StatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.CtxError(c.Request.Context(), "request failed", err,
			zap.String("path", c.FullPath()), zap.Int("status", status))
		c.JSON(status, gin.H{"message": log_messages.ServerError, "error": utils.GetErrorCode(err)})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": log_messages.InvalidRequestBody})
}

// callerOrAbort answers 401 when the route was reached without Authenticate.
func callerOrAbort(c *gin.Context) (custom.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": log_messages.NotAuthorized})
	}
	return caller, ok
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindBody accepts JSON or, for upload routes, a multipart form.
func bindBody(c *gin.Context, req any) error {
	if isMultipart(c) {
		return c.ShouldBind(req)
	}
	return c.ShouldBindJSON(req)
}

// Uploads stores an optional multipart file in GCS.
type Uploads struct {
	uploader app.FileUploader
	maxBytes int64
}

func NewUploads(uploader app.FileUploader, maxUploadMB int) Uploads {
	return Uploads{uploader: uploader, maxBytes: int64(maxUploadMB) << 20}
}

// store returns "" when the request carries no file under field.
func (u Uploads) store(c *gin.Context, field, folder string) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", custom.NewValidationError(log_messages.InvalidRequestBody)
	}
	if u.uploader == nil {
		return "", custom.NewValidationError(log_messages.UploadsDisabled)
	}
	if u.maxBytes > 0 && header.Size > u.maxBytes {
		return "", custom.NewValidationError(log_messages.FileTooLarge, u.maxBytes>>20)
	}
	return u.upload(c, header, folder)
}

func (u Uploads) upload(c *gin.Context, header *multipart.FileHeader, folder string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	url, err := u.uploader.Upload(c.Request.Context(), folder, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", log_messages.UploadFailed, err)
	}
	return url, nil
}

// discard removes a stored file whose request was then rejected.
func (u Uploads) discard(c *gin.Context, url string) {
	if url == "" || u.uploader == nil {
		return
	}
	if err := u.uploader.Delete(c.Request.Context(), url); err != nil {
		logger.CtxError(c.Request.Context(), "failed to discard uploaded file", err, zap.String("url", url))
	}
}
