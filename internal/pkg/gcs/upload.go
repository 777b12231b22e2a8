package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

const publicURLFormat = "https://storage.googleapis.com/%s/%s"

// GCSClient stores loan documents and repayment evidence.
type GCSClient struct {
	Client     *storage.Client
	BucketName string
	now        func() time.Time
}

func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSClient{Client: client, BucketName: bucketName, now: time.Now}, nil
}

func (g *GCSClient) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSClient, err)
	}
}

// Upload writes content under folder and returns the object's public URL.
// Object names are timestamped and never overwrite an existing object.
func (g *GCSClient) Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, error) {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	objectName := path.Join(folder, fmt.Sprintf("%d_%s", now().UnixNano(), sanitize(filename)))

	writer := g.Client.Bucket(g.BucketName).Object(objectName).
		If(storage.Conditions{DoesNotExist: true}).
		NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, content); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCS, err, zap.String("object", objectName))
		_ = writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err, zap.String("object", objectName))
		return "", err
	}

	logger.CtxInfo(ctx, log_messages.UploadedToGCSBucket, zap.String("object", objectName))
	return fmt.Sprintf(publicURLFormat, g.BucketName, objectName), nil
}

// Delete removes the object behind a URL returned by Upload. A missing object is not an error.
func (g *GCSClient) Delete(ctx context.Context, url string) error {
	prefix := fmt.Sprintf(publicURLFormat, g.BucketName, "")
	objectName, ok := strings.CutPrefix(url, prefix)
	if !ok || objectName == "" {
		return fmt.Errorf("object %q is not in bucket %s", url, g.BucketName)
	}

	err := g.Client.Bucket(g.BucketName).Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		logger.CtxError(ctx, log_messages.ErrorDeletingFromGCS, err, zap.String("object", objectName))
		return err
	}
	logger.CtxInfo(ctx, log_messages.DeletedFromGCSBucket, zap.String("object", objectName))
	return nil
}

func sanitize(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
