package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store uploads images to the external blob store and returns their public
// URLs. Uploads are best-effort; callers never block a larger write on a
// failed upload.
type Store interface {
	Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error)
}

type client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, bucket string) Store {
	if apiKey == "" {
		logger.L().Warn("blob store API key is empty")
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (c *client) Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "blob"),
		zap.String("folder", folder),
		zap.String("content_type", contentType),
	)

	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", apperr.Ef(apperr.Validation, "unsupported image type %q", contentType)
	}

	// Object names are random so uploads never clobber each other.
	object := path.Join(folder, uuid.NewString()+ext)

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, object)
	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "blob upload request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("blob upload failed", zap.Error(err))
		return "", apperr.Wrap(apperr.Upstream, "blob store unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Error("blob store rejected upload",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return "", apperr.Ef(apperr.Upstream, "blob store returned status %d", resp.StatusCode)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, object)
	log.Info("image uploaded", zap.String("url", publicURL))
	return publicURL, nil
}
