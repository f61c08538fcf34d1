package serializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	cnserrors "github.com/NVIDIA/tuning-tables/pkg/errors"
)

// HTTPTimeout bounds a remote database download.
const HTTPTimeout = 30 * time.Second

var httpClient = &http.Client{Timeout: HTTPTimeout}

func isHTTPURI(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// openHTTP issues a GET for uri and returns the response body.
func openHTTP(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid database URL", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		code := cnserrors.ErrCodeUnavailable
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			code = cnserrors.ErrCodeTimeout
		}
		return nil, cnserrors.WrapWithContext(code, "failed to fetch database", err,
			map[string]any{"url": uri})
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		code := cnserrors.ErrCodeUnavailable
		if resp.StatusCode == http.StatusNotFound {
			code = cnserrors.ErrCodeNotFound
		}
		return nil, cnserrors.WrapWithContext(code, "failed to fetch database",
			fmt.Errorf("unexpected status %s", resp.Status), map[string]any{"url": uri})
	}

	slog.Debug("fetched remote database", "url", uri, "content_length", resp.ContentLength)

	return resp.Body, nil
}
