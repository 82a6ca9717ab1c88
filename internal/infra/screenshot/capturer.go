// internal/infra/screenshot/capturer.go
package screenshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Capturer produces a screenshot of a profile URL, or a failure. Every
// failure is a normal outcome for callers, never a crash.
type Capturer interface {
	Capture(ctx context.Context, profileURL string) ([]byte, error)
}

// HTTPCapturer calls an external headless-browser capture service
// (GET {base}/screenshot?url=...) that returns image bytes on success.
type HTTPCapturer struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewHTTPCapturer(baseURL string, timeout time.Duration, log *logrus.Entry) *HTTPCapturer {
	return &HTTPCapturer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPCapturer) Capture(ctx context.Context, profileURL string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/screenshot?url=%s", c.baseURL, url.QueryEscape(profileURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error building capture request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("profile_url", profileURL).Warn("Screenshot capture request failed")
		return nil, fmt.Errorf("capture request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{
			"profile_url": profileURL,
			"status":      resp.StatusCode,
		}).Warn("Screenshot service returned non-OK status")
		return nil, fmt.Errorf("capture service returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading capture response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("capture service returned an empty image")
	}
	return data, nil
}
