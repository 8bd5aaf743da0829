package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ds124wfegd/adgen/internal/entity"
	"github.com/sirupsen/logrus"
)

const maxDownloadBytes = 50 << 20

func (s *downloadService) Fetch(ctx context.Context, imageURL string) ([]byte, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, entity.ErrMissingImage
	}

	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, entity.ErrInvalidURL
	}
	if !HostAllowed(u.Hostname(), s.allowedHosts) {
		return nil, entity.ErrHostForbidden
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstream, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", entity.ErrUpstream, resp.StatusCode)
	}

	png, err := s.processor.ToPNG(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}

	logrus.WithFields(logrus.Fields{
		"host":  u.Hostname(),
		"bytes": len(png),
	}).Info("image prepared for download")

	return png, nil
}

// HostAllowed matches host against exact names and "*.example.com" patterns.
func HostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, pattern := range allowed {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == pattern {
			return true
		}
	}
	return false
}
