package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"strings"
	"time"

	"readum/internal/domain"
	"readum/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/tmc/langchaingo/documentloaders"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 20 * time.Second
	maxRedirects   = 5
	userAgent      = "readum-page-loader/1.0"
)

// PageLoader fetches a page with fiber's HTTP client and extracts its text
// with langchaingo's HTML loader.
type PageLoader struct {
	timeout time.Duration
}

var _ domain.PageLoader = (*PageLoader)(nil)

func NewPageLoader(timeout time.Duration) *PageLoader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PageLoader{timeout: timeout}
}

// Load returns the visible text of the page at rawURL. Redirects are
// followed up to maxRedirects hops; the timeout covers the whole chain.
func (l *PageLoader) Load(ctx context.Context, rawURL string) (string, error) {
	deadline := time.Now().Add(l.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	current := rawURL
	var (
		status int
		body   []byte
	)
	for hop := 0; ; hop++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", fmt.Errorf("fetch %s: %w", rawURL, context.DeadlineExceeded)
		}

		var location string
		var err error
		status, body, location, err = fetch(current, remaining)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", current, err)
		}
		if !isRedirect(status) {
			break
		}
		if hop >= maxRedirects {
			return "", fmt.Errorf("fetch %s: stopped after %d redirects", rawURL, maxRedirects)
		}
		next, err := resolveLocation(current, location)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", current, err)
		}
		current = next
	}

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return "", fmt.Errorf("fetch %s: unexpected status %d", current, status)
	}

	docs, err := documentloaders.NewHTML(bytes.NewReader(body)).Load(ctx)
	if err != nil {
		return "", fmt.Errorf("parse html from %s: %w", current, err)
	}

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if text := strings.TrimSpace(d.PageContent); text != "" {
			parts = append(parts, text)
		}
	}

	logger.Get().Debug("page loaded",
		zap.String("url", rawURL),
		zap.String("final_url", current),
		zap.Int("status", status),
		zap.Int("bytes", len(body)),
		zap.Int("documents", len(docs)),
	)
	return strings.Join(parts, "\n\n"), nil
}

// fetch issues one GET without following redirects and returns the
// Location header alongside the body.
func fetch(target string, timeout time.Duration) (int, []byte, string, error) {
	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	agent := fiber.Get(target).
		Timeout(timeout).
		UserAgent(userAgent)
	agent.SetResponse(resp)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, "", errors.Join(errs...)
	}
	return status, body, string(resp.Header.Peek(fiber.HeaderLocation)), nil
}

func isRedirect(status int) bool {
	switch status {
	case fiber.StatusMovedPermanently, fiber.StatusFound, fiber.StatusSeeOther,
		fiber.StatusTemporaryRedirect, fiber.StatusPermanentRedirect:
		return true
	}
	return false
}

// resolveLocation resolves a possibly relative Location against base.
func resolveLocation(base, location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", errors.New("redirect without Location header")
	}
	b, err := neturl.Parse(base)
	if err != nil {
		return "", err
	}
	loc, err := neturl.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
	}
	next := b.ResolveReference(loc)
	if next.Scheme != "http" && next.Scheme != "https" {
		return "", fmt.Errorf("refusing redirect to %s", next.Redacted())
	}
	return next.String(), nil
}
