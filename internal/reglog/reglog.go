// Package reglog provides a logging http.RoundTripper for the registry
// client: every round trip is recorded through log/slog, with
// Authorization header values redacted and bodies capped in size.
package reglog

import (
	"bytes"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// DefaultMaxBodySize is used when Config.MaxBodySize is <= 0.
const DefaultMaxBodySize = 1024

// Config configures Transport.
type Config struct {
	// Logger receives one slog record per request and one per response.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Base is the underlying transport. If nil, http.DefaultTransport is
	// used.
	Base http.RoundTripper

	// MaxBodySize caps how many bytes of request/response body are
	// included in log records.
	MaxBodySize int
}

type transport struct {
	cfg Config
}

// Transport wraps cfg.Base (or http.DefaultTransport) with request and
// response logging.
func Transport(cfg Config) http.RoundTripper {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Base == nil {
		cfg.Base = http.DefaultTransport
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	return &transport{cfg: cfg}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	t.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "registry request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Any("header", redactAuthorization(req.Header)),
	)
	resp, err := t.cfg.Base.RoundTrip(req)
	if err != nil {
		t.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "registry response error",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	body, truncated := peekBody(&resp.Body, t.cfg.MaxBodySize)
	t.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "registry response",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.String("content-type", resp.Header.Get("Content-Type")),
		slog.Bool("body_truncated", truncated),
		slog.String("body", body),
	)
	return resp, nil
}

func redactAuthorization(h http.Header) http.Header {
	auths, ok := h["Authorization"]
	if !ok {
		return h
	}
	h = maps.Clone(h)
	auths = slices.Clone(auths)
	for i, auth := range auths {
		if kind, _, ok := strings.Cut(auth, " "); ok && (kind == "Basic" || kind == "Bearer") {
			auths[i] = kind + " REDACTED"
		} else {
			auths[i] = "REDACTED"
		}
	}
	h["Authorization"] = auths
	return h
}

// peekBody reads up to maxSize+1 bytes from *body for logging purposes,
// then restores *body so the caller still sees the full, unmodified
// stream: the peeked prefix is stitched back in front of whatever
// remains unread.
func peekBody(body *io.ReadCloser, maxSize int) (string, bool) {
	if *body == nil {
		return "", false
	}
	data, err := io.ReadAll(io.LimitReader(*body, int64(maxSize+1)))
	truncated := len(data) > maxSize
	logged := data
	if truncated {
		logged = data[:maxSize]
	}
	closer := *body
	*body = struct {
		io.Reader
		io.Closer
	}{
		Reader: io.MultiReader(bytes.NewReader(data), closer),
		Closer: closer,
	}
	if err != nil {
		truncated = true
	}
	return string(logged), truncated
}
