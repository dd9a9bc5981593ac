package registry

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/swiftpkg/registry-core/internal/reglog"
	"github.com/swiftpkg/registry-core/internal/regversion"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://packages.swift.org/"

// Config configures a Client.
type Config struct {
	// BaseURL is the registry's base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Transport is the underlying RoundTripper used for requests, wrapped
	// with logging and User-Agent injection. Defaults to
	// http.DefaultTransport.
	Transport http.RoundTripper

	// ClientType identifies the calling application in the User-Agent
	// header.
	ClientType string

	// Logger receives structured logs of each HTTP round trip. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

func (cfg Config) baseURL() string {
	if cfg.BaseURL == "" {
		return DefaultBaseURL
	}
	return cfg.BaseURL
}

func (cfg Config) httpClient() *http.Client {
	logged := reglog.Transport(reglog.Config{
		Logger: cfg.Logger,
		Base:   cfg.Transport,
	})
	t := regversion.NewTransport(cfg.ClientType, logged)
	return &http.Client{Transport: t}
}

var clientCache sync.Map // map[string]*Client, keyed by base URL

// Clients returns a Client for cfg, reusing a previously constructed one
// for the same base URL if one exists. The process-wide cache exists so
// repeated calls for the same registry don't each open their own
// connection pool.
func Clients(cfg Config) *Client {
	key := cfg.baseURL()
	if existing, ok := clientCache.Load(key); ok {
		return existing.(*Client)
	}
	c := newClient(cfg)
	actual, _ := clientCache.LoadOrStore(key, c)
	return actual.(*Client)
}

// New returns a standalone Client for cfg, bypassing the process-wide
// cache. Most callers should use Clients instead.
func New(cfg Config) *Client {
	return newClient(cfg)
}
