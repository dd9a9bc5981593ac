// Package regversion reports this module's version, for use in the
// registry client's User-Agent header.
package regversion

import (
	"fmt"
	"maps"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const thisModule = "github.com/swiftpkg/registry-core"

// ModuleVersion returns the version of this module as best as can
// reasonably be determined, for informational and debugging purposes.
func ModuleVersion() string {
	return moduleVersionOnce()
}

var moduleVersionOnce = sync.OnceValue(func() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "(no-build-info)"
	}
	if bi.Main.Path == thisModule {
		return bi.Main.Version
	}
	for _, m := range bi.Deps {
		if m.Replace != nil && m.Replace.Path == thisModule {
			return m.Replace.Version
		}
		if m.Path == thisModule {
			return m.Version
		}
	}
	return "(no-module)"
})

// UserAgent returns a string suitable for the User-Agent header. clientType
// describes how the registry client is being used; if empty it defaults to
// this module's path.
func UserAgent(clientType string) string {
	if clientType == "" {
		clientType = thisModule
	}
	goVersion := strings.ReplaceAll(runtime.Version(), " ", "_")
	return fmt.Sprintf("RegistryCore/%s (%s) Go/%s (%s/%s)", ModuleVersion(), clientType, goVersion, runtime.GOOS, runtime.GOARCH)
}

// NewTransport wraps t (or http.DefaultTransport if nil) so every request
// carries a User-Agent header built by UserAgent(clientType).
func NewTransport(clientType string, t http.RoundTripper) http.RoundTripper {
	if t == nil {
		t = http.DefaultTransport
	}
	return &userAgentTransport{base: t, userAgent: UserAgent(clientType)}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req1 := *req
	req1.Header = maps.Clone(req.Header)
	req1.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(&req1)
}
