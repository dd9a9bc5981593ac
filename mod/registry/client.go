// Package registry implements the HTTP client for the package registry
// protocol: listing releases, fetching a manifest, and downloading and
// verifying a release archive.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/swiftpkg/registry-core/internal/regfs"
	"github.com/swiftpkg/registry-core/mod/scopedname"
)

const contentVersionHeader = "Content-Version"
const currentContentVersion = "1"

// Client speaks the registry HTTP protocol against a single base URL.
// Construct one with [New] or, to share connections across callers
// targeting the same registry, [Clients].
type Client struct {
	cfg  Config
	http *http.Client
}

func newClient(cfg Config) *Client {
	return &Client{cfg: cfg, http: cfg.httpClient()}
}

func (c *Client) buildURL(pathSuffix string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(c.cfg.baseURL())
	if err != nil {
		return nil, &InvalidURLError{BaseURL: c.cfg.baseURL(), Path: pathSuffix, Err: err}
	}
	rel, err := url.Parse(strings.TrimPrefix(pathSuffix, "/"))
	if err != nil {
		return nil, &InvalidURLError{BaseURL: c.cfg.baseURL(), Path: pathSuffix, Err: err}
	}
	resolved := u.ResolveReference(rel)
	if query != nil {
		resolved.RawQuery = query.Encode()
	}
	return resolved, nil
}

func scopedPath(pkg scopedname.Name) (namespace, name string, err error) {
	if !pkg.IsValid() {
		return "", "", &InvalidOperationError{Reason: "registry operation requires a namespace-scoped package identifier"}
	}
	return strings.TrimPrefix(pkg.Namespace(), "@"), pkg.Name(), nil
}

// do issues req without following redirects, matching the protocol's
// requirement that redirects are not followed.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	client := *c.http
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client.Do(req)
}

// ListReleases returns the set of valid, non-withdrawn release versions
// for pkg, sorted in descending order.
func (c *Client) ListReleases(ctx context.Context, pkg scopedname.Name) ([]string, error) {
	namespace, name, err := scopedPath(pkg)
	if err != nil {
		return nil, err
	}
	u, err := c.buildURL(fmt.Sprintf("%s/%s", namespace, name), nil)
	if err != nil {
		return nil, err
	}

	body, _, err := c.get(ctx, u, "application/vnd.swift.registry.v1+json", isJSONContentType)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Releases map[string]struct {
			Problem *struct{} `json:"problem"`
		} `json:"releases"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &InvalidResponseError{URL: u.String(), Reason: "body is not a valid release-list JSON object", Err: err}
	}

	seen := make(map[string]bool)
	var versions []string
	for v, release := range payload.Releases {
		if release.Problem != nil {
			continue
		}
		canon := "v" + strings.TrimPrefix(v, "v")
		if !semver.IsValid(canon) {
			continue
		}
		version := strings.TrimPrefix(canon, "v")
		if seen[version] {
			continue
		}
		seen[version] = true
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare("v"+versions[i], "v"+versions[j]) > 0
	})
	return versions, nil
}

// FetchManifest downloads the manifest for pkg at version, optionally
// requesting the variant for a specific swift-version, writes it into an
// in-memory file system, and hands it to load for parsing. baseURL
// passed to load is this client's configured registry base URL.
func (c *Client) FetchManifest(ctx context.Context, pkg scopedname.Name, version, swiftVersion, toolsVersion, packageKind string, load ManifestLoader) (Manifest, error) {
	namespace, name, err := scopedPath(pkg)
	if err != nil {
		return nil, err
	}

	filename := "Package.swift"
	var query url.Values
	if swiftVersion != "" {
		filename = fmt.Sprintf("Package@swift-%s.swift", swiftVersion)
		query = url.Values{"swift-version": {swiftVersion}}
	}

	u, err := c.buildURL(fmt.Sprintf("%s/%s/%s/Package.swift", namespace, name, version), query)
	if err != nil {
		return nil, err
	}

	body, _, err := c.get(ctx, u, "application/vnd.swift.registry.v1+swift", isSwiftContentType)
	if err != nil {
		return nil, err
	}

	fsys := &regfs.Memory{}
	if err := fsys.WriteFile(filename, body); err != nil {
		return nil, err
	}

	return load(ctx, filename, c.cfg.baseURL(), toolsVersion, packageKind, fsys)
}

// get performs a GET request, enforcing the protocol's response
// requirements: status 200, the given Accept header, a success content
// type accepted by acceptContentType, a Content-Version: 1 header, and a
// non-empty body. It returns the body bytes.
func (c *Client) get(ctx context.Context, u *url.URL, accept string, acceptContentType func(string) bool) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, &InvalidURLError{BaseURL: c.cfg.baseURL(), Path: u.String(), Err: err}
	}
	req.Header.Set("Accept", accept)

	resp, err := c.do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &InvalidResponseError{URL: u.String(), Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	if v := resp.Header.Get(contentVersionHeader); v != currentContentVersion {
		return nil, nil, &InvalidResponseError{URL: u.String(), Reason: fmt.Sprintf("missing or unexpected Content-Version header %q", v)}
	}
	ct := resp.Header.Get("Content-Type")
	if !acceptContentType(ct) {
		return nil, nil, &InvalidResponseError{URL: u.String(), Reason: fmt.Sprintf("unexpected content type %q", ct)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &InvalidResponseError{URL: u.String(), Reason: "failed reading response body", Err: err}
	}
	if len(body) == 0 {
		return nil, nil, &InvalidResponseError{URL: u.String(), Reason: "empty response body"}
	}
	return body, resp.Header, nil
}

func isJSONContentType(ct string) bool {
	return strings.HasPrefix(ct, "application/json")
}

func isSwiftContentType(ct string) bool {
	return strings.HasPrefix(ct, "text/x-swift")
}

func isZipContentType(ct string) bool {
	return strings.HasPrefix(ct, "application/zip")
}
