package registry

import (
	"context"
	"fmt"
	"os"
	"strings"

	digest "github.com/opencontainers/go-digest"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/swiftpkg/registry-core/mod/scopedname"
)

// DownloadArchive downloads the release archive for pkg at version,
// verifies its integrity, and extracts it into destination using
// extract. expectedChecksum, if non-empty, is a hex-encoded SHA-256
// digest the caller already expects; it's checked in addition to the
// server's own Digest header.
//
// On success the temporary archive file is removed regardless of
// whether extraction succeeded. On failure, destination is removed.
func (c *Client) DownloadArchive(ctx context.Context, pkg scopedname.Name, version, destination, expectedChecksum string, extract Archiver) error {
	namespace, name, err := scopedPath(pkg)
	if err != nil {
		return err
	}

	u, err := c.buildURL(fmt.Sprintf("%s/%s/%s.zip", namespace, name, version), nil)
	if err != nil {
		return err
	}

	body, headers, err := c.get(ctx, u, "application/vnd.swift.registry.v1+zip", isZipContentType)
	if err != nil {
		return err
	}

	if err := verifyDigest(body, expectedChecksum, headers.Get("Digest")); err != nil {
		return err
	}

	archivePath := destination + ".zip"
	unlock, err := lockedfile.MutexAt(archivePath + ".lock").Lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := writeArchiveFile(archivePath, body); err != nil {
		return err
	}
	defer os.Remove(archivePath)

	if err := os.MkdirAll(destination, 0o777); err != nil {
		return err
	}

	if err := extract(ctx, archivePath, destination); err != nil {
		os.RemoveAll(destination)
		return err
	}
	return nil
}

func writeArchiveFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o666); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// verifyDigest checks the downloaded bytes against expectedChecksum (if
// supplied) and the server-advertised Digest header value (if present),
// as required by the download protocol.
func verifyDigest(body []byte, expectedChecksum, digestHeader string) error {
	computed := digest.FromBytes(body).Encoded()

	if expectedChecksum != "" && !strings.EqualFold(expectedChecksum, computed) {
		return &InvalidChecksumError{Expected: expectedChecksum, Actual: computed, Source: "caller"}
	}
	if advertised, ok := parseDigestHeader(digestHeader); ok {
		if !strings.EqualFold(advertised, computed) {
			return &InvalidChecksumError{Expected: advertised, Actual: computed, Source: "server"}
		}
	}
	return nil
}

// parseDigestHeader parses a "sha-256=<hex>" Digest header value.
func parseDigestHeader(header string) (hexDigest string, ok bool) {
	const prefix = "sha-256="
	lower := strings.ToLower(header)
	if !strings.HasPrefix(lower, prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
