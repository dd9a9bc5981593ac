package registry

import (
	"context"

	"github.com/swiftpkg/registry-core/internal/regfs"
)

// Manifest is whatever a ManifestLoader produces. The registry client
// never interprets it; it only routes it back to the caller.
type Manifest any

// ManifestLoader parses a manifest file already written into fsys at
// packagePath into a Manifest. baseURL is the registry's base URL (used
// by the loader as the manifest's own base URL); toolsVersion and
// packageKind describe the context the manifest is being loaded in.
type ManifestLoader func(ctx context.Context, packagePath, baseURL, toolsVersion, packageKind string, fsys regfs.FS) (Manifest, error)

// Archiver extracts the archive at archivePath into destDir.
type Archiver func(ctx context.Context, archivePath, destDir string) error
