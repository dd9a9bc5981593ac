package toolsversion

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/swiftpkg/registry-core/internal/regfs"
)

const regularManifestName = "Package.swift"

// fixedVersionFilenames are checked before the general version-specific
// scan and, if present, win outright regardless of currentToolsVersion.
var fixedVersionFilenames = []string{
	"Package@swift-3.swift",
	"Package@swift-4.swift",
}

var versionedManifestPattern = regexp.MustCompile(`^Package@swift-(\d+)(?:\.(\d+)(?:\.(\d+))?)?\.swift$`)

// SelectManifest picks the manifest file that should be loaded for dir
// given the tools version requested by the current toolchain. It
// implements the four-step selection rule: fixed-version filenames win
// outright; otherwise the greatest version-specific file at or below
// currentToolsVersion wins only if its own declared tools version exceeds
// that of the regular manifest.
func SelectManifest(fsys regfs.FS, dir string, currentToolsVersion string) (string, error) {
	for _, name := range fixedVersionFilenames {
		candidate := join(dir, name)
		if fsys.IsFile(candidate) {
			return candidate, nil
		}
	}

	names, err := fsys.ReadDir(dir)
	if err != nil {
		return "", &InaccessibleError{Path: dir, Reason: "cannot enumerate package directory", Err: err}
	}

	regularPath := join(dir, regularManifestName)
	regularVersion, err := versionOf(fsys, regularPath)
	if err != nil {
		return "", err
	}

	var bestName string
	var bestVersion string
	for _, name := range names {
		m := versionedManifestPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		v := canonicalFromParts(m[1], m[2], m[3])
		if !semver.IsValid(v) {
			continue
		}
		if semver.Compare(v, "v"+currentToolsVersion) > 0 {
			continue
		}
		if bestVersion == "" || semver.Compare(v, bestVersion) > 0 {
			bestVersion = v
			bestName = name
		}
	}

	if bestName == "" {
		return regularPath, nil
	}

	candidatePath := join(dir, bestName)
	candidateVersion, err := versionOf(fsys, candidatePath)
	if err != nil {
		return "", err
	}
	if semver.Compare("v"+candidateVersion, "v"+regularVersion) > 0 {
		return candidatePath, nil
	}
	return regularPath, nil
}

func versionOf(fsys regfs.FS, path string) (string, error) {
	if !fsys.IsFile(path) {
		return defaultVersion, nil
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", &InaccessibleError{Path: path, Reason: "cannot read manifest", Err: err}
	}
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	return Parse(string(firstLine))
}

func canonicalFromParts(major, minor, patch string) string {
	v := "v" + major
	if minor != "" {
		v += "." + minor
	} else {
		v += ".0"
	}
	if patch != "" {
		v += "." + patch
	} else {
		v += ".0"
	}
	return v
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}
