package bundler

import (
	"path/filepath"
	"strings"
)

// ToPortable converts a native host path to the forward-slash form used for
// asset names, manifest entries, and source-map sources.
func ToPortable(p string) string {
	if filepath.Separator == '/' {
		return p
	}
	return strings.ReplaceAll(p, string(filepath.Separator), "/")
}

// ToNative converts a portable forward-slash path back to the host's native
// separator for filesystem queries.
func ToNative(p string) string {
	if filepath.Separator == '/' {
		return p
	}
	return strings.ReplaceAll(p, "/", string(filepath.Separator))
}

// AssetName derives the portable, root-relative asset name for a host path P
// given the compiler root and project root. It picks whichever root is the
// longest matching prefix of P, per the data model's asset-name derivation
// rule, and fails with ErrUnexpectedFilePath when neither root contains P.
func AssetName(p, compilerRoot, projectRoot string) (string, error) {
	pAbs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	var root string
	for _, candidate := range []string{compilerRoot, projectRoot} {
		if candidate == "" {
			continue
		}
		candAbs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if !isUnder(pAbs, candAbs) {
			continue
		}
		if len(candAbs) > len(root) {
			root = candAbs
		}
	}

	if root == "" {
		return "", &UnexpectedFilePathError{Path: p}
	}

	rel := strings.TrimPrefix(pAbs, root)
	rel = ToPortable(rel)
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return rel, nil
}

// isUnder reports whether p is root itself or lies beneath it.
func isUnder(p, root string) bool {
	if p == root {
		return true
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
