package bundler

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveConfig carries the roots and registries the Resolver needs. It is
// constructed once per bundling and passed down through the closure loop.
type ResolveConfig struct {
	CompilerRoot        string
	ProjectRoot          string
	ProjectModulesDir    string
	CompilerModulesDir   string
	ShimDir              string
	Shims                *ShimRegistry
}

// ResolveResult is the outcome of resolving a single specifier.
type ResolveResult struct {
	ResolvedPath   string
	AliasNeeded    bool
	AliasName      string
	AliasSpecifier string
	Missing        bool
}

// Resolve turns a module specifier and the requesting module's path into
// the on-disk path of the resolved module, plus whether an alias must be
// registered to map the canonical asset name back to the bare specifier.
func Resolve(specifier, requesterPath string, cfg ResolveConfig) ResolveResult {
	var resolvedPath string
	var aliasNeeded bool

	if filepath.IsAbs(specifier) {
		resolvedPath = specifier
	} else {
		pkgName, subPath := splitSpecifier(specifier)

		if cfg.Shims != nil && cfg.Shims.Contains(pkgName) {
			if p, ok := cfg.Shims.Resolve(pkgName, subPath, cfg.ShimDir); ok {
				resolvedPath = p
			}
			aliasNeeded = true
		} else {
			modulesDir := cfg.ProjectModulesDir
			if underCompilerRoot(requesterPath, cfg.CompilerRoot, cfg.ProjectModulesDir) {
				modulesDir = cfg.CompilerModulesDir
			}
			resolvedPath = filepath.Join(modulesDir, ToNative(pkgName))
			if len(subPath) > 0 {
				resolvedPath = filepath.Join(resolvedPath, ToNative(filepath.Join(subPath...)))
			}
			aliasNeeded = len(subPath) > 0
		}
	}

	resolvedPath, forcedAlias := resolveDirectoryEntry(resolvedPath)
	if forcedAlias {
		aliasNeeded = true
	}

	if !fileExists(resolvedPath) {
		withJS := resolvedPath + ".js"
		if fileExists(withJS) {
			resolvedPath = withJS
		} else {
			return ResolveResult{Missing: true}
		}
	}

	result := ResolveResult{ResolvedPath: resolvedPath, AliasNeeded: aliasNeeded}
	if aliasNeeded {
		if assetName, err := AssetName(resolvedPath, cfg.CompilerRoot, cfg.ProjectRoot); err == nil {
			result.AliasName = assetName
			result.AliasSpecifier = specifier
		}
	}
	return result
}

// splitSpecifier separates a bare specifier into its package name and any
// subpath segments, honoring the scoped-package ("@scope/name") convention.
func splitSpecifier(s string) (pkgName string, subPath []string) {
	tokens := strings.Split(s, "/")
	if strings.HasPrefix(tokens[0], "@") && len(tokens) > 1 {
		if len(tokens) > 2 {
			return tokens[0] + "/" + tokens[1], tokens[2:]
		}
		return tokens[0] + "/" + tokens[1], nil
	}
	return tokens[0], tokens[1:]
}

// resolveDirectoryEntry implements steps 5 and 6 of the Resolver algorithm:
// if path is a directory, descend into it via its package.json module/main
// field or "index.js".
func resolveDirectoryEntry(path string) (resolved string, forcedAlias bool) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path, false
	}

	desc, ok := readPackageDescriptor(filepath.Join(path, "package.json"))
	if ok {
		entry := desc.Module
		if entry == "" {
			entry = desc.Main
		}
		if entry == "" {
			entry = "index.js"
		}
		joined := filepath.Join(path, ToNative(entry))
		if info2, err2 := os.Stat(joined); err2 == nil && info2.IsDir() {
			joined = filepath.Join(joined, "index.js")
		}
		return joined, true
	}

	return filepath.Join(path, "index.js"), false
}

// underCompilerRoot implements step 4's requester classification: a module
// resolves under the compiler's modules directory when the requester lies
// under the compiler root itself, or under the project's linked
// "frida-compile" subdirectory.
func underCompilerRoot(requesterPath, compilerRoot, projectModulesDir string) bool {
	if compilerRoot != "" && isUnder(absOrSelf(requesterPath), absOrSelf(compilerRoot)) {
		return true
	}
	linked := filepath.Join(projectModulesDir, "frida-compile")
	return isUnder(absOrSelf(requesterPath), absOrSelf(linked))
}

func absOrSelf(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
