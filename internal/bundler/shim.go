package bundler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// shimNames is the fixed set of bare module names the runtime substitutes
// with shim packages. Deliberately excludes "crypto" — this runtime has
// no shim for it.
var shimNames = []string{
	"assert", "base64-js", "buffer", "diagnostics_channel", "events", "fs",
	"http", "https", "http-parser-js", "ieee754", "net", "os", "path",
	"process", "punycode", "querystring", "readable-stream", "stream",
	"string_decoder", "timers", "tty", "url", "util", "vm",
}

// ShimRegistry maps a bare module name to the shim package directory name
// beneath the shim directory.
type ShimRegistry struct {
	packages map[string]string
}

// NewShimRegistry builds the fixed shim registry, naming each shim package
// after its bare module name (e.g. "fs" -> "frida-fs").
func NewShimRegistry() *ShimRegistry {
	packages := make(map[string]string, len(shimNames))
	for _, name := range shimNames {
		packages[name] = "frida-" + name
	}
	return &ShimRegistry{packages: packages}
}

// Contains reports whether pkgName has a registered shim.
func (r *ShimRegistry) Contains(pkgName string) bool {
	_, ok := r.packages[pkgName]
	return ok
}

// Resolve returns the on-disk location of pkgName's shim, rooted under
// shimDir, optionally descending into subPath. If the shim package name
// itself ends in ".js" it is used directly; otherwise the package's
// package.json is consulted for "module" then "main", defaulting to
// "index.js".
func (r *ShimRegistry) Resolve(pkgName string, subPath []string, shimDir string) (string, bool) {
	pkg, ok := r.packages[pkgName]
	if !ok {
		return "", false
	}

	if strings.HasSuffix(pkg, ".js") {
		return filepath.Join(shimDir, ToNative(pkg)), true
	}

	pkgDir := filepath.Join(shimDir, ToNative(pkg))
	if len(subPath) > 0 {
		return filepath.Join(pkgDir, ToNative(filepath.Join(subPath...))), true
	}

	entry := shimPackageEntry(pkgDir)
	return filepath.Join(pkgDir, entry), true
}

func shimPackageEntry(pkgDir string) string {
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return "index.js"
	}

	var desc packageDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return "index.js"
	}

	if desc.Module != "" {
		return desc.Module
	}
	if desc.Main != "" {
		return desc.Main
	}
	return "index.js"
}
