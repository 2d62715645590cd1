package bundler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

var useStrictPrologue = regexp.MustCompile(`^\s*(?:"use strict"|'use strict');?\s*\n?`)

// StripUseStrict deletes a leading top-level expression statement whose
// expression is exactly "use strict", to avoid a redundant directive once
// modules are merged into one artifact.
func StripUseStrict(src []byte) []byte {
	return useStrictPrologue.ReplaceAll(src, nil)
}

// StripSourceMappingURL drops a trailing "//# sourceMappingURL=" comment
// line; the map travels as its own artifact asset instead.
func StripSourceMappingURL(src []byte) []byte {
	text := string(src)
	trimmed := strings.TrimRight(text, "\n")
	lastNL := strings.LastIndex(trimmed, "\n")
	lastLine := trimmed[lastNL+1:]
	if !strings.HasPrefix(lastLine, "//# sourceMappingURL=") {
		return src
	}
	if lastNL == -1 {
		return nil
	}
	return []byte(text[:lastNL+1])
}

// Minify invokes esbuild's minifier with ES2020 grammar, module-mode
// compression and mangling, and the FRIDA_COMPILE global define. When
// priorMap is non-empty it is fed back in as an inline sourceMappingURL
// comment so the minifier composes a map that still points at the
// original sources; the composed map is then rerooted to the final
// artifact layout.
func Minify(code, priorMap []byte, originHostPath, assetName string, sourceMaps bool) (minified, newMap []byte, diags []Diagnostic, err error) {
	input := code
	if sourceMaps && len(priorMap) > 0 {
		encoded := base64.StdEncoding.EncodeToString(priorMap)
		input = append(append([]byte{}, code...), []byte("\n//# sourceMappingURL=data:application/json;base64,"+encoded)...)
	}

	sourcemapOpt := esbuild.SourceMapNone
	if sourceMaps {
		sourcemapOpt = esbuild.SourceMapExternal
	}

	result := esbuild.Transform(string(input), esbuild.TransformOptions{
		Target:            esbuild.ES2020,
		Format:            esbuild.FormatESModule,
		Platform:          esbuild.PlatformNeutral,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcemap:         sourcemapOpt,
		Define:            map[string]string{"process.env.FRIDA_COMPILE": "true"},
		Loader:            esbuild.LoaderJS,
	})

	for _, msg := range result.Errors {
		diags = append(diags, Diagnostic{Text: msg.Text})
	}
	for _, msg := range result.Warnings {
		diags = append(diags, Diagnostic{Text: msg.Text})
	}
	if len(result.Errors) > 0 {
		return nil, nil, diags, fmt.Errorf("minify failed: %s", result.Errors[0].Text)
	}

	minified = result.Code
	if sourceMaps && len(result.Map) > 0 {
		fused, ferr := rerootSourceMap(result.Map, originHostPath, assetName)
		if ferr != nil {
			return nil, nil, diags, ferr
		}
		newMap = fused
	}
	return minified, newMap, diags, nil
}

// rerootSourceMap sets the map's root to the portable directory of the
// asset's origin and its file to the asset's basename, then strips that
// root prefix from every entry in sources.
func rerootSourceMap(raw []byte, originHostPath, assetName string) ([]byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	root := ToPortable(filepath.Dir(originHostPath))
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	doc["sourceRoot"] = root
	doc["file"] = filepath.Base(assetName)

	if sources, ok := doc["sources"].([]interface{}); ok {
		for i, s := range sources {
			str, ok := s.(string)
			if !ok {
				continue
			}
			sources[i] = strings.TrimPrefix(ToPortable(str), root)
		}
		doc["sources"] = sources
	}

	return json.Marshal(doc)
}

// EmissionOrder orders asset names lexicographically, floats the
// entrypoint to position 0, and moves each .map asset to immediately
// precede its base asset.
func EmissionOrder(names []string, entrypoint string) []string {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var bases []string
	for _, n := range names {
		if !strings.HasSuffix(n, ".map") {
			bases = append(bases, n)
		}
	}
	sort.Strings(bases)

	withSiblings := func(base string) []string {
		mapName := base + ".map"
		if present[mapName] {
			return []string{mapName, base}
		}
		return []string{base}
	}

	var order []string
	var head []string
	for _, base := range bases {
		if base == entrypoint {
			head = withSiblings(base)
			continue
		}
		order = append(order, withSiblings(base)...)
	}

	return append(head, order...)
}
