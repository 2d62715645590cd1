package bundler

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// AssetAnalysis describes one emitted asset's footprint.
type AssetAnalysis struct {
	Name  string
	Bytes int
	Alias string
}

// Analysis summarizes a Result for human inspection: per-asset sizes,
// registered aliases, and a shim/external count.
type Analysis struct {
	Assets     []AssetAnalysis
	TotalBytes int
	ShimCount  int
	Entrypoint string
}

// Analyze builds an Analysis from a completed bundling Result.
func Analyze(result *Result) Analysis {
	a := Analysis{Entrypoint: result.EntrypointAssetName}

	for _, name := range result.EmissionOrder {
		content, _ := result.Table.Output(name)
		alias, _ := result.Table.Alias(name)
		if alias != "" {
			a.ShimCount++
		}
		a.Assets = append(a.Assets, AssetAnalysis{Name: name, Bytes: len(content), Alias: alias})
		a.TotalBytes += len(content)
	}

	sort.SliceStable(a.Assets, func(i, j int) bool {
		return a.Assets[i].Bytes > a.Assets[j].Bytes
	})

	return a
}

// DisplayAnalysis prints a breakdown table, largest asset first.
func DisplayAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "entrypoint: %s\n", a.Entrypoint)
	fmt.Fprintf(w, "%-48s %10s  %s\n", "asset", "bytes", "alias")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, asset := range a.Assets {
		alias := asset.Alias
		if alias == "" {
			alias = "-"
		}
		fmt.Fprintf(w, "%-48s %10d  %s\n", asset.Name, asset.Bytes, alias)
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "%d assets, %d bytes total, %d shims aliased\n", len(a.Assets), a.TotalBytes, a.ShimCount)
}
