package bundler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	table := NewAssetTable()
	table.SetOutput("/entry.js", []byte("12345"))
	table.SetOutput("/big.js", []byte("1234567890"))
	table.SetAlias("/big.js", "lodash")

	result := &Result{
		Table:               table,
		EmissionOrder:       []string{"/entry.js", "/big.js"},
		EntrypointAssetName: "/entry.js",
	}

	a := Analyze(result)

	assert.Equal(t, "/entry.js", a.Entrypoint)
	assert.Equal(t, 15, a.TotalBytes)
	assert.Equal(t, 1, a.ShimCount)
	assert.Len(t, a.Assets, 2)
	assert.Equal(t, "/big.js", a.Assets[0].Name, "largest asset sorts first")
}

func TestDisplayAnalysis(t *testing.T) {
	a := Analysis{
		Entrypoint: "/entry.js",
		TotalBytes: 10,
		ShimCount:  1,
		Assets:     []AssetAnalysis{{Name: "/entry.js", Bytes: 10, Alias: "fs"}},
	}

	var buf bytes.Buffer
	DisplayAnalysis(&buf, a)

	out := buf.String()
	assert.Contains(t, out, "/entry.js")
	assert.Contains(t, out, "fs")
	assert.Contains(t, out, "1 shims aliased")
}
