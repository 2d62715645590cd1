package artifact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	names := []string{"/index.js", "/helper.js", "/data.json"}
	payloads := map[string][]byte{
		"/index.js":  []byte("export default 1;"),
		"/helper.js": []byte("export const x = 1;"),
		"/data.json": []byte("export default {};"),
	}
	aliases := map[string]string{"/helper.js": "some-pkg"}
	content := func(name string) ([]byte, bool) {
		p, ok := payloads[name]
		return p, ok
	}

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, names, content, aliases))

	parsed, err := Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, names, parsed.Order)
	for _, name := range names {
		assert.Equal(t, payloads[name], parsed.Content[name])
	}
	assert.Equal(t, "some-pkg", parsed.Aliases["/helper.js"])
	assert.NotContains(t, parsed.Aliases, "/index.js")
}

func TestParseEmptyPayload(t *testing.T) {
	names := []string{"/empty.js"}
	content := func(name string) ([]byte, bool) { return []byte(""), true }

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, names, content, nil))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte(""), parsed.Content["/empty.js"])
}

func TestParseRejectsMissingHeader(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("not an artifact\n")))
	assert.Error(t, err)
}

func TestParseRejectsTruncatedPayload(t *testing.T) {
	raw := "📦\n10 /x.js\n✄\ntoo short"
	_, err := Parse(bytes.NewReader([]byte(raw)))
	assert.Error(t, err)
}

func TestParseRejectsMissingSeparator(t *testing.T) {
	raw := "📦\n5 /a.js\n5 /b.js\n✄\nfirstsecond"
	_, err := Parse(bytes.NewReader([]byte(raw)))
	assert.Error(t, err)
}

func TestParseSingleAssetNoJoiner(t *testing.T) {
	names := []string{"/only.js"}
	content := func(name string) ([]byte, bool) { return []byte("export default 1;"), true }

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, names, content, nil))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("export default 1;"), parsed.Content["/only.js"])
}
