package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSONModuleScalar(t *testing.T) {
	out, err := EncodeJSONModule([]byte("42"))
	require.NoError(t, err)
	assert.Equal(t, "export default 42;", out)
}

func TestEncodeJSONModuleArray(t *testing.T) {
	out, err := EncodeJSONModule([]byte(`[1,2,3]`))
	require.NoError(t, err)
	assert.Equal(t, "export default [1,2,3];", out)
}

func TestEncodeJSONModuleObject(t *testing.T) {
	out, err := EncodeJSONModule([]byte(`{"name":"widget","version":"1.0"}`))
	require.NoError(t, err)
	assert.Equal(t, "const d = {\"name\":\"widget\",\"version\":\"1.0\"};\nexport default d;\nexport const name = d.name;\nexport const version = d.version;", out)
}

func TestEncodeJSONModuleSkipsInvalidIdentifierKeys(t *testing.T) {
	out, err := EncodeJSONModule([]byte(`{"b-c":1,"ok":2}`))
	require.NoError(t, err)
	assert.NotContains(t, out, "export const b-c")
	assert.Contains(t, out, "export const ok = d.ok;")
}

func TestEncodeJSONModuleSkipsReservedWordKeys(t *testing.T) {
	out, err := EncodeJSONModule([]byte(`{"class":1,"ok":2}`))
	require.NoError(t, err)
	assert.NotContains(t, out, "export const class")
	assert.Contains(t, out, "export const ok = d.ok;")
}

func TestEncodeJSONModulePicksFreeIdentifier(t *testing.T) {
	out, err := EncodeJSONModule([]byte(`{"d":1,"d1":2}`))
	require.NoError(t, err)
	assert.Contains(t, out, "const d2 = ")
	assert.Contains(t, out, "export default d2;")
}

func TestEncodeJSONModuleNull(t *testing.T) {
	out, err := EncodeJSONModule([]byte("null"))
	require.NoError(t, err)
	assert.Equal(t, "export default null;", out)
}

func TestIsValidIdentifier(t *testing.T) {
	assert.True(t, isValidIdentifier("name"))
	assert.True(t, isValidIdentifier("_private"))
	assert.True(t, isValidIdentifier("$jq"))
	assert.False(t, isValidIdentifier("b-c"))
	assert.False(t, isValidIdentifier("class"))
	assert.False(t, isValidIdentifier("2fast"))
}
