package bundler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "enum": true,
	"await": true, "implements": true, "package": true, "protected": true,
	"interface": true, "private": true, "public": true,
}

func isValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name) && !reservedWords[name]
}

// EncodeJSONModule turns raw JSON text into a module that default-exports
// the parsed value and, when the value is a non-null object, re-exports
// each own property whose name is a valid modern identifier and not a
// reserved word.
func EncodeJSONModule(raw []byte) (string, error) {
	trimmed := strings.TrimSpace(string(raw))

	keys, isObject, err := topLevelObjectKeys(trimmed)
	if err != nil {
		return "", err
	}
	if !isObject {
		return fmt.Sprintf("export default %s;", trimmed), nil
	}

	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	id := freeIdentifier(keySet)

	var b strings.Builder
	fmt.Fprintf(&b, "const %s = %s;\n", id, trimmed)
	fmt.Fprintf(&b, "export default %s;", id)

	for _, key := range keys {
		if !isValidIdentifier(key) {
			continue
		}
		fmt.Fprintf(&b, "\nexport const %s = %s.%s;", key, id, key)
	}

	return b.String(), nil
}

// freeIdentifier picks "d", or the first "d1", "d2", … not already present
// among the object's own property names.
func freeIdentifier(keys map[string]bool) string {
	if !keys["d"] {
		return "d"
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("d%d", i)
		if !keys[candidate] {
			return candidate
		}
	}
}

// topLevelObjectKeys reports the own property names of a top-level JSON
// object, in source order, and whether the trimmed text is a non-null
// object at all.
func topLevelObjectKeys(trimmed string) ([]string, bool, error) {
	if trimmed == "" || trimmed == "null" || !strings.HasPrefix(trimmed, "{") {
		return nil, false, nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, false, nil
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false, fmt.Errorf("unexpected JSON token where object key was expected")
		}
		keys = append(keys, key)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, false, err
	}

	return keys, true, nil
}
