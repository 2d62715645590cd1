// Package artifact implements the wire-exact manifest-plus-payload format
// a sandboxed runtime loads: a package-emoji header, one manifest line per
// asset (with an optional alias line), a "✄\n" separator, and payloads
// joined by "\n✄\n" with no leading or trailing separator.
package artifact

import (
	"bufio"
	"fmt"
	"io"
)

const (
	header    = "📦\n"
	separator = "✄\n"
	joiner    = "\n✄\n"
)

// Content resolves an asset name to its payload bytes.
type Content func(name string) ([]byte, bool)

// Serialize writes the artifact for names in order, using content to fetch
// each asset's bytes and aliases for the optional alias line that follows
// a manifest entry.
func Serialize(w io.Writer, names []string, content Content, aliases map[string]string) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	for _, name := range names {
		data, ok := content(name)
		if !ok {
			return fmt.Errorf("artifact: no content registered for asset %q", name)
		}
		if _, err := fmt.Fprintf(bw, "%d %s\n", len(data), name); err != nil {
			return err
		}
		if alias, ok := aliases[name]; ok {
			if _, err := fmt.Fprintf(bw, "↻ %s\n", alias); err != nil {
				return err
			}
		}
	}

	if _, err := bw.WriteString(separator); err != nil {
		return err
	}

	for i, name := range names {
		data, _ := content(name)
		if i > 0 {
			if _, err := bw.WriteString(joiner); err != nil {
				return err
			}
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
	}

	return bw.Flush()
}
