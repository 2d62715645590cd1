package bundler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ParsedSource is the parsed-source representation carried on a Module
// record and cached in the Asset Table's externalSources map.
type ParsedSource struct {
	Path    string
	Content []byte
	Tree    *sitter.Tree
}

type sourceParser struct {
	js *sitter.Language
	ts *sitter.Language
}

func newSourceParser() *sourceParser {
	return &sourceParser{js: javascript.GetLanguage(), ts: tslang.GetLanguage()}
}

func (p *sourceParser) languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return p.ts
	default:
		return p.js
	}
}

// ParseSource parses path's content into a ParsedSource using the grammar
// appropriate to its extension.
func ParseSource(ctx context.Context, path string, content []byte) (*ParsedSource, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(newSourceParser().languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree for %s", path)
	}
	return &ParsedSource{Path: path, Content: content, Tree: tree}, nil
}

// WalkDependencies traverses top-level declarations recursively and
// extracts the specifier string literal from every import declaration and
// every export declaration that carries one.
func WalkDependencies(src *ParsedSource) []string {
	root := src.Tree.RootNode()
	var specifiers []string

	walkStatementNode(root, func(node *sitter.Node) {
		switch node.Type() {
		case "import_statement":
			if spec, ok := sourceSpecifier(node, src.Content); ok {
				specifiers = append(specifiers, spec)
			}
		case "export_statement":
			if spec, ok := sourceSpecifier(node, src.Content); ok {
				specifiers = append(specifiers, spec)
			}
		}
	})

	return specifiers
}

func sourceSpecifier(node *sitter.Node, content []byte) (string, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return "", false
	}
	return extractStringLiteral(sourceNode, content)
}

func walkStatementNode(node *sitter.Node, visit func(*sitter.Node)) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		visit(child)
		walkStatementNode(child, visit)
	}
}

func extractStringLiteral(node *sitter.Node, content []byte) (string, bool) {
	text := nodeText(node, content)
	if len(text) < 2 {
		return "", false
	}
	quote := text[0]
	if (quote == '"' || quote == '\'') && text[len(text)-1] == quote {
		return text[1 : len(text)-1], true
	}
	return "", false
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}
