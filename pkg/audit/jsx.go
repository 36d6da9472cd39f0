package audit

import (
	"path"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/reactatoms/pkg/snippets"
)

// renderedComponents parses the usage example and returns the component
// names that appear as JSX tags.
func (v *Validator) renderedComponents(snip snippets.Snippet) (map[string]bool, error) {
	source := []byte(snip.Usage)
	tree, err := v.parser.ParseFile(source, path.Base(snip.UsageFile))
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	out := make(map[string]bool)
	walkJSX(tree.RootNode(), source, out)
	return out, nil
}

// walkJSX records every capitalized JSX tag name below node.
func walkJSX(node *ts.Node, source []byte, out map[string]bool) {
	switch node.Kind() {
	case "jsx_opening_element", "jsx_self_closing_element":
		if name := tagName(node, source); isComponentName(name) {
			out[name] = true
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkJSX(node.Child(i), source, out)
	}
}

// tagName returns the element name; for <Foo.Bar> it is the root "Foo",
// which is the imported binding.
func tagName(node *ts.Node, source []byte) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	for name.Kind() == "member_expression" {
		obj := name.ChildByFieldName("object")
		if obj == nil {
			break
		}
		name = obj
	}
	return name.Utf8Text(source)
}

// isComponentName follows the React convention: components start with an
// uppercase letter, host elements do not.
func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
