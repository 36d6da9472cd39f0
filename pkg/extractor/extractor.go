package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/reactatoms/pkg/parser"
	"github.com/gnana997/reactatoms/pkg/parser/queries"
)

// Extractor parses a snippet once and walks its import and export statements.
//
// Usage:
//
//	ex := extractor.NewExtractor(pm, qm, logger)
//	res, err := ex.Extract(src, "code.tsx")
//	if err != nil {
//	    return err
//	}
//	deps := res.Dependencies()
type Extractor struct {
	parserManager *parser.ParserManager
	queryManager  *queries.QueryManager
	logger        *slog.Logger
}

// NewExtractor creates an extractor over shared parser and query managers.
func NewExtractor(pm *parser.ParserManager, qm *queries.QueryManager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{parserManager: pm, queryManager: qm, logger: logger}
}

// Extract analyses source, choosing the grammar from fileName.
func (e *Extractor) Extract(source []byte, fileName string) (*FileResult, error) {
	d := parser.DetectDialect(fileName)
	if d.Lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", fileName)
	}

	tree, err := e.parserManager.Parse(source, d)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	defer tree.Close()

	query, err := e.queryManager.ModuleQuery(d)
	if err != nil {
		return nil, fmt.Errorf("failed to get module query for %s: %w", d, err)
	}
	matches, err := e.queryManager.ExecuteQuery(tree, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to execute module query: %w", err)
	}

	res := &FileResult{
		FileName:  fileName,
		Dialect:   d,
		Imports:   make([]ImportInfo, 0),
		Exports:   make([]ExportInfo, 0),
		HasErrors: tree.RootNode().HasError(),
	}
	for _, m := range matches {
		if c := m.Capture("import.statement"); c != nil {
			res.Imports = append(res.Imports, buildImport(c.Node, source))
			continue
		}
		if c := m.Capture("export.statement"); c != nil {
			res.Exports = append(res.Exports, buildExports(c.Node, source)...)
		}
	}

	e.logger.Debug("extracted snippet",
		"file", fileName,
		"imports", len(res.Imports),
		"exports", len(res.Exports),
		"has_errors", res.HasErrors)
	return res, nil
}

func buildImport(stmt *ts.Node, src []byte) ImportInfo {
	imp := ImportInfo{Location: location(stmt)}
	if s := stmt.ChildByFieldName("source"); s != nil {
		imp.Source = unquote(s.Utf8Text(src))
	}
	imp.IsExternal = IsExternal(imp.Source)

	for i := uint(0); i < stmt.ChildCount(); i++ {
		child := stmt.Child(i)
		switch child.Kind() {
		case "type":
			imp.TypeOnly = true
		case "import_clause":
			walkImportClause(child, src, &imp)
		}
	}
	return imp
}

func walkImportClause(clause *ts.Node, src []byte, imp *ImportInfo) {
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			imp.Default = child.Utf8Text(src)
		case "namespace_import":
			if id := firstNamed(child, "identifier"); id != nil {
				imp.Namespace = id.Utf8Text(src)
			}
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				exported := name.Utf8Text(src)
				local := exported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias.Utf8Text(src)
				}
				if imp.Named == nil {
					imp.Named = make(map[string]string)
				}
				imp.Named[local] = exported
			}
		}
	}
}

func buildExports(stmt *ts.Node, src []byte) []ExportInfo {
	loc := location(stmt)
	isDefault := false
	for i := uint(0); i < stmt.ChildCount(); i++ {
		if stmt.Child(i).Kind() == "default" {
			isDefault = true
			break
		}
	}

	var source string
	if s := stmt.ChildByFieldName("source"); s != nil {
		source = unquote(s.Utf8Text(src))
	}

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		names, kind := declaredNames(decl, src)
		if isDefault {
			local := ""
			if len(names) > 0 {
				local = names[0]
			}
			return []ExportInfo{{Name: "default", Local: local, ExportType: ExportTypeDefault, Kind: kind, Location: loc}}
		}
		out := make([]ExportInfo, 0, len(names))
		for _, n := range names {
			out = append(out, ExportInfo{Name: n, ExportType: ExportTypeNamed, Kind: kind, Location: loc})
		}
		return out
	}

	if value := stmt.ChildByFieldName("value"); value != nil {
		exp := ExportInfo{Name: "default", ExportType: ExportTypeDefault, Kind: kindOf(value.Kind()), Location: loc}
		if value.Kind() == "identifier" {
			exp.Local = value.Utf8Text(src)
		}
		return []ExportInfo{exp}
	}

	if clause := firstNamed(stmt, "export_clause"); clause != nil {
		exportType := ExportTypeNamed
		if source != "" {
			exportType = ExportTypeReExport
		}
		var out []ExportInfo
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			spec := clause.NamedChild(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			local := name.Utf8Text(src)
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = alias.Utf8Text(src)
			}
			et := exportType
			if exported == "default" {
				et = ExportTypeDefault
			}
			out = append(out, ExportInfo{Name: exported, Local: local, ExportType: et, Source: source, Location: loc})
		}
		return out
	}

	if source != "" {
		return []ExportInfo{{Name: "*", ExportType: ExportTypeNamespace, Source: source, Location: loc}}
	}
	return nil
}

// declaredNames returns the identifiers bound by an exported declaration.
func declaredNames(decl *ts.Node, src []byte) ([]string, string) {
	kind := kindOf(decl.Kind())
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			d := decl.NamedChild(i)
			if d.Kind() != "variable_declarator" {
				continue
			}
			if n := d.ChildByFieldName("name"); n != nil && n.Kind() == "identifier" {
				names = append(names, n.Utf8Text(src))
			}
		}
		return names, kind
	default:
		if n := decl.ChildByFieldName("name"); n != nil {
			return []string{n.Utf8Text(src)}, kind
		}
		return nil, kind
	}
}

func kindOf(nodeKind string) string {
	switch nodeKind {
	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "arrow_function":
		return "function"
	case "class_declaration", "abstract_class_declaration", "class":
		return "class"
	case "lexical_declaration", "variable_declaration", "identifier":
		return "variable"
	case "interface_declaration":
		return "interface"
	case "type_alias_declaration":
		return "type"
	case "enum_declaration":
		return "enum"
	default:
		return "expression"
	}
}

func firstNamed(n *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c.Kind() == kind {
			return c
		}
	}
	return nil
}

func unquote(s string) string {
	return strings.Trim(s, "\"'`")
}

func location(n *ts.Node) Location {
	start, end := n.StartPosition(), n.EndPosition()
	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
	}
}
