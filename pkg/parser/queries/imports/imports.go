// Package imports holds the tree-sitter query that locates module-level
// import and export statements.
package imports

// ModuleQuery matches every import and export statement. It is valid for
// the JavaScript, TypeScript and TSX grammars, which share these node
// names. Statement bodies are walked in Go, so the query only anchors them.
//
// Captures:
//   - @import.statement / @import.source
//   - @export.statement
const ModuleQuery = `
; import React, { useState } from "react";
; import "./side-effect.css";
(import_statement
  source: (string (string_fragment) @import.source)
) @import.statement

; export default function X() {}
; export const y = 1;
; export { a, b as c } from "./other";
(export_statement) @export.statement
`
