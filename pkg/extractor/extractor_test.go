package extractor

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reactatoms/catalogs"
	"github.com/gnana997/reactatoms/pkg/parser"
	"github.com/gnana997/reactatoms/pkg/parser/queries"
	"github.com/gnana997/reactatoms/pkg/util"
)

// --- helpers ---

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	qm := queries.NewQueryManager(util.NopLogger())
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return NewExtractor(pm, qm, util.NopLogger())
}

const componentSource = `"use client";
import React, { useRef, useState as useLocalState } from "react";
import * as THREE from "three";
import { motion } from "framer-motion";
import type { MotionProps } from "framer-motion";
import { cn } from "@/lib/utils";
import "./styles.css";

export interface OrbProps { size?: number }
export const DEFAULT_SIZE = 120, MIN_SIZE = 10;

export default function Orb({ size = DEFAULT_SIZE }: OrbProps) {
  const ref = useRef<HTMLDivElement>(null);
  return <motion.div ref={ref} className={cn("orb")} style={{ width: size }} />;
}
`

// --- imports ---

func TestExtract_Imports(t *testing.T) {
	res, err := testExtractor(t).Extract([]byte(componentSource), "code.tsx")
	require.NoError(t, err)
	require.Len(t, res.Imports, 6)

	react := res.Imports[0]
	assert.Equal(t, "react", react.Source)
	assert.Equal(t, "React", react.Default)
	assert.Equal(t, map[string]string{"useRef": "useRef", "useLocalState": "useState"}, react.Named)
	assert.True(t, react.IsExternal)
	assert.Equal(t, uint32(2), react.Location.StartLine)

	three := res.Imports[1]
	assert.Equal(t, "THREE", three.Namespace)

	typeOnly := res.Imports[3]
	assert.True(t, typeOnly.TypeOnly)

	local := res.Imports[4]
	assert.Equal(t, "@/lib/utils", local.Source)
	assert.False(t, local.IsExternal)

	sideEffect := res.Imports[5]
	assert.Equal(t, "./styles.css", sideEffect.Source)
	assert.Empty(t, sideEffect.Default)
	assert.Nil(t, sideEffect.Named)
}

func TestExtract_Dependencies(t *testing.T) {
	res, err := testExtractor(t).Extract([]byte(componentSource), "code.tsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"framer-motion", "three"}, res.Dependencies())
}

// --- exports ---

func TestExtract_Exports(t *testing.T) {
	res, err := testExtractor(t).Extract([]byte(componentSource), "code.tsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"OrbProps", "DEFAULT_SIZE", "MIN_SIZE", "default"}, res.ExportedNames())

	def, ok := res.DefaultExport()
	require.True(t, ok)
	assert.Equal(t, "Orb", def.Local)
	assert.Equal(t, "function", def.Kind)

	assert.Equal(t, "interface", res.Exports[0].Kind)
	assert.Equal(t, "variable", res.Exports[1].Kind)
}

func TestExtract_ExportForms(t *testing.T) {
	src := `const a = 1;
function b() {}
export { a, b as bee };
export { Button } from "./button";
export * from "@scope/pkg/icons";
`
	res, err := testExtractor(t).Extract([]byte(src), "index.ts")
	require.NoError(t, err)
	require.Len(t, res.Exports, 4)

	assert.Equal(t, ExportInfo{Name: "a", Local: "a", ExportType: ExportTypeNamed, Location: res.Exports[0].Location}, res.Exports[0])
	assert.Equal(t, "bee", res.Exports[1].Name)
	assert.Equal(t, "b", res.Exports[1].Local)
	assert.Equal(t, ExportTypeReExport, res.Exports[2].ExportType)
	assert.Equal(t, "./button", res.Exports[2].Source)
	assert.Equal(t, ExportTypeNamespace, res.Exports[3].ExportType)

	assert.Equal(t, []string{"@scope/pkg"}, res.Dependencies())
	assert.Equal(t, []string{"a", "bee", "Button"}, res.ExportedNames())
}

func TestExtract_DefaultIdentifier(t *testing.T) {
	res, err := testExtractor(t).Extract([]byte("const Magnet = () => null;\nexport default Magnet;\n"), "code.jsx")
	require.NoError(t, err)
	def, ok := res.DefaultExport()
	require.True(t, ok)
	assert.Equal(t, "Magnet", def.Local)
}

// --- failure handling ---

func TestExtract_UnsupportedFile(t *testing.T) {
	_, err := testExtractor(t).Extract([]byte("<div/>"), "preview.html")
	require.Error(t, err)
}

func TestExtract_SyntaxErrorsFlagged(t *testing.T) {
	res, err := testExtractor(t).Extract([]byte("import x from \"y\";\nexport default function (\n"), "code.tsx")
	require.NoError(t, err)
	assert.True(t, res.HasErrors)
}

// --- package roots ---

func TestPackageRoot(t *testing.T) {
	tests := map[string]string{
		"react":               "react",
		"framer-motion":       "framer-motion",
		"motion/react":        "motion",
		"@react-three/fiber":  "@react-three/fiber",
		"@scope/pkg/sub/path": "@scope/pkg",
		"node:fs":             "fs",
		"@/components/ui":     "",
		"~/lib":               "",
		"./local":             "",
		"../up":               "",
		"":                    "",
		"@broken":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, PackageRoot(in), in)
	}
}

// --- bundled snippets ---

func TestBundledSnippets(t *testing.T) {
	ex := testExtractor(t)
	content := catalogs.ReactAtoms()

	code, err := fs.ReadFile(content, "snippets/split-text/code.tsx")
	require.NoError(t, err)
	res, err := ex.Extract(code, "code.tsx")
	require.NoError(t, err)
	assert.False(t, res.HasErrors)
	assert.Equal(t, []string{"framer-motion"}, res.Dependencies())
	def, ok := res.DefaultExport()
	require.True(t, ok)
	assert.Equal(t, "SplitText", def.Local)

	usage, err := fs.ReadFile(content, "snippets/split-text/usage.tsx")
	require.NoError(t, err)
	res, err = ex.Extract(usage, "usage.tsx")
	require.NoError(t, err)
	require.Len(t, res.LocalImports(), 1)
	assert.Equal(t, "SplitText", res.LocalImports()[0].Default)
	assert.Empty(t, res.Dependencies())
}
