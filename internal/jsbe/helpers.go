package jsbe

import (
	"fmt"
	"sort"

	"github.com/peirick/cito/internal/gen"
)

// jsKeywords are the reserved words of the target; colliding identifiers
// get a trailing underscore.
var jsKeywords = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true,
	"finally": true, "for": true, "function": true, "if": true,
	"implements": true, "import": true, "in": true, "instanceof": true,
	"interface": true, "let": true, "new": true, "null": true,
	"package": true, "private": true, "protected": true, "public": true,
	"return": true, "static": true, "super": true, "switch": true,
	"this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
}

// helperLines holds the body of each runtime helper, one slice element
// per output line relative to the Ci object's indentation.
var helperLines = map[string][]string{
	"copyArray": {
		"copyArray : function(sa, soff, da, doff, len) {",
		"\tif (da.set !== undefined && sa.subarray !== undefined)",
		"\t\tda.set(sa.subarray(soff, soff + len), doff);",
		"\telse",
		"\t\tfor (let i = 0; i < len; i++)",
		"\t\t\tda[doff + i] = sa[soff + i];",
		"}",
	},
	"regexEscape": {
		"regexEscape : function(s) {",
		"\treturn s.replace(/[-\\/\\\\^$*+?.()|[\\]{}]/g, \"\\\\$&\");",
		"}",
	},
	"sortListPart": {
		"sortListPart : function(a, offset, length) {",
		"\tconst sorted = a.slice(offset, offset + length).sort((x, y) => x - y);",
		"\tfor (let i = 0; i < length; i++)",
		"\t\ta[offset + i] = sorted[i];",
		"}",
	},
}

// useHelper registers a runtime helper on first use and returns the
// qualified reference to it.
func (g *generator) useHelper(name string) string {
	g.helpers[name] = true
	return "Ci." + name
}

// writeLib emits the Ci object: registered helpers in lexicographic
// order, then embedded resources in sorted key order. Nothing is emitted
// when both are empty.
func (g *generator) writeLib() {
	if len(g.helpers) == 0 && len(g.resources) == 0 {
		return
	}
	names := make([]string, 0, len(g.helpers))
	for name := range g.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	keys := make([]string, 0, len(g.resources))
	for key := range g.resources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	g.EmitLine("")
	g.EmitLine("const Ci = {")
	g.IncIndent()
	total := len(names) + len(keys)
	entry := 0
	for _, name := range names {
		entry++
		lines := helperLines[name]
		for i, line := range lines {
			if i == len(lines)-1 && entry < total {
				line += ","
			}
			g.EmitLine(line)
		}
	}
	for _, key := range keys {
		entry++
		comma := ","
		if entry == total {
			comma = ""
		}
		g.EmitLinef("%s : new Uint8Array([ %s ])%s", gen.ResourceName(key), byteList(g.resources[key]), comma)
	}
	g.DecIndent()
	g.EmitLine("};")
}

func byteList(data []byte) string {
	var sb []byte
	for i, b := range data {
		if i > 0 {
			sb = append(sb, ", "...)
		}
		sb = append(sb, fmt.Sprintf("%d", b)...)
	}
	return string(sb)
}
