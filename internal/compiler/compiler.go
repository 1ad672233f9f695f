// Package compiler drives code generation: it selects backends from the
// requested language or the output-file extension, runs one generation
// pass per requested extension, and writes the produced files.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sanity-io/litter"

	"github.com/peirick/cito/internal/ast"
	"github.com/peirick/cito/internal/diagnostic"
)

// Options carries the driver settings into a translation run.
type Options struct {
	Lang       string   // target language, empty to infer from OutputFile
	OutputFile string   // output path; a comma-separated extension runs multiple passes
	Namespace  string   // namespace or prefix for backends that need one
	Defines    []string // preprocessor symbols, passed through to the frontend
	References []string // reference source files: parsed, no code generated
	SearchDirs []string // resource search path
	DumpAST    bool     // render the resolved program before generation
}

// Frontend parses and resolves source files into a Program. The lexer,
// parser and resolver live upstream; builds link one in through
// SetFrontend.
type Frontend interface {
	Parse(files []string, opts Options) (*ast.Program, *diagnostic.Diagnostics)
}

var frontend Frontend

// SetFrontend installs the upstream parser/resolver.
func SetFrontend(f Frontend) {
	frontend = f
}

// ActiveFrontend returns the installed frontend, nil when the build
// carries none.
func ActiveFrontend() Frontend {
	return frontend
}

// Translate generates output for a resolved program and writes the
// produced files. It returns the written file names. With Lang set, one
// pass writes OutputFile verbatim; otherwise the backend is inferred
// from the output extension, and a comma-separated extension list runs
// one pass per extension to parallel file names.
func Translate(prog *ast.Program, opts Options) ([]string, error) {
	if opts.DumpAST {
		litter.Dump(prog)
	}
	if opts.Lang != "" {
		be, err := ForName(opts.Lang)
		if err != nil {
			return nil, err
		}
		if err := emit(be, prog, opts.OutputFile); err != nil {
			return nil, err
		}
		return []string{opts.OutputFile}, nil
	}
	ext := filepath.Ext(opts.OutputFile)
	if ext == "" {
		return nil, fmt.Errorf("cannot determine target language: no -l option and no extension on %s", opts.OutputFile)
	}
	stem := strings.TrimSuffix(opts.OutputFile, ext)
	var written []string
	for _, e := range strings.Split(ext[1:], ",") {
		be, err := ForExtension(e)
		if err != nil {
			return nil, err
		}
		out := stem + "." + e
		if err := emit(be, prog, out); err != nil {
			return nil, err
		}
		written = append(written, out)
	}
	return written, nil
}

func emit(be Backend, prog *ast.Program, path string) error {
	code, err := be.Generate(prog)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// LoadResource reads an embedded-resource file, searching each directory
// of the resource search path and then the working directory.
func LoadResource(name string, dirs []string) ([]byte, error) {
	for _, dir := range dirs {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return data, nil
		}
	}
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("resource file not found: %s", name)
}
