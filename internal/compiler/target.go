package compiler

import (
	"fmt"

	"github.com/peirick/cito/internal/ast"
	"github.com/peirick/cito/internal/jsbe"
)

// Backend is the interface every code-generation target implements.
type Backend interface {
	// Name returns the language name accepted by the -l option.
	Name() string
	// Extensions returns the output-file extensions the backend serves.
	Extensions() []string
	// Generate produces the target source text for a resolved program.
	Generate(prog *ast.Program) (string, error)
}

var targets []Backend

// Register adds a backend to the target registry.
func Register(be Backend) {
	targets = append(targets, be)
}

func init() {
	Register(jsbe.Backend{})
}

// Targets returns the registered backends in registration order.
func Targets() []Backend {
	return targets
}

// ForName returns the backend registered under the given language name.
func ForName(name string) (Backend, error) {
	for _, be := range targets {
		if be.Name() == name {
			return be, nil
		}
	}
	return nil, fmt.Errorf("unknown target language: %s", name)
}

// ForExtension returns the backend serving the given output-file
// extension (without the dot).
func ForExtension(ext string) (Backend, error) {
	for _, be := range targets {
		for _, e := range be.Extensions() {
			if e == ext {
				return be, nil
			}
		}
	}
	return nil, fmt.Errorf("cannot infer target language from extension: .%s", ext)
}
