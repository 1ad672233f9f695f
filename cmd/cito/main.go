package main

import (
	"fmt"
	"os"

	"github.com/peirick/cito/internal/compiler"
)

const version = "cito 0.5.0"

const usage = `cito - translate source files to another language

Usage:
  cito [options] -o <file> <source files>

Options:
  -l <target>     Target language (js); inferred from the output
                  extension when absent. A comma-separated extension
                  list on -o (e.g. out.js,mjs) runs one pass per extension.
  -o <file>       Output file
  -n <namespace>  Namespace or prefix for targets that use one
  -D <symbol>     Define a preprocessor symbol
  -r <file>       Reference source file (parsed, no code generated from it)
  -I <dir>        Add a directory to the resource search path
  --dump-ast      Print the resolved program before generation
  --help          Show this help
  --version       Show version
`

func main() {
	var opts compiler.Options
	var inputs []string

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			fmt.Print(usage)
			return
		case "--version":
			fmt.Println(version)
			return
		case "--dump-ast":
			opts.DumpAST = true
		case "-l", "-o", "-n", "-D", "-r", "-I":
			i++
			if i >= len(args) {
				fmt.Fprintf(os.Stderr, "cito: missing argument for %s\n", arg)
				os.Exit(1)
			}
			value := args[i]
			switch arg {
			case "-l":
				opts.Lang = value
			case "-o":
				opts.OutputFile = value
			case "-n":
				opts.Namespace = value
			case "-D":
				opts.Defines = append(opts.Defines, value)
			case "-r":
				opts.References = append(opts.References, value)
			case "-I":
				opts.SearchDirs = append(opts.SearchDirs, value)
			}
		default:
			if len(arg) > 1 && arg[0] == '-' {
				fmt.Fprintf(os.Stderr, "cito: unknown option: %s\n\n", arg)
				fmt.Fprint(os.Stderr, usage)
				os.Exit(1)
			}
			inputs = append(inputs, arg)
		}
	}

	if opts.OutputFile == "" {
		fmt.Fprintln(os.Stderr, "cito: no output file specified")
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "cito: no source files specified")
		os.Exit(1)
	}

	fe := compiler.ActiveFrontend()
	if fe == nil {
		fmt.Fprintln(os.Stderr, "cito: this build carries no source frontend")
		os.Exit(1)
	}

	prog, diag := fe.Parse(inputs, opts)
	if diag.HasErrors() {
		fmt.Fprintln(os.Stderr, diag.Format())
		os.Exit(1)
	}

	if _, err := compiler.Translate(prog, opts); err != nil {
		fmt.Fprintf(os.Stderr, "cito: ERROR: %s\n", err)
		os.Exit(1)
	}
}
