// Command slothc is a thin driver over the compiler core (spec §6.2):
// it reads an already-parsed module (see astjson.go - real source parsing
// is an external collaborator out of scope for this repository, spec
// §1), resolves the interfaces it imports, and calls compiler.Compile.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"sloth/src/ast"
	"sloth/src/closure"
	"sloth/src/compiler"
	"sloth/src/desugar"
	"sloth/src/diag"
	"sloth/src/iface"
	"sloth/src/infer"
)

func main() {
	moduleName := flag.String("module", "", "fully-qualified module path, used for symbol renaming")
	in := flag.String("in", "", "path to the module's JSON-encoded AST")
	out := flag.String("out", "", "destination path for the compiled bitcode (<out> and <out>.json are written)")
	imports := flag.String("import", "", "comma-separated paths to imported modules' interface JSON files")
	dumpIR := flag.Bool("dump-ir", false, "print the closure-converted core IR as YAML before code generation and exit")
	color.NoColor = color.NoColor || os.Getenv("NO_COLOR") != ""
	flag.Parse()

	if *moduleName == "" || *in == "" || (*out == "" && !*dumpIR) {
		fmt.Fprintln(os.Stderr, "usage: slothc -module <path> -in <ast.json> -out <dest> [-import a.json,b.json] [-dump-ir]")
		os.Exit(2)
	}

	if err := run(*moduleName, *in, *out, *imports, *dumpIR); err != nil {
		if derr, ok := err.(*diag.Error); ok {
			fmt.Fprintln(os.Stderr, derr.Render(true))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(moduleName, inPath, outPath, importsFlag string, dumpIR bool) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return diag.NewIOError("reading "+inPath, err)
	}
	module, err := decodeModule(data)
	if err != nil {
		return diag.NewIOError("parsing "+inPath, err)
	}

	importedInterfaces, err := resolveImports(importsFlag)
	if err != nil {
		return err
	}

	if dumpIR {
		return dumpCoreIR(moduleName, module, importedInterfaces)
	}

	return compiler.Compile(moduleName, module, importedInterfaces, outPath)
}

func resolveImports(importsFlag string) ([]ast.ModuleInterface, error) {
	if importsFlag == "" {
		return nil, nil
	}
	paths := splitNonEmpty(importsFlag, ',')
	out := make([]ast.ModuleInterface, 0, len(paths))
	for _, p := range paths {
		mi, err := iface.Read(p, p)
		if err != nil {
			return nil, err
		}
		out = append(out, mi)
	}
	return out, nil
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// dumpCoreIR runs the pipeline through closure conversion and prints the
// resulting core.Module as YAML, for inspecting what code generation
// would consume without writing an object file.
func dumpCoreIR(moduleName string, module *ast.Module, importedInterfaces []ast.ModuleInterface) error {
	module = &ast.Module{Name: moduleName, Imports: importedInterfaces, Definitions: module.Definitions}
	module = desugar.PreInference(module)

	typed, err := infer.Infer(module)
	if err != nil {
		return err
	}
	typed = desugar.PostInference(typed)

	coreModule, err := closure.Convert(typed)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(coreModule)
	if err != nil {
		return diag.NewIOError("encoding core IR as YAML", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
