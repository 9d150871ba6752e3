// Package testutil holds import-boundary assertions shared by the architecture tests.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Predicate reports whether an import path is forbidden.
type Predicate func(importPath string) bool

// AssertNoDirectImports parses every non-test .go file in dir and fails if an import
// matches forbidden. Build tags are ignored.
func AssertNoDirectImports(t testing.TB, dir string, forbidden Predicate, reason string) {
	t.Helper()
	viols, err := directImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scan imports in %s: %v", dir, err)
	}
	failIfViolations(t, reason, viols)
}

// InternalImportForbidden matches any path containing /internal/.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// PlatformImportForbidden matches the concrete logging, metrics and tracing backends.
// The placement core talks to them only through its own interfaces.
func PlatformImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/platform/") ||
		strings.HasPrefix(path, "github.com/rs/zerolog") ||
		strings.HasPrefix(path, "github.com/prometheus/") ||
		strings.HasPrefix(path, "go.opentelemetry.io/")
}

// AnyOf combines predicates; the result matches when any of them does.
func AnyOf(preds ...Predicate) Predicate {
	return func(path string) bool {
		for _, p := range preds {
			if p(path) {
				return true
			}
		}
		return false
	}
}

func directImportViolations(dir string, forbidden Predicate) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		fileAst, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range fileAst.Imports {
			ip := strings.Trim(imp.Path.Value, "\"")
			if forbidden(ip) {
				viols = append(viols, ip+" (in "+name+")")
			}
		}
	}
	return viols, nil
}

type fatalLogger interface {
	Fatalf(format string, args ...any)
}

func failIfViolations(t fatalLogger, reason string, viols []string) {
	if len(viols) > 0 {
		t.Fatalf("forbidden direct imports detected (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}
