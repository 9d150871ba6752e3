package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInternalImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"sanctuary/internal/core", true},
		{"sanctuary/pkg/domain", false},
		{"github.com/google/uuid", false},
	}
	for _, c := range cases {
		if got := InternalImportForbidden(c.in); got != c.want {
			t.Fatalf("InternalImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestPlatformImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"sanctuary/internal/platform/logger", true},
		{"github.com/rs/zerolog", true},
		{"github.com/rs/zerolog/log", true},
		{"github.com/prometheus/client_golang/prometheus", true},
		{"go.opentelemetry.io/otel/trace", true},
		{"github.com/go-playground/validator/v10", false},
		{"sanctuary/internal/core", false},
	}
	for _, c := range cases {
		if got := PlatformImportForbidden(c.in); got != c.want {
			t.Fatalf("PlatformImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestAnyOf(t *testing.T) {
	pred := AnyOf(
		func(p string) bool { return p == "a" },
		func(p string) bool { return p == "b" },
	)
	if !pred("a") || !pred("b") || pred("c") {
		t.Fatal("AnyOf should match exactly a and b")
	}
	if AnyOf()("anything") {
		t.Fatal("empty AnyOf must match nothing")
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport \"fmt\"\nfunc X(){fmt.Println(1)}")
	if err := os.WriteFile(filepath.Join(dir, "x.go"), src, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Test files are skipped even when they import forbidden paths.
	testSrc := []byte("package tmp\nimport _ \"sanctuary/internal/core\"\n")
	if err := os.WriteFile(filepath.Join(dir, "x_test.go"), testSrc, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	AssertNoDirectImports(t, dir, InternalImportForbidden, "none")
}

func TestDirectImportViolationsReportsFile(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport (\n\t\"fmt\"\n\t_ \"sanctuary/internal/core\"\n)\nfunc X(){fmt.Println(1)}")
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), src, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	viols, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "sanctuary/internal/core (in bad.go)" {
		t.Fatalf("unexpected violations: %v", viols)
	}
}

func TestDirectImportViolationsErrors(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "missing"), InternalImportForbidden); err == nil {
		t.Fatal("expected error for missing directory")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := directImportViolations(dir, InternalImportForbidden); err == nil {
		t.Fatal("expected parse error")
	}
}

type recordingFatal struct {
	msg string
}

func (r *recordingFatal) Fatalf(format string, args ...any) {
	r.msg = fmt.Sprintf(format, args...)
}

func TestFailIfViolations(t *testing.T) {
	rec := &recordingFatal{}
	failIfViolations(rec, "reason", nil)
	if rec.msg != "" {
		t.Fatalf("no violations must not fail, got %q", rec.msg)
	}
	failIfViolations(rec, "core stays backend-free", []string{"github.com/rs/zerolog (in x.go)"})
	if !strings.Contains(rec.msg, "core stays backend-free") || !strings.Contains(rec.msg, "zerolog") {
		t.Fatalf("unexpected failure message: %q", rec.msg)
	}
}
