// Command sanctuary-check loads a sanctuary configuration, builds the housing registry it
// describes and prints the resulting layout. It exits non-zero when the configuration is
// invalid.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"sanctuary/internal/app"
	"sanctuary/internal/config"
	"sanctuary/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sanctuary-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath string
	fs.StringVar(&configPath, "config", "", "path to sanctuary yaml (defaults apply when empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := run(configPath, stdout, stderr); err != nil {
		if _, writeErr := fmt.Fprintf(stderr, "Sanctuary check failed: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	return 0
}

func run(configPath string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	sanctuary, err := app.New(cfg, app.Options{Registerer: prometheus.NewRegistry(), LogWriter: stderr})
	if err != nil {
		return err
	}
	counts := sanctuary.Engine.Counts()
	if _, err := fmt.Fprintf(stdout, "Sanctuary layout valid: %d enclosures, %d isolation cages.\n", counts.Enclosures, counts.IsolationCages); err != nil {
		return err
	}
	for _, unit := range sanctuary.Engine.ListHousingUnits() {
		line := fmt.Sprintf("  %-10s %s", unit.Kind(), unit.ID())
		if enc, ok := unit.(*domain.Enclosure); ok {
			line += fmt.Sprintf(" capacity=%d", enc.Capacity())
		}
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return err
		}
	}
	return nil
}
