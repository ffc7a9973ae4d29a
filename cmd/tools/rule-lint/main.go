// cmd/tools/rule-lint/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"krishi-workers/internal/models"
	"krishi-workers/internal/rules"
	"krishi-workers/internal/rulestore"
)

type lintOptions struct {
	rulesPath       string
	factsPath       string
	includeBuiltins bool
	ordered         bool
}

func main() {
	opts := lintOptions{}
	flag.StringVar(&opts.rulesPath, "rules", "configs/rules.yaml", "Path to rule definitions file")
	flag.StringVar(&opts.factsPath, "facts", "", "Optional fact set JSON to evaluate against the assembled rules")
	flag.BoolVar(&opts.includeBuiltins, "builtins", true, "Register the built-in rules before the file")
	flag.BoolVar(&opts.ordered, "by-priority", false, "Evaluate rules by ascending priority")
	flag.Parse()

	ok, err := lint(context.Background(), opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}

// lint assembles the rules in opts and reports to out. It returns false when
// any definition was skipped or a rule misbehaved during evaluation.
func lint(ctx context.Context, opts lintOptions, out io.Writer) (bool, error) {
	assembly, err := rulestore.Assemble(ctx, rulestore.Sources{
		IncludeBuiltins: opts.includeBuiltins,
		File:            opts.rulesPath,
	})
	if err != nil {
		return false, err
	}
	assembly.Engine.Seal()

	ok := true
	fmt.Fprintf(out, "Registered %d rules (builtins: %d, file: %d)\n",
		assembly.Engine.Len(), assembly.Added[rulestore.LayerBuiltins], assembly.Added[rulestore.LayerFile])
	if assembly.Skipped != nil {
		ok = false
		fmt.Fprintln(out, "Skipped definitions:")
		for _, line := range strings.Split(assembly.Skipped.Error(), "\n") {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}

	if opts.factsPath == "" {
		return ok, nil
	}

	facts, err := loadFacts(opts.factsPath)
	if err != nil {
		return false, err
	}

	report := assembly.Engine.Evaluate(facts)
	if opts.ordered {
		report = assembly.Engine.EvaluateOrdered(facts, rules.ByPriority)
	}

	fmt.Fprintf(out, "Advisories (%d):\n", len(report.Drafts))
	for i, d := range report.Drafts {
		fmt.Fprintf(out, "  %s [%s] %s\n", report.Fired[i], d.Severity, d.Text)
	}
	if len(report.Defects) > 0 {
		ok = false
		fmt.Fprintln(out, "Defective rules:")
		for _, d := range report.Defects {
			fmt.Fprintf(out, "  - %s\n", d.Rule)
		}
	}
	return ok, nil
}

func loadFacts(path string) (models.FactSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.FactSet{}, fmt.Errorf("read facts: %w", err)
	}
	var facts models.FactSet
	if err := json.Unmarshal(data, &facts); err != nil {
		return models.FactSet{}, fmt.Errorf("parse facts: %w", err)
	}
	return facts, nil
}
