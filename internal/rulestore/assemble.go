// internal/rulestore/assemble.go
package rulestore

import (
	"context"
	"errors"
	"fmt"

	"krishi-workers/internal/rules"
)

// Loader reads active definitions from a backing store.
type Loader interface {
	LoadActive(ctx context.Context) ([]Definition, error)
}

// Sources selects the layers of an assembled engine. Layers are applied in
// field order: builtins, then the file, then the database.
type Sources struct {
	IncludeBuiltins bool
	File            string
	Database        Loader
}

// Assembly is an unsealed engine plus what each layer contributed.
type Assembly struct {
	Engine *rules.Engine
	// Added counts registered rules per layer name.
	Added map[string]int
	// Skipped joins the errors of definitions that were not registered.
	Skipped error
}

const (
	LayerBuiltins = "builtins"
	LayerFile     = "file"
	LayerDatabase = "database"
)

// Assemble builds an engine from src. A source that cannot be read fails the
// whole assembly; individual bad definitions are only reported in Skipped.
func Assemble(ctx context.Context, src Sources) (*Assembly, error) {
	a := &Assembly{Engine: rules.NewEngine(), Added: map[string]int{}}
	if src.IncludeBuiltins {
		a.Engine = rules.NewBuiltinEngine()
		a.Added[LayerBuiltins] = a.Engine.Len()
	}

	var skipped []error
	apply := func(layer string, defs []Definition) {
		n, err := Layer(a.Engine, defs)
		a.Added[layer] = n
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s layer: %w", layer, err))
		}
	}

	if src.File != "" {
		defs, err := LoadFile(src.File)
		if err != nil {
			return nil, err
		}
		apply(LayerFile, defs)
	}

	if src.Database != nil {
		defs, err := src.Database.LoadActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("load database rules: %w", err)
		}
		apply(LayerDatabase, defs)
	}

	a.Skipped = errors.Join(skipped...)
	return a, nil
}
