// Package bindgen runs the whole binding synthesis pipeline over one
// translation unit.
package bindgen

import (
	"bytes"
	"fmt"

	"asbindgen/internal/ast"
	"asbindgen/internal/catalog"
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
	"asbindgen/internal/filter"
	"asbindgen/internal/generation"
	"asbindgen/internal/inherit"
	"asbindgen/internal/mapping"
)

// Result is the outcome of one run.
type Result struct {
	// Source is the generated C++ file.
	Source    []byte
	Catalog   *catalog.Catalog
	Generator *generation.Generator
}

// Generate collects, classifies, filters, flattens and maps the declarations
// of unit and renders the registration source. Only a missing translation
// unit or a rendering failure is an error; every per-declaration problem is
// a skip recorded in log.
func Generate(unit ast.TranslationUnit, options *config.Options, log *diag.Log) (*Result, error) {
	cat, err := catalog.Collect(unit, options, log)
	if err != nil {
		return nil, err
	}

	classifier := catalog.NewClassifier(cat.Scoreboard, options)
	classifier.WarnUnused(cat.Objects, log)
	for _, name := range cat.Scoreboard.Names() {
		usage := cat.Scoreboard.Usage(name)
		log.Debugf("%s: %d pointer use(s), %d value use(s), %s", name, usage.PointerUses, usage.ValueUses, classifier.Classify(name))
	}

	filter.Run(cat, classifier, options, log)
	inherit.Flatten(cat, log)
	inherit.SynthesizeCasts(cat, classifier, log)

	mapper := mapping.New(cat, classifier, options)
	mapper.Apply(log)

	generator := generation.NewGenerator(cat, mapper, options)
	generator.Build()

	var source bytes.Buffer
	if err := generator.Render(&source); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", options.OutputPath, err)
	}
	return &Result{Source: source.Bytes(), Catalog: cat, Generator: generator}, nil
}

// Manifest renders the Go manifest of the registrations.
func (result *Result) Manifest(packageName string) ([]byte, error) {
	var manifest bytes.Buffer
	if err := result.Generator.RenderManifest(packageName, &manifest); err != nil {
		return nil, fmt.Errorf("rendering manifest: %w", err)
	}
	return manifest.Bytes(), nil
}
