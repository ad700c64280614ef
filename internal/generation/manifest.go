package generation

import (
	"io"

	"github.com/dave/jennifer/jen"
)

// RenderManifest writes a Go file listing every registration in emission
// order, for Go hosts that embed the engine and check what it was given.
func (generator *Generator) RenderManifest(packageName string, out io.Writer) error {
	file := jen.NewFile(packageName)
	file.HeaderComment("Code generated by asbindgen. DO NOT EDIT.")

	file.Comment("Registration is one call made by " + generator.FunctionName + ".")
	file.Type().Id("Registration").Struct(
		jen.Id("Call").String(),
		jen.Id("Object").String(),
		jen.Id("Decl").String(),
	)

	file.Comment("Registrations lists the calls in the order they are made.")
	file.Var().Id("Registrations").Op("=").Index().Id("Registration").ValuesFunc(func(g *jen.Group) {
		for _, statement := range generator.Statements() {
			g.Values(jen.Dict{
				jen.Id("Call"):   jen.Lit(statement.Kind.Call()),
				jen.Id("Object"): jen.Lit(statement.Object),
				jen.Id("Decl"):   jen.Lit(statement.Decl),
			})
		}
	})

	thunks := make([]jen.Code, len(generator.Thunks))
	for i, thunk := range generator.Thunks {
		thunks[i] = jen.Lit(thunk.Name)
	}
	file.Comment("Thunks names the functions manufactured for the registrations.")
	file.Var().Id("Thunks").Op("=").Index().String().Values(thunks...)

	return file.Render(out)
}
