package generation

import (
	"io"
	"strings"
	"text/template"

	"asbindgen/internal/mapping"
)

const sourceTemplate = `// Code generated by asbindgen. DO NOT EDIT.

#include <new>
#include <cassert>
#include <cstdint>
#include <angelscript.h>
{{- range .Includes}}
#include {{include .}}
{{- end}}
{{range .Thunks}}
{{template "thunk" .}}
{{end}}
int {{.FunctionName}}(asIScriptEngine* engine)
{
	int r = 0;
	int failed = 0;
{{- range .Sections}}

	// {{.Title}}
{{- range .Statements}}
	r = engine->{{.Kind.Call}}({{join .Args}}); {{if $.AssertChecks}}assert(r >= 0);{{else}}if (r < 0) failed++;{{end}}
{{- end}}
{{- end}}

	return failed;
}
`

const thunkTemplate = `
{{- define "thunk"}}
{{- if eq .Kind generic}}static void {{.Name}}(asIScriptGeneric* gen)
{
{{- if .Self}}
	{{.Self}}* self = static_cast<{{.Self}}*>(gen->GetObject());
{{- end}}
{{- range .Args}}
	{{.Native}} {{.Name}} = {{.Expr}};
{{- end}}
{{- if .Result}}
	{{.Result.Native}} result = {{.Call}};
	{{.Result.Set}};
{{- else}}
	{{.Call}};
{{- end}}
}
{{- else if eq .Kind construct}}static void {{.Name}}({{range .Args}}{{.Native}} {{.Name}}, {{end}}{{.Self}}* self)
{
	new (self) {{.Self}}({{names .Args}});
}
{{- else if eq .Kind destruct}}static void {{.Name}}({{.Self}}* self)
{
	self->~{{.Self}}();
}
{{- else}}static {{.Target}}* {{.Name}}({{.Self}}* self)
{
	{{.Target}}* result = dynamic_cast<{{.Target}}*>(self);
{{- if .AddRef}}
	if (result)
		result->AddRef();
{{- end}}
	return result;
}
{{- end}}
{{- end}}`

var templates = template.Must(template.New("source").Funcs(template.FuncMap{
	"join": func(args []string) string { return strings.Join(args, ", ") },
	"names": func(args []mapping.Arg) string {
		names := make([]string, len(args))
		for i, arg := range args {
			names[i] = arg.Name
		}
		return strings.Join(names, ", ")
	},
	"include": func(path string) string {
		if strings.HasPrefix(path, "<") || strings.HasPrefix(path, `"`) {
			return path
		}
		return `"` + path + `"`
	},
	"generic":   func() mapping.ThunkKind { return mapping.GenericCall },
	"construct": func() mapping.ThunkKind { return mapping.NativeConstruct },
	"destruct":  func() mapping.ThunkKind { return mapping.NativeDestruct },
}).Parse(thunkTemplate + sourceTemplate))

// Render writes the generated C++ source: thunks first, then the
// registration function. Build must have been called.
func (generator *Generator) Render(out io.Writer) error {
	return templates.ExecuteTemplate(out, "source", generator)
}
