package memplan

import (
	"io"
	"text/template"
)

var ldScript = template.Must(template.New("ld").Funcs(template.FuncMap{
	"hex": hexAddr,
}).Parse(`/* {{.Plan.Mode}} layout. Generated by memplan, do not edit. */

MEMORY
{
{{- range .Plan.Regions}}
  {{.Name}} ({{.Perm}}) : ORIGIN = {{hex .Origin}}, LENGTH = {{hex .Length}}
{{- end}}
}

{{range .Aliases -}}
REGION_ALIAS("{{.Alias}}", {{.Region}});
{{end}}
{{range .Symbols -}}
PROVIDE({{.Name}} = {{hex .Value}});
{{end -}}
`))

type regionAlias struct {
	Alias  string
	Region string
}

// WriteLinkerScript renders the layout as a GNU ld script fragment: a MEMORY
// block, region aliases for section placement and the symbol table.
func WriteLinkerScript(w io.Writer, l *Layout) error {
	pl := l.Plan.Placement
	aliases := []regionAlias{
		{"REGION_TEXT", pl.Text},
		{"REGION_DATA_LOAD", pl.DataLoad},
		{"REGION_DATA", pl.DataRun},
		{"REGION_BSS", pl.Bss},
		{"REGION_STACK", RegionStack},
	}
	if pl.FastData != "" {
		aliases = append(aliases, regionAlias{"REGION_FAST_DATA", pl.FastData})
	}
	return ldScript.Execute(w, struct {
		Plan    *MemoryPlan
		Aliases []regionAlias
		Symbols []Symbol
	}{l.Plan, aliases, l.Symbols.Symbols()})
}
