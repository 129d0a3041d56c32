package emit

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"irlink/internal/codegen"
	"irlink/internal/common"
	"irlink/internal/ir"
)

// Extension is the file extension of generated listings.
const Extension = ".listing"

// PhaseStripBodies omits declaration bodies from listings.
const PhaseStripBodies = "strip-bodies"

// Listing is a codegen.Backend producing text listings.
type Listing struct{}

var _ codegen.Backend = Listing{}

// listingData holds all data needed for the listing template.
type listingData struct {
	Package string
	Alias   string
	Phases  []phaseLine
	Root    string
	Lines   []string
}

type phaseLine struct {
	ID   string
	Args string
}

// RunPhases renders decls, which must be ordered owners first.
func (Listing) RunPhases(ctx context.Context, cfg codegen.PhaseConfig, decls []*ir.Declaration) (*codegen.Artifact, error) {
	roots, members := containers(decls)

	phases := make([]phaseLine, 0, len(cfg.EnabledPhases))
	for _, id := range cfg.EnabledPhases {
		phases = append(phases, phaseLine{ID: id, Args: formatArgs(cfg.Arguments(id))})
	}

	art := &codegen.Artifact{}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !root.Kind().IsContainer() {
			return nil, fmt.Errorf("%s: top-level %s has no container", root.Symbol, root.Kind())
		}

		data := &listingData{
			Package: root.Package(),
			Alias:   common.PkgAlias(root.Package()),
			Phases:  phases,
			Root:    root.Symbol.String(),
		}

		render(&data.Lines, root, members, 0, cfg.IsEnabled(PhaseStripBodies))

		var buf bytes.Buffer
		if err := listingTemplate.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template for %s: %w", root.Symbol, err)
		}

		art.Files = append(art.Files, codegen.GeneratedFile{
			Filename: filename(root),
			Content:  buf.Bytes(),
		})
	}

	return art, nil
}

// containers splits decls into top-level declarations and an owner index.
func containers(decls []*ir.Declaration) ([]*ir.Declaration, map[ir.DeclID][]*ir.Declaration) {
	inUnit := make(map[ir.DeclID]bool, len(decls))
	for _, d := range decls {
		inUnit[d.ID] = true
	}

	var roots []*ir.Declaration

	members := make(map[ir.DeclID][]*ir.Declaration)

	for _, d := range decls {
		if d.Owner.IsValid() && inUnit[d.Owner] {
			members[d.Owner] = append(members[d.Owner], d)
			continue
		}

		roots = append(roots, d)
	}

	return roots, members
}

func render(lines *[]string, d *ir.Declaration, members map[ir.DeclID][]*ir.Declaration, depth int, stripBodies bool) {
	indent := strings.Repeat("  ", depth)
	owned := members[d.ID]

	head := indent + header(d)
	if d.Kind().IsContainer() {
		head += " {"
	}

	*lines = append(*lines, head)

	if !stripBodies && !d.Body.IsEmpty() {
		for _, stmt := range d.Body.Statements {
			*lines = append(*lines, indent+"  "+stmt)
		}
	}

	for _, m := range owned {
		render(lines, m, members, depth+1, stripBodies)
	}

	if d.Kind().IsContainer() {
		*lines = append(*lines, indent+"}")
	}
}

// header renders the signature line of d.
func header(d *ir.Declaration) string {
	var sb strings.Builder

	sb.WriteString(d.Kind().String())
	sb.WriteByte(' ')
	sb.WriteString(d.Symbol.Name)

	sig := d.Signature

	if sig.Kind == ir.KindFunction {
		params := make([]string, len(sig.Params))
		for i, p := range sig.Params {
			params[i] = p.Name + ": " + p.Type
		}

		sb.WriteString("(" + strings.Join(params, ", ") + ")")
	}

	if sig.Returns != "" {
		sb.WriteString(": " + sig.Returns)
	}

	if len(sig.Supertypes) > 0 {
		sb.WriteString(" : " + strings.Join(sig.Supertypes, ", "))
	}

	if d.Facade != nil {
		sb.WriteString(" [" + d.Facade.ID.String() + "]")
	}

	return sb.String()
}

// formatArgs renders phase arguments as sorted key=value pairs.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, args[k])
	}

	return strings.Join(parts, " ")
}

// filename names the listing of a top-level container.
func filename(root *ir.Declaration) string {
	return root.Symbol.Name + Extension
}

var listingTemplate = template.Must(template.New("listing").Parse(`// Code generated by irlink. DO NOT EDIT.
// package {{.Alias}} ({{.Package}})
{{- if .Phases}}
// phases: {{range $i, $p := .Phases}}{{if $i}}, {{end}}{{$p.ID}}{{end}}
{{- range .Phases}}{{if .Args}}
// {{.ID}}: {{.Args}}{{end}}{{end}}
{{- end}}

{{range .Lines}}{{.}}
{{end}}`))
