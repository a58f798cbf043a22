package console

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/gookit/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixil98/sms-tracker/internal/display"
	"github.com/pixil98/sms-tracker/internal/tracker"
	"github.com/pixil98/sms-tracker/internal/world"
)

var (
	colorDone     = color.Style{color.FgGreen, color.OpBold}
	colorProgress = color.Style{color.FgYellow}
	colorMuted    = color.Style{color.FgGray}
	colorDenied   = color.Style{color.FgRed, color.OpBold}
	colorHeading  = color.Style{color.FgCyan, color.OpBold}
)

// templateFuncs extends sprig with the tracker's formatting helpers.
var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["shines"] = func(c tracker.Counts) string { return progress(c.ShinesFound, c.ShinesTotal, c.Shines()) }
	fm["coins"] = func(c tracker.Counts) string { return progress(c.CoinsFound, c.CoinsTotal, c.Coins()) }
	fm["heading"] = func(s string) string { return colorHeading.Sprint(s) }
	fm["muted"] = func(s string) string { return colorMuted.Sprint(s) }
	return fm
}()

func expandTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).Parse(text))
}

var statsTemplate = mustTemplate("stats", `{{ heading "World" }}  shines {{ shines .World }}  coins {{ coins .World }}
{{ heading "Plaza" }}  shines {{ shines .Hub }}  coins {{ coins .Hub }}
{{- if .Gate.Open }}
{{ heading "Corona" }} shines {{ shines .Boss }}  coins {{ coins .Boss }}
{{- end }}
{{ range .Groups -}}
{{ printf "%-28s" .Name }} shines {{ shines .Counts }}  coins {{ coins .Counts }}
{{ end -}}
`)

var groupTemplate = mustTemplate("group", `{{ heading .Name }}  shines {{ shines .Counts }}  coins {{ coins .Counts }}
{{ range .Routes -}}
{{ printf "  %-24s" .Name }} {{ if .ZoneID }}{{ .ZoneID }}{{ else if .IsWarp }}{{ muted "unassigned" }}{{ else }}{{ muted "static" }}{{ end }}  shines {{ shines .Counts }}
{{ end -}}
`)

// progress renders found/total with the category's completion colour.
func progress(found, total int, c tracker.Completion) string {
	s := fmt.Sprintf("%d/%d", found, total)
	switch c {
	case tracker.Done:
		return colorDone.Sprint(s)
	case tracker.InProgress:
		return colorProgress.Sprint(s)
	default:
		return colorMuted.Sprint("-")
	}
}

func shineMarker(s tracker.ShineStatus) string {
	switch s {
	case tracker.ShineCollected:
		return colorDone.Sprint("[x]")
	case tracker.ShineExcluded:
		return colorMuted.Sprint("[-]")
	default:
		return "[ ]"
	}
}

func checkMarker(done bool) string {
	if done {
		return colorDone.Sprint("[x]")
	}
	return colorDenied.Sprint("[ ]")
}

// unlockName turns an unlock id like "turbo_nozzle" into "Turbo Nozzle".
func unlockName(w *world.Data, id string) string {
	for _, u := range w.Unlocks {
		if strings.EqualFold(u.ID, id) && u.Name != "" {
			return u.Name
		}
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// zoneName returns the display name of a zone id.
func zoneName(w *world.Data, id string) string {
	if z := w.Zone(id); z != nil && z.Name != "" {
		return z.Name
	}
	return id
}

// renderRoute writes a walk as an indented tree.
func renderRoute(b *strings.Builder, w *world.Data, p func(string) tracker.ShineStatus, br *tracker.Branch, depth int) {
	indent := strings.Repeat("  ", depth)
	label := br.Label
	if label == "" {
		label = br.Key.String()
	}

	switch br.State {
	case tracker.BranchUnassigned:
		fmt.Fprintf(b, "%s%s -> %s  %s\n", indent, label, colorMuted.Sprint("?"), colorMuted.Sprint(br.Key.String()))
		return
	case tracker.BranchLoop:
		fmt.Fprintf(b, "%s%s -> %s %s\n", indent, label, zoneName(w, br.ZoneID), colorMuted.Sprint("(loop)"))
		return
	case tracker.BranchMissing:
		fmt.Fprintf(b, "%s%s -> %s %s\n", indent, label, br.ZoneID, colorDenied.Sprint("(unknown zone)"))
		return
	}

	c := br.Tally.Counts()
	fmt.Fprintf(b, "%s%s -> %s  shines %s  coins %s\n", indent, label, zoneName(w, br.ZoneID),
		progress(c.ShinesFound, c.ShinesTotal, c.Shines()), progress(c.CoinsFound, c.CoinsTotal, c.Coins()))

	if z := br.Zone(w); z != nil {
		for _, s := range z.Shines {
			fmt.Fprintf(b, "%s  %s %s\n", indent, shineMarker(p(s.ID)), s.Name)
		}
	}
	for _, child := range br.Children {
		renderRoute(b, w, p, child, depth+1)
	}
}

// wrap formats free text for the operator's terminal.
func wrap(s string) string {
	return display.Wrap(s)
}
