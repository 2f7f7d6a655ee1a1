package pages

import (
	"strings"
)

// doc accumulates one Markdown page. Every block ends with a blank line so
// blocks can be appended in any order.
type doc struct {
	b strings.Builder
}

func (d *doc) heading(level int, text string) {
	d.b.WriteString(strings.Repeat("#", level))
	d.b.WriteByte(' ')
	d.b.WriteString(text)
	d.b.WriteString("\n\n")
}

// para writes text as a paragraph. Empty text writes nothing.
func (d *doc) para(text string) {
	if text == "" {
		return
	}
	d.b.WriteString(text)
	d.b.WriteString("\n\n")
}

// lines writes a paragraph whose lines are joined by hard breaks.
func (d *doc) lines(ls ...string) {
	var kept []string
	for _, l := range ls {
		if l != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return
	}
	d.b.WriteString(strings.Join(kept, "  \n"))
	d.b.WriteString("\n\n")
}

func (d *doc) code(lang, text string) {
	d.b.WriteString("```")
	d.b.WriteString(lang)
	d.b.WriteByte('\n')
	d.b.WriteString(text)
	d.b.WriteString("\n```\n\n")
}

// table writes a headerless two-column table.
func (d *doc) table(rows [][2]string) {
	if len(rows) == 0 {
		return
	}
	d.b.WriteString("| | |\n| --- | --- |\n")
	for _, r := range rows {
		d.b.WriteByte('|')
		d.b.WriteString(cell(r[0]))
		d.b.WriteByte('|')
		d.b.WriteString(cell(r[1]))
		d.b.WriteString("|\n")
	}
	d.b.WriteByte('\n')
}

// list writes a single-column table.
func (d *doc) list(rows []string) {
	if len(rows) == 0 {
		return
	}
	d.b.WriteString("| |\n| --- |\n")
	for _, r := range rows {
		d.b.WriteByte('|')
		d.b.WriteString(cell(r))
		d.b.WriteString("|\n")
	}
	d.b.WriteByte('\n')
}

func (d *doc) bytes() []byte {
	return []byte(strings.TrimRight(d.b.String(), "\n") + "\n")
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func cell(s string) string { return cellEscaper.Replace(s) }

func link(text, target string) string {
	if target == "" {
		return text
	}
	return "[" + text + "](" + target + ")"
}

func codeSpan(s string) string { return "`" + s + "`" }
