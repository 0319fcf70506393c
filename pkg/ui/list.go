package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Severity selects the style applied to a whole list row.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityBroken
)

// TemplateRow is one rendered line of the list command.
type TemplateRow struct {
	Name        string
	Status      string
	Description string
	Location    string
	Severity    Severity
}

// RenderTemplateList formats rows as an aligned table with an
// underlined header, colorized by row severity.
func RenderTemplateList(rows []TemplateRow) string {
	nameW := headerWidth("NAME", rows, func(r TemplateRow) string { return r.Name })
	statusW := headerWidth("STATUS", rows, func(r TemplateRow) string { return r.Status })
	descW := headerWidth("DESCRIPTION", rows, func(r TemplateRow) string { return r.Description })

	var b strings.Builder
	b.WriteString(strings.Join([]string{
		StyleHeader.Render(pad("NAME", nameW)),
		StyleHeader.Render(pad("STATUS", statusW)),
		StyleHeader.Render(pad("DESCRIPTION", descW)),
		StyleHeader.Render("LOCATION"),
	}, "  "))
	b.WriteString("\n")

	for _, row := range rows {
		line := strings.Join([]string{
			pad(row.Name, nameW),
			pad(row.Status, statusW),
			pad(row.Description, descW),
			row.Location,
		}, "  ")
		switch row.Severity {
		case SeverityInfo:
			line = StyleInfo.Render(line)
		case SeverityWarning:
			line = StyleWarning.Render(line)
		case SeverityError:
			line = StyleError.Render(line)
		case SeverityBroken:
			line = StyleBroken.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func headerWidth(header string, rows []TemplateRow, field func(TemplateRow) string) int {
	w := runewidth.StringWidth(header)
	for _, row := range rows {
		if fw := runewidth.StringWidth(field(row)); fw > w {
			w = fw
		}
	}
	return w
}

func pad(s string, w int) string {
	gap := w - runewidth.StringWidth(s)
	if gap < 0 {
		gap = 0
	}
	return s + strings.Repeat(" ", gap)
}
