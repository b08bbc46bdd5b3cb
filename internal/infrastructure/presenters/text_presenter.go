package presenters

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
)

const (
	colorSuccess = lipgloss.Color("2")
	colorWarning = lipgloss.Color("3")
	colorDanger  = lipgloss.Color("1")

	autofixHint = "(can be fixed with --autofix)"
	rootLabel   = "root"
)

// styles are bound to a renderer so colors follow the capabilities of the
// writer they end up on (none for files and pipes).
type styles struct {
	deduped    lipgloss.Style
	mismatched lipgloss.Style
	name       lipgloss.Style
	muted      lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		deduped:    r.NewStyle().Bold(true).Foreground(colorWarning),
		mismatched: r.NewStyle().Bold(true).Foreground(colorDanger),
		name:       r.NewStyle().Bold(true),
		muted:      r.NewStyle().Faint(true),
		success:    r.NewStyle().Foreground(colorSuccess),
		warning:    r.NewStyle().Foreground(colorWarning),
	}
}

// TextPresenter writes human-readable, colored output.
type TextPresenter struct {
	workDir string
}

var _ Presenter = (*TextPresenter)(nil)

// NewTextPresenter creates a new TextPresenter.
func NewTextPresenter(workDir string) *TextPresenter {
	return &TextPresenter{workDir: workDir}
}

// Report prints deduped then mismatched items, or a success line when both are empty.
func (p *TextPresenter) Report(w io.Writer, report *entities.Report) error {
	s := newStyles(w)
	var b strings.Builder

	if report.Deduped.Len() > 0 {
		fmt.Fprintf(&b, "%s %s\n\n", s.deduped.Render("Deduped:"), s.muted.Render(autofixHint))
		p.writeItems(&b, s, report.Deduped)
	}
	if report.Mismatched.Len() > 0 {
		fmt.Fprintf(&b, "%s\n\n", s.mismatched.Render("Mismatched:"))
		p.writeItems(&b, s, report.Mismatched)
	}
	if report.Empty() {
		fmt.Fprintf(&b, "%s\n", s.success.Render("All dependencies are aligned, nothing to report!"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (p *TextPresenter) writeItems(b *strings.Builder, s styles, items *entities.ReportItems) {
	items.Each(func(name string, item *entities.ReportItem) {
		width := 0
		for _, usage := range item.Versions {
			width = max(width, len(usage.Version))
		}

		fmt.Fprintf(b, "  %s\n\n", s.name.Render(name))
		for _, usage := range item.Versions {
			fmt.Fprintf(b, "    %*s %s\n", width, usage.Version, s.muted.Render(p.origin(usage)))
		}
		b.WriteString("\n")
	})
}

// origin describes where a usage was declared; production is implied.
func (p *TextPresenter) origin(usage entities.DependencyUsage) string {
	text := "at " + p.relative(usage.From)
	switch usage.Type {
	case entities.DependencyTypeProd:
	case entities.DependencyTypeNone:
		text += " (unclassified)"
	default:
		text += fmt.Sprintf(" (%s)", usage.Type)
	}
	return text
}

func (p *TextPresenter) relative(location string) string {
	rel, err := filepath.Rel(p.workDir, location)
	if err != nil || rel == "." {
		return rootLabel
	}
	return rel
}

// Validation lists the extraneous ignore rules.
func (p *TextPresenter) Validation(w io.Writer, result *commands.ValidateConfigResult) error {
	s := newStyles(w)
	var b strings.Builder

	if result.Extraneous.Len() == 0 {
		fmt.Fprintf(&b, "%s\n", s.success.Render("No extraneous rules found in depalign config"))
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b,
		"Following extraneous versions found in the `ignore` config option in %s: %s\n\n",
		p.relative(result.ConfigPath), s.muted.Render(autofixHint),
	)
	result.Extraneous.Each(func(name string, ranges []string) {
		header := "  " + s.name.Render(name)
		if original, _ := result.Original.Get(name); len(original) == len(ranges) {
			header += " " + s.muted.Render("(whole rule)")
		}
		fmt.Fprintf(&b, "%s\n\n", header)

		width := 0
		for _, r := range ranges {
			width = max(width, len(r))
		}
		for _, r := range ranges {
			fmt.Fprintf(&b, "    %*s\n", width, r)
		}
		b.WriteString("\n")
	})

	_, err := io.WriteString(w, b.String())
	return err
}

// MismatchedWarning prints the breaking-change warning.
func (p *TextPresenter) MismatchedWarning(w io.Writer) error {
	s := newStyles(w)
	_, err := fmt.Fprintf(w,
		"\n%s: You are about to update mismatched dependencies which might potentially be a %s. "+
			"Please make sure that everything is still working as expected after the update.\n\n",
		s.warning.Render("Warning"), s.name.Render("breaking change"),
	)
	return err
}
