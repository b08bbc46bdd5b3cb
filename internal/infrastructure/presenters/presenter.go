package presenters

import (
	"io"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
)

// Presenter renders command results for the user.
type Presenter interface {
	// Report writes what is left of the alignment report.
	Report(w io.Writer, report *entities.Report) error
	// Validation writes the outcome of an ignore-config validation.
	Validation(w io.Writer, result *commands.ValidateConfigResult) error
	// MismatchedWarning warns that mismatched dependencies are about to be rewritten.
	MismatchedWarning(w io.Writer) error
}

// New picks the JSON or the text presenter. Locations in text output are
// shown relative to workDir.
func New(asJSON bool, workDir string) Presenter {
	if asJSON {
		return NewJSONPresenter()
	}
	return NewTextPresenter(workDir)
}
