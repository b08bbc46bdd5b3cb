package presenters

import (
	"encoding/json"
	"io"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
)

const indent = "  "

// JSONPresenter writes machine-readable output. Ranges are not HTML-escaped.
type JSONPresenter struct{}

var _ Presenter = (*JSONPresenter)(nil)

// NewJSONPresenter creates a new JSONPresenter.
func NewJSONPresenter() *JSONPresenter {
	return &JSONPresenter{}
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	return encoder.Encode(v)
}

// Report writes {"mismatched": {...}, "deduped": {...}}.
func (p *JSONPresenter) Report(w io.Writer, report *entities.Report) error {
	return encode(w, report)
}

type validationDocument struct {
	Config     string                `json:"config"`
	Extraneous *entities.IgnoreRules `json:"extraneous"`
	Ignore     *entities.IgnoreRules `json:"ignore"`
}

// Validation writes the extraneous rules and the cleaned ignore mapping.
func (p *JSONPresenter) Validation(w io.Writer, result *commands.ValidateConfigResult) error {
	return encode(w, validationDocument{
		Config:     result.ConfigPath,
		Extraneous: result.Extraneous,
		Ignore:     result.Cleaned,
	})
}

// MismatchedWarning writes nothing; JSON output must stay parseable.
func (p *JSONPresenter) MismatchedWarning(_ io.Writer) error {
	return nil
}
