//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
)

// StubValidateConfigCommand is a stub implementation of commands.ValidateConfig.
type StubValidateConfigCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *commands.ValidateConfigResult
	LastOpts         commands.ValidateConfigOptions
}

var _ commands.ValidateConfig = (*StubValidateConfigCommand)(nil)

func (s *StubValidateConfigCommand) Execute(
	_ context.Context,
	opts commands.ValidateConfigOptions,
) (*commands.ValidateConfigResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Result == nil {
		return &commands.ValidateConfigResult{
			Original:   entities.NewIgnoreRules(),
			Extraneous: entities.NewIgnoreRules(),
			Cleaned:    entities.NewIgnoreRules(),
		}, nil
	}
	return s.Result, nil
}
