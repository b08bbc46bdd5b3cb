package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depalign/internal/infrastructure/controllers"
)

const (
	// fatalExitCode is kept apart from the mismatch counts, which are capped below it.
	fatalExitCode = 255
	maxStatus     = fatalExitCode - 1
)

func buildRootCommand(checkController *controllers.CheckController, status *int) *cobra.Command {
	bind := checkController.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           bind.Use,
		Short:         bind.Short,
		Long:          bind.Long,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, args []string) error {
			code, err := checkController.Execute(command, args)
			*status = code
			return err
		},
	}

	checkController.AddFlags(cmd)
	return cmd
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject the controller via DIG
	checkController := injectCheckController()

	status := 0
	cobraRoot := buildRootCommand(checkController, &status)
	if err := cobraRoot.Execute(); err != nil {
		logger.Errorf("Error executing 'depalign': %s", err)
		os.Exit(fatalExitCode)
	}

	os.Exit(min(status, maxStatus))
}
