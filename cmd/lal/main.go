// Command lal wires every operation in this module's core packages onto a
// single cobra.Command tree, one subcommand per verb.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dpvpro/lal/pkg/status"
)

const (
	// Program is the name of the program.
	Program = "lal"
	// Version of the program.
	Version = "2.0.0"
	// Description of the program.
	Description = "Component dependency management and build orchestration."
)

var noLogColor = pflag.BoolP("no-log-color", "c", false, "do not colorize log output")

func main() {
	root := &cobra.Command{
		Use:     Program,
		Short:   Description,
		Version: Version,
	}
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.DisableFlagsInUseLine = true
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.PersistentFlags().AddFlag(pflag.Lookup("no-log-color"))
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		status.NoColor = *noLogColor
	}

	root.AddCommand(
		newInitCmd(),
		newFetchCmd(),
		newUpdateCmd(),
		newRemoveCmd(),
		newExportCmd(),
		newStashCmd(),
		newVerifyCmd(),
		newStatusCmd(),
		newCleanCmd(),
		newBuildCmd(),
		newPublishCmd(),
		newPropagateCmd(),
		newConfigureCmd(),
		newEnvCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
