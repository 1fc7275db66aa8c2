package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lspdrive",
		Short: "Scripted LSP session driver for language server smoke testing",
		Long: color.CyanString(`lspdrive - language server smoke-test harness

lspdrive spawns a language server, speaks the LSP stdio framing to it, and
runs one fixed scripted session: initialize, open a document, then request
completions at a position. Decoded responses are printed to the console.

It verifies the wire plumbing of a server, not the quality of its answers.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewStubCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the lspdrive version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Print("lspdrive version: ")
			valueColor.Println(Version)
			titleColor.Print("Git commit: ")
			valueColor.Println(GitCommit)
			titleColor.Print("Build date: ")
			valueColor.Println(BuildDate)
			titleColor.Print("Go version: ")
			valueColor.Println(goVer)
		},
	}
}
