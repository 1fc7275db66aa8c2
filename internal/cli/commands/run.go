package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/conduit-lang/lspdrive/internal/cli/config"
	"github.com/conduit-lang/lspdrive/internal/cli/ui"
	"github.com/conduit-lang/lspdrive/internal/session"
)

var (
	runServer     string
	runServerArgs []string
	runRoot       string
	runDocument   string
	runLanguage   string
	runText       string
	runLine       uint32
	runCharacter  uint32
	runWait       time.Duration
	runVerbose    bool
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scripted session against a language server",
		Long: `Spawn a language server and run the scripted session against it.

The session, in order:
  1. Send an initialize request and print the response
  2. Send a textDocument/didOpen notification for the configured document
  3. Wait a fixed interval for server-side analysis to settle
  4. Send a textDocument/completion request and print the response
  5. Terminate the server

Defaults come from lspdrive.yml in the working directory; flags override it.

Examples:
  lspdrive run --server ./_build/default/src/lsp_server.exe
  lspdrive run --server gopls --document file:///tmp/main.go --language go
  lspdrive run --server ./server --wait 2s --line 1 --character 4`,
		RunE: runRun,
	}

	cmd.Flags().StringVarP(&runServer, "server", "s", "", "Path to the language server executable")
	cmd.Flags().StringArrayVar(&runServerArgs, "server-arg", nil, "Argument passed to the server (repeatable)")
	cmd.Flags().StringVar(&runRoot, "root", "", "Workspace root URI sent in initialize")
	cmd.Flags().StringVar(&runDocument, "document", "", "URI of the document to open")
	cmd.Flags().StringVar(&runLanguage, "language", "", "Language identifier of the document")
	cmd.Flags().StringVar(&runText, "text", "", "Full text of the document")
	cmd.Flags().Uint32Var(&runLine, "line", 0, "Completion position line (zero-based)")
	cmd.Flags().Uint32Var(&runCharacter, "character", 0, "Completion position character (zero-based)")
	cmd.Flags().DurationVar(&runWait, "wait", 0, "Pause between didOpen and completion")
	cmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Log sent and received frames")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	applyRunFlags(cmd, cfg)

	if cfg.Server.Command == "" {
		return fmt.Errorf("no language server configured: set server.command in lspdrive.yml or pass --server")
	}

	logger, err := newLogger(runVerbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	script := &session.Script{
		Server:     cfg.Server.Command,
		ServerArgs: cfg.Server.Args,
		RootURI:    uri.URI(cfg.RootURI),
		Document: session.Document{
			URI:        uri.URI(cfg.Document.URI),
			LanguageID: cfg.Document.LanguageID,
			Version:    cfg.Document.Version,
			Text:       cfg.Document.Text,
		},
		Position: protocol.Position{
			Line:      cfg.Completion.Line,
			Character: cfg.Completion.Character,
		},
		Wait: cfg.Wait,
	}

	if err := script.Run(logger, ui.NewPrinter(os.Stdout)); err != nil {
		reportSessionFailure(err)
		return err
	}

	ui.WriteSuccess(os.Stdout, "session completed", color.NoColor)
	return nil
}

// reportSessionFailure prints the rich failure report before the error
// itself is surfaced.
func reportSessionFailure(err error) {
	opts := ui.ReportOptions{
		Level:   ui.ErrorLevelError,
		Problem: err.Error(),
		Suggestions: []string{
			"Check that the server speaks Content-Length framed JSON-RPC on stdout",
			"Re-run with --verbose to log every frame",
		},
	}

	var stepErr *session.StepError
	if errors.As(err, &stepErr) {
		opts.Step = stepErr.Step
		opts.Problem = stepErr.Err.Error()
	}

	ui.WriteReport(os.Stderr, opts)
}

// applyRunFlags overlays explicitly set flags onto the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("server") {
		cfg.Server.Command = runServer
	}
	if cmd.Flags().Changed("server-arg") {
		cfg.Server.Args = runServerArgs
	}
	if cmd.Flags().Changed("root") {
		cfg.RootURI = runRoot
	}
	if cmd.Flags().Changed("document") {
		cfg.Document.URI = runDocument
	}
	if cmd.Flags().Changed("language") {
		cfg.Document.LanguageID = runLanguage
	}
	if cmd.Flags().Changed("text") {
		cfg.Document.Text = runText
	}
	if cmd.Flags().Changed("line") {
		cfg.Completion.Line = runLine
	}
	if cmd.Flags().Changed("character") {
		cfg.Completion.Character = runCharacter
	}
	if cmd.Flags().Changed("wait") {
		cfg.Wait = runWait
	}
}

// newLogger builds the session logger. Verbose runs get the full
// development logger; quiet runs only surface warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if !verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return zapCfg.Build()
}
