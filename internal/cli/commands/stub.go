package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/lspdrive/internal/stub"
)

// NewStubCommand creates the stub command
func NewStubCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stub",
		Short: "Serve the built-in stub language server over stdio",
		Long: `Serve the built-in stub language server on stdin/stdout.

The stub answers initialize, tracks opened documents, and completes the
names of variables assigned in them. It exists as a known-good target for
the harness itself:

  lspdrive run --server lspdrive --server-arg stub`,
		RunE: runStub,
	}
}

func runStub(cmd *cobra.Command, args []string) error {
	server := stub.NewServer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return server.Run(ctx)
}
