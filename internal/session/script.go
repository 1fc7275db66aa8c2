package session

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/conduit-lang/lspdrive/internal/wire"
)

// Reporter receives decoded responses for display.
type Reporter interface {
	Response(step string, msg *wire.Message)
}

// StepError names the scripted step that failed.
type StepError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Document describes the file the script opens on the server.
type Document struct {
	URI        uri.URI
	LanguageID string
	Version    int32
	Text       string
}

// Script is one scripted LSP session: initialize, open a document, wait for
// the server's analysis to settle, request completion.
type Script struct {
	// Server is the language server executable, with optional arguments.
	Server     string
	ServerArgs []string

	RootURI  uri.URI
	Document Document
	Position protocol.Position

	// Wait is the pause between didOpen and the completion request. No
	// readiness notification is consumed from the server, so the script
	// waits a fixed interval for asynchronous analysis to settle.
	Wait time.Duration
}

// Run executes the script against a freshly spawned server process. The
// process is terminated on every exit path, including mid-script failures.
// Errors name the step that failed.
func (sc *Script) Run(logger *zap.Logger, report Reporter) error {
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	logger.Info("starting language server",
		zap.String("command", sc.Server),
		zap.Strings("args", sc.ServerArgs))

	proc, err := StartProcess(sc.Server, sc.ServerArgs...)
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	defer func() {
		if err := proc.Terminate(); err != nil {
			logger.Warn("terminate server", zap.Error(err))
		}
	}()

	proc.ForwardStderr(logger)

	sess := New(proc.Stdout(), proc.Stdin(), logger)
	return sc.play(sess, report)
}

// play runs the scripted sequence over an established session.
func (sc *Script) play(sess *Session, report Reporter) error {
	initResp, err := sess.Call(protocol.MethodInitialize, protocol.InitializeParams{
		ProcessID:    int32(os.Getpid()),
		RootURI:      sc.RootURI,
		Capabilities: protocol.ClientCapabilities{},
	})
	if err != nil {
		return &StepError{Step: protocol.MethodInitialize, Err: err}
	}
	report.Response(protocol.MethodInitialize, initResp)

	err = sess.Notify(protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        sc.Document.URI,
			LanguageID: protocol.LanguageIdentifier(sc.Document.LanguageID),
			Version:    sc.Document.Version,
			Text:       sc.Document.Text,
		},
	})
	if err != nil {
		return &StepError{Step: protocol.MethodTextDocumentDidOpen, Err: err}
	}

	// Let server-side analysis settle before asking for completions.
	time.Sleep(sc.Wait)

	compResp, err := sess.Call(protocol.MethodTextDocumentCompletion, protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: sc.Document.URI},
			Position:     sc.Position,
		},
	})
	if err != nil {
		return &StepError{Step: protocol.MethodTextDocumentCompletion, Err: err}
	}
	report.Response(protocol.MethodTextDocumentCompletion, compResp)

	return nil
}
