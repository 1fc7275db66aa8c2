// Package stub implements a minimal language server over stdio. It exists
// so the harness has a known-good target: it answers initialize, tracks
// opened documents, and completes variable names assigned in them.
package stub

import (
	"context"
	"io"
	"log"
	"os"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Server is the stub LSP server.
type Server struct {
	// conn is the JSON-RPC connection
	conn jsonrpc2.Conn

	// logger writes to stderr; stdout carries the protocol
	logger *log.Logger

	// Server capabilities
	capabilities protocol.ServerCapabilities

	// documents holds the text of opened documents by URI
	documents   map[protocol.DocumentURI]string
	documentsMu sync.RWMutex

	// cancel is used to signal server shutdown
	cancel context.CancelFunc
}

// NewServer creates a new stub server instance
func NewServer() *Server {
	return &Server{
		logger:    log.New(os.Stderr, "[stub] ", log.LstdFlags),
		documents: make(map[protocol.DocumentURI]string),
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"="},
			},
		},
	}
}

// Run serves LSP over stdin/stdout until the context is cancelled or the
// client sends exit.
func (s *Server) Run(ctx context.Context) error {
	return s.serve(ctx, stdrwc{})
}

func (s *Server) serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Println("Starting stub language server")

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	stream := jsonrpc2.NewStream(rwc)
	conn := jsonrpc2.NewConn(stream)
	s.conn = conn

	conn.Go(ctx, s.handler())

	select {
	case <-ctx.Done():
	case <-conn.Done():
	}

	s.logger.Println("Shutting down stub language server")
	return conn.Close()
}

// handler returns the JSON-RPC handler function
func (s *Server) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Printf("Received: %s", req.Method())

		switch req.Method() {
		case protocol.MethodInitialize:
			return s.handleInitialize(ctx, reply, req)
		case protocol.MethodInitialized:
			return reply(ctx, nil, nil)
		case protocol.MethodShutdown:
			return reply(ctx, nil, nil)
		case protocol.MethodExit:
			return s.handleExit(ctx, reply, req)
		case protocol.MethodTextDocumentDidOpen:
			return s.handleTextDocumentDidOpen(ctx, reply, req)
		case protocol.MethodTextDocumentDidClose:
			return s.handleTextDocumentDidClose(ctx, reply, req)
		case protocol.MethodTextDocumentCompletion:
			return s.handleTextDocumentCompletion(ctx, reply, req)
		default:
			return reply(ctx, nil, &jsonrpc2.Error{
				Code:    jsonrpc2.MethodNotFound,
				Message: "method not supported: " + req.Method(),
			})
		}
	}
}

// stdrwc implements io.ReadWriteCloser for stdin/stdout
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
