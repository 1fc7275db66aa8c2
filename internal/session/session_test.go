package session

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/lspdrive/internal/wire"
)

// pipeRWC glues two pipe halves into the ReadWriteCloser jsonrpc2 expects.
type pipeRWC struct {
	io.Reader
	io.Writer
}

func (pipeRWC) Close() error { return nil }

// startStubServer runs an in-process language server built on the jsonrpc2
// package, so the hand-rolled framing on the client side is checked against
// an independent implementation of the same wire format.
func startStubServer(t *testing.T) *Session {
	t.Helper()

	srvIn, cliOut := io.Pipe()
	cliIn, srvOut := io.Pipe()

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(pipeRWC{srvIn, srvOut}))
	conn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodInitialize:
			return reply(ctx, protocol.InitializeResult{
				Capabilities: protocol.ServerCapabilities{
					CompletionProvider: &protocol.CompletionOptions{},
				},
				ServerInfo: &protocol.ServerInfo{Name: "stub-ls", Version: "0.0.1"},
			}, nil)
		case protocol.MethodTextDocumentDidOpen:
			return reply(ctx, nil, nil)
		case protocol.MethodTextDocumentCompletion:
			return reply(ctx, protocol.CompletionList{
				IsIncomplete: false,
				Items: []protocol.CompletionItem{
					{Label: "x"},
					{Label: "y"},
				},
			}, nil)
		default:
			return reply(ctx, nil, &jsonrpc2.Error{
				Code:    jsonrpc2.MethodNotFound,
				Message: "unknown method",
			})
		}
	})
	t.Cleanup(func() { conn.Close() })

	return New(cliIn, cliOut, zap.NewNop())
}

func TestCallInitialize(t *testing.T) {
	sess := startStubServer(t)

	msg, err := sess.Call(protocol.MethodInitialize, protocol.InitializeParams{
		RootURI:      "file:///",
		Capabilities: protocol.ClientCapabilities{},
	})
	require.NoError(t, err)
	require.True(t, msg.IsResponse())
	require.Nil(t, msg.Error)

	var result protocol.InitializeResult
	require.NoError(t, json.Unmarshal(msg.Result, &result))
	assert.Equal(t, "stub-ls", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.CompletionProvider)
}

func TestCallCompletion(t *testing.T) {
	sess := startStubServer(t)

	msg, err := sess.Call(protocol.MethodTextDocumentCompletion, protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.t"},
			Position:     protocol.Position{Line: 1, Character: 4},
		},
	})
	require.NoError(t, err)
	require.Nil(t, msg.Error)

	var list protocol.CompletionList
	require.NoError(t, json.Unmarshal(msg.Result, &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "x", list.Items[0].Label)
}

func TestCallSurfacesServerError(t *testing.T) {
	sess := startStubServer(t)

	msg, err := sess.Call("workspace/unknown", nil)
	require.NoError(t, err)
	require.NotNil(t, msg.Error)
	assert.Equal(t, int64(wire.CodeMethodNotFound), msg.Error.Code)
}

func TestNotifyWritesDecodableFrame(t *testing.T) {
	srvIn, cliOut := io.Pipe()

	sess := New(nil, cliOut, zap.NewNop())
	go func() {
		_ = sess.Notify(protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{
				URI:        "file:///test.t",
				LanguageID: "t",
				Version:    1,
				Text:       "x = 10\ny = ",
			},
		})
		cliOut.Close()
	}()

	msg, err := wire.NewDecoder(srvIn).DecodeMessage()
	require.NoError(t, err)
	assert.Equal(t, protocol.MethodTextDocumentDidOpen, msg.Method)
	assert.Nil(t, msg.ID, "notifications carry no id")

	var params protocol.DidOpenTextDocumentParams
	require.NoError(t, json.Unmarshal(msg.Params, &params))
	assert.Equal(t, "x = 10\ny = ", params.TextDocument.Text)
}

// The session matches responses by arrival order, not by id. A response
// carrying the wrong id is still returned to the caller; the session only
// logs a warning.
func TestCallAcceptsMismatchedResponseID(t *testing.T) {
	srvIn, cliOut := io.Pipe()
	cliIn, srvOut := io.Pipe()

	go func() {
		// Consume the request, answer with an unrelated id.
		_, err := wire.NewDecoder(srvIn).DecodeMessage()
		if err != nil {
			return
		}
		frame, _ := wire.Encode(json.RawMessage(`{"jsonrpc":"2.0","id":99,"result":{"capabilities":{}}}`))
		srvOut.Write(frame)
	}()

	core, logs := observer.New(zap.WarnLevel)
	sess := New(cliIn, cliOut, zap.New(core))

	msg, err := sess.Call(protocol.MethodInitialize, nil)
	require.NoError(t, err)
	require.NotNil(t, msg.ID)
	assert.Equal(t, int64(99), *msg.ID)

	warnings := logs.FilterMessage("response id does not match request").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(1), warnings[0].ContextMap()["sent_id"])
}
