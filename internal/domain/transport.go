package domain

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Transport moves JSON-RPC messages between an MCP client and the server.
type Transport interface {
	// Start begins listening for incoming messages.
	Start(ctx context.Context) error

	// Send delivers a response to the client that sent the request.
	Send(response *Response) error

	// Receive returns the channel of incoming requests. It is closed when
	// the transport shuts down.
	Receive() <-chan *Request

	// Close shuts the transport down.
	Close() error
}

const requestQueueSize = 10

// StdioTransport reads newline-delimited JSON-RPC requests from a reader
// and writes one response per line to a writer.
type StdioTransport struct {
	reader  *bufio.Reader
	writer  *bufio.Writer
	reqChan chan *Request
	logger  *StructuredLogger
	mu      sync.Mutex
	closed  bool
}

// NewStdioTransport creates a transport bound to os.Stdin and os.Stdout.
func NewStdioTransport(logger *StructuredLogger) *StdioTransport {
	return NewStdioTransportWithIO(os.Stdin, os.Stdout, logger)
}

// NewStdioTransportWithIO creates a transport over custom streams.
func NewStdioTransportWithIO(reader io.Reader, writer io.Writer, logger *StructuredLogger) *StdioTransport {
	if logger == nil {
		logger = NewStructuredLoggerWithWriter(io.Discard, "error")
	}
	return &StdioTransport{
		reader:  bufio.NewReader(reader),
		writer:  bufio.NewWriter(writer),
		reqChan: make(chan *Request, requestQueueSize),
		logger:  logger,
	}
}

// Start spawns the read loop.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("transport is closed")
	}
	t.mu.Unlock()

	go t.readLoop(ctx)
	return nil
}

// readLoop parses one request per line until EOF or cancellation.
func (t *StdioTransport) readLoop(ctx context.Context) {
	defer close(t.reqChan)

	for {
		if ctx.Err() != nil {
			return
		}

		line, err := t.reader.ReadString('\n')
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				t.logger.LogError("stdio read failed", err, nil)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		req, rpcErr := decodeRequest([]byte(line))
		if rpcErr != nil {
			_ = t.Send(&Response{ID: rpcErr.id, Error: rpcErr.err})
			continue
		}

		select {
		case t.reqChan <- req:
		case <-ctx.Done():
			return
		}
	}
}

// Send writes a response as a single line.
func (t *StdioTransport) Send(response *Response) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush response: %w", err)
	}

	return nil
}

// Receive returns the channel for incoming JSON-RPC requests.
func (t *StdioTransport) Receive() <-chan *Request {
	return t.reqChan
}

// Close marks the transport closed. The request channel is closed by the
// read loop.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	return nil
}

// requestError pairs a JSON-RPC error with the id it answers.
type requestError struct {
	id  interface{}
	err *Error
}

// decodeRequest parses and checks one JSON-RPC request.
func decodeRequest(data []byte) (*Request, *requestError) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &requestError{err: &Error{Code: ParseError, Message: "Parse error", Data: err.Error()}}
	}

	if req.JSONRPC != "2.0" {
		return nil, &requestError{id: req.ID, err: &Error{Code: InvalidRequest, Message: "Invalid Request", Data: "invalid jsonrpc version"}}
	}

	return &req, nil
}

// HTTPTransport serves MCP over HTTP with server-sent events:
// GET /mcp opens an event stream and announces a message endpoint,
// POST /mcp/message?sessionId=... submits requests whose responses are
// pushed back on that session's stream.
type HTTPTransport struct {
	host    string
	port    int
	server  *http.Server
	reqChan chan *Request
	logger  *StructuredLogger
	mu      sync.Mutex
	closed  bool

	sessions   map[string]*sseSession
	sessionsMu sync.RWMutex
	nextID     atomic.Uint64
}

// sseSession is one open event stream.
type sseSession struct {
	id          string
	messageChan chan *Response
	done        chan struct{}
	closeOnce   sync.Once
}

func (s *sseSession) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(host string, port int, logger *StructuredLogger) *HTTPTransport {
	if logger == nil {
		logger = NewStructuredLoggerWithWriter(io.Discard, "error")
	}
	return &HTTPTransport{
		host:     host,
		port:     port,
		reqChan:  make(chan *Request, requestQueueSize),
		logger:   logger,
		sessions: make(map[string]*sseSession),
	}
}

// Handler returns the HTTP handler serving the MCP endpoints.
func (t *HTTPTransport) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleSSE)
	mux.HandleFunc("/mcp/message", t.handleMessage)
	return mux
}

// Start begins serving on the configured address.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("transport is closed")
	}
	t.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", t.host, t.port),
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := t.server
	t.mu.Unlock()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.LogError("http transport stopped", err, map[string]interface{}{"addr": server.Addr})
		}
	}()

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	return nil
}

// handleSSE opens an event stream for one client.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	session := &sseSession{
		id:          fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), t.nextID.Add(1)),
		messageChan: make(chan *Response, requestQueueSize),
		done:        make(chan struct{}),
	}

	t.sessionsMu.Lock()
	t.sessions[session.id] = session
	t.sessionsMu.Unlock()

	defer func() {
		t.sessionsMu.Lock()
		delete(t.sessions, session.id)
		t.sessionsMu.Unlock()
		session.close()
		t.logger.LogDebug("sse session closed", map[string]interface{}{"session_id": session.id})
	}()

	fmt.Fprintf(w, "event: endpoint\ndata: /mcp/message?sessionId=%s\n\n", session.id)
	flusher.Flush()
	t.logger.LogDebug("sse session opened", map[string]interface{}{"session_id": session.id, "remote": r.RemoteAddr})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-session.done:
			return
		case response := <-session.messageChan:
			data, err := json.Marshal(response)
			if err != nil {
				t.logger.LogError("failed to marshal sse message", err, map[string]interface{}{"session_id": session.id})
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

// handleMessage accepts one JSON-RPC request for an open session.
func (t *HTTPTransport) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Missing sessionId parameter", http.StatusBadRequest)
		return
	}

	t.sessionsMu.RLock()
	session, exists := t.sessions[sessionID]
	t.sessionsMu.RUnlock()
	if !exists {
		http.Error(w, "Invalid session", http.StatusBadRequest)
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	req, rpcErr := decodeRequest(body)
	if rpcErr != nil {
		t.deliver(session, &Response{JSONRPC: "2.0", ID: rpcErr.id, Error: rpcErr.err})
		w.WriteHeader(http.StatusAccepted)
		return
	}
	req.SessionID = sessionID

	// reqChan is closed under t.mu, so the send must happen under it too.
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}
	queued := false
	select {
	case t.reqChan <- req:
		queued = true
	default:
	}
	t.mu.Unlock()

	if queued {
		w.WriteHeader(http.StatusAccepted)
	} else {
		t.deliver(session, &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: InternalError, Message: "Internal error", Data: "request queue full"},
		})
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

// deliver queues a response on a session without blocking.
func (t *HTTPTransport) deliver(session *sseSession, response *Response) bool {
	select {
	case session.messageChan <- response:
		return true
	default:
		t.logger.LogWarn("sse session queue full, dropping message", map[string]interface{}{"session_id": session.id})
		return false
	}
}

// Send pushes a response to the session its request came from. Responses
// without a session are broadcast to every open stream.
func (t *HTTPTransport) Send(response *Response) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fmt.Errorf("transport is closed")
	}
	t.mu.Unlock()

	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()

	if response.SessionID != "" {
		session, ok := t.sessions[response.SessionID]
		if !ok {
			return fmt.Errorf("session %s is no longer open", response.SessionID)
		}
		if !t.deliver(session, response) {
			return fmt.Errorf("session %s queue is full", response.SessionID)
		}
		return nil
	}

	if len(t.sessions) == 0 {
		return fmt.Errorf("no active sessions")
	}
	for _, session := range t.sessions {
		t.deliver(session, response)
	}
	return nil
}

// Receive returns the channel for incoming JSON-RPC requests.
func (t *HTTPTransport) Receive() <-chan *Request {
	return t.reqChan
}

// Close ends all sessions and shuts the HTTP server down.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.reqChan)
	server := t.server
	t.mu.Unlock()

	t.sessionsMu.Lock()
	for _, session := range t.sessions {
		session.close()
	}
	t.sessions = make(map[string]*sseSession)
	t.sessionsMu.Unlock()

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}

	return nil
}
