package application

import (
	"context"
	"encoding/json"
	"fmt"

	"linear-mcp-server/internal/domain"
)

const (
	serverName = "linear-mcp-server"

	// Version is reported in serverInfo and by the version command.
	Version = "1.0.0"
)

// Server is the main MCP server implementation.
// It orchestrates the transport layer and request routing, and implements
// the MCP protocol methods.
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	mapper    domain.ResponseMapper
	config    *domain.Config
	logger    *domain.StructuredLogger
}

// NewServer creates a new MCP server instance.
func NewServer(
	transport domain.Transport,
	router *RequestRouter,
	config *domain.Config,
) *Server {
	return &Server{
		transport: transport,
		router:    router,
		mapper:    domain.NewResponseMapper(),
		config:    config,
		logger:    domain.NewStructuredLogger(),
	}
}

// WithLogger replaces the server's logger.
func (s *Server) WithLogger(logger *domain.StructuredLogger) *Server {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Start starts the transport layer and begins processing incoming requests.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.LogError("failed to start transport", err, map[string]interface{}{
			"transport_type": s.config.Transport.Type,
		})
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.LogInfo("server started", map[string]interface{}{
		"transport_type": s.config.Transport.Type,
	})

	go s.processRequests(ctx)

	return nil
}

// processRequests continuously processes incoming JSON-RPC requests.
// Each request is handled on its own goroutine; calls share no state.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.logger.LogInfo("server shutting down", nil)
			return
		case req, ok := <-reqChan:
			if !ok {
				// Channel closed, transport is shutting down
				return
			}
			go s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	s.logger.LogDebug("received request", map[string]interface{}{
		"method":     req.Method,
		"request_id": req.ID,
	})

	if err := s.validateRequest(req); err != nil {
		s.sendErrorResponse(req, domain.InvalidRequest, "Invalid Request", err.Error())
		return
	}

	if req.IsNotification() {
		// notifications/initialized and friends expect no reply
		return
	}

	var response *domain.Response
	var err error

	switch req.Method {
	case "initialize":
		response = s.handleInitialize(req)
	case "ping":
		response = s.newResponse(req, map[string]interface{}{})
	case "tools/list":
		response = s.handleToolsList(req)
	case "tools/call":
		response, err = s.handleToolsCall(ctx, req)
	default:
		s.sendErrorResponse(req, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
		return
	}

	if err != nil {
		s.logger.LogError("request processing failed", err, map[string]interface{}{
			"method":     req.Method,
			"request_id": req.ID,
		})
		// Error response already sent by handler
		return
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send response", err, map[string]interface{}{
			"request_id": req.ID,
		})
	}
}

// validateRequest validates the basic structure of a JSON-RPC request.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}

	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	return nil
}

func (s *Server) newResponse(req *domain.Request, result interface{}) *domain.Response {
	return &domain.Response{
		JSONRPC:   "2.0",
		ID:        req.ID,
		Result:    result,
		SessionID: req.SessionID,
	}
}

// handleInitialize handles the MCP initialize handshake.
func (s *Server) handleInitialize(req *domain.Request) *domain.Response {
	return s.newResponse(req, map[string]interface{}{
		"protocolVersion": domain.ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": Version,
		},
	})
}

// handleToolsList handles the MCP tools/list method.
func (s *Server) handleToolsList(req *domain.Request) *domain.Response {
	return s.newResponse(req, map[string]interface{}{
		"tools": s.router.ListAllTools(),
	})
}

// handleToolsCall handles the MCP tools/call method.
// Operation failures come back from the router as error envelopes and are
// sent as normal results; only dispatch failures become JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	toolReq, err := s.parseToolRequest(req.Params)
	if err != nil {
		s.sendErrorResponse(req, domain.InvalidParams, "Invalid params", err.Error())
		return nil, err
	}

	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		s.logger.LogError("tool execution failed", err, map[string]interface{}{
			"tool":       toolReq.Name,
			"request_id": req.ID,
		})
		s.sendMappedError(req, err)
		return nil, err
	}

	return s.newResponse(req, toolResp), nil
}

// parseToolRequest parses the params field into a ToolRequest.
func (s *Server) parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	// Round-trip through JSON so both raw maps and typed params decode
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}

	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// sendErrorResponse sends a JSON-RPC error response.
func (s *Server) sendErrorResponse(req *domain.Request, code int, message string, data interface{}) {
	s.sendError(req, &domain.Error{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// sendMappedError maps an error to a JSON-RPC error and sends it.
func (s *Server) sendMappedError(req *domain.Request, err error) {
	s.sendError(req, s.mapper.MapError(err))
}

func (s *Server) sendError(req *domain.Request, rpcErr *domain.Error) {
	response := &domain.Response{
		JSONRPC:   "2.0",
		ID:        req.ID,
		Error:     rpcErr,
		SessionID: req.SessionID,
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send error response", err, map[string]interface{}{
			"request_id":    req.ID,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		})
	}
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.LogInfo("closing server", nil)
	return s.transport.Close()
}
