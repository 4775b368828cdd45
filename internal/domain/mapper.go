package domain

// ResponseMapper turns tool results and failures into MCP responses.
type ResponseMapper interface {
	// MapToToolResponse renders a result object as a success envelope.
	MapToToolResponse(result interface{}) (*ToolResponse, error)

	// MapFailure renders an operation failure as an error envelope.
	MapFailure(err error) *ToolResponse

	// MapError converts an error to a JSON-RPC error object.
	MapError(err error) *Error
}
