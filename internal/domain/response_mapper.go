package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// DefaultResponseMapper renders tool results as indented JSON text.
type DefaultResponseMapper struct{}

// NewResponseMapper creates a new instance of DefaultResponseMapper.
func NewResponseMapper() ResponseMapper {
	return &DefaultResponseMapper{}
}

// MapToToolResponse converts a result object to a success envelope.
// Strings are passed through as plain text messages.
func (m *DefaultResponseMapper) MapToToolResponse(result interface{}) (*ToolResponse, error) {
	if result == nil {
		return NewTextResponse("{}"), nil
	}

	if text, ok := result.(string); ok {
		return NewTextResponse(text), nil
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	contentBlock := ContentBlock{
		Type: "text",
		Text: string(jsonBytes),
	}

	paginationInfo := extractPaginationInfo(result)
	if paginationInfo != "" {
		return &ToolResponse{
			Content: []ContentBlock{
				contentBlock,
				{
					Type: "text",
					Text: paginationInfo,
				},
			},
		}, nil
	}

	return &ToolResponse{
		Content: []ContentBlock{contentBlock},
	}, nil
}

// extractPaginationInfo describes the cursor of paginated results, or
// returns "" for anything else.
func extractPaginationInfo(result interface{}) string {
	var page *SearchResult
	switch r := result.(type) {
	case *SearchResult:
		page = r
	case SearchResult:
		page = &r
	default:
		return ""
	}
	if page == nil {
		return ""
	}

	if page.PageInfo.HasNextPage {
		return fmt.Sprintf("\nPagination: %d issue(s) returned; more available, pass after=%q for the next page",
			len(page.Issues), page.PageInfo.EndCursor)
	}
	return fmt.Sprintf("\nPagination: %d issue(s) returned; no further pages", len(page.Issues))
}

// MapFailure renders err as an error envelope. The message carries the
// operation name when err is an OperationError.
func (m *DefaultResponseMapper) MapFailure(err error) *ToolResponse {
	if err == nil {
		return &ToolResponse{IsError: true, Content: []ContentBlock{{Type: "text", Text: "unknown error"}}}
	}
	return &ToolResponse{
		IsError: true,
		Content: []ContentBlock{{Type: "text", Text: err.Error()}},
	}
}

// MapError converts an error to a JSON-RPC error object.
func (m *DefaultResponseMapper) MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return &Error{Code: AuthenticationError, Message: err.Error()}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		e := &Error{Code: InvalidParams, Message: err.Error()}
		if len(validationErr.Fields) > 0 {
			e.Data = map[string]interface{}{"fields": validationErr.Fields}
		}
		return e
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return &Error{
			Code:    ResourceNotFound,
			Message: err.Error(),
			Data:    map[string]interface{}{"identifier": notFoundErr.Identifier},
		}
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return &Error{Code: APIError, Message: err.Error()}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return mapHTTPError(httpErr)
	}

	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return &Error{
			Code:    APIError,
			Message: err.Error(),
			Data:    map[string]interface{}{"errors": gqlErr.Messages},
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return &Error{Code: NetworkError, Message: err.Error()}
	}

	return &Error{
		Code:    InternalError,
		Message: err.Error(),
	}
}

// HTTPError is a non-2xx answer from the Linear API.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface for HTTPError.
func (e HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(statusCode int, message string, body string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// GraphQLError carries the errors[] array of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// mapHTTPError maps HTTP status codes to JSON-RPC error codes.
func mapHTTPError(httpErr HTTPError) *Error {
	var code int
	var message string

	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		code = AuthenticationError
		message = "Authentication failed"
	case http.StatusForbidden:
		code = AuthenticationError
		message = "Access forbidden - insufficient permissions"
	case http.StatusNotFound:
		code = APIError
		message = "Resource not found"
	case http.StatusBadRequest:
		code = InvalidParams
		message = "Bad request - invalid parameters"
	case http.StatusTooManyRequests:
		code = RateLimitError
		message = "Rate limit exceeded"
	case http.StatusServiceUnavailable:
		code = NetworkError
		message = "Service unavailable"
	case http.StatusGatewayTimeout:
		code = NetworkError
		message = "Gateway timeout"
	default:
		if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			code = APIError
			message = fmt.Sprintf("Client error: %s", httpErr.Message)
		} else if httpErr.StatusCode >= 500 {
			code = APIError
			message = fmt.Sprintf("Server error: %s", httpErr.Message)
		} else {
			code = InternalError
			message = httpErr.Message
		}
	}

	errorData := map[string]interface{}{
		"statusCode": httpErr.StatusCode,
		"message":    httpErr.Message,
	}
	if httpErr.Body != "" {
		errorData["body"] = httpErr.Body
	}

	return &Error{
		Code:    code,
		Message: message,
		Data:    errorData,
	}
}
