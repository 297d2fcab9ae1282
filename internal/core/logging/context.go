package logging

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	documentIDKey contextKey = "document_id"
)

// WithRequestID adds an outbound API request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithDocumentID adds a document ID to the context.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, documentIDKey, documentID)
}

// RequestID retrieves the request ID from the context.
// Returns empty string if not present.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// DocumentID retrieves the document ID from the context.
// Returns empty string if not present.
func DocumentID(ctx context.Context) string {
	if id, ok := ctx.Value(documentIDKey).(string); ok {
		return id
	}
	return ""
}
