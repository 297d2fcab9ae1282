package platform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// GenericErrorMessage is surfaced when the platform gives no usable reason.
const GenericErrorMessage = "Request failed"

// APIError is a non-2xx platform response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// newAPIError builds an APIError whose message is the first value of the
// JSON error object, in document order.
func newAPIError(status int, body []byte) *APIError {
	msg, ok := firstMessage(body)
	if !ok {
		msg = GenericErrorMessage
	}
	return &APIError{Status: status, Message: msg}
}

// firstMessage walks the error body with a streaming decoder because map
// decoding would lose key order. Arrays yield their first element and
// nested objects their first value.
func firstMessage(body []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	return readMessage(dec)
}

func readMessage(dec *json.Decoder) (string, bool) {
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			if !dec.More() {
				return "", false
			}
			// skip the key
			if _, err := dec.Token(); err != nil {
				return "", false
			}
			return readMessage(dec)
		case '[':
			if !dec.More() {
				return "", false
			}
			return readMessage(dec)
		}
		return "", false
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// readBody reads at most limit bytes of an error response.
func readBody(r io.Reader, limit int64) []byte {
	data, _ := io.ReadAll(io.LimitReader(r, limit))
	return data
}
