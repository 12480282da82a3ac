package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ResponseError describes a non-2xx answer from a downstream service.
type ResponseError struct {
	Service string
	Status  int
	Code    string
	Message string
}

func (e *ResponseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s returned %d (%s): %s", e.Service, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.Status, e.Message)
}

// ClientError reports whether the downstream rejected the request itself (4xx).
func (e *ResponseError) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// ParseResponseError consumes and closes resp.Body and builds a *ResponseError.
// Bodies in the {"error":{"code","message"}} shape or a flat
// {"error":"..."} string are understood; anything else is kept verbatim.
func ParseResponseError(resp *http.Response, service string) error {
	defer drain(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &ResponseError{Service: service, Status: resp.StatusCode, Message: "unreadable body: " + err.Error()}
	}

	re := &ResponseError{Service: service, Status: resp.StatusCode, Message: string(body)}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) != nil || len(envelope.Error) == 0 {
		return re
	}

	var structured struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	var flat string
	switch {
	case json.Unmarshal(envelope.Error, &structured) == nil && structured.Message != "":
		re.Code, re.Message = structured.Code, structured.Message
	case json.Unmarshal(envelope.Error, &flat) == nil:
		re.Message = flat
	}
	return re
}
