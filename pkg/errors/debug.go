package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		d.UpstreamStatus = upstream.StatusCode
		d.UpstreamBody = upstream.Body
	}

	return d
}

// UpstreamError carries the raw HTTP evidence from a failed commerce
// backend call so it can be logged without leaking to clients.
type UpstreamError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("upstream %s returned %d", e.Endpoint, e.StatusCode)
}
