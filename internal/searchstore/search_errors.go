// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/xataio/indexschema/internal/json"
)

// ResponseError is the error object of a failed Elasticsearch or OpenSearch
// request. Both engines use the same format.
type ResponseError struct {
	Type     string         `mapstructure:"type"`
	Reason   string         `mapstructure:"reason"`
	CausedBy *ResponseError `mapstructure:"caused_by"`
}

// RetryableError wraps failures that are expected to go away, such as
// throttling or a busy cluster.
type RetryableError struct {
	Cause error
}

func (r RetryableError) Error() string {
	return r.Cause.Error()
}

func (r RetryableError) Unwrap() error {
	return r.Cause
}

type ErrResourceAlreadyExists struct {
	Reason string
}

func (e ErrResourceAlreadyExists) Error() string {
	return "resource already exists: " + e.Reason
}

// ErrQueryInvalid is returned for rejected requests, for example a mapping
// update that changes the type of an existing field.
type ErrQueryInvalid struct {
	Cause error
}

func (e ErrQueryInvalid) Error() string {
	return e.Cause.Error()
}

func (e ErrQueryInvalid) Unwrap() error {
	return e.Cause
}

const (
	resourceAlreadyExistsException = "resource_already_exists_exception"
	snapshotInProgressException    = "snapshot_in_progress_exception"
	indexNotFoundException         = "index_not_found_exception"

	unknownErrorType   = "<unknown error type>"
	unknownErrorReason = "<unknown error reason>"
)

var (
	ErrTooManyRequests            = errors.New("too many requests")
	ErrUnsupportedSearchFieldType = errors.New("unsupported search field type")
	ErrResourceNotFound           = errors.New("search resource not found")
)

var retryableStatus = map[int]error{
	http.StatusRequestTimeout:     errors.New("request timeout"),
	http.StatusLocked:             errors.New("resource locked"),
	http.StatusTooEarly:           errors.New("too early"),
	http.StatusTooManyRequests:    ErrTooManyRequests,
	http.StatusBadGateway:         errors.New("bad gateway"),
	http.StatusServiceUnavailable: errors.New("service unavailable"),
	http.StatusGatewayTimeout:     errors.New("gateway timeout"),
}

type apiResponse interface {
	GetBody() io.ReadCloser
	GetStatusCode() int
	IsError() bool
}

// IsErrResponse returns the error of the response on input, or nil if the
// request succeeded.
func IsErrResponse(res apiResponse) error {
	if !res.IsError() {
		return nil
	}
	return ExtractResponseError(res.GetBody(), res.GetStatusCode())
}

// ExtractResponseError decodes the error body and classifies it by status
// code and error type.
func ExtractResponseError(body io.ReadCloser, statusCode int) error {
	respErr, err := decodeResponseError(body)
	if err != nil {
		return err
	}

	if cause, found := retryableStatus[statusCode]; found {
		return RetryableError{Cause: fmt.Errorf("[%d] %w: %s", statusCode, cause, respErr.describe())}
	}

	switch {
	case statusCode == http.StatusNotFound,
		respErr.Type == indexNotFoundException:
		return fmt.Errorf("%w: [%d]: %s: %s", ErrResourceNotFound, statusCode, respErr.Type, respErr.describe())
	case respErr.Type == resourceAlreadyExistsException:
		return ErrResourceAlreadyExists{Reason: respErr.describe()}
	case respErr.Type == snapshotInProgressException:
		return RetryableError{Cause: fmt.Errorf("[%d] %s: %s", statusCode, respErr.Type, respErr.describe())}
	case statusCode == http.StatusBadRequest,
		statusCode == http.StatusConflict:
		return ErrQueryInvalid{Cause: fmt.Errorf("%s: %s", respErr.Type, respErr.describe())}
	default:
		return fmt.Errorf("[%d] %s: %s", statusCode, respErr.Type, respErr.describe())
	}
}

func decodeResponseError(body io.ReadCloser) (*ResponseError, error) {
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading error response: %w", err)
	}

	var e map[string]any
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decoding error response: %w", err)
	}

	respErr := &ResponseError{Type: unknownErrorType, Reason: unknownErrorReason}
	if details, found := e["error"]; found {
		var decoded ResponseError
		if err := mapstructure.Decode(details, &decoded); err == nil && decoded.Type != "" {
			respErr = &decoded
		}
	}
	return respErr, nil
}

// describe returns the reason followed by the chain of causes.
func (e *ResponseError) describe() string {
	reasons := []string{}
	for cur := e; cur != nil; cur = cur.CausedBy {
		if cur.Reason != "" {
			reasons = append(reasons, cur.Reason)
		}
	}
	if len(reasons) == 0 {
		return unknownErrorReason
	}
	return strings.Join(reasons, ": ")
}
