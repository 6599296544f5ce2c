package response

import (
	"errors"
	"fmt"
	"strings"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST   ErrCode = "REQUEST_FAILED"
	BAD_REQUEST      ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND        ErrCode = "NOT_FOUND"
	CONFLICT         ErrCode = "CONFLICT"
	UNKNOWN_RESOURCE ErrCode = "UNKNOWN_RESOURCE"
	NO_PERIODS       ErrCode = "NO_PERIODS_SELECTED"
	MISSING_FIELD    ErrCode = "MISSING_REQUIRED_FIELD"
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("slot already reserved")
	ErrUnknownResource = errors.New("unknown resource")
	ErrNoPeriods       = errors.New("no periods selected")
	ErrMissingField    = errors.New("missing required field")
)

// ConflictError reports which existing reservation blocks a create attempt,
// so callers can render "already reserved by X for periods Y".
type ConflictError struct {
	Requester  string
	GroupLabel string
	Periods    []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("already reserved by %s (%s) for periods %s",
		e.Requester, e.GroupLabel, strings.Join(e.Periods, ","))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
