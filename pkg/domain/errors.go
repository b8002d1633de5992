package domain

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrorCode is the stable machine-readable code of a business-rule violation.
//
// The surrounding service maps codes to its own error surface
// (e.g. model_not_found -> HTTP 404, model_already_exists -> 409,
// invalid_model -> 400).
type ErrorCode string

const (
	CodeInvalidModel       ErrorCode = "invalid_model"
	CodeModelAlreadyExists ErrorCode = "model_already_exists"
	CodeModelNotFound      ErrorCode = "model_not_found"
)

// Error is a business-rule violation detected by a catalog operation.
//
// It carries a stable code, a human message, contextual details and a
// generated trace id for correlation. The aggregate state is left unchanged
// whenever an Error is returned.
//
// errors.Is matches Errors by code, so the package-level sentinels
// (ErrModelNotFound, ...) can be used as targets.
type Error struct {
	code    ErrorCode
	message string
	details map[string]string
	traceId string
}

var (
	ErrInvalidModel       = &Error{code: CodeInvalidModel, message: "the model is invalid"}
	ErrModelAlreadyExists = &Error{code: CodeModelAlreadyExists, message: "the model already exists"}
	ErrModelNotFound      = &Error{code: CodeModelNotFound, message: "the model was not found"}
)

func newError(code ErrorCode, message string, details map[string]string) *Error {
	return &Error{
		code:    code,
		message: message,
		details: maps.Clone(details),
		traceId: uuid.NewString(),
	}
}

// NewInvalidModel reports that a model is invalid. modelId may be the raw
// (possibly malformed) id string.
func NewInvalidModel(modelId string, message string) *Error {
	return newError(CodeInvalidModel, message, map[string]string{"model_id": modelId})
}

// NewModelAlreadyExists reports a duplicate registration of modelId.
func NewModelAlreadyExists(modelId ModelId) *Error {
	return newError(
		CodeModelAlreadyExists,
		"the model already exists",
		map[string]string{"model_id": modelId.String()},
	)
}

// NewModelNotFound reports that modelId is not in the catalog.
func NewModelNotFound(modelId ModelId) *Error {
	return newError(
		CodeModelNotFound,
		"the model was not found",
		map[string]string{"model_id": modelId.String()},
	)
}

func (e *Error) Error() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "%s: %s", e.code, e.message)

	if len(e.details) != 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+e.details[k])
		}
		fmt.Fprintf(b, " (%s)", strings.Join(pairs, ", "))
	}

	if e.traceId != "" {
		fmt.Fprintf(b, " [trace %s]", e.traceId)
	}
	return b.String()
}

// Code is the stable error code.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Details are contextual fields of the violation, e.g. the offending model id.
func (e *Error) Details() map[string]string {
	return maps.Clone(e.details)
}

// TraceId correlates this error instance across log lines and responses.
func (e *Error) TraceId() string {
	return e.traceId
}

// Is matches target by error code, so that
//
//	errors.Is(err, ErrModelNotFound)
//
// holds for every Error carrying CodeModelNotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}
