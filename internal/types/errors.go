package types

import (
	"errors"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Error kinds returned by the resolver. Every failure built by Fail carries
// its kind as label and code and wraps it, so errors.Is matches the kind.
var (
	ErrInputMalformed          = errorKind(errbuilder.CodeInvalidArgument, "input_malformed", "input malformed")
	ErrNotFound                = errorKind(errbuilder.CodeNotFound, "not_found", "not found")
	ErrIncompleteConfiguration = errorKind(errbuilder.CodeFailedPrecondition, "incomplete_configuration", "incomplete configuration")
	ErrValidationFailed        = errorKind(errbuilder.CodeFailedPrecondition, "validation_failed", "validation failed")
	ErrInvalidIdentifier       = errorKind(errbuilder.CodeInvalidArgument, "invalid_identifier", "invalid identifier")
	ErrCyclicDependency        = errorKind(errbuilder.CodeFailedPrecondition, "cyclic_dependency", "cyclic dependency")
)

var errorKinds = []*errbuilder.ErrBuilder{
	ErrInputMalformed,
	ErrNotFound,
	ErrIncompleteConfiguration,
	ErrValidationFailed,
	ErrInvalidIdentifier,
	ErrCyclicDependency,
}

func errorKind(code errbuilder.ErrCode, label string, msg string) *errbuilder.ErrBuilder {
	return errbuilder.New().
		WithCode(code).
		WithLabel(label).
		WithMsg(msg)
}

// Fail builds a failure of the given kind. context holds name/value pairs
// recorded as error details; an empty value is recorded as "<none>" so a
// missing piece is visible.
func Fail(kind *errbuilder.ErrBuilder, msg string, context ...string) *errbuilder.ErrBuilder {
	return FailWithCause(kind, nil, msg, context...)
}

// FailWithCause is Fail for failures caused by another error. Both the kind
// and cause stay reachable through errors.Is; the cause text is also recorded
// under the "cause" detail.
func FailWithCause(kind *errbuilder.ErrBuilder, cause error, msg string, context ...string) *errbuilder.ErrBuilder {
	details := errbuilder.ErrorMap{}
	for i := 0; i+1 < len(context); i += 2 {
		addDetail(details, context[i], context[i+1])
	}
	var wrapped error = kind
	if cause != nil {
		wrapped = errors.Join(kind, cause)
		addDetail(details, "cause", cause.Error())
	}
	return errbuilder.New().
		WithCode(kind.Code).
		WithLabel(kind.Label).
		WithMsg(msg).
		WithCause(wrapped).
		WithDetails(errbuilder.NewErrDetails(details))
}

// KindOf returns the resolver kind err belongs to.
func KindOf(err error) (*errbuilder.ErrBuilder, bool) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind, true
		}
	}
	return nil, false
}

// Detail returns the context value recorded under name on the outermost
// errbuilder error in err's chain.
func Detail(err error, name string) (string, bool) {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return "", false
	}
	value, ok := builder.Details.Errors[name]
	if !ok || value == nil {
		return "", false
	}
	return value.Error(), true
}

// AddDetail records name on err's outermost errbuilder error unless a value
// is already present.
func AddDetail(err error, name string, value string) {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return
	}
	if builder.Details.Errors == nil {
		builder.Details.Errors = errbuilder.ErrorMap{}
	}
	if builder.Details.Errors.Has(name) {
		return
	}
	addDetail(builder.Details.Errors, name, value)
}

// DetailNames returns the recorded context names in sorted order.
func DetailNames(err error) []string {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return nil
	}
	names := make([]string, 0, len(builder.Details.Errors))
	for name := range builder.Details.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func addDetail(details errbuilder.ErrorMap, name string, value string) {
	if value == "" {
		value = "<none>"
	}
	details.Set(name, value)
}
