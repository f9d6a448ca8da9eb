package errors

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Store error classes. Anything not listed is labelled by its innermost type.
const (
	ClassCanceled = "canceled"
	ClassTimeout  = "timeout"
	ClassServer   = "server_reply"
	ClassNetwork  = "network"
	ClassDecode   = "decode"
)

// serverReply matches error replies from Redis; go-redis marks them with RedisError().
type serverReply interface {
	RedisError()
}

// Classify maps a session-store error to a bounded label for metrics and log attributes.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if goerrors.Is(err, context.Canceled) {
		return ClassCanceled
	}

	var netErr net.Error
	isNet := goerrors.As(err, &netErr)
	if goerrors.Is(err, context.DeadlineExceeded) || (isNet && netErr.Timeout()) {
		return ClassTimeout
	}

	var reply serverReply
	if goerrors.As(err, &reply) {
		return ClassServer
	}
	if isNet || goerrors.Is(err, io.EOF) || goerrors.Is(err, io.ErrUnexpectedEOF) {
		return ClassNetwork
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if goerrors.As(err, &syntaxErr) || goerrors.As(err, &typeErr) {
		return ClassDecode
	}
	return typeLabel(err)
}

var typeLabelReplacer = strings.NewReplacer("*", "", ".", "_")

// typeLabel names the innermost wrapped error's type, e.g. "errors_errorstring".
func typeLabel(err error) string {
	for next := goerrors.Unwrap(err); next != nil; next = goerrors.Unwrap(err) {
		err = next
	}
	return strings.ToLower(typeLabelReplacer.Replace(fmt.Sprintf("%T", err)))
}
