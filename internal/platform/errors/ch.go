package errors

import (
	"context"
	stderrs "errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouse server exception codes the change log writer and reader can hit
const (
	chErrCannotParseInput       int32 = 27
	chErrUnknownIdentifier      int32 = 47
	chErrTypeMismatch           int32 = 53
	chErrUnknownTable           int32 = 60
	chErrSyntaxError            int32 = 62
	chErrUnknownDatabase        int32 = 81
	chErrTimeoutExceeded        int32 = 159
	chErrTooManyQueries         int32 = 202
	chErrSocketTimeout          int32 = 209
	chErrNetworkError           int32 = 210
	chErrMemoryLimitExceeded    int32 = 241
	chErrTableIsReadOnly        int32 = 242
	chErrTooManyParts           int32 = 252
	chErrAllConnectionTriesLost int32 = 279
	chErrAuthenticationFailed   int32 = 516
)

// ExtractCHException returns the server exception at the root of err
func ExtractCHException(err error) (*clickhouse.Exception, bool) {
	var ex *clickhouse.Exception
	if stderrs.As(err, &ex) {
		return ex, true
	}
	return nil, false
}

// CHErrorCode classifies a ClickHouse exception; ok is false for other errors
func CHErrorCode(err error) (ErrorCode, bool) {
	ex, ok := ExtractCHException(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch ex.Code {
	case chErrCannotParseInput, chErrTypeMismatch:
		return ErrorCodeInvalidArgument, true
	case chErrUnknownTable, chErrUnknownDatabase, chErrUnknownIdentifier, chErrSyntaxError:
		return ErrorCodeDB, true
	case chErrTimeoutExceeded, chErrTooManyQueries, chErrSocketTimeout, chErrNetworkError,
		chErrMemoryLimitExceeded, chErrTooManyParts, chErrTableIsReadOnly, chErrAllConnectionTriesLost,
		chErrAuthenticationFailed:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromClickhouse wraps err with its mapped code; nil stays nil
func FromClickhouse(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := CHErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromClickhousef is FromClickhouse with a formatted message
func FromClickhousef(err error, format string, a ...any) error {
	return FromClickhouse(err, fmt.Sprintf(format, a...))
}

// IsCHRetryable reports load-related ClickHouse exceptions worth retrying
func IsCHRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	ex, ok := ExtractCHException(err)
	if !ok {
		return false
	}
	switch ex.Code {
	case chErrTimeoutExceeded, chErrTooManyQueries, chErrSocketTimeout, chErrNetworkError,
		chErrTooManyParts, chErrAllConnectionTriesLost:
		return true
	}
	return false
}
