package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
)

func TestCHErrorCode(t *testing.T) {
	cases := []struct {
		code int32
		want ErrorCode
	}{
		{27, ErrorCodeInvalidArgument},
		{60, ErrorCodeDB},
		{159, ErrorCodeUnavailable},
		{252, ErrorCodeUnavailable},
		{1000, ErrorCodeDB},
	}
	for _, c := range cases {
		err := fmt.Errorf("insert: %w", &clickhouse.Exception{Code: c.code, Name: "X", Message: "boom"})
		got, ok := CHErrorCode(err)
		if !ok || got != c.want {
			t.Fatalf("CHErrorCode(%d) = %v/%v, want %v", c.code, got, ok, c.want)
		}
	}
	if _, ok := CHErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("plain error should not classify")
	}
}

func TestFromClickhouse(t *testing.T) {
	if FromClickhouse(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	err := FromClickhousef(&clickhouse.Exception{Code: 60}, "append %s", "branch_change_log")
	if CodeOf(err) != ErrorCodeDB {
		t.Fatalf("code = %v", CodeOf(err))
	}
}

func TestRetryable_CH(t *testing.T) {
	if !Retryable(&clickhouse.Exception{Code: 202}) {
		t.Fatalf("too many queries should be retryable")
	}
	if Retryable(&clickhouse.Exception{Code: 62}) {
		t.Fatalf("syntax error should not be retryable")
	}
}
