package bind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "branchsync/internal/platform/errors"
	kit "branchsync/internal/platform/testkit"
)

type candidateIn struct {
	ID      string `json:"id" validate:"notblank"`
	Address string `json:"address" validate:"required,max=300"`
	Workers int    `json:"workers,omitempty" validate:"omitempty,min=1,max=64"`
}

func req(body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	}
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		opts  []JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{name: "ok", body: `{"id":"c-1","address":"г. Москва, ул. Тестовая, д. 1"}`},
		{name: "empty body", body: "", code: perr.ErrorCodeJSON},
		{name: "empty body allowed", body: "", opts: []JSONOptions{{AllowEmptyBody: true}}},
		{name: "broken json", body: `{"id":`, code: perr.ErrorCodeJSON},
		{name: "unknown field", body: `{"id":"c","address":"a","lat":55.7}`, code: perr.ErrorCodeJSON},
		{name: "unknown field allowed", body: `{"id":"c","address":"a","lat":55.7}`, opts: []JSONOptions{{}}},
		{name: "trailing", body: `{"id":"c","address":"a"}[]`, code: perr.ErrorCodeJSON},
		{name: "blank id", body: `{"id":"   ","address":"a"}`, code: perr.ErrorCodeValidation, field: "id"},
		{name: "missing address", body: `{"id":"c"}`, code: perr.ErrorCodeValidation, field: "address"},
		{name: "workers above max", body: `{"id":"c","address":"a","workers":65}`, code: perr.ErrorCodeValidation, field: "workers"},
		{name: "over limit", body: `{"id":"c","address":"a"}`, opts: []JSONOptions{{MaxBytes: 5}}, code: perr.ErrorCodeJSON},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseJSON[candidateIn](req(c.body), c.opts...)
			if c.code == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if perr.CodeOf(err) != c.code {
				t.Fatalf("code = %v, want %v (%v)", perr.CodeOf(err), c.code, err)
			}
			if c.field != "" {
				if e, _ := perr.As(err); e.Field() != c.field {
					t.Fatalf("field = %q, want %q", e.Field(), c.field)
				}
			}
		})
	}
}

func TestParseJSON_TrailingSeam(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })
	_, err := ParseJSON[candidateIn](req(`{"id":"c","address":"a"}`))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(candidateIn{ID: "c", Address: "a", Workers: 100})
	e, ok := perr.As(err)
	if !ok || e.Field() != "workers" || e.Error() != "workers must be at most 64" {
		t.Fatalf("Struct error = %v", err)
	}

	err = Struct(candidateIn{ID: " ", Address: "a"})
	if e, _ := perr.As(err); e.Error() != "id must not be blank" {
		t.Fatalf("notblank message = %q", e.Error())
	}

	if err := Struct(42); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("non-struct should be an internal validation error, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"lowercase_status"`
	}
	err := RegisterValidation("lowercase_status", func(fl FieldLevel) bool {
		return strings.ToLower(fl.Field().String()) == fl.Field().String()
	}, "{0} must be lower case")
	if err != nil {
		t.Fatalf("RegisterValidation: %v", err)
	}
	if err := Struct(in{Status: "Опубликован"}); err == nil || err.Error() != "status must be lower case" {
		t.Fatalf("custom tag error = %v", err)
	}
	if err := Struct(in{Status: "опубликован"}); err != nil {
		t.Fatalf("custom tag rejected valid value: %v", err)
	}
}

func TestValidationFieldAndMessage_Foreign(t *testing.T) {
	if f, m := ValidationFieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil = %q %q", f, m)
	}
	if f, m := ValidationFieldAndMessage(perr.DBf("x")); f != "" || m != "x" {
		t.Fatalf("foreign = %q %q", f, m)
	}
}
