package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"branchsync/internal/core/address"
	perr "branchsync/internal/platform/errors"
	phttp "branchsync/internal/platform/net/http"
	"branchsync/internal/services/reconcile/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	runIn domain.RunInput
	err   error
}

func (f *fakeSvc) Run(_ context.Context, in domain.RunInput) (domain.RunResult, error) {
	f.runIn = in
	return domain.RunResult{RunID: "run-1", Counts: domain.RunCounts{Canonical: len(in.Canonical)}}, f.err
}

func (f *fakeSvc) Normalize(_ context.Context, in domain.NormalizeInput) (address.Normalized, error) {
	return address.Normalized{Text: strings.ToLower(in.Address)}, nil
}

func (f *fakeSvc) CheckSchedule(_ context.Context, in domain.ScheduleInput) (domain.ScheduleResult, error) {
	return domain.ScheduleResult{Expected: in.WorkingTime}, nil
}

func do(t *testing.T, s *fakeSvc, path, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), s)

	req := httptest.NewRequest(stdhttp.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestRun_DecodesFeeds(t *testing.T) {
	s := &fakeSvc{}
	body := `{
		"canonical": [{"companyId": "c-1", "address": "г. Москва, ул. Тестовая, д. 1", "workingTime": "ежедн. 09:00-21:00", "lat": 55.7, "lon": 37.6}],
		"external": [{"id": "y-1", "address": "Москва, Тестовая улица, 1", "hoursText": "09:00-21:00", "status": "Открыто"}],
		"persist": true
	}`
	rec, env := do(t, s, "/run", body)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if len(s.runIn.Canonical) != 1 || s.runIn.Canonical[0].Lat != 55.7 || !s.runIn.Persist {
		t.Fatalf("decoded = %+v", s.runIn)
	}
	if st := s.runIn.External[0].Status; st == nil || *st != "Открыто" {
		t.Fatalf("status = %v", st)
	}
	data, _ := env.Data.(map[string]any)
	if data["run_id"] != "run-1" {
		t.Fatalf("data = %v", env.Data)
	}
}

func TestRun_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		code perr.ErrorCode
	}{
		{"empty canonical", `{"canonical": []}`, perr.ErrorCodeValidation},
		{"blank company id", `{"canonical": [{"companyId": "  "}]}`, perr.ErrorCodeValidation},
		{"unknown field", `{"canonical": [{"companyId": "c"}], "extra": 1}`, perr.ErrorCodeJSON},
		{"not json", `canonical`, perr.ErrorCodeJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &fakeSvc{}
			rec, env := do(t, s, "/run", tc.body)
			if env.Code != tc.code {
				t.Fatalf("code = %v want %v (status %d)", env.Code, tc.code, rec.Code)
			}
			if s.runIn.Canonical != nil {
				t.Fatalf("service should not be called")
			}
		})
	}
}

func TestRun_ServiceError(t *testing.T) {
	s := &fakeSvc{err: perr.Unavailablef("postgres is not configured")}
	rec, env := do(t, s, "/run", `{"canonical": [{"companyId": "c-1"}], "persist": true}`)
	if rec.Code != stdhttp.StatusServiceUnavailable || env.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("status = %d code = %v", rec.Code, env.Code)
	}
}

func TestNormalizeAndSchedule(t *testing.T) {
	rec, env := do(t, &fakeSvc{}, "/normalize", `{"address": "УЛ. Тестовая"}`)
	if rec.Code != stdhttp.StatusOK || env.Data.(map[string]any)["text"] != "ул. тестовая" {
		t.Fatalf("normalize = %d %v", rec.Code, env.Data)
	}

	rec, env = do(t, &fakeSvc{}, "/schedule", `{"workingTime": "круглосуточно"}`)
	if rec.Code != stdhttp.StatusOK || env.Data.(map[string]any)["expected"] != "круглосуточно" {
		t.Fatalf("schedule = %d %v", rec.Code, env.Data)
	}

	rec, _ = do(t, &fakeSvc{}, "/schedule", `{"hoursText": "10:00-20:00"}`)
	if rec.Code != stdhttp.StatusBadRequest && rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("missing workingTime = %d", rec.Code)
	}
}
