package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"household/internal/core"
	"household/internal/log"
	"household/internal/memory"
	"household/internal/metrics"
	"household/internal/ports"
	"household/internal/services"
)

type testEnv struct {
	srv   *Server
	store *memory.Store
}

func newTestServer(t *testing.T, cacheTTL time.Duration) *testEnv {
	t.Helper()
	store := memory.New()
	return &testEnv{srv: newServerOn(t, store, cacheTTL), store: store}
}

func newServerOn(t *testing.T, store ports.Store, cacheTTL time.Duration) *Server {
	t.Helper()
	dash, err := services.NewDashboardService(store, services.DefaultThresholds())
	if err != nil {
		t.Fatalf("dashboard service: %v", err)
	}
	srv := NewServer(":0", Deps{
		Household: services.NewHouseholdService(store, nil),
		Dashboard: dash,
		Metrics:   metrics.New(),
		Logger:    log.New(log.Config{Output: io.Discard}),
		CacheTTL:  cacheTTL,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func dayOffset(n int) string {
	return core.DateOf(time.Now()).AddDays(n).String()
}

func TestHealthAndReady(t *testing.T) {
	env := newTestServer(t, time.Minute)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d body=%s", path, rr.Code, rr.Body.String())
		}
		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s missing security headers", path)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s missing request id", path)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t, time.Minute)
	env.do(t, http.MethodGet, "/api/bills", "")

	rr := env.do(t, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `household_http_requests_total{method="GET",route="GET /api/bills",status="200"} 1`) {
		t.Errorf("request counter missing from metrics output")
	}
}

func TestCreateAndListBills(t *testing.T) {
	env := newTestServer(t, time.Minute)

	bodies := []string{
		`{"name":"Rent","amount":"1200.00","due_date":"` + dayOffset(10) + `","recurring":true,"category":"housing"}`,
		`{"name":"Electricity","amount":"125.50","due_date":"` + dayOffset(2) + `","category":"utilities"}`,
		`{"name":"Water bill","amount":45,"due_date":"` + dayOffset(-1) + `","category":"utilities"}`,
	}
	for _, b := range bodies {
		rr := env.do(t, http.MethodPost, "/api/bills", b)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
		}
	}

	type billList struct {
		Items []core.Bill `json:"items"`
		Count int         `json:"count"`
		Total core.Money  `json:"total"`
	}

	tests := []struct {
		name      string
		query     string
		wantNames []string
		wantTotal int64
	}{
		{"default sort by due date", "", []string{"Water bill", "Electricity", "Rent"}, 137050},
		{"category filter", "?category=utilities&sort=name", []string{"Electricity", "Water bill"}, 17050},
		{"search is case insensitive", "?q=BILL", []string{"Water bill"}, 4500},
		{"amount sort", "?sort=amount", []string{"Water bill", "Electricity", "Rent"}, 137050},
		{"date window", "?from=" + dayOffset(0) + "&to=" + dayOffset(7), []string{"Electricity"}, 12550},
		{"all category", "?category=all&q=%20%20", []string{"Water bill", "Electricity", "Rent"}, 137050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, "/api/bills"+tt.query, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
			got := decode[billList](t, rr)
			var names []string
			for _, b := range got.Items {
				names = append(names, b.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.wantNames, ",") {
				t.Errorf("names = %v, want %v", names, tt.wantNames)
			}
			if got.Count != len(tt.wantNames) || got.Total.Cents != tt.wantTotal {
				t.Errorf("count/total = %d/%d, want %d/%d", got.Count, got.Total.Cents, len(tt.wantNames), tt.wantTotal)
			}
		})
	}
}

func TestListBillsRejectsBadQueries(t *testing.T) {
	env := newTestServer(t, time.Minute)
	tests := []struct {
		query string
		want  int
	}{
		{"?category=groceries", http.StatusUnprocessableEntity},
		{"?sort=color", http.StatusUnprocessableEntity},
		{"?from=2025-13-01", http.StatusUnprocessableEntity},
		{"?from=2025-06-01&to=2025-05-01", http.StatusUnprocessableEntity},
		{"?unpaid=maybe", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := env.do(t, http.MethodGet, "/api/bills"+tt.query, "")
		if rr.Code != tt.want {
			t.Errorf("%s: status=%d want %d body=%s", tt.query, rr.Code, tt.want, rr.Body.String())
		}
	}
}

func TestCreateBillValidation(t *testing.T) {
	env := newTestServer(t, time.Minute)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"unknown field", `{"name":"x","colour":"red"}`, http.StatusBadRequest},
		{"bad amount", `{"name":"x","amount":"abc","due_date":"2025-05-01","category":"other"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"name":"x","amount":"-5","due_date":"2025-05-01","category":"other"}`, http.StatusUnprocessableEntity},
		{"missing name", `{"amount":"5","due_date":"2025-05-01","category":"other"}`, http.StatusUnprocessableEntity},
		{"missing date", `{"name":"x","amount":"5","category":"other"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"name":"x","amount":"5","due_date":"2025-05-01","category":"groceries"}`, http.StatusUnprocessableEntity},
		{"all is not a record category", `{"name":"x","amount":"5","due_date":"2025-05-01","category":"all"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/bills", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status=%d want %d body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestBillPaidLifecycleAndDashboardInvalidation(t *testing.T) {
	env := newTestServer(t, time.Minute)

	rr := env.do(t, http.MethodPost, "/api/bills",
		`{"name":"Internet","amount":"39.99","due_date":"`+dayOffset(3)+`","category":"utilities"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rr.Code)
	}
	created := decode[core.Bill](t, rr)

	first := env.do(t, http.MethodGet, "/api/dashboard", "")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first dashboard should miss, got %q", first.Header().Get("X-Cache"))
	}
	if d := decode[core.Dashboard](t, first); d.Bills.DueThisWeek.Cents != 3999 || d.Bills.UnpaidCount != 1 {
		t.Fatalf("unexpected bill summary %+v", d.Bills)
	}
	if env.do(t, http.MethodGet, "/api/dashboard", "").Header().Get("X-Cache") != "HIT" {
		t.Fatal("second dashboard should hit")
	}

	rr = env.do(t, http.MethodPost, "/api/bills/"+created.ID+"/paid", "")
	if rr.Code != http.StatusOK || !decode[core.Bill](t, rr).Paid {
		t.Fatalf("mark paid status=%d body=%s", rr.Code, rr.Body.String())
	}

	after := env.do(t, http.MethodGet, "/api/dashboard", "")
	if after.Header().Get("X-Cache") != "MISS" {
		t.Fatal("mutation should invalidate the cached dashboard")
	}
	if d := decode[core.Dashboard](t, after); d.Bills.UnpaidCount != 0 || d.Bills.Outstanding.Cents != 0 {
		t.Errorf("paid bill still outstanding: %+v", d.Bills)
	}

	rr = env.do(t, http.MethodDelete, "/api/bills/"+created.ID+"/paid", "")
	if rr.Code != http.StatusOK || decode[core.Bill](t, rr).Paid {
		t.Fatalf("mark unpaid status=%d body=%s", rr.Code, rr.Body.String())
	}

	if rr := env.do(t, http.MethodPost, "/api/bills/missing/paid", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown bill status=%d, want 404", rr.Code)
	}
}

// slowBillStore holds the first ListBills call after it has read the bills,
// so a mutation can land while a dashboard build is in flight.
type slowBillStore struct {
	ports.Store
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (s *slowBillStore) ListBills(ctx context.Context) ([]core.Bill, error) {
	bills, err := s.Store.ListBills(ctx)
	s.once.Do(func() {
		close(s.read)
		<-s.release
	})
	return bills, err
}

func TestDashboardBuildRacingMutationIsNotCached(t *testing.T) {
	store := &slowBillStore{Store: memory.New(), read: make(chan struct{}), release: make(chan struct{})}
	env := &testEnv{srv: newServerOn(t, store, time.Minute)}

	stale := make(chan *httptest.ResponseRecorder, 1)
	go func() { stale <- env.do(t, http.MethodGet, "/api/dashboard", "") }()
	<-store.read

	rr := env.do(t, http.MethodPost, "/api/bills",
		`{"name":"Water","amount":"20.00","due_date":"`+dayOffset(2)+`","category":"utilities"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	close(store.release)

	if d := decode[core.Dashboard](t, <-stale); d.Bills.UnpaidCount != 0 {
		t.Fatalf("in-flight build should predate the bill, got %+v", d.Bills)
	}

	next := env.do(t, http.MethodGet, "/api/dashboard", "")
	if got := next.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("dashboard after racing mutation: X-Cache=%q, want MISS", got)
	}
	if d := decode[core.Dashboard](t, next); d.Bills.UnpaidCount != 1 {
		t.Errorf("dashboard should include the new bill, got %+v", d.Bills)
	}
	if env.do(t, http.MethodGet, "/api/dashboard", "").Header().Get("X-Cache") != "HIT" {
		t.Error("fresh build should be cached")
	}
}

type failingBillStore struct {
	ports.Store
}

func (failingBillStore) ListBills(context.Context) ([]core.Bill, error) {
	return nil, errors.New("disk on fire")
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	store := failingBillStore{Store: memory.New()}
	dash, err := services.NewDashboardService(store, services.DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer(":0", Deps{
		Household: services.NewHouseholdService(store, nil),
		Dashboard: dash,
		Logger:    log.New(log.Config{Format: log.FormatJSON, Output: &buf}),
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	env := &testEnv{srv: srv}

	rr := env.do(t, http.MethodGet, "/api/bills", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "disk on fire") {
		t.Errorf("internal error leaked to client: %s", rr.Body.String())
	}
	requestID := rr.Header().Get("X-Request-ID")
	out := buf.String()
	for _, want := range []string{
		`"msg":"Request failed"`,
		`"error":"disk on fire"`,
		`"error_type":"internal_error"`,
		`"operation":"GET /api/bills"`,
		`"request_id":"` + requestID + `"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}

	buf.Reset()
	rr = env.do(t, http.MethodPost, "/api/subscriptions",
		`{"name":"Netflix","cost":"14.99","billing_cycle":"monthly","next_billing_date":"`+dayOffset(5)+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	if out := buf.String(); !strings.Contains(out, `"amount_cents":1499`) || !strings.Contains(out, `"record_kind":"subscription"`) {
		t.Errorf("record change log missing amount:\n%s", out)
	}
}

func TestDashboardWithoutCache(t *testing.T) {
	env := newTestServer(t, 0)
	for i := 0; i < 2; i++ {
		rr := env.do(t, http.MethodGet, "/api/dashboard", "")
		if rr.Code != http.StatusOK || rr.Header().Get("X-Cache") != "MISS" {
			t.Fatalf("status=%d cache=%q", rr.Code, rr.Header().Get("X-Cache"))
		}
	}
}

func TestBillSummaryAndBuckets(t *testing.T) {
	env := newTestServer(t, time.Minute)
	for _, b := range []string{
		`{"name":"Late","amount":"10","due_date":"` + dayOffset(-3) + `","category":"other"}`,
		`{"name":"Soon","amount":"20","due_date":"` + dayOffset(6) + `","category":"other"}`,
		`{"name":"Next","amount":"30","due_date":"` + dayOffset(7) + `","category":"other"}`,
		`{"name":"Far","amount":"40","due_date":"` + dayOffset(14) + `","category":"other"}`,
	} {
		if rr := env.do(t, http.MethodPost, "/api/bills", b); rr.Code != http.StatusCreated {
			t.Fatalf("create status=%d", rr.Code)
		}
	}

	summary := decode[core.BillSummary](t, env.do(t, http.MethodGet, "/api/bills/summary", ""))
	if summary.Total.Cents != 10000 || summary.Overdue.Cents != 1000 || summary.DueThisWeek.Cents != 2000 || summary.DueNextWeek.Cents != 3000 {
		t.Errorf("unexpected summary %+v", summary)
	}

	buckets := decode[core.BillBuckets](t, env.do(t, http.MethodGet, "/api/bills/buckets", ""))
	if len(buckets.Overdue) != 1 || len(buckets.DueThisWeek) != 1 || len(buckets.DueNextWeek) != 1 || len(buckets.Later) != 1 {
		t.Errorf("unexpected buckets %+v", buckets)
	}

	empty := newTestServer(t, time.Minute)
	rr := empty.do(t, http.MethodGet, "/api/bills/buckets", "")
	if !strings.Contains(rr.Body.String(), `"overdue":[]`) {
		t.Errorf("empty buckets should encode as arrays: %s", rr.Body.String())
	}
}

func TestSubscriptions(t *testing.T) {
	env := newTestServer(t, time.Minute)
	for _, b := range []string{
		`{"name":"Streaming","cost":"15.99","billing_cycle":"monthly","next_billing_date":"` + dayOffset(3) + `"}`,
		`{"name":"Antivirus","cost":"59.99","billing_cycle":"yearly","next_billing_date":"` + dayOffset(100) + `"}`,
	} {
		if rr := env.do(t, http.MethodPost, "/api/subscriptions", b); rr.Code != http.StatusCreated {
			t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
		}
	}

	if rr := env.do(t, http.MethodPost, "/api/subscriptions",
		`{"name":"Gym","cost":"30","billing_cycle":"weekly","next_billing_date":"2025-05-01"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown cycle status=%d", rr.Code)
	}

	type subList struct {
		Items []core.Subscription `json:"items"`
	}
	got := decode[subList](t, env.do(t, http.MethodGet, "/api/subscriptions?sort=cost", ""))
	if len(got.Items) != 2 || got.Items[0].Name != "Antivirus" {
		t.Errorf("cost sort should be descending: %+v", got.Items)
	}
	if rr := env.do(t, http.MethodGet, "/api/subscriptions?sort=price", ""); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown sort status=%d", rr.Code)
	}
}

func TestPasswordsRejectSecrets(t *testing.T) {
	env := newTestServer(t, time.Minute)

	ok := `{"title":"Bank","username":"me@example.com","category":"finance","last_updated":"` + dayOffset(-10) + `","strength":"strong"}`
	if rr := env.do(t, http.MethodPost, "/api/passwords", ok); rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	withSecret := `{"title":"Mail","username":"me","category":"websites","last_updated":"2025-01-01","strength":"weak","password":"hunter2"}`
	rr := env.do(t, http.MethodPost, "/api/passwords", withSecret)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("secret field status=%d, want 422", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "hunter2") {
		t.Error("response must not echo the secret")
	}

	type pwList struct {
		Items []core.PasswordEntry `json:"items"`
	}
	got := decode[pwList](t, env.do(t, http.MethodGet, "/api/passwords?category=finance&q=bank", ""))
	if len(got.Items) != 1 {
		t.Errorf("expected one finance entry, got %+v", got.Items)
	}
	got = decode[pwList](t, env.do(t, http.MethodGet, "/api/passwords?category=work", ""))
	if len(got.Items) != 0 {
		t.Errorf("expected no work entries, got %+v", got.Items)
	}
	got = decode[pwList](t, env.do(t, http.MethodGet, "/api/passwords?q=%20%20bank%20", ""))
	if len(got.Items) != 1 {
		t.Errorf("padded search should match like the bills search, got %+v", got.Items)
	}
}

func TestVehiclesAndTasks(t *testing.T) {
	env := newTestServer(t, time.Minute)

	if rr := env.do(t, http.MethodPost, "/api/vehicles", `{"name":"Family car","model":"Civic","year":2019,"license_plate":"AB123CD"}`); rr.Code != http.StatusCreated {
		t.Fatalf("vehicle status=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr := env.do(t, http.MethodPost, "/api/vehicles", `{"name":"Cart","year":1500,"license_plate":"X"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad year status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/vehicles", ""); !strings.Contains(rr.Body.String(), `"count":1`) {
		t.Errorf("vehicle list: %s", rr.Body.String())
	}

	rr := env.do(t, http.MethodPost, "/api/tasks", `{"title":"Renew insurance","due_label":"Today"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("task status=%d", rr.Code)
	}
	task := decode[core.Task](t, rr)

	toggled := decode[core.Task](t, env.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", ""))
	if !toggled.Completed {
		t.Error("toggle should complete the task")
	}
	toggled = decode[core.Task](t, env.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", ""))
	if toggled.Completed {
		t.Error("second toggle should reopen the task")
	}
	if rr := env.do(t, http.MethodPost, "/api/tasks/nope/toggle", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown task status=%d", rr.Code)
	}
}

func TestVehicleServiceHistory(t *testing.T) {
	env := newTestServer(t, time.Minute)

	rr := env.do(t, http.MethodPost, "/api/vehicles", `{"name":"Family car","model":"Camry","year":2020,"license_plate":"ABC 123"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("vehicle status=%d body=%s", rr.Code, rr.Body.String())
	}
	car := decode[core.Vehicle](t, rr)
	path := "/api/vehicles/" + car.ID + "/services"

	for _, body := range []string{
		`{"date":"` + dayOffset(-180) + `","description":"Tire Rotation","cost":"29.99","location":"Discount Tire"}`,
		`{"date":"` + dayOffset(-90) + `","description":"Oil Change","cost":"49.99","location":"QuickLube"}`,
		`{"date":"` + dayOffset(-270) + `","description":"Brake Inspection","cost":"75.00","location":"AutoZone"}`,
	} {
		if rr := env.do(t, http.MethodPost, path, body); rr.Code != http.StatusCreated {
			t.Fatalf("service status=%d body=%s", rr.Code, rr.Body.String())
		}
	}

	type serviceList struct {
		Items     []core.ServiceRecord `json:"items"`
		Count     int                  `json:"count"`
		TotalCost core.Money           `json:"total_cost"`
	}
	got := decode[serviceList](t, env.do(t, http.MethodGet, path, ""))
	if got.Count != 3 || got.TotalCost.String() != "154.98" {
		t.Fatalf("unexpected history %+v", got)
	}
	if got.Items[0].Description != "Oil Change" || got.Items[2].Description != "Brake Inspection" {
		t.Errorf("history should be newest first: %+v", got.Items)
	}
	if got.Items[0].VehicleID != car.ID {
		t.Errorf("record vehicle = %q, want %q", got.Items[0].VehicleID, car.ID)
	}

	if rr := env.do(t, http.MethodPost, path, `{"date":"2025-01-01","description":" ","cost":"1.00"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty description status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, path, `{"date":"2025-01-01","description":"Oil","cost":"-1"}`); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative cost status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/vehicles/nope/services", `{"date":"2025-01-01","description":"Oil","cost":"1.00"}`); rr.Code != http.StatusNotFound {
		t.Errorf("unknown vehicle create status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/vehicles/nope/services", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown vehicle list status=%d", rr.Code)
	}
}

func TestCategories(t *testing.T) {
	env := newTestServer(t, time.Minute)
	rr := env.do(t, http.MethodGet, "/api/categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`"value":"utilities","icon":"bolt.fill"`, `"value":"all","icon":"tray.fill"`, `"monthly"`} {
		if !strings.Contains(body, want) {
			t.Errorf("categories missing %s", want)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestServer(t, time.Minute)
	if rr := env.do(t, http.MethodPut, "/api/bills", `{}`); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status=%d, want 405", rr.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{errors.Join(errors.New("ctx"), core.ErrNotFound), http.StatusNotFound},
		{core.ErrDuplicateID, http.StatusConflict},
		{errMalformedRequest, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rr, req, errors.New("sqlite: database is locked at /secret/path"))
	if rr.Code != http.StatusInternalServerError || bytes.Contains(rr.Body.Bytes(), []byte("/secret/path")) {
		t.Errorf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}
