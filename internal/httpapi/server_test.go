package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianbeese/luxury_estate/internal/catalog"
	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/filter"
	"github.com/julianbeese/luxury_estate/internal/leads"
	"github.com/julianbeese/luxury_estate/internal/listing"
	"github.com/julianbeese/luxury_estate/internal/messenger"
	"github.com/julianbeese/luxury_estate/internal/paging"
	"github.com/julianbeese/luxury_estate/internal/ratelimit"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("connection refused")
	}
	b, ok := m.entries[key]
	return b, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCache) Invalidate(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix+":") {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func newTestServer(t *testing.T, c *memCache, limiter *ratelimit.Limiter) http.Handler {
	t.Helper()
	return newTestServerWith(t, c, limiter, nil)
}

func newTestServerWith(t *testing.T, c *memCache, limiter *ratelimit.Limiter, tweak func(*Deps)) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.Embedded()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	gen, err := messenger.NewGenerator("")
	if err != nil {
		t.Fatalf("messenger: %v", err)
	}
	engine := filter.NewEngine(filter.WithLogger(logger))
	pager := paging.New(paging.DefaultPageSize)

	deps := Deps{
		Catalog:        cat,
		Engine:         engine,
		Pager:          pager,
		Sessions:       listing.NewRegistry(cat, engine, pager, time.Hour, logger),
		Leads:          leads.NewService(cat, leads.NewLogNotifier(logger), gen, limiter, 0, logger),
		CacheTTL:       time.Minute,
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         logger,
	}
	if c != nil {
		deps.Cache = c
	}
	if tweak != nil {
		tweak(&deps)
	}
	return NewServer(deps).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func ids(ps []domain.Property) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if _, err := uuidHeader(rec); err != nil {
		t.Fatalf("trace id: %v", err)
	}
	body := decode[map[string]any](t, rec)
	if body["properties"] != float64(18) {
		t.Fatalf("unexpected body %v", body)
	}
}

func uuidHeader(rec *httptest.ResponseRecorder) (string, error) {
	id := rec.Header().Get("X-Trace-ID")
	if len(id) != 36 {
		return id, errors.New("missing or malformed X-Trace-ID")
	}
	return id, nil
}

func TestListPropertiesDubai(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := do(t, h, http.MethodGet, "/api/v1/properties?location=dubai", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	view := decode[listing.View](t, rec)
	if got, want := ids(view.Page.Items), []int{2, 5, 8, 11, 14, 17}; !equalInts(got, want) {
		t.Fatalf("ids=%v want=%v", got, want)
	}
	if view.Page.TotalItems != 6 || view.Page.TotalPages != 1 {
		t.Fatalf("counts=%d/%d", view.Page.TotalItems, view.Page.TotalPages)
	}
	if !view.Nav.PrevDisabled || !view.Nav.NextDisabled {
		t.Fatalf("single page should disable both arrows: %+v", view.Nav)
	}
}

func TestListPropertiesPaging(t *testing.T) {
	h := newTestServer(t, nil, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/properties?page=3", "")
	view := decode[listing.View](t, rec)
	if got, want := ids(view.Page.Items), []int{13, 14, 15, 16, 17, 18}; !equalInts(got, want) {
		t.Fatalf("page 3 ids=%v want=%v", got, want)
	}
	if view.Page.TotalPages != 3 || !view.Nav.NextDisabled {
		t.Fatalf("unexpected nav %+v", view.Nav)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/properties?page=9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("past last page status=%d", rec.Code)
	}
	if view := decode[listing.View](t, rec); len(view.Page.Items) != 0 {
		t.Fatalf("expected empty page, got %v", ids(view.Page.Items))
	}
}

func TestListPropertiesRejectsBadInput(t *testing.T) {
	h := newTestServer(t, nil, nil)
	for _, path := range []string{
		"/api/v1/properties?page=abc",
		"/api/v1/properties?page=0",
		"/api/v1/properties?location=atlantis",
		"/api/v1/properties?bedrooms=7",
	} {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status=%d want 400", path, rec.Code)
			continue
		}
		if body := decode[errorResponse](t, rec); body.Error == "" {
			t.Errorf("%s: missing error message", path)
		}
	}
}

func TestListPropertiesCache(t *testing.T) {
	c := &memCache{entries: map[string][]byte{}}
	h := newTestServer(t, c, nil)

	first := do(t, h, http.MethodGet, "/api/v1/properties?location=dubai&page=1", "")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first request X-Cache=%q", first.Header().Get("X-Cache"))
	}
	// Omitted page and reordered params hit the same entry.
	second := do(t, h, http.MethodGet, "/api/v1/properties?page=1&location=dubai", "")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second request X-Cache=%q", second.Header().Get("X-Cache"))
	}
	third := do(t, h, http.MethodGet, "/api/v1/properties?location=dubai", "")
	if third.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("default page X-Cache=%q", third.Header().Get("X-Cache"))
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body differs")
	}
}

func TestListPropertiesCacheFailureFallsThrough(t *testing.T) {
	c := &memCache{entries: map[string][]byte{}, failGet: true}
	h := newTestServer(t, c, nil)
	rec := do(t, h, http.MethodGet, "/api/v1/properties", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if view := decode[listing.View](t, rec); view.Page.TotalItems != 18 {
		t.Fatalf("filteredCount=%d", view.Page.TotalItems)
	}
}

func TestGetPropertyAndTour(t *testing.T) {
	h := newTestServer(t, nil, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/properties/14", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if p := decode[domain.Property](t, rec); p.Name != "Burj Khalifa Residence" {
		t.Fatalf("name=%q", p.Name)
	}

	tests := map[string]int{
		"/api/v1/properties/99":   http.StatusNotFound,
		"/api/v1/properties/x":    http.StatusBadRequest,
		"/api/v1/tours/1":         http.StatusOK,
		"/api/v1/tours/42":        http.StatusNotFound,
		"/api/v1/tours":           http.StatusOK,
		"/api/v1/filters/options": http.StatusOK,
	}
	for path, want := range tests {
		if rec := do(t, h, http.MethodGet, path, ""); rec.Code != want {
			t.Errorf("%s: status=%d want=%d", path, rec.Code, want)
		}
	}
}

func TestFilterOptions(t *testing.T) {
	h := newTestServer(t, nil, nil)
	opts := decode[filterOptions](t, do(t, h, http.MethodGet, "/api/v1/filters/options", ""))
	if len(opts.Locations) == 0 || opts.Locations[0].Value != "" {
		t.Fatalf("locations should start with the unconstrained option: %v", opts.Locations)
	}
	if len(opts.Bedrooms) == 0 || len(opts.PriceRanges) == 0 || len(opts.PropertyTypes) == 0 {
		t.Fatalf("missing option lists: %+v", opts)
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/sessions/", `{"bedrooms":"3"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	view := decode[listing.View](t, rec)
	if view.ID == "" || view.Page.TotalItems != 10 || view.Page.TotalPages != 2 {
		t.Fatalf("unexpected view %+v", view.Page)
	}
	base := "/api/v1/sessions/" + view.ID

	rec = do(t, h, http.MethodPost, base+"/navigate", `{"action":"next"}`)
	view = decode[listing.View](t, rec)
	if view.Page.Number != 2 || len(view.Page.Items) != 4 {
		t.Fatalf("after next page=%d items=%d", view.Page.Number, len(view.Page.Items))
	}
	if len(view.Effects) != 1 || view.Effects[0] != listing.EffectScrollToTop {
		t.Fatalf("effects=%v", view.Effects)
	}

	// Next on the last page is a no-op.
	rec = do(t, h, http.MethodPost, base+"/navigate", `{"action":"next"}`)
	view = decode[listing.View](t, rec)
	if view.Page.Number != 2 || len(view.Effects) != 0 {
		t.Fatalf("next past end page=%d effects=%v", view.Page.Number, view.Effects)
	}

	rec = do(t, h, http.MethodPut, base+"/criteria", `{"location":"dubai"}`)
	view = decode[listing.View](t, rec)
	if view.Page.Number != 1 || view.Page.TotalItems != 6 {
		t.Fatalf("after criteria change page=%d count=%d", view.Page.Number, view.Page.TotalItems)
	}
	if len(view.Effects) != 1 || view.Effects[0] != listing.EffectResetPage {
		t.Fatalf("effects=%v", view.Effects)
	}

	if rec := do(t, h, http.MethodPut, base+"/criteria", `{"location":"mars"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid criteria status=%d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, base+"/navigate", `{"action":"jump"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown action status=%d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, base, ""); rec.Code != http.StatusOK {
		t.Fatalf("get status=%d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", rec.Code)
	}
}

func TestCreateSessionWithoutBody(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := do(t, h, http.MethodPost, "/api/v1/sessions/", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d", rec.Code)
	}
	if view := decode[listing.View](t, rec); view.Page.TotalItems != 18 {
		t.Fatalf("filteredCount=%d", view.Page.TotalItems)
	}
}

func TestLeads(t *testing.T) {
	h := newTestServer(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/leads/contact",
		`{"name":"Ana","email":"ana@example.com","message":"Hello"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("contact status=%d body=%s", rec.Code, rec.Body.String())
	}
	receipt := decode[domain.Receipt](t, rec)
	if receipt.Status != domain.StatusSuccess || receipt.Kind != domain.LeadContact || receipt.ID == "" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/leads/inquiry",
		`{"fullName":"Ana","email":"ana@example.com","phone":"+1 555","property":"x","propertyId":14,"message":"Viewing?"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("inquiry status=%d body=%s", rec.Code, rec.Body.String())
	}

	bad := map[string]string{
		"/api/v1/leads/contact":      `{"name":"Ana","email":"not-an-email","message":"Hello"}`,
		"/api/v1/leads/inquiry":      `{"fullName":"Ana"`,
		"/api/v1/leads/tour-booking": `{"fullName":"Ana","email":"ana@example.com","phone":"1","tourId":1,"tourDate":"2001-01-01","numberOfGuests":2}`,
	}
	for path, body := range bad {
		if rec := do(t, h, http.MethodPost, path, body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status=%d want 400 body=%s", path, rec.Code, rec.Body.String())
		}
	}

	rec = do(t, h, http.MethodPost, "/api/v1/leads/tour-booking",
		`{"fullName":"Ana","email":"ana@example.com","phone":"1","tourId":99,"tourDate":"2999-01-01","numberOfGuests":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown tour status=%d", rec.Code)
	}
}

func TestLeadsRateLimited(t *testing.T) {
	h := newTestServer(t, nil, ratelimit.New(1, time.Minute))
	body := `{"name":"Ana","email":"ana@example.com","message":"Hello"}`

	if rec := do(t, h, http.MethodPost, "/api/v1/leads/contact", body); rec.Code != http.StatusCreated {
		t.Fatalf("first status=%d", rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/api/v1/leads/contact", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status=%d want 429", rec.Code)
	}
}

func postContact(h http.Handler, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/contact",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestLeadsRateLimitIgnoresForwardedHeaders(t *testing.T) {
	h := newTestServer(t, nil, ratelimit.PerMinute(1))

	if code := postContact(h, "203.0.113.1"); code != http.StatusCreated {
		t.Fatalf("first status=%d", code)
	}
	for i, ip := range []string{"203.0.113.2", "203.0.113.3", "198.51.100.7"} {
		if code := postContact(h, ip); code != http.StatusTooManyRequests {
			t.Fatalf("request %d with X-Forwarded-For %s: status=%d want 429", i+2, ip, code)
		}
	}
}

func TestLeadsRateLimitTrustsProxyWhenEnabled(t *testing.T) {
	h := newTestServerWith(t, nil, ratelimit.PerMinute(1), func(d *Deps) { d.TrustProxy = true })

	if code := postContact(h, "203.0.113.1"); code != http.StatusCreated {
		t.Fatalf("first client status=%d", code)
	}
	if code := postContact(h, "203.0.113.2"); code != http.StatusCreated {
		t.Fatalf("second client status=%d", code)
	}
	if code := postContact(h, "203.0.113.1"); code != http.StatusTooManyRequests {
		t.Fatalf("repeat client status=%d want 429", code)
	}
}

func TestListPropertiesHugePage(t *testing.T) {
	h := newTestServer(t, nil, nil)
	for _, page := range []string{"9223372036854775807", "1537228672809129303"} {
		rec := do(t, h, http.MethodGet, "/api/v1/properties?page="+page, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("page=%s status=%d body=%q", page, rec.Code, rec.Body.String())
		}
		view := decode[listing.View](t, rec)
		if len(view.Page.Items) != 0 || view.Page.TotalItems != 18 || view.Page.TotalPages != 3 {
			t.Fatalf("page=%s: items=%d count=%d pages=%d", page, len(view.Page.Items), view.Page.TotalItems, view.Page.TotalPages)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/properties", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("Access-Control-Allow-Origin=%q", got)
	}
}
