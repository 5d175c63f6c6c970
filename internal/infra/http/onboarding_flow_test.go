package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tapinhq/tapin/internal/domain/accounts"
	"github.com/tapinhq/tapin/internal/domain/attendance"
	"github.com/tapinhq/tapin/internal/domain/dashboard"
	"github.com/tapinhq/tapin/internal/domain/faults"
	"github.com/tapinhq/tapin/internal/domain/onboarding"
	"github.com/tapinhq/tapin/internal/domain/roles"
	"github.com/tapinhq/tapin/internal/domain/shops"
)

// In-memory stand-ins for the account directory, honoring its unique keys.

type memDirectory struct {
	owners    map[string]accounts.OwnerAccount
	customers map[string]accounts.CustomerAccount
}

func (m *memDirectory) FindOwner(_ context.Context, id string) (*accounts.OwnerAccount, error) {
	if a, ok := m.owners[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *memDirectory) FindCustomer(_ context.Context, id string) (*accounts.CustomerAccount, error) {
	if a, ok := m.customers[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *memDirectory) LookupKinds(_ context.Context, id string) (bool, bool, error) {
	_, o := m.owners[id]
	_, c := m.customers[id]
	return o, c, nil
}

func (m *memDirectory) InsertOwner(_ context.Context, rec accounts.OwnerAccount) error {
	if _, ok := m.owners[rec.ID]; ok {
		return faults.ErrConflict
	}
	m.owners[rec.ID] = rec
	return nil
}

func (m *memDirectory) InsertCustomer(_ context.Context, rec accounts.CustomerAccount) error {
	if _, ok := m.customers[rec.ID]; ok {
		return faults.ErrConflict
	}
	m.customers[rec.ID] = rec
	return nil
}

type memShops struct {
	shops map[string]shops.Shop
	plans map[string][]shops.Plan
}

func (m *memShops) GetByID(_ context.Context, id string) (*shops.Shop, error) {
	if s, ok := m.shops[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *memShops) FindByOwner(_ context.Context, ownerID string) (*shops.Shop, error) {
	for _, s := range m.shops {
		if s.OwnerID == ownerID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memShops) InsertShop(_ context.Context, s shops.Shop) error {
	for _, ex := range m.shops {
		if strings.EqualFold(ex.Code, s.Code) {
			return faults.ErrDuplicateShopCode
		}
		if ex.OwnerID == s.OwnerID {
			return faults.ErrOwnerHasShop
		}
	}
	m.shops[s.ID] = s
	return nil
}

func (m *memShops) InsertPlan(_ context.Context, p shops.Plan) error {
	m.plans[p.ShopID] = append(m.plans[p.ShopID], p)
	return nil
}

func (m *memShops) DeleteShop(_ context.Context, id string) error {
	delete(m.shops, id)
	delete(m.plans, id)
	return nil
}

type zeroCounter struct{}

func (zeroCounter) CountBetween(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

var _ dashboard.AttendanceCounter = (*attendance.Repo)(nil)

type noopAlerter struct{}

func (noopAlerter) RoleIntegrityFault(context.Context, string) {}
func (noopAlerter) ShopCreated(context.Context, string, string) {}

func newTestRouter() (*memDirectory, *memShops, http.Handler) {
	dir := &memDirectory{owners: map[string]accounts.OwnerAccount{}, customers: map[string]accounts.CustomerAccount{}}
	store := &memShops{shops: map[string]shops.Shop{}, plans: map[string][]shops.Plan{}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	loc := time.FixedZone("IST", 5*3600+1800)

	resolver := roles.NewResolver(dir, log, noopAlerter{})
	coordinator := onboarding.NewCoordinator(dir, resolver, log)
	shopSvc := shops.NewService(store, log, noopAlerter{})
	dash := dashboard.NewService(store, zeroCounter{}, loc)

	h := NewHandlers(resolver, coordinator, shopSvc, store, dash, loc, log)
	return dir, store, NewRouter("test", false, h)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestOwnerOnboardingFlow(t *testing.T) {
	_, store, router := newTestRouter()
	u1 := map[string]string{"X-Identity-Id": "U1", "X-Identity-Phone": "+919999999999"}

	// Fresh identity routes to onboarding.
	w, body := doJSON(t, router, http.MethodGet, "/v1/role", "", u1)
	if w.Code != http.StatusOK || body["role"] != "unresolved" || body["route"] != "/onboarding" {
		t.Fatalf("fresh identity: code=%d body=%v", w.Code, body)
	}

	// Choose owner.
	w, body = doJSON(t, router, http.MethodPost, "/v1/onboarding/role", `{"role":"owner"}`, u1)
	if w.Code != http.StatusCreated || body["role"] != "owner" || body["route"] != "/onboarding/create-shop" {
		t.Fatalf("choose role: code=%d body=%v", w.Code, body)
	}

	// Owner without a shop still routes to setup.
	w, body = doJSON(t, router, http.MethodGet, "/v1/role", "", u1)
	if w.Code != http.StatusOK || body["role"] != "owner" || body["route"] != "/onboarding/create-shop" {
		t.Fatalf("owner without shop: code=%d body=%v", w.Code, body)
	}

	// Shop setup, lowercase code in.
	w, body = doJSON(t, router, http.MethodPost, "/v1/shops",
		`{"name":"Sharma Mess","code":"pune-01","location":"Kothrud"}`, u1)
	if w.Code != http.StatusCreated {
		t.Fatalf("create shop: code=%d body=%v", w.Code, body)
	}
	if body["shop_code"] != "PUNE-01" {
		t.Errorf("expected normalized code, got %v", body["shop_code"])
	}
	shopID, _ := body["id"].(string)
	if len(store.plans[shopID]) != 1 {
		t.Fatalf("expected exactly one default plan, got %d", len(store.plans[shopID]))
	}

	// Dashboard is now reachable with an empty day.
	w, body = doJSON(t, router, http.MethodGet, "/v1/dashboard", "", u1)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: code=%d body=%v", w.Code, body)
	}
	if body["served_today"] != float64(0) {
		t.Errorf("expected zero served today, got %v", body["served_today"])
	}

	// Second shop for the same owner is refused.
	w, body = doJSON(t, router, http.MethodPost, "/v1/shops",
		`{"name":"Second","code":"PUNE-99"}`, u1)
	if w.Code != http.StatusConflict {
		t.Fatalf("second shop: expected 409, got %d (%v)", w.Code, body)
	}

	// Re-onboarding is refused.
	w, body = doJSON(t, router, http.MethodPost, "/v1/onboarding/role", `{"role":"customer"}`, u1)
	if w.Code != http.StatusConflict {
		t.Fatalf("re-onboarding: expected 409, got %d (%v)", w.Code, body)
	}
}

func TestCustomerRouting(t *testing.T) {
	_, _, router := newTestRouter()
	u2 := map[string]string{"X-Identity-Id": "U2"}

	w, body := doJSON(t, router, http.MethodPost, "/v1/onboarding/role", `{"role":"customer"}`, u2)
	if w.Code != http.StatusCreated || body["route"] != "/scan" {
		t.Fatalf("choose customer: code=%d body=%v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/v1/role", "", u2)
	if w.Code != http.StatusOK || body["role"] != "customer" || body["route"] != "/scan" {
		t.Fatalf("customer routing: code=%d body=%v", w.Code, body)
	}
}

func TestDuplicateShopCodeAcrossOwners(t *testing.T) {
	_, _, router := newTestRouter()
	u1 := map[string]string{"X-Identity-Id": "U1"}
	u2 := map[string]string{"X-Identity-Id": "U2"}

	for _, u := range []map[string]string{u1, u2} {
		if w, body := doJSON(t, router, http.MethodPost, "/v1/onboarding/role", `{"role":"owner"}`, u); w.Code != http.StatusCreated {
			t.Fatalf("onboard %v: code=%d body=%v", u, w.Code, body)
		}
	}

	if w, body := doJSON(t, router, http.MethodPost, "/v1/shops", `{"name":"First","code":"PUNE-01"}`, u1); w.Code != http.StatusCreated {
		t.Fatalf("first shop: code=%d body=%v", w.Code, body)
	}
	w, _ := doJSON(t, router, http.MethodPost, "/v1/shops", `{"name":"Second","code":"pune-01"}`, u2)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate code: expected 409, got %d", w.Code)
	}
}

func TestRequiresIdentity(t *testing.T) {
	_, _, router := newTestRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/role"},
		{http.MethodPost, "/v1/onboarding/role"},
		{http.MethodPost, "/v1/shops"},
		{http.MethodGet, "/v1/dashboard"},
	} {
		w, _ := doJSON(t, router, tc.method, tc.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestCreateShopRequiresOwnerAccount(t *testing.T) {
	_, _, router := newTestRouter()
	u1 := map[string]string{"X-Identity-Id": "U1"}

	// No onboarding yet: the account record must exist before the shop.
	w, _ := doJSON(t, router, http.MethodPost, "/v1/shops", `{"name":"Sharma Mess","code":"PUNE-01"}`, u1)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestChooseRoleRejectsBadPayload(t *testing.T) {
	_, _, router := newTestRouter()
	u1 := map[string]string{"X-Identity-Id": "U1"}

	for _, body := range []string{`{}`, `{"role":"admin"}`, `not json`} {
		w, _ := doJSON(t, router, http.MethodPost, "/v1/onboarding/role", body, u1)
		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", body, w.Code)
		}
	}
}
