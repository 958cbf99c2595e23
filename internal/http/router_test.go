package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/flash"
	"github.com/MrJamesThe3rd/backoffice/internal/format"
	backofficeHttp "github.com/MrJamesThe3rd/backoffice/internal/http"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
)

// fakeAPI is a minimal remote API. A request is authenticated when it carries the
// sid cookie; the user behind it has the configured role.
type fakeAPI struct {
	mu         sync.Mutex
	role       string
	superseded bool
	status     string
	statusCode int
	calls      map[string]int
	bodies     map[string]string
	failing    map[string]failure
}

// failure is a canned error reply for one endpoint.
type failure struct {
	code int
	body string
}

func newFakeAPI(role string) *fakeAPI {
	return &fakeAPI{role: role, status: `{"isOpen":true}`, statusCode: http.StatusOK, calls: map[string]int{}, bodies: map[string]string{}, failing: map[string]failure{}}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[key]
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(f)
}

func (f *fakeAPI) body(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bodies[key]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls[key]++
	f.bodies[key] = string(body)
	role, superseded, status, statusCode := f.role, f.superseded, f.status, f.statusCode
	fail, failed := f.failing[key]
	f.mu.Unlock()

	if failed {
		w.WriteHeader(fail.code)
		w.Write([]byte(fail.body))

		return
	}

	if r.URL.Path == "/api/auth/login" {
		var creds map[string]string
		_ = json.Unmarshal(body, &creds)

		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid credentials"}`))

			return
		}

		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s-1", Path: "/"})
		w.Write([]byte(`{"user":{"id":"u1","name":"Dana","role":"` + role + `"}}`))

		return
	}

	if _, err := r.Cookie("sid"); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Not authenticated"}`))

		return
	}

	if superseded {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Session replaced","code":"SESSION_SUPERSEDED"}`))

		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch key {
	case "GET /api/auth/me":
		w.Write([]byte(`{"id":"u1","name":"Dana","role":"` + role + `"}`))
	case "POST /api/auth/logout":
		w.WriteHeader(http.StatusNoContent)
	case "GET /api/accounting/balance-status":
		w.WriteHeader(statusCode)
		w.Write([]byte(status))
	case "GET /api/inventories":
		w.Write([]byte(`[{"id":"inv-1","name":"Main store","section":"GROCERY"}]`))
	case "GET /api/accounting/balance/summary":
		w.Write([]byte(`{"buckets":{"cash":"250"},"total":"250"}`))
	case "GET /api/accounting/expenses":
		w.Write([]byte(`[
			{"id":"e1","date":"2024-01-02T00:00:00Z","description":"Fuel","type":"TRANSPORT","amount":100,"method":"CASH"},
			{"id":"e2","date":"2024-01-03T00:00:00Z","description":"Rent","type":"RENT","amount":"50","method":"BANK"},
			{"id":"e3","date":"2024-01-04T00:00:00Z","description":"Tip","type":"OTHER","amount":"0.50","method":"CASH"}
		]`))
	case "POST /api/accounting/expenses":
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"e4"}`))
	case "GET /api/accounting/opening-balances":
		w.Write([]byte(`{}`))
	case "POST /api/accounting/opening-balances":
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}
}

type harness struct {
	api    *fakeAPI
	server *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T, role string, failOpen bool) *harness {
	t.Helper()

	fake := newFakeAPI(role)
	apiServer := httptest.NewServer(fake)
	t.Cleanup(apiServer.Close)

	f, err := format.New("en", "USD")
	require.NoError(t, err)

	v, err := view.New("Backoffice", f, flash.NewStore("test-secret"))
	require.NoError(t, err)

	router := backofficeHttp.New(shell.NewClientFactory(apiServer.URL+"/api"), v, backofficeHttp.Options{
		CORSOrigins: []string{"http://reports.local"},
		FailOpen:    failOpen,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		api:    fake,
		server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()

	u, _ := url.Parse(h.server.URL)
	h.client.Jar.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s-1", Path: "/"}})
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()

	resp, err := h.client.Get(h.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func (h *harness) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := h.client.PostForm(h.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestShell_UnauthenticatedRedirectsToLogin(t *testing.T) {
	h := newHarness(t, "MANAGER", true)

	resp, _ := h.get(t, "/dashboard/accounting/expenses")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fdashboard%2Faccounting%2Fexpenses", resp.Header.Get("Location"))

	_, body := h.get(t, "/login")
	assert.NotContains(t, body, "another location")
}

func TestShell_SupersededShowsNoticeOnce(t *testing.T) {
	h := newHarness(t, "MANAGER", true)
	h.signIn(t)
	h.api.set(func(f *fakeAPI) { f.superseded = true })

	resp, _ := h.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))

	_, body := h.get(t, "/login")
	assert.Contains(t, body, "another location")

	_, body = h.get(t, "/login")
	assert.NotContains(t, body, "another location")
}

func TestShell_GateRedirectsAccountant(t *testing.T) {
	h := newHarness(t, "ACCOUNTANT", true)
	h.signIn(t)
	h.api.set(func(f *fakeAPI) { f.status = `{"isOpen":false}` })

	resp, _ := h.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/accounting/opening-balance", resp.Header.Get("Location"))

	resp, body := h.get(t, "/dashboard/accounting/opening-balance")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Open period")

	resp, body = h.post(t, "/dashboard/accounting/expenses", url.Values{"description": {"Fuel"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Set up opening balances")
	assert.Zero(t, h.api.count("POST /api/accounting/expenses"))
}

func TestShell_OpeningThePeriodUnblocks(t *testing.T) {
	h := newHarness(t, "MANAGER", true)
	h.signIn(t)
	h.api.set(func(f *fakeAPI) { f.status = `{"cash":0,"bank":"0"}` })

	form := url.Values{"periodStart": {"2024-01-01"}, "cash": {"150"}, "bank": {"2000.50"}}

	resp, _ := h.post(t, "/dashboard/accounting/opening-balance", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.api.body("POST /api/accounting/opening-balances")), &sent))
	assert.Equal(t, "2024-01-01", sent["periodStart"])
	assert.Equal(t, map[string]any{"cash": "150", "bank": "2000.50", "receivable": "0", "inventory": "0"}, sent["balances"])

	h.api.set(func(f *fakeAPI) { f.status = `{"cash":150}` })

	resp, body := h.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Opening balances saved")
}

func TestShell_UngatedRolesNeverQueryStatus(t *testing.T) {
	for _, role := range []string{"SALES_GROCERY", "AUDITOR"} {
		t.Run(role, func(t *testing.T) {
			h := newHarness(t, role, true)
			h.signIn(t)
			h.api.set(func(f *fakeAPI) { f.status = `{"isOpen":false}` })

			resp, body := h.get(t, "/dashboard")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "Main store")
			assert.Zero(t, h.api.count("GET /api/accounting/balance-status"))
		})
	}
}

func TestShell_GateFailureMode(t *testing.T) {
	tests := []struct {
		name     string
		failOpen bool
		want     int
	}{
		{"Open", true, http.StatusOK},
		{"Closed", false, http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "ACCOUNTANT", tt.failOpen)
			h.signIn(t)
			h.api.set(func(f *fakeAPI) {
				f.statusCode = http.StatusInternalServerError
				f.status = `{"error":"db down"}`
			})

			resp, _ := h.get(t, "/dashboard/accounting/expenses")
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestShell_NavigationIsRoleScoped(t *testing.T) {
	h := newHarness(t, "SALES_GROCERY", true)
	h.signIn(t)

	resp, body := h.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `href="/dashboard/sales"`)
	assert.NotContains(t, body, `href="/dashboard/accounting/expenses"`)
	assert.Contains(t, body, `href="/dashboard" class="active"`)
	assert.NotEmpty(t, resp.Header.Get("X-Mount-ID"))
	assert.Zero(t, h.api.count("GET /api/accounting/balance/summary"))

	resp, _ = h.get(t, "/dashboard/accounting/expenses")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, h.api.count("GET /api/accounting/expenses"))
}

func TestExpenses_AggregateCards(t *testing.T) {
	h := newHarness(t, "MANAGER", true)
	h.signIn(t)

	resp, body := h.get(t, "/dashboard/accounting/expenses")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "100.50")
	assert.Contains(t, body, "150.50")
	assert.Contains(t, body, "New expense")
}

func TestExpenses_AuditorIsReadOnly(t *testing.T) {
	h := newHarness(t, "AUDITOR", true)
	h.signIn(t)

	resp, body := h.get(t, "/dashboard/accounting/expenses")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "New expense")
	assert.Contains(t, body, "Download CSV")

	form := url.Values{"date": {"2024-01-05"}, "description": {"x"}, "type": {"T"}, "amount": {"1"}, "method": {"CASH"}}
	resp, _ = h.post(t, "/dashboard/accounting/expenses", form)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, h.api.count("POST /api/accounting/expenses"))
}

func TestExpenses_CreateValidatesBeforeCalling(t *testing.T) {
	h := newHarness(t, "ACCOUNTANT", true)
	h.signIn(t)

	form := url.Values{"date": {"2024-01-05"}, "description": {"Printer paper"}, "type": {"SUPPLIES"}, "amount": {"lots"}, "method": {"CASH"}}

	resp, body := h.post(t, "/dashboard/accounting/expenses", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "amount: must be a number")
	assert.Contains(t, body, `value="Printer paper"`)
	assert.Zero(t, h.api.count("POST /api/accounting/expenses"))

	form.Set("amount", "12.40")

	resp, _ = h.post(t, "/dashboard/accounting/expenses", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, h.api.count("POST /api/accounting/expenses"))
}

func TestExpenses_ServerRejectionKeepsForm(t *testing.T) {
	h := newHarness(t, "ACCOUNTANT", true)
	h.signIn(t)
	h.api.set(func(f *fakeAPI) {
		f.failing["POST /api/accounting/expenses"] = failure{http.StatusUnprocessableEntity, `{"error":"Expense date falls in a closed period"}`}
	})

	form := url.Values{"date": {"2023-12-30"}, "description": {"Printer paper"}, "type": {"SUPPLIES"}, "amount": {"12.40"}, "method": {"CARD"}}

	resp, body := h.post(t, "/dashboard/accounting/expenses", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 1, h.api.count("POST /api/accounting/expenses"))
	assert.Contains(t, body, "Expense date falls in a closed period")
	assert.Contains(t, body, `value="Printer paper"`)
	assert.Contains(t, body, `value="12.40"`)
	assert.Contains(t, body, `value="2023-12-30"`)
	assert.Contains(t, body, "Fuel")
}

func TestPages_OneFailedFetchKeepsTheRest(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		failing     string
		wantShown   string
		wantMissing string
	}{
		{
			name:        "HomeInventoriesFail",
			path:        "/dashboard",
			failing:     "GET /api/inventories",
			wantShown:   "250.00",
			wantMissing: "Inventories could not be loaded",
		},
		{
			name:        "HomeSummaryFails",
			path:        "/dashboard",
			failing:     "GET /api/accounting/balance/summary",
			wantShown:   "Main store",
			wantMissing: "Balance could not be loaded",
		},
		{
			name:        "BalanceOpeningFails",
			path:        "/dashboard/accounting/balance",
			failing:     "GET /api/accounting/opening-balances",
			wantShown:   "250.00",
			wantMissing: "Opening balances could not be loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "MANAGER", true)
			h.signIn(t)
			h.api.set(func(f *fakeAPI) {
				f.failing[tt.failing] = failure{http.StatusInternalServerError, `{"error":"db down"}`}
			})

			resp, body := h.get(t, tt.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, 1, h.api.count(tt.failing))
			assert.Contains(t, body, tt.wantShown)
			assert.Contains(t, body, tt.wantMissing)
		})
	}
}

func TestPages_LostSessionDuringFetchRedirects(t *testing.T) {
	h := newHarness(t, "MANAGER", true)
	h.signIn(t)
	h.api.set(func(f *fakeAPI) {
		f.failing["GET /api/inventories"] = failure{http.StatusUnauthorized, `{"error":"Not authenticated"}`}
	})

	resp, _ := h.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}

func TestHome_InventoryLinksFollowNavigation(t *testing.T) {
	tests := []struct {
		role      string
		wantLinks bool
	}{
		{"MANAGER", true},
		{"SALES_BAKERY", true},
		{"ACCOUNTANT", false},
		{"PROCUREMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			h := newHarness(t, tt.role, true)
			h.signIn(t)

			resp, body := h.get(t, "/dashboard")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "Main store")
			assert.Equal(t, tt.wantLinks, strings.Contains(body, `href="/dashboard/inventory?inventory=inv-1"`))
		})
	}
}

func TestExpenses_ImportStatement(t *testing.T) {
	h := newHarness(t, "ACCOUNTANT", true)
	h.signIn(t)

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("bank", "cgd"))

	fw, err := mw.CreateFormFile("statement", "statement.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte("Data mov.;Descrição;Montante\n30-01-2026;RENT;-500,00\n31-01-2026;SALE;80,00\n31-01-2026;WATER;-12,30\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := h.client.Post(h.server.URL+"/dashboard/accounting/expenses/import", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 2, h.api.count("POST /api/accounting/expenses"))
	assert.JSONEq(t,
		`{"date":"2026-01-31","description":"WATER","type":"Bank statement","amount":"12.30","method":"BANK"}`,
		h.api.body("POST /api/accounting/expenses"))
}

func TestExport_CSVAndSummary(t *testing.T) {
	h := newHarness(t, "ACCOUNTANT", true)
	h.signIn(t)

	resp, body := h.get(t, "/dashboard/accounting/expenses/export?method=CASH")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="expenses_`)
	assert.Equal(t, "date,description,type,method,amount\n2024-01-02,Fuel,TRANSPORT,CASH,100\n2024-01-04,Tip,OTHER,CASH,0.50\n", body)

	req, err := http.NewRequest(http.MethodGet, h.server.URL+"/dashboard/accounting/expenses/summary", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "http://reports.local")

	resp, err = h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://reports.local", resp.Header.Get("Access-Control-Allow-Origin"))

	var summary struct {
		Groups []struct {
			Method string `json:"method"`
			Total  string `json:"total"`
			Count  int    `json:"count"`
		} `json:"groups"`
		Total string `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	require.Len(t, summary.Groups, 2)
	assert.Equal(t, "CASH", summary.Groups[0].Method)
	assert.Equal(t, "100.50", summary.Groups[0].Total)
	assert.Equal(t, 2, summary.Groups[0].Count)
	assert.Equal(t, "150.50", summary.Total)
}

func TestAuth_LoginMirrorsSessionCookie(t *testing.T) {
	h := newHarness(t, "INVENTORY", true)

	resp, body := h.post(t, "/login", url.Values{"username": {"dana"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="dana"`)

	resp, _ = h.post(t, "/login", url.Values{"username": {""}, "password": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 1, h.api.count("POST /api/auth/login"))

	resp, _ = h.post(t, "/login", url.Values{"username": {"dana"}, "password": {"secret"}, "next": {"/dashboard/items"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/items", resp.Header.Get("Location"))

	resp, _ = h.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.post(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 1, h.api.count("POST /api/auth/logout"))

	resp, _ = h.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestAuth_UpstreamFailureIsNotBadCredentials(t *testing.T) {
	h := newHarness(t, "INVENTORY", true)
	h.api.set(func(f *fakeAPI) {
		f.failing["POST /api/auth/login"] = failure{http.StatusInternalServerError, `{"error":"database unavailable"}`}
	})

	resp, body := h.post(t, "/login", url.Values{"username": {"dana"}, "password": {"secret"}})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "database unavailable")
	assert.Contains(t, body, `value="dana"`)
}

func TestAuth_NextStaysInsideDashboard(t *testing.T) {
	h := newHarness(t, "INVENTORY", true)

	resp, _ := h.post(t, "/login", url.Values{"username": {"dana"}, "password": {"secret"}, "next": {"https://evil.example"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
