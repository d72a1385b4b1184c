package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/client-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/infra/repository"
	"github.com/BruksfildServices01/client-onboarding/internal/models"
	ucClient "github.com/BruksfildServices01/client-onboarding/internal/usecase/client"
	"github.com/BruksfildServices01/client-onboarding/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Email
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, email domain.Email) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	return "msg", n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type brokenRepo struct {
	err error
}

func (r brokenRepo) Insert(context.Context, domain.NewClient) (*models.Client, error) {
	return nil, r.err
}

func (r brokenRepo) ListAll(context.Context) ([]models.Client, error) {
	return nil, r.err
}

func newRouter(t *testing.T, repo domain.Repository, n domain.Notifier) *gin.Engine {
	t.Helper()

	lggr := zap.NewNop()
	d := audit.NewDispatcher(audit.NewLogSink(lggr), lggr)
	t.Cleanup(d.Close)

	create := ucClient.NewCreateClient(repo, n, d, "hello@firm.test", lggr)
	list := ucClient.NewListClients(repo)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	api := NewClientHandler(create, list, lggr)
	page := NewClientWebHandler(create, list, time.UTC, lggr)

	r.GET("/health", Health)
	r.GET("/", page.Index)
	r.GET("/clients/table", page.Table)
	r.POST("/clients", page.Submit)
	r.GET("/api/clients", api.List)
	r.POST("/api/clients", api.Create)

	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ======================================================
// API
// ======================================================

func TestHealth(t *testing.T) {
	r := newRouter(t, repository.NewClientMemoryRepository(), &fakeNotifier{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPI_CreateThenList(t *testing.T) {
	repo := repository.NewClientMemoryRepository()
	n := &fakeNotifier{}
	r := newRouter(t, repo, n)

	w := serve(r, postJSON(`{"name":"Ada Lovelace","email":"ada@example.com","businessName":"Analytical Engines"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{}`, w.Body.String())
	require.Equal(t, 1, n.count())
	require.Equal(t, []string{"ada@example.com"}, n.sent[0].To)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":1`)
	require.Contains(t, w.Body.String(), `"business_name":"Analytical Engines"`)
}

func TestAPI_CreateValidation(t *testing.T) {
	n := &fakeNotifier{}
	r := newRouter(t, repository.NewClientMemoryRepository(), n)

	w := serve(r, postJSON(`{"name":"","email":"ada@example.com","businessName":"AE"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"All fields are required.","error_code":"fields_required"}`, w.Body.String())

	w = serve(r, postJSON(`{"name":"Ada","email":"nope","businessName":"AE"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Invalid email address.","error_code":"invalid_email"}`, w.Body.String())

	w = serve(r, postJSON(`{`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Zero(t, n.count())
}

func TestAPI_CreateStoreFailure(t *testing.T) {
	n := &fakeNotifier{}
	r := newRouter(t, brokenRepo{err: domain.NewStoreError("insert client", "M", nil)}, n)

	w := serve(r, postJSON(`{"name":"Ada","email":"ada@example.com","businessName":"AE"}`))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.JSONEq(t, `{"error":"M","error_code":"store_error"}`, w.Body.String())
	require.Zero(t, n.count())
}

func TestAPI_CreateEmailFailureStillCreated(t *testing.T) {
	n := &fakeNotifier{err: errors.New("resend down")}
	r := newRouter(t, repository.NewClientMemoryRepository(), n)

	w := serve(r, postJSON(`{"name":"Ada","email":"ada@example.com","businessName":"AE"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, `{}`, w.Body.String())
}

func TestAPI_ListStoreFailure(t *testing.T) {
	r := newRouter(t, brokenRepo{err: domain.NewStoreError("list clients", "permission denied", nil)}, &fakeNotifier{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.JSONEq(t, `{"error":"permission denied","error_code":"store_error"}`, w.Body.String())
}

func TestAPI_ListEmpty(t *testing.T) {
	r := newRouter(t, repository.NewClientMemoryRepository(), &fakeNotifier{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())
}

// ======================================================
// WEB
// ======================================================

func TestWeb_IndexModalClosedByDefault(t *testing.T) {
	r := newRouter(t, repository.NewClientMemoryRepository(), &fakeNotifier{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), `role="dialog"`)
	require.Contains(t, w.Body.String(), `data-state="loading"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/?modal=add", nil))
	require.Contains(t, w.Body.String(), `role="dialog"`)
}

func TestWeb_SubmitValidationReRendersOpenModal(t *testing.T) {
	repo := repository.NewClientMemoryRepository()
	n := &fakeNotifier{}
	r := newRouter(t, repo, n)

	w := serve(r, postForm(url.Values{"name": {"Ada"}, "email": {"ada-at-example.com"}, "businessName": {"AE"}}))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	require.Contains(t, body, `role="dialog"`)
	require.Contains(t, body, "Invalid email address.")
	require.Contains(t, body, `value="ada-at-example.com"`)

	clients, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, clients)
	require.Zero(t, n.count())
}

func TestWeb_SubmitStoreErrorShowsMessage(t *testing.T) {
	r := newRouter(t, brokenRepo{err: domain.NewStoreError("insert client", "duplicate key value violates unique constraint", nil)}, &fakeNotifier{})

	w := serve(r, postForm(url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "businessName": {"AE"}}))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "duplicate key value violates unique constraint")
	require.Contains(t, w.Body.String(), `role="dialog"`)
}

func TestWeb_SubmitSuccessRedirectsAndRefreshes(t *testing.T) {
	n := &fakeNotifier{}
	r := newRouter(t, repository.NewClientMemoryRepository(), n)

	w := serve(r, postForm(url.Values{"name": {"Ada Lovelace"}, "email": {"ada@example.com"}, "businessName": {"Analytical Engines"}}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/?added=1", w.Header().Get("Location"))
	require.Equal(t, 1, n.count())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/?added=1", nil))
	require.Contains(t, w.Body.String(), web.MsgClientAdded)
	require.NotContains(t, w.Body.String(), `role="dialog"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/clients/table", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "<td>Ada Lovelace</td>")
	require.NotContains(t, w.Body.String(), web.MsgNoClients)
}

func TestWeb_TableStates(t *testing.T) {
	r := newRouter(t, repository.NewClientMemoryRepository(), &fakeNotifier{})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/clients/table", nil))
	require.Equal(t, 1, strings.Count(w.Body.String(), web.MsgNoClients))

	r = newRouter(t, brokenRepo{err: domain.NewStoreError("list clients", "relation \"clients\" does not exist", nil)}, &fakeNotifier{})
	w = serve(r, httptest.NewRequest(http.MethodGet, "/clients/table", nil))
	require.Contains(t, w.Body.String(), "Database error: relation &#34;clients&#34; does not exist")
	require.NotContains(t, w.Body.String(), web.MsgNoClients)

	r = newRouter(t, brokenRepo{err: errors.New("connection reset")}, &fakeNotifier{})
	w = serve(r, httptest.NewRequest(http.MethodGet, "/clients/table", nil))
	require.Contains(t, w.Body.String(), web.MsgFetchFailed)
}
