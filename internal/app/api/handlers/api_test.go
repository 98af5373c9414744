package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"go.uber.org/zap"

	alertsvc "github.com/subwise/subwise/internal/app/service/alert"
	detectorsvc "github.com/subwise/subwise/internal/app/service/detector"
	insightsvc "github.com/subwise/subwise/internal/app/service/insights"
	negsvc "github.com/subwise/subwise/internal/app/service/negotiation"
	paysvc "github.com/subwise/subwise/internal/app/service/payment"
	subsvc "github.com/subwise/subwise/internal/app/service/subscription"
	usersvc "github.com/subwise/subwise/internal/app/service/user"
	"github.com/subwise/subwise/internal/models"
	"github.com/subwise/subwise/internal/store"
	cfgpkg "github.com/subwise/subwise/pkg/config"
)

type offlineAnalyzer struct{}

func (offlineAnalyzer) Enabled() bool { return false }
func (offlineAnalyzer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return "", nil
}

type disabledProvider struct{}

func (disabledProvider) Enabled() bool { return false }
func (disabledProvider) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	return nil, nil
}
func (disabledProvider) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return nil, nil
}
func (disabledProvider) GetPaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := store.NewMemory()
	log := zap.NewNop().Sugar()
	cfg := &cfgpkg.Config{}
	cfg.Detector.FreePlanLimit = 2

	users := usersvc.NewService(m, cfg, log)
	subs := subsvc.NewService(m, log)
	negotiations := negsvc.NewService(m, log)
	alerts := alertsvc.NewService(m, log)
	det := detectorsvc.New(offlineAnalyzer{}, log)
	ins := insightsvc.NewService(m, log)
	payments := paysvc.New(disabledProvider{}, log)

	r := gin.New()
	RegisterHealthRoutes(r)
	api := r.Group("/api")
	RegisterUserRoutes(api, users)
	RegisterSubscriptionRoutes(api, subs)
	RegisterNegotiationRoutes(api, negotiations)
	RegisterAlertRoutes(api, alerts)
	RegisterCurrencyRoutes(api)
	RegisterDetectionRoutes(api, users, det)
	RegisterInsightRoutes(api, ins)
	RegisterPaymentRoutes(api, users, payments, log)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func createUser(t *testing.T, r *gin.Engine, email string) *models.User {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{"email": email, "name": "Test User"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var u models.User
	decodeData(t, w, &u)
	return &u
}

func createSubscription(t *testing.T, r *gin.Engine, userID string, amount float64) *models.Subscription {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/users/"+userID+"/subscriptions", gin.H{
		"name":              "Service",
		"company":           "Co",
		"amount":            amount,
		"billing_cycle":     "monthly",
		"next_billing_date": time.Now().Add(10 * 24 * time.Hour).Format(time.RFC3339),
		"category":          "streaming",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sub models.Subscription
	decodeData(t, w, &sub)
	return &sub
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSavingsReportEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	u := createUser(t, r, "e2e@example.com")

	first := createSubscription(t, r, u.ID, 15.99)
	createSubscription(t, r, u.ID, 9.99)

	w := doJSON(t, r, http.MethodPut, "/api/subscriptions/"+first.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/"+u.ID+"/savings-report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.SavingsReport
	decodeData(t, w, &report)

	assert.InDelta(t, 15.99, report.MonthlySavings, 1e-9)
	assert.InDelta(t, 15.99*12, report.YearlySavings, 1e-9)
	assert.Equal(t, 2, report.TotalSubscriptions)
	assert.Equal(t, 1, report.ActiveSubscriptions)
	assert.Equal(t, 1, report.CancelledSubscriptions)
}

func TestDuplicateEmailReturns400(t *testing.T) {
	r := newTestRouter(t)
	createUser(t, r, "dup@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/users", gin.H{"email": "dup@example.com", "name": "Again"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestMissingEntitiesReturn404(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{
		"/api/users/missing",
		"/api/users/email/nobody@example.com",
		"/api/subscriptions/missing",
		"/api/users/missing/savings-report",
		"/api/users/missing/subscriptions",
		"/api/users/missing/negotiations",
		"/api/users/missing/price-alerts",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := doJSON(t, r, http.MethodPut, "/api/negotiations/missing/complete?actual_savings=5", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/price-alerts/missing/acknowledge", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNegotiationLifecycle(t *testing.T) {
	r := newTestRouter(t)
	u := createUser(t, r, "neg@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/users/"+u.ID+"/negotiations", gin.H{
		"service_name":   "Internet",
		"current_amount": 80.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var n models.BillNegotiation
	decodeData(t, w, &n)
	require.NotNil(t, n.SavingsPotential)
	assert.InDelta(t, 12.0, *n.SavingsPotential, 1e-9)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/negotiations/%s/complete?actual_savings=25.5", n.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/"+u.ID+"/savings-report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.SavingsReport
	decodeData(t, w, &report)
	assert.InDelta(t, 25.5, report.MonthlySavings, 1e-9)
	assert.Equal(t, 1, report.NegotiatedBills)
}

func TestDetectSubscriptionsFallbackAndQuota(t *testing.T) {
	r := newTestRouter(t)
	u := createUser(t, r, "det@example.com")

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/users/"+u.ID+"/detect-subscriptions", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got struct {
			Message               string                  `json:"message"`
			DetectedSubscriptions []detectorsvc.Candidate `json:"detected_subscriptions"`
		}
		decodeData(t, w, &got)
		require.Len(t, got.DetectedSubscriptions, 2)
		assert.Equal(t, "Amazon Prime", got.DetectedSubscriptions[0].Name)
		assert.Equal(t, "Microsoft 365", got.DetectedSubscriptions[1].Name)
	}

	// free tier quota of 2 is exhausted
	w := doJSON(t, r, http.MethodPost, "/api/users/"+u.ID+"/detect-subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func uploadStatement(t *testing.T, r *gin.Engine, userID, contentType string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="statement"`)
	hdr.Set("Content-Type", contentType)
	part, err := mpw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mpw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/"+userID+"/upload-statement", &buf)
	req.Header.Set("Content-Type", mpw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadStatement(t *testing.T) {
	r := newTestRouter(t)
	u := createUser(t, r, "upload@example.com")

	w := uploadStatement(t, r, u.ID, "text/plain", []byte("NETFLIX.COM 15.99\nSPOTIFY USA 9.99"))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = uploadStatement(t, r, u.ID, "image/png", []byte("not a statement"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = uploadStatement(t, r, u.ID, "text/plain", bytes.Repeat([]byte("x"), 10<<20+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUpgradeUnavailableWhenPaymentsDisabled(t *testing.T) {
	r := newTestRouter(t)
	u := createUser(t, r, "pay@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/users/"+u.ID+"/upgrade", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// confirm reports the fixed disabled status instead of failing
	w = doJSON(t, r, http.MethodGet, "/api/payments/pi_123", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state paysvc.PaymentState
	decodeData(t, w, &state)
	assert.Equal(t, "disabled", state.Status)
}

func TestPriceAlertLifecycle(t *testing.T) {
	r := newTestRouter(t)
	u := createUser(t, r, "alert@example.com")
	sub := createSubscription(t, r, u.ID, 9.99)

	w := doJSON(t, r, http.MethodPost, "/api/users/"+u.ID+"/price-alerts", gin.H{
		"subscription_id": sub.ID,
		"old_price":       9.99,
		"new_price":       12.99,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.PriceAlert
	decodeData(t, w, &created)
	assert.InDelta(t, 30.03, created.ChangePercentage, 0.01)

	w = doJSON(t, r, http.MethodPut, "/api/price-alerts/"+created.ID+"/acknowledge", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/"+u.ID+"/price-alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alerts []models.PriceAlert
	decodeData(t, w, &alerts)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Acknowledged)
}

func TestListCurrencies(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/currencies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var infos []struct {
		Code   string `json:"code"`
		Symbol string `json:"symbol"`
		Rate   string `json:"rate"`
	}
	decodeData(t, w, &infos)
	require.Len(t, infos, 7)
	assert.Equal(t, "USD", infos[0].Code)
	assert.Equal(t, "$", infos[0].Symbol)
}

func TestRegisteredRoutes(t *testing.T) {
	r := newTestRouter(t)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	for _, target := range []string{
		"GET /healthz",
		"POST /api/users",
		"GET /api/users/:id",
		"GET /api/users/email/:email",
		"GET /api/users/:id/subscriptions",
		"POST /api/users/:id/subscriptions",
		"GET /api/subscriptions/:id",
		"PUT /api/subscriptions/:id/cancel",
		"PUT /api/subscriptions/:id/pause",
		"DELETE /api/subscriptions/:id",
		"GET /api/users/:id/negotiations",
		"POST /api/users/:id/negotiations",
		"PUT /api/negotiations/:id/complete",
		"GET /api/users/:id/price-alerts",
		"PUT /api/price-alerts/:alertId/acknowledge",
		"GET /api/currencies",
		"POST /api/users/:id/detect-subscriptions",
		"POST /api/users/:id/upload-statement",
		"GET /api/users/:id/savings-report",
		"GET /api/users/:id/unused-subscriptions",
		"GET /api/users/:id/subscription-insights",
		"POST /api/users/:id/upgrade",
		"GET /api/payments/:intentId",
	} {
		require.True(t, contains(target), target)
	}
}
