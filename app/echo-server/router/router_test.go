//go:build !integration

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"dreamKeys/business/bid"
	"dreamKeys/business/payments"
	"dreamKeys/business/property"
	"dreamKeys/business/report"
	"dreamKeys/business/user"
	"dreamKeys/business/wishlist"
	"dreamKeys/domain"
	"dreamKeys/internal/middleware"
	"dreamKeys/internal/repository/memory"
	"dreamKeys/internal/rest"
	"dreamKeys/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type stubGateway struct {
	mu      sync.Mutex
	intents map[string]domain.PaymentIntent
}

func (g *stubGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := fmt.Sprintf("pi_%d", len(g.intents)+1)
	intent := domain.PaymentIntent{ID: id, Amount: amount, Currency: currency, Status: "requires_payment_method", Metadata: metadata}
	g.intents[id] = intent
	return intent, nil
}

func (g *stubGateway) GetPaymentIntent(_ context.Context, id string) (domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return domain.PaymentIntent{}, domain.NewError(domain.ErrConflict, "unknown payment transaction")
	}
	return intent, nil
}

func (g *stubGateway) succeed(id string) domain.PaymentIntent {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent := g.intents[id]
	intent.Status = domain.PaymentIntentSucceeded
	g.intents[id] = intent
	return intent
}

// stubVerifier accepts a signature equal to "valid" and replays the configured event.
type stubVerifier struct {
	event domain.WebhookEvent
}

func (v *stubVerifier) ParseWebhook(_ []byte, signature string) (domain.WebhookEvent, error) {
	if signature != "valid" {
		return domain.WebhookEvent{}, domain.NewError(domain.ErrInvalidArgument, "invalid webhook signature")
	}
	return v.event, nil
}

type nopNotifier struct{}

func (nopNotifier) SendEmail(_, _, _, _ string) error { return nil }

type app struct {
	e        *echo.Echo
	users    *memory.UserRepository
	payments *memory.PaymentsRepository
	bids     *memory.BidRepository
	gateway  *stubGateway
	verifier *stubVerifier
}

func newApp(t *testing.T) *app {
	t.Helper()

	a := &app{
		users:    memory.NewUserRepository(),
		payments: memory.NewPaymentsRepository(),
		bids:     memory.NewBidRepository(),
		gateway:  &stubGateway{intents: map[string]domain.PaymentIntent{}},
		verifier: &stubVerifier{},
	}
	propertyRepo := memory.NewPropertyRepository()
	jwtManager := utils.NewJWTManager("router-test-secret")

	propertyService := property.NewPropertyService(propertyRepo)
	userService := user.NewUserService(a.users, propertyService, validator.New())
	bidService := bid.NewBidService(a.bids, propertyRepo, a.payments, nopNotifier{})
	paymentsService := payments.NewPaymentsService(a.payments, a.gateway, bidService, memory.NewEventStore(), "usd")

	a.e = echo.New()
	a.e.HTTPErrorHandler = middleware.ErrorHandler
	Setup(a.e.Group("/api/v1"), Handlers{
		Token:    rest.NewTokenHandler(jwtManager),
		User:     rest.NewUserHandler(userService),
		Property: rest.NewPropertyHandler(propertyService),
		Bid:      rest.NewBidHandler(bidService),
		Payments: rest.NewPaymentsHandler(paymentsService),
		Webhook:  rest.NewWebhookHandler(a.verifier, paymentsService),
		Wishlist: rest.NewWishlistHandler(wishlist.NewWishlistService(memory.NewWishlistRepository(), propertyRepo)),
		Report:   rest.NewReportHandler(report.NewReportService(memory.NewReportRepository(), propertyRepo)),
	}, Guards{
		AuthRequired: middleware.AuthMiddleware(jwtManager),
		ResolveActor: middleware.ResolveActor(a.users),
		AdminOnly:    middleware.AdminOnly(),
	})

	return a
}

func (a *app) call(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = string(raw)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *app) expect(t *testing.T, want int, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	rec := a.call(t, method, path, token, body)
	if rec.Code != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, rec.Code, rec.Body.String())
	}
	return rec
}

func (a *app) login(t *testing.T, email string) string {
	t.Helper()

	rec := a.expect(t, http.StatusOK, http.MethodPost, "/jwt", "", map[string]string{"email": email})
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("decode token: %v", err)
	}
	return out.Token
}

func TestMarketplaceScenario(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	if err := a.users.Create(ctx, &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	adminToken := a.login(t, "admin@example.com")
	agentToken := a.login(t, "agent@example.com")
	buyerToken := a.login(t, "buyer@example.com")

	a.expect(t, http.StatusCreated, http.MethodPost, "/users", agentToken, map[string]string{"email": "agent@example.com", "name": "Alice", "role": "agent"})
	a.expect(t, http.StatusCreated, http.MethodPost, "/users", buyerToken, map[string]string{"email": "buyer@example.com", "name": "Bob"})
	a.expect(t, http.StatusOK, http.MethodPost, "/users", buyerToken, map[string]string{"email": "buyer@example.com"})
	a.expect(t, http.StatusForbidden, http.MethodPost, "/users", buyerToken, map[string]string{"email": "someone@example.com"})

	// listing lifecycle
	a.expect(t, http.StatusForbidden, http.MethodPost, "/properties", buyerToken, map[string]interface{}{"title": "Shed", "location": "Backyard"})
	rec := a.expect(t, http.StatusCreated, http.MethodPost, "/properties", agentToken, map[string]interface{}{
		"title": "Lake house", "location": "Lakeview", "minPrice": 400000, "maxPrice": 600000,
		"verificationStatus": "verified", "isAdvertised": true,
	})
	var created struct {
		Property domain.Property `json:"property"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode property: %v", err)
	}
	if created.Property.VerificationStatus != domain.VerificationPending || created.Property.IsAdvertised {
		t.Fatalf("new listing must start pending and unadvertised, got %+v", created.Property)
	}
	pid := created.Property.ID

	a.expect(t, http.StatusConflict, http.MethodPatch, fmt.Sprintf("/properties/%d/advertise", pid), agentToken, nil)
	a.expect(t, http.StatusUnauthorized, http.MethodPatch, fmt.Sprintf("/properties/%d/verify", pid), "", map[string]string{"status": "verified"})
	a.expect(t, http.StatusForbidden, http.MethodPatch, fmt.Sprintf("/properties/%d/verify", pid), agentToken, map[string]string{"status": "verified"})
	a.expect(t, http.StatusBadRequest, http.MethodPatch, fmt.Sprintf("/properties/%d/verify", pid), adminToken, map[string]string{"status": "approved"})
	a.expect(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/properties/%d/verify", pid), adminToken, map[string]string{"status": "verified"})
	a.expect(t, http.StatusNotFound, http.MethodPatch, fmt.Sprintf("/properties/%d/verify", pid), adminToken, map[string]string{"status": "verified"})
	a.expect(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/properties/%d/advertise", pid), agentToken, nil)
	a.expect(t, http.StatusOK, http.MethodGet, "/properties/advertised", "", nil)

	// negotiation
	a.expect(t, http.StatusForbidden, http.MethodPost, "/bids", agentToken, map[string]interface{}{"propertyId": pid, "offerAmount": 500000})
	a.expect(t, http.StatusCreated, http.MethodPost, "/bids", buyerToken, map[string]interface{}{"propertyId": pid, "offerAmount": 500000})

	bids, _ := a.bids.FindByBuyer(ctx, "buyer@example.com")
	if len(bids) != 1 {
		t.Fatalf("expected one bid, got %d", len(bids))
	}
	bidPath := fmt.Sprintf("/bids/%d", bids[0].ID)

	a.expect(t, http.StatusForbidden, http.MethodPatch, bidPath, buyerToken, map[string]string{"status": "accepted"})
	a.expect(t, http.StatusBadRequest, http.MethodPatch, bidPath, agentToken, map[string]string{"status": "maybe"})
	a.expect(t, http.StatusOK, http.MethodPatch, bidPath, agentToken, map[string]string{"status": "accepted"})
	a.expect(t, http.StatusConflict, http.MethodPatch, bidPath, agentToken, map[string]string{"status": "rejected"})
	a.expect(t, http.StatusConflict, http.MethodPatch, bidPath, buyerToken, map[string]string{"status": "bought"})

	a.expect(t, http.StatusOK, http.MethodGet, "/bids/buyer@example.com", buyerToken, nil)
	a.expect(t, http.StatusForbidden, http.MethodGet, "/bids/buyer@example.com", agentToken, nil)
	a.expect(t, http.StatusOK, http.MethodGet, "/agentBids/agent@example.com", agentToken, nil)
	a.expect(t, http.StatusOK, http.MethodGet, fmt.Sprintf("/get-bid/%d", bids[0].ID), adminToken, nil)

	// settlement
	a.expect(t, http.StatusForbidden, http.MethodPost, "/payments/intent", agentToken, map[string]interface{}{"bidId": bids[0].ID})
	a.expect(t, http.StatusCreated, http.MethodPost, "/payments/intent", buyerToken, map[string]interface{}{"bidId": bids[0].ID})
	intent := a.gateway.succeed("pi_1")

	settle := map[string]interface{}{"bidId": bids[0].ID, "transactionId": intent.ID}
	a.expect(t, http.StatusCreated, http.MethodPost, "/payments", buyerToken, settle)
	a.expect(t, http.StatusOK, http.MethodPost, "/payments", buyerToken, settle)

	a.verifier.event = domain.WebhookEvent{ID: "evt_1", Type: "payment_intent.succeeded", Intent: &intent}
	webhookReq := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/stripe", strings.NewReader("{}"))
	webhookReq.Header.Set("Stripe-Signature", "bogus")
	webhookRec := httptest.NewRecorder()
	a.e.ServeHTTP(webhookRec, webhookReq)
	if webhookRec.Code != http.StatusBadRequest {
		t.Fatalf("unsigned webhook: expected 400, got %d", webhookRec.Code)
	}

	webhookReq = httptest.NewRequest(http.MethodPost, "/api/v1/webhook/stripe", strings.NewReader("{}"))
	webhookReq.Header.Set("Stripe-Signature", "valid")
	webhookRec = httptest.NewRecorder()
	a.e.ServeHTTP(webhookRec, webhookReq)
	if webhookRec.Code != http.StatusOK {
		t.Fatalf("signed webhook: expected 200, got %d: %s", webhookRec.Code, webhookRec.Body.String())
	}

	all, _ := a.payments.FindAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected exactly one payment, got %d", len(all))
	}
	settled, _ := a.bids.FindByID(ctx, bids[0].ID)
	if settled.Status != domain.BidBought {
		t.Fatalf("expected bought, got %s", settled.Status)
	}

	a.expect(t, http.StatusOK, http.MethodGet, "/payments", adminToken, nil)
	a.expect(t, http.StatusForbidden, http.MethodGet, "/payments", agentToken, nil)
	a.expect(t, http.StatusOK, http.MethodGet, "/payments?agentEmail=agent@example.com", agentToken, nil)
	a.expect(t, http.StatusOK, http.MethodGet, "/payments/buyer@example.com", buyerToken, nil)

	// path emails match tokens case-insensitively
	rec = a.expect(t, http.StatusOK, http.MethodGet, "/bids/Buyer@Example.com", buyerToken, nil)
	if !strings.Contains(rec.Body.String(), `"buyerEmail":"buyer@example.com"`) {
		t.Fatalf("expected buyer bids for mixed-case path, got %s", rec.Body.String())
	}
	rec = a.expect(t, http.StatusOK, http.MethodGet, "/agentBids/AGENT@example.com", adminToken, nil)
	if !strings.Contains(rec.Body.String(), `"agentEmail":"agent@example.com"`) {
		t.Fatalf("expected agent bids for mixed-case path, got %s", rec.Body.String())
	}
	rec = a.expect(t, http.StatusOK, http.MethodGet, "/payments/BUYER@example.com", buyerToken, nil)
	if !strings.Contains(rec.Body.String(), `"transactionId":"pi_1"`) {
		t.Fatalf("expected buyer payment for mixed-case path, got %s", rec.Body.String())
	}

	// moderation
	agentUser, _ := a.users.FindByEmail(ctx, "agent@example.com")
	a.expect(t, http.StatusCreated, http.MethodPost, fmt.Sprintf("/properties/%d/report", pid), buyerToken, map[string]string{"reportDescription": "looks fake"})
	a.expect(t, http.StatusForbidden, http.MethodGet, "/reports", buyerToken, nil)
	a.expect(t, http.StatusOK, http.MethodGet, "/reports", adminToken, nil)
	a.expect(t, http.StatusForbidden, http.MethodPatch, fmt.Sprintf("/users/%d/fraud", agentUser.ID), buyerToken, nil)
	a.expect(t, http.StatusOK, http.MethodPatch, fmt.Sprintf("/users/%d/fraud", agentUser.ID), adminToken, nil)
	a.expect(t, http.StatusNotFound, http.MethodGet, fmt.Sprintf("/properties/%d", pid), "", nil)
	a.expect(t, http.StatusNotFound, http.MethodDelete, fmt.Sprintf("/properties/agent/%d", agentUser.ID), adminToken, nil)
	a.expect(t, http.StatusForbidden, http.MethodPost, "/properties", agentToken, map[string]interface{}{"title": "Again", "location": "Elsewhere"})

	// bids survive the purge with their snapshot
	a.expect(t, http.StatusOK, http.MethodGet, "/agentBids/agent@example.com", adminToken, nil)
}

func TestWishlistRoutes(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	if err := a.users.Create(ctx, &domain.User{Email: "agent@example.com", Role: domain.RoleAgent}); err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	agentToken := a.login(t, "agent@example.com")
	buyerToken := a.login(t, "buyer@example.com")
	otherToken := a.login(t, "other@example.com")

	a.expect(t, http.StatusCreated, http.MethodPost, "/properties", agentToken, map[string]interface{}{"title": "Loft", "location": "Downtown"})

	a.expect(t, http.StatusUnauthorized, http.MethodGet, "/wishlist", "", nil)
	a.expect(t, http.StatusCreated, http.MethodPost, "/wishlist", buyerToken, map[string]interface{}{"propertyId": 1})
	a.expect(t, http.StatusConflict, http.MethodPost, "/wishlist", buyerToken, map[string]interface{}{"propertyId": 1})
	a.expect(t, http.StatusOK, http.MethodGet, "/wishlist/1", buyerToken, nil)
	a.expect(t, http.StatusNotFound, http.MethodGet, "/wishlist/1", otherToken, nil)
	a.expect(t, http.StatusNotFound, http.MethodDelete, "/wishlist/1", otherToken, nil)
	a.expect(t, http.StatusOK, http.MethodDelete, "/wishlist/1", buyerToken, nil)
	a.expect(t, http.StatusBadRequest, http.MethodGet, "/wishlist/abc", buyerToken, nil)
}

func TestRoleManagementRoutes(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	if err := a.users.Create(ctx, &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	adminToken := a.login(t, "admin@example.com")
	buyerToken := a.login(t, "buyer@example.com")

	a.expect(t, http.StatusCreated, http.MethodPost, "/users", buyerToken, map[string]string{"email": "buyer@example.com", "role": "admin"})
	buyer, _ := a.users.FindByEmail(ctx, "buyer@example.com")
	if buyer.Role != domain.RoleUser {
		t.Fatalf("admin must not be self-assigned, got %s", buyer.Role)
	}

	rolePath := fmt.Sprintf("/users/%d/role", buyer.ID)
	a.expect(t, http.StatusForbidden, http.MethodGet, "/users", buyerToken, nil)
	a.expect(t, http.StatusForbidden, http.MethodPatch, rolePath, buyerToken, map[string]string{"role": "admin"})
	a.expect(t, http.StatusBadRequest, http.MethodPatch, rolePath, adminToken, map[string]string{"role": "owner"})
	a.expect(t, http.StatusOK, http.MethodPatch, rolePath, adminToken, map[string]string{"role": "agent"})
	a.expect(t, http.StatusNotFound, http.MethodPatch, rolePath, adminToken, map[string]string{"role": "agent"})

	rec := a.expect(t, http.StatusOK, http.MethodGet, "/users/role?email=buyer@example.com", buyerToken, nil)
	if !strings.Contains(rec.Body.String(), `"agent"`) {
		t.Fatalf("expected agent role, got %s", rec.Body.String())
	}
	rec = a.expect(t, http.StatusOK, http.MethodGet, "/users/role?email=nobody@example.com", buyerToken, nil)
	if !strings.Contains(rec.Body.String(), `"user"`) {
		t.Fatalf("expected default user role, got %s", rec.Body.String())
	}

	a.expect(t, http.StatusOK, http.MethodDelete, fmt.Sprintf("/users/%d", buyer.ID), adminToken, nil)
	a.expect(t, http.StatusNotFound, http.MethodDelete, fmt.Sprintf("/users/%d", buyer.ID), adminToken, nil)
}
