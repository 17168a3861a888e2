package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dreamKeys/domain"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type StripeRepository struct {
	stripeConfig StripeConfig
	api          *client.API
}

func NewStripeRepository(cfg StripeConfig) *StripeRepository {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeRepository{
		stripeConfig: cfg,
		api:          api,
	}
}

func (r *StripeRepository) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (domain.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(amount),
		Currency: stripego.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := r.api.PaymentIntents.New(params)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return toPaymentIntent(pi), nil
}

func (r *StripeRepository) GetPaymentIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx

	pi, err := r.api.PaymentIntents.Get(id, params)
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return domain.PaymentIntent{}, domain.NewError(domain.ErrConflict, "unknown payment transaction")
		}
		return domain.PaymentIntent{}, fmt.Errorf("stripe get payment intent: %w", err)
	}

	return toPaymentIntent(pi), nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (r *StripeRepository) ParseWebhook(payload []byte, signature string) (domain.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, r.stripeConfig.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return domain.WebhookEvent{}, domain.NewError(domain.ErrInvalidArgument, "invalid webhook signature")
	}

	out := domain.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if strings.HasPrefix(out.Type, "payment_intent.") && event.Data != nil {
		var pi stripego.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return domain.WebhookEvent{}, domain.NewError(domain.ErrInvalidArgument, "malformed payment intent payload")
		}
		intent := toPaymentIntent(&pi)
		out.Intent = &intent
	}

	return out, nil
}

func toPaymentIntent(pi *stripego.PaymentIntent) domain.PaymentIntent {
	return domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
}
