package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
	pkgstripe "github.com/hanbitlee/furnimarket-backend/pkg/stripe"
)

const defaultTimeout = 5 * time.Second

// intentCreator exposes the subset of Stripe operations the gateway needs.
type intentCreator interface {
	New(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeIntentCreator struct{}

func (stripeIntentCreator) New(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

// StripeGateway authorizes payments through Stripe payment intents.
type StripeGateway struct {
	intents intentCreator
	timeout time.Duration
	logg    *logger.Logger
}

// NewStripeGateway builds the gateway on top of the shared Stripe client.
func NewStripeGateway(api *pkgstripe.Client, cfg config.PaymentConfig, logg *logger.Logger) (*StripeGateway, error) {
	if api == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &StripeGateway{
		intents: stripeIntentCreator{},
		timeout: timeout,
		logg:    logg,
	}, nil
}

// Authorize creates and confirms a payment intent for the full amount.
func (g *StripeGateway) Authorize(ctx context.Context, input AuthorizeInput) (*Result, error) {
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := buildIntentParams(input)
	intent, err := g.intents.New(ctx, params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	if !intentApproved(intent) {
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed,
			fmt.Sprintf("payment not approved (status %s)", intent.Status))
	}

	if g.logg != nil {
		g.logg.Info(ctx, fmt.Sprintf("payment authorized (%s)", intent.ID))
	}
	return &Result{Ref: intent.ID}, nil
}

func buildIntentParams(input AuthorizeInput) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(input.AmountCents)),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		Confirm:            stripe.Bool(true),
		PaymentMethodTypes: stripe.StringSlice(methodTypes(input.Method)),
	}
	if input.Description != "" {
		params.Description = stripe.String(input.Description)
	}
	if input.IdempotencyKey != "" {
		params.SetIdempotencyKey(input.IdempotencyKey)
	}
	params.AddMetadata("customer_id", input.CustomerID.String())
	return params
}

func methodTypes(method enums.PaymentMethod) []string {
	if method == enums.PaymentMethodBankTransfer {
		return []string{"customer_balance"}
	}
	return []string{"card"}
}

func intentApproved(intent *stripe.PaymentIntent) bool {
	if intent == nil {
		return false
	}
	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture, stripe.PaymentIntentStatusProcessing:
		return true
	default:
		return false
	}
}

// mapStripeError folds every provider failure into a payment failure so the
// caller aborts the checkout the same way it would on a decline.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "card declined")
		}
		return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "payment provider rejected the request")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "payment provider timed out")
	}
	return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "authorize payment")
}
