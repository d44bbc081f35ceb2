// Package payment implements the hosted payment flow entry point. The
// provider page is external; this side only mints the redirect URL and
// consumes the return and cancel callbacks through the HTTP layer.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"tradelink/config"
	"tradelink/internal/domain/service"
)

type hostedProvider struct {
	cfg    config.PaymentConfig
	logger *slog.Logger
}

// NewHostedProvider builds the provider from configuration.
func NewHostedProvider(cfg config.PaymentConfig, logger *slog.Logger) service.PaymentProvider {
	return &hostedProvider{cfg: cfg, logger: logger}
}

// Begin opens a payment flow and returns the URL the payer is sent to.
// The provider page reports back through the return and cancel callbacks.
func (p *hostedProvider) Begin(_ context.Context, orderID uuid.UUID, amount float64) (string, error) {
	base, err := url.Parse(p.cfg.Provider)
	if err != nil {
		return "", errors.Wrap(err, "parse payment provider URL")
	}

	q := base.Query()
	q.Set("order", orderID.String())
	q.Set("amount", fmt.Sprintf("%.2f", amount))
	q.Set("return_url", p.cfg.ReturnURL)
	q.Set("cancel_url", p.cfg.CancelURL)
	base.RawQuery = q.Encode()

	p.logger.Info("payment flow started",
		slog.String("order", orderID.String()),
		slog.Float64("amount", amount))

	return base.String(), nil
}
