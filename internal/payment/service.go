package payment

import (
	"context"
	"fmt"

	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/enums"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/metrics"
)

// Service runs one full payment sequence per request: the method-selection
// prompt lives in the UI, so by the time the gateway is called the method
// is already confirmed and the sequence runs Open then Confirm in one go.
type Service interface {
	Run(ctx context.Context, ac auth.Context, action Action, orderID int64, code string, method enums.PaymentMethod) (*Outcome, error)
}

type service struct {
	upstream Upstream
	logg     *logger.Logger
	metrics  *metrics.PaymentMetrics
}

// NewService builds the payment sequence runner.
func NewService(upstream Upstream, logg *logger.Logger, m *metrics.PaymentMetrics) (Service, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	return &service{upstream: upstream, logg: logg, metrics: m}, nil
}

func (s *service) Run(ctx context.Context, ac auth.Context, action Action, orderID int64, code string, method enums.PaymentMethod) (*Outcome, error) {
	orch, err := NewOrchestrator(s.upstream, s.logg, s.metrics)
	if err != nil {
		return nil, err
	}
	if err := orch.Open(action, orderID, code); err != nil {
		return nil, err
	}
	return orch.Confirm(ctx, ac, method)
}
