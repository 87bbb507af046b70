package service

import (
	"context"
	"time"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

// BillingService handles subscription, invoice and payment-method
// operations. One billing record exists per client.
type BillingService struct {
	store  *store.Store[*model.Billing]
	logger *logger.Logger
	clock  func() time.Time
}

// NewBillingService creates a new billing service.
func NewBillingService(st *store.Store[*model.Billing], log *logger.Logger, opts ...Option) *BillingService {
	o := buildOptions(opts)
	return &BillingService{store: st, logger: log, clock: o.clock}
}

// GetAll retrieves every billing record.
func (s *BillingService) GetAll(ctx context.Context) ([]*model.Billing, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a billing record by id.
func (s *BillingService) GetByID(ctx context.Context, id int) (*model.Billing, error) {
	return s.store.GetByID(ctx, id)
}

// GetByClient retrieves the billing record for a client.
func (s *BillingService) GetByClient(ctx context.Context, clientID int) (*model.Billing, error) {
	found, err := s.store.Find(ctx, func(b *model.Billing) bool {
		return b.ClientID == clientID
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return found[0], nil
}

// ListInvoices returns a billing record's invoices, newest first.
func (s *BillingService) ListInvoices(ctx context.Context, id int) ([]model.Invoice, error) {
	billing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoices := append([]model.Invoice(nil), billing.Invoices...)
	for i, j := 0, len(invoices)-1; i < j; i, j = i+1, j-1 {
		invoices[i], invoices[j] = invoices[j], invoices[i]
	}
	return invoices, nil
}

// AddPaymentMethod stores a payment instrument. A method flagged as
// default displaces the previous default.
func (s *BillingService) AddPaymentMethod(ctx context.Context, id int, req *model.AddPaymentMethodRequest) (*model.Billing, error) {
	return s.store.Update(ctx, id, func(b *model.Billing) {
		if req.Default {
			for i := range b.PaymentMethods {
				b.PaymentMethods[i].Default = false
			}
		}
		b.PaymentMethods = append(b.PaymentMethods, model.PaymentMethod{
			Token:   req.Token,
			Kind:    req.Kind,
			Brand:   req.Brand,
			Last4:   req.Last4,
			Default: req.Default || len(b.PaymentMethods) == 0,
		})
	})
}

// SetDefaultPaymentMethod marks the method with the given token as
// default. Returns ErrNotFound when the token is unknown.
func (s *BillingService) SetDefaultPaymentMethod(ctx context.Context, id int, token string) (*model.Billing, error) {
	var found bool
	updated, err := s.store.Update(ctx, id, func(b *model.Billing) {
		for i := range b.PaymentMethods {
			if b.PaymentMethods[i].Token == token {
				found = true
			}
		}
		if !found {
			return
		}
		for i := range b.PaymentMethods {
			b.PaymentMethods[i].Default = b.PaymentMethods[i].Token == token
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return updated, nil
}

// ChangePlan moves the subscription to a new plan.
func (s *BillingService) ChangePlan(ctx context.Context, id int, plan string) (*model.Billing, error) {
	return s.store.Update(ctx, id, func(b *model.Billing) {
		b.Plan = plan
	})
}

// CancelSubscription marks the subscription canceled at the current
// time. Invoices and payment methods are retained.
func (s *BillingService) CancelSubscription(ctx context.Context, id int) (*model.Billing, error) {
	now := s.clock()
	return s.store.Update(ctx, id, func(b *model.Billing) {
		b.Status = model.SubscriptionStatusCanceled
		b.CanceledAt = &now
	})
}
