package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
)

func newBillingService() (*service.BillingService, *store.Store[*model.Billing], *time.Time) {
	now := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	st := store.New[*model.Billing]()
	svc := service.NewBillingService(st, logger.NewNop(), service.WithClock(func() time.Time { return now }))
	return svc, st, &now
}

func seedBilling(st *store.Store[*model.Billing]) {
	st.Seed([]*model.Billing{
		{
			ID:       1,
			ClientID: 7,
			Plan:     "pro",
			Status:   model.SubscriptionStatusActive,
			Invoices: []model.Invoice{
				{Number: "INV-1", Amount: 29900, Currency: "BRL", Status: model.InvoiceStatusPaid},
				{Number: "INV-2", Amount: 29900, Currency: "BRL", Status: model.InvoiceStatusOpen},
			},
		},
	})
}

func TestGetByClient(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBillingService()
	seedBilling(st)

	billing, err := svc.GetByClient(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, billing.ID)

	_, err = svc.GetByClient(ctx, 8)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListInvoicesNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBillingService()
	seedBilling(st)

	invoices, err := svc.ListInvoices(ctx, 1)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-2", invoices[0].Number)
}

func TestAddPaymentMethodHandlesDefault(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBillingService()
	seedBilling(st)

	// The first stored method becomes default even when not requested.
	billing, err := svc.AddPaymentMethod(ctx, 1, &model.AddPaymentMethodRequest{Token: "pm_1", Kind: "card", Last4: "4242"})
	require.NoError(t, err)
	require.Len(t, billing.PaymentMethods, 1)
	assert.True(t, billing.PaymentMethods[0].Default)

	billing, err = svc.AddPaymentMethod(ctx, 1, &model.AddPaymentMethodRequest{Token: "pm_2", Kind: "pix", Default: true})
	require.NoError(t, err)
	require.Len(t, billing.PaymentMethods, 2)
	assert.False(t, billing.PaymentMethods[0].Default)
	assert.True(t, billing.PaymentMethods[1].Default)
}

func TestSetDefaultPaymentMethod(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBillingService()
	seedBilling(st)

	_, err := svc.AddPaymentMethod(ctx, 1, &model.AddPaymentMethodRequest{Token: "pm_1", Kind: "card"})
	require.NoError(t, err)
	_, err = svc.AddPaymentMethod(ctx, 1, &model.AddPaymentMethodRequest{Token: "pm_2", Kind: "pix"})
	require.NoError(t, err)

	billing, err := svc.SetDefaultPaymentMethod(ctx, 1, "pm_2")
	require.NoError(t, err)
	assert.False(t, billing.PaymentMethods[0].Default)
	assert.True(t, billing.PaymentMethods[1].Default)

	_, err = svc.SetDefaultPaymentMethod(ctx, 1, "pm_unknown")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCancelSubscriptionKeepsHistory(t *testing.T) {
	ctx := context.Background()
	svc, st, now := newBillingService()
	seedBilling(st)

	billing, err := svc.CancelSubscription(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusCanceled, billing.Status)
	require.NotNil(t, billing.CanceledAt)
	assert.Equal(t, *now, *billing.CanceledAt)
	assert.Len(t, billing.Invoices, 2)
}

func TestChangePlan(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newBillingService()
	seedBilling(st)

	billing, err := svc.ChangePlan(ctx, 1, "enterprise")
	require.NoError(t, err)
	assert.Equal(t, "enterprise", billing.Plan)
}
