package model

import (
	"time"
)

// SubscriptionStatus represents the state of a client's subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// InvoiceStatus represents the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusOpen    InvoiceStatus = "open"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is a billed period on a client's account. Amounts are in
// cents to avoid floating-point money.
type Invoice struct {
	Number   string        `json:"number"`
	Amount   int64         `json:"amount"`
	Currency string        `json:"currency"`
	Status   InvoiceStatus `json:"status"`
	IssuedAt time.Time     `json:"issued_at"`
	DueAt    time.Time     `json:"due_at"`
	PaidAt   *time.Time    `json:"paid_at,omitempty"`
}

// PaymentMethod is a stored payment instrument.
type PaymentMethod struct {
	Token   string `json:"token"`
	Kind    string `json:"kind"`
	Brand   string `json:"brand,omitempty"`
	Last4   string `json:"last4,omitempty"`
	Default bool   `json:"default"`
}

// Billing is the billing record for one client: its subscription,
// invoice history and stored payment methods.
type Billing struct {
	ID          int                `json:"id"`
	ClientID    int                `json:"client_id"`
	Plan        string             `json:"plan"`
	Status      SubscriptionStatus `json:"status"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	CanceledAt  *time.Time         `json:"canceled_at,omitempty"`

	Invoices       []Invoice       `json:"invoices,omitempty"`
	PaymentMethods []PaymentMethod `json:"payment_methods,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID returns the billing record id.
func (b *Billing) EntityID() int { return b.ID }

// SetEntityID sets the billing record id.
func (b *Billing) SetEntityID(id int) { b.ID = id }

// StampCreated records the creation time.
func (b *Billing) StampCreated(t time.Time) { b.CreatedAt = t }

// StampUpdated records the last modification time.
func (b *Billing) StampUpdated(t time.Time) { b.UpdatedAt = t }

// Clone returns a deep copy of the billing record.
func (b *Billing) Clone() *Billing {
	cp := *b
	cp.CanceledAt = cloneTime(b.CanceledAt)
	if b.Invoices != nil {
		cp.Invoices = make([]Invoice, len(b.Invoices))
		for i, inv := range b.Invoices {
			cp.Invoices[i] = inv
			cp.Invoices[i].PaidAt = cloneTime(inv.PaidAt)
		}
	}
	if b.PaymentMethods != nil {
		cp.PaymentMethods = append([]PaymentMethod(nil), b.PaymentMethods...)
	}
	return &cp
}

// AddPaymentMethodRequest is the request to store a payment method.
type AddPaymentMethodRequest struct {
	Token   string `json:"token"`
	Kind    string `json:"kind"`
	Brand   string `json:"brand,omitempty"`
	Last4   string `json:"last4,omitempty"`
	Default bool   `json:"default"`
}

// ChangePlanRequest is the request to move a subscription to a new plan.
type ChangePlanRequest struct {
	Plan string `json:"plan"`
}
