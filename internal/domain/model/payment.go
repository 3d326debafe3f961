package model

// PaymentStatus is the processor's canonical payment state.
type PaymentStatus string

const (
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment is the processor's record of a single payment attempt.
type Payment struct {
	ID                string
	Status            PaymentStatus
	ExternalReference string
}

// Preference is an externally hosted payment session created for an order.
type Preference struct {
	ID        string
	InitPoint string
}

// MerchantOrderPayment is a payment entry inside a merchant order.
type MerchantOrderPayment struct {
	ID     string
	Status PaymentStatus
}

// MerchantOrder groups the payments attempted for one checkout session.
type MerchantOrder struct {
	ID       string
	Payments []MerchantOrderPayment
}
