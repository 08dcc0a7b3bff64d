package model

import "time"

type InvoiceSource string

const (
	InvoiceSourceBooking InvoiceSource = "booking"
	InvoiceSourceOrder   InvoiceSource = "order"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

type InvoiceLine struct {
	Description string `json:"description" bson:"description" validate:"required"`
	Quantity    int    `json:"quantity" bson:"quantity" validate:"min=1"`
	UnitPrice   int64  `json:"unit_price" bson:"unit_price"`
	Amount      int64  `json:"amount" bson:"amount"`
}

type Invoice struct {
	ID              string        `json:"id,omitempty" bson:"_id,omitempty"`
	Reference       string        `json:"reference" bson:"reference"`
	Source          InvoiceSource `json:"source" bson:"source" validate:"oneof=booking order"`
	SourceID        string        `json:"source_id" bson:"source_id" validate:"required"`
	SourceReference string        `json:"source_reference" bson:"source_reference"`
	CustomerEmail   string        `json:"customer_email,omitempty" bson:"customer_email,omitempty"`
	CustomerName    string        `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	RoomNumber      *int          `json:"room_number,omitempty" bson:"room_number,omitempty"`
	Lines           []InvoiceLine `json:"lines" bson:"lines" validate:"min=1,dive"`
	Total           int64         `json:"total" bson:"total" validate:"gt=0"`
	PaymentStatus   PaymentStatus `json:"payment_status" bson:"payment_status"`
	PaymentMethod   string        `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
}

type InvoiceFilter struct {
	PaymentStatus PaymentStatus
	Source        InvoiceSource
	From          Date
	To            Date
}

type Revenue struct {
	Total    int64  `json:"total"`
	Invoices int64  `json:"paid_invoices"`
	Day      string `json:"day,omitempty"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,payment_method"`
}
