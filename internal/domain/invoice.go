package domain

import "github.com/uptrace/bun"

// PaymentMethod é a forma de pagamento da fatura.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCredit PaymentMethod = "Credit"
)

// Invoice é a fatura de uma consulta (Appointment).
type Invoice struct {
	bun.BaseModel `bun:"table:invoices,alias:i" json:"-"`

	ID            int64         `bun:"id,pk,autoincrement" json:"id"`
	AppID         int64         `bun:"app_id,notnull" json:"app_id"`
	Price         int64         `bun:"price,notnull" json:"price"` // Em centavos
	PaymentMethod PaymentMethod `bun:"payment_method,notnull" json:"payment_method"`
}

func (i *Invoice) GetID() int64 { return i.ID }

// InvoiceRequest é o payload de criação/atualização de fatura.
type InvoiceRequest struct {
	AppID         int64         `json:"app_id" validate:"required,gt=0"`
	Price         int64         `json:"price" validate:"gte=0"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=Cash Credit"`
}
