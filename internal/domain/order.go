package domain

import "time"

type Order struct {
	ID          uint
	OrderNumber string
	TableID     uint
	Items       []OrderLine
	Status      string
	PaymentType *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderLine snapshots name/price/category at order time so later menu edits
// never change historical orders.
type OrderLine struct {
	ID       uint
	ItemID   uint
	Name     string
	Price    float64
	Quantity int
	Category string
	ImageURL *string
	Note     *string
}

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

const (
	PaymentTypeUPI  = "UPI"
	PaymentTypeCash = "Cash"
	PaymentTypeBank = "Bank"
	PaymentTypeCard = "Card"
)

func IsValidPaymentType(paymentType string) bool {
	switch paymentType {
	case PaymentTypeUPI, PaymentTypeCash, PaymentTypeBank, PaymentTypeCard:
		return true
	}
	return false
}

func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

func (o Order) Total() float64 {
	total := 0.0
	for _, line := range o.Items {
		total += line.Subtotal()
	}
	return total
}

func (o Order) ItemCount() int {
	count := 0
	for _, line := range o.Items {
		count += line.Quantity
	}
	return count
}
