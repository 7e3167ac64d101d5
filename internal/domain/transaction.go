package domain

import "time"

// Payment methods accepted at the register.
const (
	PaymentMethodCash    = "cash"
	PaymentMethodCard    = "card"
	PaymentMethodDebit   = "debit"
	PaymentMethodCredit  = "credit"
	PaymentMethodEwallet = "e-wallet"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodDebit,
	PaymentMethodCredit,
	PaymentMethodEwallet,
}

// ValidPaymentMethod reports whether method is one of PaymentMethods.
func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Transaction is a committed sale header. Rows are immutable once created;
// there is no update or delete path.
type Transaction struct {
	ID              int64     `gorm:"primaryKey" json:"id,string"`
	CustomerID      *int64    `gorm:"index" json:"customer_id,omitempty"`
	TotalAmount     float64   `gorm:"type:decimal(10,2)" json:"total_amount"`
	PaymentAmount   float64   `gorm:"type:decimal(10,2)" json:"payment_amount"`
	ChangeAmount    float64   `gorm:"type:decimal(10,2)" json:"change_amount"`
	PaymentMethod   string    `gorm:"size:32;default:cash" json:"payment_method"`
	TransactionDate time.Time `gorm:"index" json:"transaction_date"`
}

// TableName Specify table name
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one sold line of a Transaction. Price is the unit price
// at sale time, decoupled from later product price changes.
type TransactionItem struct {
	ID            int64     `gorm:"primaryKey" json:"id,string"`
	TransactionID int64     `gorm:"index" json:"transaction_id,string"`
	ProductID     int64     `gorm:"index" json:"product_id,string"`
	Quantity      int       `json:"quantity"`
	Price         float64   `gorm:"type:decimal(10,2)" json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName Specify table name
func (TransactionItem) TableName() string {
	return "transaction_items"
}
