package payment

import (
	"time"

	"github.com/google/uuid"
)

// Method is a supported payment method.
type Method string

const (
	MethodCard Method = "tarjeta"
	MethodYape Method = "yape"
	MethodPlin Method = "plin"
)

// IsWallet reports whether the method is one of the digital wallets.
func (m Method) IsWallet() bool { return m == MethodYape || m == MethodPlin }

// CardType is the card network derived from the leading digits.
type CardType string

const (
	CardVisa       CardType = "visa"
	CardMastercard CardType = "mastercard"
	CardAmex       CardType = "amex"
	CardDiners     CardType = "diners"
	CardUnknown    CardType = "unknown"
)

// TxStatus is the lifecycle state of a recorded payment attempt.
type TxStatus string

const (
	TxCompleted TxStatus = "COMPLETED"
	TxDeclined  TxStatus = "DECLINED"
	TxRejected  TxStatus = "REJECTED" // failed validation, never reached processing
)

// CardPayment is the input to the card path of the simulator.
type CardPayment struct {
	CardNumber     string  `json:"card_number"`
	CardName       string  `json:"card_name"`
	ExpirationDate string  `json:"expiration_date"` // MM/YY
	CVV            string  `json:"cvv"`
	Amount         float64 `json:"amount"`
}

// WalletPayment is the input to the Yape/Plin path of the simulator.
type WalletPayment struct {
	Method      Method  `json:"method"`
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
}

// Result is a successful payment outcome.
type Result struct {
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Method        Method    `json:"method"`
	CardType      CardType  `json:"card_type,omitempty"`
	MaskedCard    string    `json:"masked_card,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	QRCode        string    `json:"qr_code,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Transaction is the persisted record of one payment attempt.
type Transaction struct {
	ID            uuid.UUID `json:"id"`
	TransactionID string    `json:"transaction_id,omitempty"` // empty unless approved
	Method        Method    `json:"method"`
	Status        TxStatus  `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	CardType      CardType  `json:"card_type,omitempty"`
	MaskedCard    string    `json:"masked_card,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
