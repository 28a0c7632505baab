package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa test number", "4111111111111111", true},
		{"visa with spaces", "4532 0151 1283 0366", true},
		{"visa with dashes", "4532-0151-1283-0366", true},
		{"amex 15 digits", "378282246310005", true},
		{"transposed digits fail luhn", "4532015112830636", false},
		{"too short", "411111111111", false},
		{"too long", "41111111111111111111", false},
		{"letters", "4111a11111111111", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCardNumber(tt.number))
		})
	}
}

func TestValidateExpirationDate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		exp  string
		want bool
	}{
		{"future year", "12/26", true},
		{"current month", "06/25", true},
		{"previous month same year", "05/25", false},
		{"past year", "01/20", false},
		{"far future accepted", "12/99", true},
		{"month thirteen", "13/26", false},
		{"month zero", "00/26", false},
		{"missing slash", "1226", false},
		{"single digit month", "6/25", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateExpirationDate(tt.exp, now))
		})
	}
}

func TestValidateCVV(t *testing.T) {
	assert.True(t, ValidateCVV("123"))
	assert.True(t, ValidateCVV("1234"))
	assert.False(t, ValidateCVV("12"))
	assert.False(t, ValidateCVV("12345"))
	assert.False(t, ValidateCVV("12a"))
}

func TestValidateWalletPhone(t *testing.T) {
	assert.True(t, ValidateWalletPhone("987654321"))
	assert.False(t, ValidateWalletPhone("887654321"), "must start with 9")
	assert.False(t, ValidateWalletPhone("98765432"), "too short")
	assert.False(t, ValidateWalletPhone("9876543210"), "too long")
	assert.False(t, ValidateWalletPhone(""))
}

func TestCardTypeOf(t *testing.T) {
	tests := []struct {
		number string
		want   CardType
	}{
		{"4111111111111111", CardVisa},
		{"5555555555554444", CardMastercard},
		{"2221000000000009", CardMastercard},
		{"378282246310005", CardAmex},
		{"30569309025904", CardDiners},
		{"36227206271667", CardDiners},
		{"6011111111111117", CardUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CardTypeOf(tt.number), tt.number)
	}
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 1234", MaskCardNumber("4532 0151 1283 1234"))
	assert.Equal(t, "**** **** **** 0005", MaskCardNumber("378282246310005"))
	assert.Equal(t, "**** **** **** 12", MaskCardNumber("12"))
}
