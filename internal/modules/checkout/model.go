package checkout

import (
	"github.com/chimustore/chimu-backend/internal/modules/appstate"
	"github.com/chimustore/chimu-backend/internal/modules/payment"
)

// Step is a stage of the checkout wizard.
type Step int

const (
	StepDetails  Step = 1 // personal details
	StepShipping Step = 2 // shipping address
	StepPayment  Step = 3 // payment method
)

// ShippingCost is the flat shipping rate in soles.
const ShippingCost = 15.0

// Form holds every field of the three checkout steps. Fields keep the
// storefront's names so the error map lines up with the UI inputs.
type Form struct {
	// Step 1: personal details
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`

	// Step 2: shipping address
	Direccion    string `json:"direccion"`
	Ciudad       string `json:"ciudad"`
	Departamento string `json:"departamento"`
	CodigoPostal string `json:"codigo_postal"`

	// Step 3: payment
	Method     payment.Method `json:"metodo_pago"`
	CardNumber string         `json:"numero_tarjeta"`
	CardName   string         `json:"nombre_tarjeta"`
	Expiration string         `json:"fecha_expiracion"`
	CVV        string         `json:"cvv"`
}

// Field returns a form value by its field name.
func (f Form) Field(name string) string {
	switch name {
	case "nombre":
		return f.Nombre
	case "apellido":
		return f.Apellido
	case "email":
		return f.Email
	case "telefono":
		return f.Telefono
	case "direccion":
		return f.Direccion
	case "ciudad":
		return f.Ciudad
	case "departamento":
		return f.Departamento
	case "codigoPostal":
		return f.CodigoPostal
	case "numeroTarjeta":
		return f.CardNumber
	case "nombreTarjeta":
		return f.CardName
	case "fechaExpiracion":
		return f.Expiration
	case "cvv":
		return f.CVV
	}
	return ""
}

// setField writes a form value by its field name. Unknown names are ignored.
func (f *Form) setField(name, value string) {
	switch name {
	case "nombre":
		f.Nombre = value
	case "apellido":
		f.Apellido = value
	case "email":
		f.Email = value
	case "telefono":
		f.Telefono = value
	case "direccion":
		f.Direccion = value
	case "ciudad":
		f.Ciudad = value
	case "departamento":
		f.Departamento = value
	case "codigoPostal":
		f.CodigoPostal = value
	case "metodoPago":
		f.Method = payment.Method(value)
	case "numeroTarjeta":
		f.CardNumber = value
	case "nombreTarjeta":
		f.CardName = value
	case "fechaExpiracion":
		f.Expiration = value
	case "cvv":
		f.CVV = value
	}
}

// Confirmation is the order summary carried to the confirmation view.
type Confirmation struct {
	OrderNumber   string              `json:"order_number"`
	OrderDate     string              `json:"order_date"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Total         float64             `json:"total"`
	Items         []appstate.CartLine `json:"items"`
	TransactionID string              `json:"transaction_id"`
	PaymentMethod payment.Method      `json:"payment_method"`
}

// View is a read-only snapshot of a checkout session for the UI.
type View struct {
	ID           string              `json:"id"`
	Step         Step                `json:"step"`
	Processing   bool                `json:"processing"`
	ExitConfirm  bool                `json:"exit_confirm"`
	Form         Form                `json:"form"`
	Errors       map[string]string   `json:"errors"`
	Items        []appstate.CartLine `json:"items"`
	Subtotal     float64             `json:"subtotal"`
	Shipping     float64             `json:"shipping"`
	Total        float64             `json:"total"`
	Confirmation *Confirmation       `json:"confirmation,omitempty"`
}
