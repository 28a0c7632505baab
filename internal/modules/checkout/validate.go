package checkout

import (
	"regexp"
	"strings"
	"time"

	"github.com/chimustore/chimu-backend/internal/modules/payment"
)

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits  = regexp.MustCompile(`\D`)
	cvvShape   = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateField maps a field name and raw input to an error message, or ""
// when the value is valid. Each rule is evaluated independently; only the
// expiration rule consults the supplied current time.
func ValidateField(name, raw string, now time.Time) string {
	trimmed := strings.TrimSpace(raw)

	switch name {
	case "nombre", "apellido":
		if len(trimmed) < 2 {
			return "Debe tener al menos 2 caracteres"
		}

	case "email":
		if !emailShape.MatchString(trimmed) {
			return "Email inválido"
		}

	case "telefono":
		if len(nonDigits.ReplaceAllString(raw, "")) != 9 {
			return "El teléfono debe tener 9 dígitos"
		}

	case "direccion":
		if len(trimmed) < 5 {
			return "Dirección demasiado corta"
		}

	case "ciudad":
		if len(trimmed) < 2 {
			return "Ciudad inválida"
		}

	case "departamento":
		if trimmed == "" {
			return "Selecciona un departamento"
		}

	case "numeroTarjeta":
		// Coarse 16-digit pre-check; the gateway applies the stricter
		// Luhn rule over 13-19 digits at charge time. Both must pass.
		if len(nonDigits.ReplaceAllString(raw, "")) != 16 {
			return "El número de tarjeta debe tener 16 dígitos"
		}

	case "nombreTarjeta":
		if len(trimmed) < 3 {
			return "Nombre en tarjeta inválido"
		}

	case "fechaExpiracion":
		if !payment.ValidateExpirationDate(trimmed, now) {
			return "Fecha de expiración inválida o tarjeta expirada"
		}

	case "cvv":
		if !cvvShape.MatchString(trimmed) {
			return "CVV inválido"
		}
	}

	return ""
}

// stepFields lists which form fields each wizard step validates.
var stepFields = map[Step][]string{
	StepDetails:  {"nombre", "apellido", "email", "telefono"},
	StepShipping: {"direccion", "ciudad", "departamento"}, // codigoPostal is optional
	StepPayment:  {},                                      // depends on the payment method
}

// cardFields are the extra payment-step fields when paying by card.
var cardFields = []string{"numeroTarjeta", "nombreTarjeta", "fechaExpiracion", "cvv"}

// ValidateStep evaluates every field relevant to the step and returns the
// error map keyed by field name plus overall validity.
func ValidateStep(step Step, form Form, now time.Time) (map[string]string, bool) {
	fields := stepFields[step]
	if step == StepPayment && form.Method == payment.MethodCard {
		fields = cardFields
	}

	errs := map[string]string{}
	for _, name := range fields {
		if msg := ValidateField(name, form.Field(name), now); msg != "" {
			errs[name] = msg
		}
	}
	return errs, len(errs) == 0
}

// ValidatePaymentData is the defensive re-check run at submit time: the
// step-level field rules plus the gateway's own card validators.
func ValidatePaymentData(form Form, now time.Time) (map[string]string, bool) {
	if form.Method != payment.MethodCard {
		return map[string]string{}, true
	}
	errs, _ := ValidateStep(StepPayment, form, now)
	if _, dup := errs["numeroTarjeta"]; !dup && !payment.ValidateCardNumber(form.CardNumber) {
		errs["numeroTarjeta"] = "Número de tarjeta inválido"
	}
	return errs, len(errs) == 0
}

// joinErrors flattens an error map into one toast-friendly message.
func joinErrors(errs map[string]string) string {
	msgs := make([]string, 0, len(errs))
	for _, name := range append(append([]string{}, append(stepFields[StepDetails], stepFields[StepShipping]...)...), cardFields...) {
		if msg, ok := errs[name]; ok {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		for _, msg := range errs {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, ", ")
}
