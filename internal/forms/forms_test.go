package forms

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		want  string
	}{
		{"required missing", Rule{Required: true}, "", "campo is required"},
		{"required blank", Rule{Required: true}, "   ", "campo is required"},
		{"optional missing", Rule{MinLength: 5}, "", ""},
		{"min length short", Rule{MinLength: 5}, "abc", "campo must be at least 5 characters"},
		{"min length trims", Rule{MinLength: 3}, "  ab  ", "campo must be at least 3 characters"},
		{"max length long", Rule{MaxLength: 3}, "abcd", "campo must be at most 3 characters"},
		{"pattern mismatch", Rule{Pattern: regexp.MustCompile(`^\d+$`)}, "12a", "campo has an invalid format"},
		{"pattern match", Rule{Pattern: regexp.MustCompile(`^\d+$`)}, "123", ""},
		{"custom message wins", Rule{Required: true, Message: "Obligatorio"}, "", "Obligatorio"},
		{"custom validator", Rule{Custom: func(v string) string {
			if v != "ok" {
				return "not ok"
			}
			return ""
		}}, "nope", "not ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Validate("campo", tt.value))
		})
	}
}

func TestRulesValidate(t *testing.T) {
	rules := Rules{
		"nombre": {Required: true, MinLength: 2},
		"email":  {Required: true, Pattern: regexp.MustCompile(`@`)},
		"nota":   {MaxLength: 10},
	}

	errs := rules.Validate(map[string]string{
		"nombre": "A",
		"email":  "sin-arroba",
	})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "nombre")
	assert.Contains(t, errs, "email")
	assert.NotContains(t, errs, "nota", "optional absent field is valid")

	errs = rules.Validate(map[string]string{
		"nombre": "Ana",
		"email":  "ana@chimu.pe",
	})
	assert.Empty(t, errs)
}

func TestFirstError(t *testing.T) {
	errs := map[string]string{"b": "error b", "a": "error a"}

	assert.Equal(t, "error a", FirstError(errs, "a", "b"))
	assert.Equal(t, "error b", FirstError(errs, "b", "a"))
	assert.NotEmpty(t, FirstError(errs), "no order still returns something")
	assert.Empty(t, FirstError(map[string]string{}, "a"))
}
