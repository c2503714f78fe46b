package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPlaceholders(t *testing.T) {
	vars := map[string]string{
		"customer_name":  "Acme Traders",
		"invoice_number": "INV-20240315-7F3A2B",
		"amount_due":     "4500.00",
	}

	out := RenderPlaceholders("Dear {{customer_name}}, {{invoice_number}} has {{amount_due}} outstanding.", vars)
	assert.Equal(t, "Dear Acme Traders, INV-20240315-7F3A2B has 4500.00 outstanding.", out)
}

func TestRenderPlaceholdersUnknownLeftInPlace(t *testing.T) {
	out := RenderPlaceholders("Hello {{customer_name}}, ref {{not_a_var}}.", map[string]string{
		"customer_name": "Acme",
	})
	assert.Equal(t, "Hello Acme, ref {{not_a_var}}.", out)
}

func TestRenderPlaceholdersRepeated(t *testing.T) {
	out := RenderPlaceholders("{{x}} and {{x}}", map[string]string{"x": "twice"})
	assert.Equal(t, "twice and twice", out)
}

func TestRenderPlaceholdersNoVars(t *testing.T) {
	assert.Equal(t, "plain text", RenderPlaceholders("plain text", nil))
}
