package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"notify-gateway/internal/settings"
)

// BuildParameters returns the ordered parameter values for a template.
// A missing payload field becomes a visible bracketed placeholder
// instead of an empty string, so a broken payload ships as "[dueDate]"
// rather than a template with a blank slot.
func BuildParameters(spec settings.TemplateSpec, payload map[string]string) []string {
	params := make([]string, 0, len(spec.RequiredParameters))
	for _, field := range spec.RequiredParameters {
		value, ok := payload[field]
		if !ok || value == "" {
			value = "[" + field + "]"
		}
		params = append(params, value)
	}
	return params
}

// messageBodies holds the human-readable text per template type, used
// to build the fallback deep link when the API channel is unavailable.
var messageBodies = map[settings.TemplateType]string{
	settings.TemplateInvoice:         "Hello %s, your invoice for %s is ready. Amount due: %s %s, payable by %s. — %s",
	settings.TemplatePaymentReceived: "Hello %s, we received your payment of %s %s. Receipt number: %s. Thank you!",
	settings.TemplatePaymentReminder: "Hello %s, a reminder that your invoice for %s (%s %s) is due on %s.",
	settings.TemplateLogin:           "Your login code is %s. It expires in %s.",
	settings.TemplateWelcome:         "Welcome %s! Your tenant portal for %s is ready.",
	settings.TemplateGeneric:         "Hello %s, %s",
}

// RenderText renders the message body for a template type from the
// ordered parameter list built by BuildParameters.
func RenderText(t settings.TemplateType, params []string) string {
	body, ok := messageBodies[t]
	if !ok {
		body = messageBodies[settings.TemplateGeneric]
	}
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return fmt.Sprintf(body, args...)
}

// FallbackLink builds the manually-opened deep link for a normalized
// recipient and rendered message text. Percent-decoding the text query
// parameter reproduces the rendered message exactly, so spaces are
// encoded as %20 rather than the form-style plus sign.
func FallbackLink(digits, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + escaped
}
