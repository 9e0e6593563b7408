// Package settings resolves the WhatsApp channel configuration for a
// tenant organization: a persisted per-organization override when one
// is active, otherwise process-wide defaults from the environment.
package settings

// Source tags where a resolved configuration came from.
type Source string

const (
	SourcePersisted Source = "persisted"
	SourceDefault   Source = "default"
)

// TemplateType identifies a tenant communication.
type TemplateType string

const (
	TemplateInvoice         TemplateType = "invoice"
	TemplatePaymentReceived TemplateType = "payment_received"
	TemplatePaymentReminder TemplateType = "payment_reminder"
	TemplateLogin           TemplateType = "login"
	TemplateWelcome         TemplateType = "welcome"
	TemplateGeneric         TemplateType = "generic"
)

// TemplateSpec describes one approved template. Immutable once resolved
// for a send: RequiredParameters fixes the order the channel expects.
type TemplateSpec struct {
	Name               string
	Language           string
	RequiredParameters []string
}

// ChannelConfig is the resolved channel configuration for one
// organization. Readers never mutate it; the resolver replaces cache
// entries wholesale.
type ChannelConfig struct {
	Source          Source
	AccessToken     string
	PhoneNumberID   string
	APIURL          string
	DefaultLanguage string
	Enabled         bool
	Templates       map[TemplateType]TemplateSpec
}

// Configured reports whether the primary channel has usable credentials.
func (c *ChannelConfig) Configured() bool {
	return c != nil && c.Enabled && c.AccessToken != "" && c.PhoneNumberID != ""
}

// Template returns the spec for a template type. It never returns a
// zero spec: unknown types resolve to the generic template so every
// recognized communication stays sendable.
func (c *ChannelConfig) Template(t TemplateType) TemplateSpec {
	if spec, ok := c.Templates[t]; ok {
		return spec
	}
	if spec, ok := c.Templates[TemplateGeneric]; ok {
		return spec
	}
	return TemplateSpec{
		Name:               "generic_notice",
		Language:           c.DefaultLanguage,
		RequiredParameters: requiredParams[TemplateGeneric],
	}
}

// TemplateTypes lists the template types available on this config.
func (c *ChannelConfig) TemplateTypes() []string {
	types := make([]string, 0, len(c.Templates))
	for t := range c.Templates {
		types = append(types, string(t))
	}
	return types
}

// requiredParams fixes the ordered parameter list per template type.
// Persisted overrides may rename a template but the parameter order is
// part of the dispatch contract, so it lives in code.
var requiredParams = map[TemplateType][]string{
	TemplateInvoice:         {"tenantName", "invoicePeriod", "totalAmount", "currency", "dueDate", "organizationName"},
	TemplatePaymentReceived: {"tenantName", "amount", "currency", "receiptNumber"},
	TemplatePaymentReminder: {"tenantName", "invoicePeriod", "totalAmount", "currency", "dueDate"},
	TemplateLogin:           {"code", "expiry"},
	TemplateWelcome:         {"tenantName", "organizationName"},
	TemplateGeneric:         {"recipientName", "message"},
}

// RequiredParameters exposes the parameter order for a template type.
func RequiredParameters(t TemplateType) []string {
	if params, ok := requiredParams[t]; ok {
		return params
	}
	return requiredParams[TemplateGeneric]
}

// KnownTemplateType reports whether t is a recognized template type.
func KnownTemplateType(t TemplateType) bool {
	_, ok := requiredParams[t]
	return ok
}
