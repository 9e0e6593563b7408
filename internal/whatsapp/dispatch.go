// Package whatsapp implements dual-channel message dispatch: a primary
// WhatsApp Cloud API attempt with a deterministic fallback to a
// manually-opened wa.me link whenever the API is unavailable,
// misconfigured or rejects the request. Fallback is a first-class
// outcome, not an error path.
package whatsapp

import (
	"context"
	"errors"
	"time"

	"notify-gateway/internal/ratelimit"
	"notify-gateway/internal/settings"
	"notify-gateway/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Method tags which channel produced a delivery result.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// Outcome values recorded by the auditor.
const (
	OutcomeDelivered = "delivered"
	OutcomeFallback  = "fallback"
	OutcomeRejected  = "rejected"
	OutcomeLimited   = "rate_limited"
)

// DeliveryResult is the per-recipient outcome of one dispatch. Success
// is false only when the recipient itself was unusable (validation or
// rate-limit denial); every reachable recipient yields an actionable
// result on one of the two channels.
type DeliveryResult struct {
	Recipient    string `json:"recipient"`
	Method       Method `json:"method,omitempty"`
	Success      bool   `json:"success"`
	MessageID    string `json:"messageId,omitempty"`
	FallbackLink string `json:"fallbackLink,omitempty"`
	Error        string `json:"error,omitempty"`
	// RateLimited marks a denial by the per-recipient quota, so the
	// HTTP layer can answer 429 instead of treating it as bad input.
	RateLimited bool `json:"rateLimited,omitempty"`
}

// Recorder is the delivery audit hook. Implementations must be
// fire-and-forget: a Record call never blocks or fails the dispatch.
type Recorder interface {
	Record(orgID, templateType, recipient, method, outcome, detail string)
}

// Dispatcher performs single and batch deliveries. The recipient rate
// limit and the outbound pacer are optional; a zero limit disables the
// per-recipient check.
type Dispatcher struct {
	client  *Client
	auditor Recorder
	limiter *ratelimit.Limiter
	pace    *rate.Limiter
	log     zerolog.Logger

	recipientLimit  int
	recipientWindow time.Duration
}

type DispatcherOptions struct {
	Auditor         Recorder
	Limiter         *ratelimit.Limiter
	RecipientLimit  int
	RecipientWindow time.Duration
	SendRatePerSec  int
}

func NewDispatcher(client *Client, opts DispatcherOptions, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		client:          client,
		auditor:         opts.Auditor,
		limiter:         opts.Limiter,
		log:             log.With().Str("component", "dispatch").Logger(),
		recipientLimit:  opts.RecipientLimit,
		recipientWindow: opts.RecipientWindow,
	}
	if opts.SendRatePerSec > 0 {
		d.pace = rate.NewLimiter(rate.Limit(opts.SendRatePerSec), opts.SendRatePerSec)
	}
	return d
}

// Dispatch performs one delivery attempt for one recipient. The flow:
// validate the recipient, consume its rate-limit quota, fill the
// template, try the primary channel, and on any primary failure return
// a fallback deep link carrying the rendered message text.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg *settings.ChannelConfig, orgID, recipient string, templateType settings.TemplateType, payload map[string]string) DeliveryResult {
	digits, err := NormalizePhone(recipient)
	if err != nil {
		d.record(orgID, templateType, recipient, "", OutcomeRejected, err.Error())
		return DeliveryResult{Recipient: recipient, Success: false, Error: err.Error()}
	}

	if d.limiter != nil && d.recipientLimit > 0 {
		decision := d.limiter.Check(ctx, store.NamespaceWhatsAppRate, digits, d.recipientLimit, d.recipientWindow)
		if !decision.Allowed {
			d.record(orgID, templateType, digits, "", OutcomeLimited, "recipient rate limit exceeded")
			return DeliveryResult{Recipient: recipient, Success: false, RateLimited: true, Error: "rate limit exceeded for recipient"}
		}
	}

	spec := cfg.Template(templateType)
	params := BuildParameters(spec, payload)
	text := RenderText(templateType, params)

	if cfg.Configured() {
		if d.pace != nil {
			if err := d.pace.Wait(ctx); err != nil {
				d.log.Warn().Err(err).Msg("send pacing interrupted")
			}
		}
		messageID, err := d.client.SendTemplate(ctx, cfg, digits, spec, params)
		if err == nil {
			d.record(orgID, templateType, digits, string(MethodPrimary), OutcomeDelivered, messageID)
			return DeliveryResult{
				Recipient: recipient,
				Method:    MethodPrimary,
				Success:   true,
				MessageID: messageID,
			}
		}
		d.logPrimaryFailure(err, digits)
	} else {
		cfgErr := &ConfigurationError{Reason: "no channel credentials for organization"}
		d.log.Info().Str("org", orgID).Str("reason", cfgErr.Error()).Msg("using fallback link")
	}

	link := FallbackLink(digits, text)
	d.record(orgID, templateType, digits, string(MethodFallback), OutcomeFallback, "")
	return DeliveryResult{
		Recipient:    recipient,
		Method:       MethodFallback,
		Success:      true,
		FallbackLink: link,
	}
}

// RecipientWindow exposes the per-recipient limit window for retry
// metadata on rate-limited responses.
func (d *Dispatcher) RecipientWindow() time.Duration {
	return d.recipientWindow
}

func (d *Dispatcher) logPrimaryFailure(err error, digits string) {
	var rejection *RemoteRejection
	if errors.As(err, &rejection) {
		d.log.Warn().Int("code", rejection.Code).Str("reason", rejection.Message).Msg("remote channel rejected message, falling back")
		return
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		d.log.Warn().Err(transport.Err).Msg("primary channel unreachable, falling back")
		return
	}
	d.log.Warn().Err(err).Msg("primary channel failed, falling back")
}

func (d *Dispatcher) record(orgID string, templateType settings.TemplateType, recipient, method, outcome, detail string) {
	if d.auditor == nil {
		return
	}
	d.auditor.Record(orgID, string(templateType), recipient, method, outcome, detail)
}
