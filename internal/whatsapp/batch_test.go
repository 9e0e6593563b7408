package whatsapp

import (
	"context"
	"testing"

	"notify-gateway/internal/settings"
)

var invoicePayload = map[string]string{
	"tenantName":       "Ana",
	"invoicePeriod":    "August 2026",
	"totalAmount":      "450.00",
	"currency":         "USD",
	"dueDate":          "2026-09-05",
	"organizationName": "Sunset Properties",
}

func TestSendBatchSequentialLengthAndOrder(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	recipients := []string{"+18095551111", "+18095552222", "+18095553333"}

	results := d.SendBatch(context.Background(), unconfigured(), "org1", recipients, settings.TemplateInvoice, invoicePayload, BatchOptions{})

	if len(results) != len(recipients) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(recipients))
	}
	for i, r := range results {
		if r.Recipient != recipients[i] {
			t.Fatalf("result %d recipient = %s, want %s", i, r.Recipient, recipients[i])
		}
		if !r.Success || r.Method != MethodFallback {
			t.Fatalf("result %d = %+v", i, r)
		}
	}
}

func TestSendBatchConcurrentMalformedRecipient(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	recipients := []string{"+18095551111", "+18095552222", "bogus", "+18095554444", "+18095555555"}

	results := d.SendBatch(context.Background(), unconfigured(), "org1", recipients, settings.TemplateInvoice, invoicePayload, BatchOptions{
		Concurrent:     true,
		MaxConcurrency: 2,
	})

	if len(results) != 5 {
		t.Fatalf("len(results) = %d, want 5", len(results))
	}
	for i, r := range results {
		if i == 2 {
			if r.Success {
				t.Fatalf("malformed recipient should fail: %+v", r)
			}
			continue
		}
		if !r.Success {
			t.Fatalf("result %d should succeed: %+v", i, r)
		}
	}
}

func TestSendBatchConcurrentDefaultsChunkSize(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	recipients := make([]string, 12)
	for i := range recipients {
		recipients[i] = "+1809555" + string(rune('0'+i%10)) + "000"
	}

	results := d.SendBatch(context.Background(), unconfigured(), "org1", recipients, settings.TemplateInvoice, invoicePayload, BatchOptions{
		Concurrent: true,
	})
	if len(results) != len(recipients) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(recipients))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]DeliveryResult{
		{Success: true},
		{Success: false},
		{Success: true},
	})
	if s.Total != 3 || s.Successful != 2 || s.Failed != 1 {
		t.Fatalf("summary = %+v", s)
	}
}
