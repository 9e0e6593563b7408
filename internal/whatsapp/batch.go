package whatsapp

import (
	"context"
	"sync"

	"notify-gateway/internal/settings"
)

const defaultMaxConcurrency = 5

// BatchOptions controls fan-out for SendBatch.
type BatchOptions struct {
	Concurrent     bool
	MaxConcurrency int
}

// SendBatch fans one dispatch out over many recipients. The result
// slice always has one entry per input recipient, in input order; an
// individual failure becomes a Success=false entry and never aborts
// the batch.
//
// Concurrent mode processes recipients in chunks of MaxConcurrency:
// recipients within a chunk are dispatched in parallel, chunks run
// strictly in order.
func (d *Dispatcher) SendBatch(ctx context.Context, cfg *settings.ChannelConfig, orgID string, recipients []string, templateType settings.TemplateType, payload map[string]string, opts BatchOptions) []DeliveryResult {
	results := make([]DeliveryResult, len(recipients))

	if !opts.Concurrent {
		for i, recipient := range recipients {
			results[i] = d.Dispatch(ctx, cfg, orgID, recipient, templateType, payload)
		}
		return results
	}

	chunkSize := opts.MaxConcurrency
	if chunkSize <= 0 {
		chunkSize = defaultMaxConcurrency
	}

	for start := 0; start < len(recipients); start += chunkSize {
		end := start + chunkSize
		if end > len(recipients) {
			end = len(recipients)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = d.Dispatch(ctx, cfg, orgID, recipients[idx], templateType, payload)
			}(i)
		}
		wg.Wait()
	}
	return results
}

// BatchSummary aggregates a result list for the HTTP response.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

func Summarize(results []DeliveryResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}
