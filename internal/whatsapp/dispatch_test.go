package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"notify-gateway/internal/ratelimit"
	"notify-gateway/internal/settings"
	"notify-gateway/internal/store"

	"github.com/rs/zerolog"
)

func testConfig(apiURL string) *settings.ChannelConfig {
	cfg := &settings.ChannelConfig{
		Source:          settings.SourceDefault,
		AccessToken:     "token",
		PhoneNumberID:   "111000",
		APIURL:          apiURL,
		DefaultLanguage: "en",
		Enabled:         true,
		Templates:       map[settings.TemplateType]settings.TemplateSpec{},
	}
	for _, typ := range []settings.TemplateType{settings.TemplateInvoice, settings.TemplateLogin, settings.TemplateGeneric} {
		cfg.Templates[typ] = settings.TemplateSpec{
			Name:               string(typ),
			Language:           "en",
			RequiredParameters: settings.RequiredParameters(typ),
		}
	}
	return cfg
}

func unconfigured() *settings.ChannelConfig {
	cfg := testConfig("")
	cfg.AccessToken = ""
	cfg.PhoneNumberID = ""
	return cfg
}

func newTestDispatcher(opts DispatcherOptions) *Dispatcher {
	return NewDispatcher(NewClient(2*time.Second), opts, zerolog.Nop())
}

type recordedCall struct {
	Method  string
	Outcome string
}

type memoryRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *memoryRecorder) Record(orgID, templateType, recipient, method, outcome, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{Method: method, Outcome: outcome})
}

func TestDispatchUnconfiguredFallsBack(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})

	result := d.Dispatch(context.Background(), unconfigured(), "org1", "+18095551234", settings.TemplateLogin, map[string]string{
		"code":   "123456",
		"expiry": "10 minutes",
	})

	if !result.Success {
		t.Fatalf("fallback dispatch should succeed: %+v", result)
	}
	if result.Method != MethodFallback {
		t.Fatalf("method = %s, want fallback", result.Method)
	}
	if !strings.Contains(result.FallbackLink, "123456") {
		t.Fatalf("fallback link must carry the code: %s", result.FallbackLink)
	}
}

func TestDispatchPrimarySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("authorization = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/111000/messages") {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"messages":[{"id":"wamid.ABC123"}]}`))
	}))
	defer srv.Close()

	d := newTestDispatcher(DispatcherOptions{})
	result := d.Dispatch(context.Background(), testConfig(srv.URL), "org1", "+18095551234", settings.TemplateGeneric, map[string]string{
		"recipientName": "Ana",
		"message":       "rent is due",
	})

	if !result.Success || result.Method != MethodPrimary {
		t.Fatalf("want primary success, got %+v", result)
	}
	if result.MessageID != "wamid.ABC123" {
		t.Fatalf("messageId = %s", result.MessageID)
	}
}

func TestDispatchRemoteRejectionFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Error validating access token","code":190}}`))
	}))
	defer srv.Close()

	rec := &memoryRecorder{}
	d := newTestDispatcher(DispatcherOptions{Auditor: rec})
	result := d.Dispatch(context.Background(), testConfig(srv.URL), "org1", "+18095551234", settings.TemplateGeneric, map[string]string{
		"recipientName": "Ana",
		"message":       "rent is due",
	})

	if !result.Success || result.Method != MethodFallback {
		t.Fatalf("remote rejection must fall back, got %+v", result)
	}
	if result.FallbackLink == "" {
		t.Fatalf("fallback link missing")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) != 1 || rec.calls[0].Outcome != OutcomeFallback {
		t.Fatalf("audit calls = %+v", rec.calls)
	}
}

func TestDispatchTransportFailureFallsBack(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := newTestDispatcher(DispatcherOptions{})
	result := d.Dispatch(context.Background(), testConfig(srv.URL), "org1", "+18095551234", settings.TemplateGeneric, map[string]string{
		"recipientName": "Ana",
		"message":       "rent is due",
	})

	if !result.Success || result.Method != MethodFallback {
		t.Fatalf("transport failure must fall back, got %+v", result)
	}
}

func TestDispatchMalformedRecipient(t *testing.T) {
	d := newTestDispatcher(DispatcherOptions{})
	result := d.Dispatch(context.Background(), unconfigured(), "org1", "not-a-number", settings.TemplateGeneric, nil)

	if result.Success {
		t.Fatalf("malformed recipient must fail: %+v", result)
	}
	if result.Error == "" {
		t.Fatalf("error message missing")
	}
}

func TestDispatchRecipientRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(store.NewMemory(), zerolog.Nop())
	d := newTestDispatcher(DispatcherOptions{
		Limiter:         limiter,
		RecipientLimit:  10,
		RecipientWindow: time.Hour,
	})

	var last DeliveryResult
	for i := 0; i < 11; i++ {
		last = d.Dispatch(context.Background(), unconfigured(), "org1", "+18095551234", settings.TemplateLogin, map[string]string{
			"code": "123456", "expiry": "10 minutes",
		})
		if i < 10 && !last.Success {
			t.Fatalf("dispatch %d should be allowed: %+v", i+1, last)
		}
	}
	if last.Success {
		t.Fatalf("11th dispatch within window should be denied")
	}
	if !last.RateLimited {
		t.Fatalf("denial must carry the rate-limited flag: %+v", last)
	}
	if !strings.Contains(last.Error, "rate limit") {
		t.Fatalf("error = %q", last.Error)
	}
}
