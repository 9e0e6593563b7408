package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"notify-gateway/internal/config"
	"notify-gateway/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// OverrideSource looks up the persisted per-organization channel
// override. A nil settings pointer with nil error means no override.
type OverrideSource interface {
	WhatsAppOverride(ctx context.Context, orgID string) (*models.WhatsAppSettings, error)
}

// GormSource reads the override from the thirdParties document on the
// organization record.
type GormSource struct {
	DB *gorm.DB
}

func (g *GormSource) WhatsAppOverride(ctx context.Context, orgID string) (*models.WhatsAppSettings, error) {
	var org models.Organization
	err := g.DB.WithContext(ctx).First(&org, "id = ?", orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return org.WhatsAppOverride(), nil
}

type cachedConfig struct {
	cfg        *ChannelConfig
	resolvedAt time.Time
}

// Resolver resolves channel configuration with a short-lived in-memory
// cache. The cache is per-process: in a multi-instance deployment other
// instances observe settings changes within the cache timeout, not
// immediately.
type Resolver struct {
	source       OverrideSource
	defaults     *config.Config
	cacheTimeout time.Duration
	log          zerolog.Logger

	mu    sync.Mutex
	cache map[string]cachedConfig
}

func NewResolver(source OverrideSource, defaults *config.Config, log zerolog.Logger) *Resolver {
	timeout := defaults.ConfigCacheTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Resolver{
		source:       source,
		defaults:     defaults,
		cacheTimeout: timeout,
		log:          log.With().Str("component", "settings").Logger(),
		cache:        make(map[string]cachedConfig),
	}
}

// Resolve returns the active channel configuration for an organization.
// Resolution order: fresh cache entry, active persisted override,
// process defaults. Errors reading the override are swallowed so a
// settings lookup can never block a dispatch.
func (r *Resolver) Resolve(ctx context.Context, orgID string) *ChannelConfig {
	r.mu.Lock()
	if entry, ok := r.cache[orgID]; ok && time.Since(entry.resolvedAt) < r.cacheTimeout {
		r.mu.Unlock()
		return entry.cfg
	}
	r.mu.Unlock()

	cfg := r.lookup(ctx, orgID)

	r.mu.Lock()
	r.cache[orgID] = cachedConfig{cfg: cfg, resolvedAt: time.Now()}
	r.mu.Unlock()
	return cfg
}

func (r *Resolver) lookup(ctx context.Context, orgID string) *ChannelConfig {
	override, err := r.source.WhatsAppOverride(ctx, orgID)
	if err != nil {
		r.log.Warn().Err(err).Str("org", orgID).Msg("override lookup failed, using defaults")
		return r.defaultConfig()
	}
	if override == nil || !override.IsActive {
		return r.defaultConfig()
	}
	return r.persistedConfig(override)
}

// Invalidate drops the cached configuration for one organization.
// Called by the settings management surface after an update.
func (r *Resolver) Invalidate(orgID string) {
	r.mu.Lock()
	delete(r.cache, orgID)
	r.mu.Unlock()
}

// InvalidateAll drops every cached configuration.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]cachedConfig)
	r.mu.Unlock()
}

func (r *Resolver) defaultConfig() *ChannelConfig {
	d := r.defaults
	cfg := &ChannelConfig{
		Source:          SourceDefault,
		AccessToken:     d.WhatsAppToken,
		PhoneNumberID:   d.PhoneNumberID,
		APIURL:          d.WhatsAppAPIURL,
		DefaultLanguage: d.DefaultLanguage,
		Enabled:         true,
		Templates:       make(map[TemplateType]TemplateSpec),
	}
	names := map[TemplateType]string{
		TemplateInvoice:         d.InvoiceTemplate,
		TemplatePaymentReceived: d.PaymentReceivedTemplate,
		TemplatePaymentReminder: d.PaymentReminderTemplate,
		TemplateLogin:           d.LoginTemplate,
		TemplateWelcome:         d.WelcomeTemplate,
		TemplateGeneric:         d.GenericTemplate,
	}
	for t, name := range names {
		cfg.Templates[t] = TemplateSpec{
			Name:               name,
			Language:           d.DefaultLanguage,
			RequiredParameters: requiredParams[t],
		}
	}
	return cfg
}

func (r *Resolver) persistedConfig(o *models.WhatsAppSettings) *ChannelConfig {
	base := r.defaultConfig()
	cfg := &ChannelConfig{
		Source:          SourcePersisted,
		AccessToken:     o.AccessToken,
		PhoneNumberID:   o.PhoneNumberID,
		APIURL:          base.APIURL,
		DefaultLanguage: base.DefaultLanguage,
		Enabled:         true,
		Templates:       base.Templates,
	}
	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.DefaultLanguage != "" {
		cfg.DefaultLanguage = o.DefaultLanguage
	}
	if len(o.Templates) > 0 {
		merged := make(map[TemplateType]TemplateSpec, len(base.Templates))
		for t, spec := range base.Templates {
			merged[t] = spec
		}
		for rawType, name := range o.Templates {
			t := TemplateType(rawType)
			if !KnownTemplateType(t) {
				continue
			}
			merged[t] = TemplateSpec{
				Name:               name,
				Language:           cfg.DefaultLanguage,
				RequiredParameters: requiredParams[t],
			}
		}
		cfg.Templates = merged
	}
	return cfg
}
