// Package audit records each dispatch attempt for traceability. It is
// a pure side-effect sink: writes happen in the background and a failed
// write is logged locally, never surfaced to the dispatch caller.
package audit

import (
	"crypto/sha256"
	"encoding/hex"

	"notify-gateway/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Auditor struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAuditor(db *gorm.DB, log zerolog.Logger) *Auditor {
	return &Auditor{db: db, log: log.With().Str("component", "audit").Logger()}
}

// Record appends one delivery audit row. Fire-and-forget: the insert
// runs in its own goroutine and the recipient is stored masked plus
// fingerprinted, never raw.
func (a *Auditor) Record(orgID, templateType, recipient, method, outcome, detail string) {
	rec := models.DeliveryLog{
		ID:                   uuid.NewString(),
		OrganizationID:       orgID,
		TemplateType:         templateType,
		RecipientMasked:      Mask(recipient),
		RecipientFingerprint: Fingerprint(recipient),
		Method:               method,
		Outcome:              outcome,
		Detail:               detail,
	}
	go func() {
		if err := a.db.Create(&rec).Error; err != nil {
			a.log.Warn().Err(err).Str("outcome", outcome).Msg("audit write failed")
		}
	}()
}

// Mask keeps the first four and last two characters of an identifier.
func Mask(s string) string {
	if len(s) <= 6 {
		return "…"
	}
	return s[:4] + "…" + s[len(s)-2:]
}

// Fingerprint returns a short stable hash of an identifier, enough to
// correlate audit rows without storing the identifier itself.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
