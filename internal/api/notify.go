package api

import (
	"net/http"
	"strconv"

	"notify-gateway/internal/settings"
	"notify-gateway/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type NotifyHandler struct {
	Dispatcher *whatsapp.Dispatcher
	Resolver   *settings.Resolver
	Log        zerolog.Logger
}

func NewNotifyHandler(dispatcher *whatsapp.Dispatcher, resolver *settings.Resolver, log zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{Dispatcher: dispatcher, Resolver: resolver, Log: log}
}

type SendMessageRequest struct {
	OrganizationID string `json:"organizationId"`
	PhoneNumber    string `json:"phoneNumber" binding:"required"`
	Message        string `json:"message" binding:"required"`
	RecipientName  string `json:"recipientName"`
}

// SendMessage dispatches a single generic notice to one recipient.
func (h *NotifyHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := h.Resolver.Resolve(c.Request.Context(), req.OrganizationID)
	payload := map[string]string{
		"recipientName": req.RecipientName,
		"message":       req.Message,
	}

	result := h.Dispatcher.Dispatch(c.Request.Context(), cfg, req.OrganizationID, req.PhoneNumber, settings.TemplateGeneric, payload)
	if result.RateLimited {
		window := int(h.Dispatcher.RecipientWindow().Seconds())
		c.Header("Retry-After", strconv.Itoa(window))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": result.Error, "retryAfterSeconds": window})
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	resp := gin.H{"method": result.Method}
	if result.Method == whatsapp.MethodPrimary {
		resp["messageId"] = result.MessageID
	} else {
		resp["fallbackLink"] = result.FallbackLink
	}
	c.JSON(http.StatusOK, resp)
}

type SendInvoiceRequest struct {
	OrganizationID   string   `json:"organizationId"`
	PhoneNumbers     []string `json:"phoneNumbers" binding:"required"`
	TenantName       string   `json:"tenantName"`
	InvoicePeriod    string   `json:"invoicePeriod"`
	TotalAmount      string   `json:"totalAmount"`
	Currency         string   `json:"currency"`
	DueDate          string   `json:"dueDate"`
	OrganizationName string   `json:"organizationName"`
	Concurrent       bool     `json:"concurrent"`
	MaxConcurrency   int      `json:"maxConcurrency"`
}

// SendInvoice fans the invoice template out to every recipient and
// reports per-recipient results plus a summary.
func (h *NotifyHandler) SendInvoice(c *gin.Context) {
	var req SendInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.PhoneNumbers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phoneNumbers must not be empty"})
		return
	}

	cfg := h.Resolver.Resolve(c.Request.Context(), req.OrganizationID)
	payload := map[string]string{
		"tenantName":       req.TenantName,
		"invoicePeriod":    req.InvoicePeriod,
		"totalAmount":      req.TotalAmount,
		"currency":         req.Currency,
		"dueDate":          req.DueDate,
		"organizationName": req.OrganizationName,
	}

	results := h.Dispatcher.SendBatch(c.Request.Context(), cfg, req.OrganizationID, req.PhoneNumbers, settings.TemplateInvoice, payload, whatsapp.BatchOptions{
		Concurrent:     req.Concurrent,
		MaxConcurrency: req.MaxConcurrency,
	})
	summary := whatsapp.Summarize(results)
	if summary.Failed > 0 {
		h.Log.Warn().Int("failed", summary.Failed).Int("total", summary.Total).Str("org", req.OrganizationID).Msg("invoice batch finished with failures")
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"summary": summary,
	})
}
