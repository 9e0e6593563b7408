package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notify-gateway/internal/settings"
)

// Client talks to the WhatsApp Cloud API. Credentials come from the
// resolved ChannelConfig on every call, so one client serves every
// organization.
type Client struct {
	http *http.Client
}

// NewClient bounds every remote call with timeout; the remote API is
// treated as adversarial with respect to latency.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// --- Message Structures ---

type templateMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         *templateObj `json:"template"`
}

type templateObj struct {
	Name       string         `json:"name"`
	Language   languageObj    `json:"language"`
	Components []componentObj `json:"components,omitempty"`
}

type languageObj struct {
	Code string `json:"code"`
}

type componentObj struct {
	Type       string         `json:"type"`
	Parameters []parameterObj `json:"parameters"`
}

type parameterObj struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
		Subcode int    `json:"error_subcode"`
	} `json:"error"`
}

// SendTemplate delivers one filled template through the primary channel
// and returns the remote message id. Failures are typed: a
// *TransportError for network problems, a *RemoteRejection for
// structured remote errors.
func (c *Client) SendTemplate(ctx context.Context, cfg *settings.ChannelConfig, to string, spec settings.TemplateSpec, params []string) (string, error) {
	msg := templateMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: &templateObj{
			Name:     spec.Name,
			Language: languageObj{Code: spec.Language},
		},
	}
	if len(params) > 0 {
		component := componentObj{Type: "body"}
		for _, p := range params {
			component.Parameters = append(component.Parameters, parameterObj{Type: "text", Text: p})
		}
		msg.Template.Components = []componentObj{component}
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/messages", cfg.APIURL, cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Code != 0 {
			return "", &RemoteRejection{
				Code:    apiErr.Error.Code,
				Subcode: apiErr.Error.Subcode,
				Message: remoteErrorText(apiErr.Error.Code, apiErr.Error.Message),
			}
		}
		return "", &RemoteRejection{Code: resp.StatusCode, Message: resp.Status}
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Messages) == 0 {
		return "", &RemoteRejection{Code: resp.StatusCode, Message: "response carried no message id"}
	}
	return result.Messages[0].ID, nil
}
