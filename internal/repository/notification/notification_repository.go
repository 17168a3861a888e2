package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"dreamKeys/pkg/config"
	"dreamKeys/pkg/logger"

	"github.com/pobyzaarif/goshortcute"
)

type MailjetRepository struct {
	mailjetConfig config.MailjetConfig
	client        *http.Client
}

func NewMailjetRepository(cfg config.MailjetConfig) *MailjetRepository {
	return &MailjetRepository{
		mailjetConfig: cfg,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

type payloadSendEmail struct {
	Messages []message `json:"Messages"`
}

type contact struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type message struct {
	From     contact   `json:"From"`
	To       []contact `json:"To"`
	Subject  string    `json:"Subject"`
	TextPart string    `json:"TextPart"`
	HTMLPart string    `json:"HTMLPart"`
}

// Enabled reports whether a Mailjet endpoint and sender are configured.
func (r *MailjetRepository) Enabled() bool {
	return r.mailjetConfig.MailjetBaseUrl != "" && r.mailjetConfig.MailjetSenderEmail != ""
}

func (r *MailjetRepository) SendEmail(toName, toEmail, subject, text string) error {
	if !r.Enabled() {
		logger.Debug("Mailjet disabled, skipping email", "to", toEmail, "subject", subject)
		return nil
	}

	payload := payloadSendEmail{
		Messages: []message{{
			From: contact{
				Email: r.mailjetConfig.MailjetSenderEmail,
				Name:  r.mailjetConfig.MailjetSenderName,
			},
			To:       []contact{{Email: toEmail, Name: toName}},
			Subject:  subject,
			TextPart: text,
			HTMLPart: "<p>" + html.EscapeString(text) + "</p>",
		}},
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.mailjetConfig.MailjetBaseUrl+"/v3.1/send", bytes.NewReader(payloadByte))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.mailjetConfig.MailjetBasicAuthUsername + ":" + r.mailjetConfig.MailjetBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(res.Body)
	logger.Warn("Mailjet returned an error response", "status", res.StatusCode, "body", string(bodyBytes))

	return fmt.Errorf("mailer service return negative response %v", res.StatusCode)
}
