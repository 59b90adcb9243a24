package notify

import (
	"context"
	"fmt"
)

// Notifier delivers a failure message to an owner's webhook. Delivery is
// best-effort; callers must not treat a send error as a cycle fault.
type Notifier interface {
	Send(ctx context.Context, webhookURL, content string) error
}

// DownMessage formats the alert body for a failing check result.
func DownMessage(pageURL string, statusCode *int, errText *string) string {
	detail := ""
	switch {
	case statusCode != nil:
		detail = fmt.Sprintf("%d", *statusCode)
	case errText != nil:
		detail = *errText
	}
	return fmt.Sprintf("❗️URL DOWN: %s (status: %s)", pageURL, detail)
}
