package domain

type PageID string

type UserID string

// Page is a monitored URL owned by a user. The page directory is
// read-only for this service.
type Page struct {
	ID      PageID `json:"id"`
	URL     string `json:"url"`
	OwnerID UserID `json:"owner_id"`
}

// OwnerSettings holds a page owner's check tier and alert channel.
// An empty WebhookURL means the owner gets no alerts.
type OwnerSettings struct {
	OwnerID    UserID `json:"owner_id"`
	Premium    bool   `json:"premium"`
	WebhookURL string `json:"webhook_url,omitempty"`
}
