package dto

import (
	"encoding/json"
	"strings"
)

// WebhookBody mirrors the processor's notification payload. The resource
// id may arrive in the query string, in data.id, in the top-level id, or
// as a resource URL whose last segment is the id.
type WebhookBody struct {
	ID       json.Number `json:"id"`
	Type     string      `json:"type"`
	Resource string      `json:"resource"`
	Data     struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// ResourceID resolves the notification's resource id with the same
// precedence the processor documents: query id first, then body fields.
func (b WebhookBody) ResourceID(queryID string) string {
	if queryID != "" {
		return queryID
	}
	if id := b.Data.ID.String(); id != "" {
		return id
	}
	if id := b.ID.String(); id != "" {
		return id
	}
	if b.Resource != "" {
		parts := strings.Split(strings.TrimRight(b.Resource, "/"), "/")
		return parts[len(parts)-1]
	}
	return ""
}
