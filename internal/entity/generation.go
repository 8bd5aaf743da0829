package entity

import "time"

// Ad sizes offered by the create page.
const (
	SizeSquare   = "1080x1080"
	SizePortrait = "1080x1350"
)

// Style presets offered by the create page.
const (
	StyleModern    = "modern"
	StyleMinimal   = "minimal"
	StyleEcommerce = "ecommerce"
	StyleLuxury    = "luxury"
)

// GenerationRequest is one form submission. It lives for a single request.
type GenerationRequest struct {
	Prompt    string
	Size      string
	Style     string
	Image     []byte
	ImageMIME string
	ImageName string
	RequestID string
}

// ComposedPrompt is the text and canvas sent to the hosted model.
type ComposedPrompt struct {
	Text   string
	Width  int
	Height int
}

type GenerationResult struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
	Size     string `json:"size"`
	Style    string `json:"style"`
}

type GenerationEvent struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Status     string    `json:"status"`
	Size       string    `json:"size"`
	Style      string    `json:"style"`
	Prompt     string    `json:"prompt"`
	ImageURL   string    `json:"image_url,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	EventStatusSucceeded = "succeeded"
	EventStatusFailed    = "failed"
)
