package entity

import "errors"

// FallbackGenerateError is reported when a generation failure carries no message.
const FallbackGenerateError = "Failed to generate image. Please ensure REPLICATE_API_TOKEN is set."

var (
	// Request errors
	ErrMissingInput  = errors.New("Missing prompt or image")
	ErrInvalidForm   = errors.New("Invalid multipart form")
	ErrMissingImage  = errors.New("image url is required")
	ErrInvalidURL    = errors.New("invalid image url")
	ErrHostForbidden = errors.New("image host is not allowed")

	// Model errors
	ErrEmptyOutput = errors.New("model returned no output")

	// Download errors
	ErrUpstream = errors.New("failed to fetch image")
	ErrDecode   = errors.New("failed to decode image")
)
