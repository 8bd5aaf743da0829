package service

import (
	"fmt"

	"github.com/ds124wfegd/adgen/internal/entity"
)

const (
	ModelWidth          = 1024
	ModelHeightSquare   = 1024
	ModelHeightPortrait = 1280
)

var stylePrompts = map[string]string{
	entity.StyleModern:    "modern, sleek, vibrant colors, contemporary design, professional photography, high-end advertising",
	entity.StyleMinimal:   "minimalist, clean, white background, simple composition, elegant, scandinavian design aesthetic",
	entity.StyleEcommerce: "product photography, commercial, clean background, sharp focus, studio lighting, professional catalog",
	entity.StyleLuxury:    "luxury, premium, elegant, sophisticated, high-end, glamorous, gold accents, dramatic lighting",
}

// KnownStyle reports whether style has its own phrase.
func KnownStyle(style string) bool {
	_, ok := stylePrompts[style]
	return ok
}

// StylePhrase returns the phrase for style. Unknown styles get the modern phrase.
func StylePhrase(style string) string {
	if phrase, ok := stylePrompts[style]; ok {
		return phrase
	}
	return stylePrompts[entity.StyleModern]
}

// FormatPhrase is "square format" only for the square size.
func FormatPhrase(size string) string {
	if size == entity.SizeSquare {
		return "square format"
	}
	return "portrait format"
}

// Dimensions returns the model canvas. Height is 1280 only for the portrait size.
func Dimensions(size string) (width, height int) {
	if size == entity.SizePortrait {
		return ModelWidth, ModelHeightPortrait
	}
	return ModelWidth, ModelHeightSquare
}

func ComposePrompt(prompt, style, size string) string {
	return fmt.Sprintf(
		"%s, %s, advertising photography, professional quality, %s, marketing material, commercial use, high resolution",
		prompt, StylePhrase(style), FormatPhrase(size),
	)
}

func Compose(prompt, style, size string) entity.ComposedPrompt {
	width, height := Dimensions(size)
	return entity.ComposedPrompt{
		Text:   ComposePrompt(prompt, style, size),
		Width:  width,
		Height: height,
	}
}
