package entity

import (
	"net/url"
	"strings"
)

// PreviewState is everything the preview page shows. It travels only in the
// query string, so a reload or a shared link replays the same page.
type PreviewState struct {
	Image  string
	Prompt string
	Size   string
	Style  string
}

func PreviewStateFromQuery(values url.Values) PreviewState {
	state := PreviewState{
		Image:  values.Get("image"),
		Prompt: values.Get("prompt"),
		Size:   values.Get("size"),
		Style:  values.Get("style"),
	}
	if state.Size == "" {
		state.Size = SizeSquare
	}
	if state.Style == "" {
		state.Style = StyleModern
	}
	return state
}

// Encode renders the state as a query string in image, prompt, size, style order.
func (s PreviewState) Encode() string {
	var b strings.Builder
	for i, kv := range [][2]string{
		{"image", s.Image},
		{"prompt", s.Prompt},
		{"size", s.Size},
		{"style", s.Style},
	} {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

func (s PreviewState) URL() string {
	return "/preview?" + s.Encode()
}

// DisplaySize turns 1080x1350 into "1080 × 1350".
func (s PreviewState) DisplaySize() string {
	return strings.Replace(s.Size, "x", " × ", 1)
}
