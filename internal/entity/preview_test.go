package entity

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewStateDefaults(t *testing.T) {
	state := PreviewStateFromQuery(url.Values{"image": {"https://replicate.delivery/a.png"}})

	assert.Equal(t, "https://replicate.delivery/a.png", state.Image)
	assert.Equal(t, "", state.Prompt)
	assert.Equal(t, SizeSquare, state.Size)
	assert.Equal(t, StyleModern, state.Style)
}

func TestPreviewStateURLRoundTrip(t *testing.T) {
	state := PreviewState{
		Image:  "https://replicate.delivery/pbxt/a b.png?x=1&y=2",
		Prompt: "red sneaker & blue sky, 100% cotton",
		Size:   SizePortrait,
		Style:  StyleLuxury,
	}

	u, err := url.Parse(state.URL())
	require.NoError(t, err)
	assert.Equal(t, "/preview", u.Path)
	assert.Equal(t, state, PreviewStateFromQuery(u.Query()))
}

func TestPreviewStateEncodeOrder(t *testing.T) {
	state := PreviewState{Image: "i", Prompt: "p q", Size: SizeSquare, Style: StyleMinimal}

	assert.Equal(t, "image=i&prompt=p+q&size=1080x1080&style=minimal", state.Encode())
}

func TestDisplaySize(t *testing.T) {
	assert.Equal(t, "1080 × 1350", PreviewState{Size: SizePortrait}.DisplaySize())
	assert.Equal(t, "custom", PreviewState{Size: "custom"}.DisplaySize())
}
