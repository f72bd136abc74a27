package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererHTML(t *testing.T) {
	r := NewRenderer()

	html, err := r.HTML("Hi Sam,\n\n> Please call me\n> tonight\n\nBest")
	require.NoError(t, err)
	assert.Contains(t, html, "<p>Hi Sam,</p>")
	assert.Contains(t, html, "<blockquote>")
	assert.Contains(t, html, "Please call me<br />")
}

func TestRendererEscapesRawHTML(t *testing.T) {
	html, err := NewRenderer().HTML(`<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
