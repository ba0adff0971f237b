package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelveticaTables(t *testing.T) {
	assert.Len(t, helveticaWidths, '~'-' '+1)
	assert.Len(t, helveticaBoldWidths, '~'-' '+1)
	assert.Equal(t, 278, helveticaAdvance(' ', false))
	assert.Equal(t, 667, helveticaAdvance('A', false))
	assert.Equal(t, 722, helveticaAdvance('A', true))
	assert.Equal(t, 584, helveticaAdvance('~', true))
	assert.Equal(t, 350, helveticaAdvance('•', false))
	assert.Equal(t, helveticaFallback, helveticaAdvance('ж', false))
}

func TestHelveticaWidth(t *testing.T) {
	h := Helvetica{FontSize: 72}
	// 1000 units at 72pt is one inch.
	assert.InDelta(t, 25.4*0.556, h.Width("a", false), 1e-9)
	assert.InDelta(t, 0, h.Width("", false), 1e-9)
	assert.Greater(t, h.Width("bold", true), h.Width("bold", false))
}

func TestHelveticaSplitToSize(t *testing.T) {
	h := Helvetica{FontSize: 11}
	one := h.Width("aaaa", false) + 0.01
	space := h.Width(" ", false)

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "aaaa aaaa", 2*one + space, []string{"aaaa aaaa"}},
		{"wraps", "aaaa aaaa aaaa", 2*one + space, []string{"aaaa aaaa", "aaaa"}},
		{"empty", "", 100, []string{""}},
		{"keeps newlines", "a\n\nb", 100, []string{"a", "", "b"}},
		{"collapses spaces", "a    b", 100, []string{"a b"}},
		{"breaks long word", "aaaaaaaa", one, []string{"aaaa", "aaaa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.SplitToSize(tt.text, tt.width, false))
		})
	}
}

func TestHelveticaSplitToSize_NarrowerThanGlyph(t *testing.T) {
	h := Helvetica{FontSize: 11}
	lines := h.SplitToSize("abc", 0.1, false)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestHelveticaSplitToSize_RespectsWidth(t *testing.T) {
	h := Helvetica{FontSize: 11}
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)
	lines := h.SplitToSize(text, 170, true)
	require.Greater(t, len(lines), 5)
	for _, l := range lines {
		assert.LessOrEqual(t, h.Width(l, true), 170.0)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func TestMonospaceSplitToSize(t *testing.T) {
	m := Monospace{CharWidth: 1}
	assert.Equal(t, []string{"aaa bbb", "ccc"}, m.SplitToSize("aaa bbb ccc", 7, false))
	assert.Equal(t, []string{""}, m.SplitToSize("", 7, false))
	for _, l := range m.SplitToSize("abcdefghijklmnop", 5, false) {
		assert.LessOrEqual(t, len(l), 5)
	}
}
