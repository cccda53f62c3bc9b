package layout_test

import (
	"testing"

	"lifelens/internal/layout"

	"github.com/stretchr/testify/assert"
)

func runeCount(text string, _ float64, _ bool) float64 {
	return float64(len([]rune(text)))
}

func TestSplitParagraphs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, layout.SplitParagraphs("a\n\nb\n \n\nc"))
	assert.Equal(t, []string{"one\ntwo"}, layout.SplitParagraphs("  one\ntwo  "))
	assert.Equal(t, []string{"x", "y"}, layout.SplitParagraphs("x\r\n\r\ny"))
	assert.Empty(t, layout.SplitParagraphs(" \n\n "))
}

func TestWrapText(t *testing.T) {
	t.Run("greedy fill", func(t *testing.T) {
		assert.Equal(t, []string{"hello world", "foo"}, layout.WrapText("hello world foo", 11, 12, runeCount))
	})

	t.Run("long word is split", func(t *testing.T) {
		assert.Equal(t, []string{"abcde", "fghij", "klmno", "p"}, layout.WrapText("abcdefghijklmnop", 5, 12, runeCount))
	})

	t.Run("hard line breaks are kept", func(t *testing.T) {
		assert.Equal(t, []string{"one", "two"}, layout.WrapText("one\ntwo", 100, 12, runeCount))
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Empty(t, layout.WrapText("  \n\t ", 10, 12, runeCount))
	})
}

func TestEstimateWidth_WideRunes(t *testing.T) {
	narrow := layout.EstimateWidth("ab", 12, false)
	wide := layout.EstimateWidth("日本", 12, false)

	assert.InDelta(t, narrow*2, wide, 1e-9)
	assert.Greater(t, layout.EstimateWidth("ab", 12, true), narrow)
}
