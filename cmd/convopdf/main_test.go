package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	convopdf "github.com/porticus-lab/convo-pdf"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		spec string
		want []int
	}{
		{"", []int{0, 1, 2, 3, 4}},
		{"3", []int{2}},
		{"2-4", []int{1, 2, 3}},
		{"1,3,5", []int{0, 2, 4}},
		{"1-2,2,5", []int{0, 1, 4}},
	}
	for _, tt := range tests {
		got, err := parsePageRange(tt.spec, 5)
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.want, got, tt.spec)
	}

	for _, bad := range []string{"0", "6", "4-2", "x", "1-y"} {
		_, err := parsePageRange(bad, 5)
		assert.Error(t, err, bad)
	}
}

func TestCommonArgs(t *testing.T) {
	args := []string{"-c", "my.yaml", "-t", "source_guide", "chat.html"}
	c := commonArgs{kind: convopdf.Conversation}
	for i := 0; i < len(args); i++ {
		n, err := c.parse(args, i)
		require.NoError(t, err)
		i = n
	}
	assert.Equal(t, "my.yaml", c.configFile)
	assert.Equal(t, convopdf.Sources, c.kind)
	assert.Equal(t, "chat.html", c.input)

	_, err := c.parse([]string{"-t", "slides"}, 0)
	assert.ErrorIs(t, err, convopdf.ErrUnsupportedType)
	_, err = c.parse([]string{"-c"}, 0)
	assert.Error(t, err)
	_, err = c.parse([]string{"--bogus"}, 0)
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	assert.Equal(t, convopdf.LiveSource{URL: "https://chat.example/c/1"}, source("https://chat.example/c/1"))
	assert.Equal(t, convopdf.FileSource("chat.html"), source("chat.html"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two three", wrap("one two three", 0))
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
}
