package ajax

import (
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	cases := map[string]string{
		"hello world":    "Hello World",
		"HELLO WORLD":    "Hello World",
		"":               "",
		"élan vital":     "Élan Vital",
		"γειά σου κόσμε": "Γειά Σου Κόσμε",
		"こんにちは world":   "こんにちは World",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, title(input), "title(%q)", input)
	}
}

func TestSubstr(t *testing.T) {
	cases := []struct {
		input    string
		start    int
		length   int
		expected string
	}{
		{"hello", 1, 3, "ell"},
		{"hello", 3, 10, "lo"},
		{"hello", 5, 1, ""},
		{"hello", -1, 2, ""},
		{"hello", 0, 0, ""},
		{"héllo", 1, 1, "é"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, substr(c.input, c.start, c.length), "substr(%q, %d, %d)", c.input, c.start, c.length)
	}
}

func TestUcFirst(t *testing.T) {
	assert.Equal(t, "", ucfirst(""))
	assert.Equal(t, "Hello world", ucfirst("hello world"))
	assert.Equal(t, "Ñandu", ucfirst("ñandu"))
}

func TestSafeValues(t *testing.T) {
	assert.Equal(t, template.HTML("<p>x</p>"), safeHTML("<p>x</p>"))
	assert.Equal(t, template.JS("alert(1)"), safeJS("alert(1)"))
}

func TestToJSON(t *testing.T) {
	out, err := toJSON(map[string]any{"id": 1})
	assert.NoError(t, err)
	assert.Equal(t, `{"id":1}`, out)

	_, err = toJSON(func() {})
	assert.Error(t, err)
}

func TestMapAndDebugHelpers(t *testing.T) {
	m := map[string]any{"a": 1}
	assert.True(t, hasKey(m, "a"))
	assert.False(t, hasKey(m, "b"))
	assert.Equal(t, "map[a:1]", debug(m))

	d := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", formatDate(d, "2006-01-02"))
}

func TestFirstAndLast(t *testing.T) {
	assert.Equal(t, "a", first([]string{"a", "b", "c"}))
	assert.Equal(t, "c", last([]string{"a", "b", "c"}))
	assert.Equal(t, 2, last([]any{1, 2}))
	assert.Equal(t, 7, first([2]int{7, 8}))

	assert.Nil(t, first([]string{}))
	assert.Nil(t, last([]string{}))
	assert.Nil(t, last(nil))
	assert.Nil(t, first("not a list"))
}
