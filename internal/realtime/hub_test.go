package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillduel/skillduel/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{
			name:     "simple message",
			event:    "score_reported",
			data:     `{"match_id":"m1"}`,
			expected: "event: score_reported\ndata: {\"match_id\":\"m1\"}\n\n",
		},
		{
			name:     "empty data",
			event:    "ping",
			data:     "",
			expected: "event: ping\ndata: \n\n",
		},
		{
			name:     "multiline data",
			event:    "update",
			data:     "line1\nline2",
			expected: "event: update\ndata: line1\ndata: line2\n\n",
		},
		{
			name:     "crlf data",
			event:    "update",
			data:     "line1\r\nline2",
			expected: "event: update\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSSEMessage(tt.event, tt.data)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{""}},
		{name: "single line", input: "hello", expected: []string{"hello"}},
		{name: "two lines", input: "a\nb", expected: []string{"a", "b"}},
		{name: "trailing newline", input: "a\n", expected: []string{"a"}},
		{name: "crlf", input: "a\r\nb", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func TestHubManagerGetOrCreate(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub := manager.GetOrCreateHub("m1")
	assert.NotNil(t, hub)
	assert.Same(t, hub, manager.GetOrCreateHub("m1"))
	assert.Same(t, hub, manager.GetHub("m1"))

	assert.Nil(t, manager.GetHub("m2"))

	manager.RemoveHub("m1")
	assert.Nil(t, manager.GetHub("m1"))
}

func TestHubManagerCleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("m1")
	manager.GetOrCreateHub("m2")

	manager.CleanupEmptyHubs()

	assert.Nil(t, manager.GetHub("m1"))
	assert.Nil(t, manager.GetHub("m2"))
}
