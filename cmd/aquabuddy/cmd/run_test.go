package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadLines(t *testing.T) {
	lines := readLines(context.Background(), strings.NewReader(" log \nquit\n"))

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	assert.Equal(t, []string{"log", "quit"}, got)
}

func TestReadLinesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines := readLines(ctx, strings.NewReader("log\nlog\nlog\n"))
	time.Sleep(50 * time.Millisecond)

	_, ok := <-lines
	assert.False(t, ok, "reader goroutine exits instead of blocking on a send")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		yes   bool
		done  bool
	}{
		{"y\n", true, false},
		{"YES\n", true, false},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lines := readLines(context.Background(), strings.NewReader(tt.input))
			yes, done := confirmLine(context.Background(), lines)
			assert.Equal(t, tt.yes, yes)
			assert.Equal(t, tt.done, done)
		})
	}
}

func TestConfirmCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	yes, done := confirmLine(ctx, make(chan string))
	assert.False(t, yes)
	assert.True(t, done)
}
