package redisfeed

import (
	"context"
	"testing"
	"time"
)

func TestIsPattern(t *testing.T) {
	tests := []struct {
		ch   string
		want bool
	}{
		{"ticks", false},
		{"ticks:BTCUSDT", false},
		{"ticks:*", true},
		{"ticks:BTC?", true},
		{"ticks:[ab]", true},
	}
	for _, tt := range tests {
		if got := isPattern(tt.ch); got != tt.want {
			t.Errorf("isPattern(%q) = %v, want %v", tt.ch, got, tt.want)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(context.Background(), Config{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("expected error for empty channel")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := New(ctx, Config{Addr: "127.0.0.1:1", Channel: "ticks"}); err == nil {
		t.Error("expected ping error for unreachable server")
	}
}
