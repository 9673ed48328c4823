package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "status:t:1POWR", "1", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok := c.Get(ctx, "status:t:1POWR")
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if value != "1" {
		t.Errorf("Get() = %q, want 1", value)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache()

	if _, ok := c.Get(context.Background(), "status:t:1LAMP"); ok {
		t.Error("Get() hit, want miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after TTL, want miss")
	}
}

func TestMemoryCache_ZeroTTLDoesNotCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit with zero TTL, want miss")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after Delete, want miss")
	}

	// Idempotent on miss.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{"valid", "status:10.0.0.1:4352:1POWR", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"newline", "a\nb", false},
		{"carriage return", "a\rb", false},
		{"too long", string(make([]byte, MaxKeyLength+1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.ok && err != nil {
				t.Errorf("ValidateKey() error = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("ValidateKey() error = nil, want error")
			}
		})
	}
}
