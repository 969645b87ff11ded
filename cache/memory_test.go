package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "feed:a:regulatory-data:abc", []byte(`{"ok":true}`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(ctx, "feed:a:regulatory-data:abc")
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("Get() = %q, want stored value", got)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache()

	if _, ok := c.Get(context.Background(), "absent"); ok {
		t.Error("Get() hit, want miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after expiry, want miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after lazy cleanup, want 0", c.Len())
	}
}

func TestMemoryCache_ZeroTTLNotStored(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit with zero TTL, want miss")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after delete, want miss")
	}

	// Idempotent
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() on miss error = %v, want nil", err)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr error
	}{
		{"feed:a:b:c", nil},
		{"", ErrInvalidKey},
		{"  ", ErrInvalidKey},
		{"bad\nkey", ErrInvalidKey},
		{string(make([]byte, MaxKeyLength+1)), ErrKeyTooLong},
	}
	for _, tt := range tests {
		if got := ValidateKey(tt.key); got != tt.wantErr {
			t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, got, tt.wantErr)
		}
	}
}
