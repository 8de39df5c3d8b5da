package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always report a miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	t.Run("RoundTrip", func(t *testing.T) {
		if err := c.Set(ctx, "layout:abc", []byte(`{"w":1920}`), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, hit, err := c.Get(ctx, "layout:abc")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !hit {
			t.Fatal("expected hit")
		}
		if string(data) != `{"w":1920}` {
			t.Errorf("data = %s", data)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if hit {
			t.Error("expected miss")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		if err := c.Set(ctx, "ttl", []byte("x"), time.Nanosecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(time.Millisecond)
		if _, hit, _ := c.Get(ctx, "ttl"); hit {
			t.Error("expired entry should be a miss")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "gone", []byte("x"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("deleted entry should be a miss")
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Errorf("double delete should be nil, got %v", err)
		}
	})
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("world")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.LayoutKey("abc"); got != "layout:abc" {
		t.Errorf("LayoutKey = %q", got)
	}
	if got := k.FrameKey("abc", 42, 30); got != "frame:abc:42:30" {
		t.Errorf("FrameKey = %q", got)
	}

	scoped := NewScopedKeyer(k, "tenant:7:")
	if got := scoped.LayoutKey("abc"); got != "tenant:7:layout:abc" {
		t.Errorf("scoped LayoutKey = %q", got)
	}
	if got := scoped.FrameKey("abc", 1, 24); got != "tenant:7:frame:abc:1:24" {
		t.Errorf("scoped FrameKey = %q", got)
	}
}
