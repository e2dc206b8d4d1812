package notice

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client)
}

func TestStore_PutAndPop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := store.Put(ctx, Notice{Level: LevelSuccess, Text: "Student added successfully"})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	n, err := store.Pop(ctx, token)
	if err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notice")
	}
	if n.Level != LevelSuccess || n.Text != "Student added successfully" {
		t.Errorf("unexpected notice: %+v", n)
	}
}

func TestStore_PopIsOneShot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	token, err := store.Put(ctx, Notice{Level: LevelError, Text: "Student not found"})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, err := store.Pop(ctx, token); err != nil {
		t.Fatalf("first pop failed: %v", err)
	}

	n, err := store.Pop(ctx, token)
	if err != nil {
		t.Fatalf("second pop failed: %v", err)
	}
	if n != nil {
		t.Errorf("expected notice to be cleared after first pop, got %+v", n)
	}
}

func TestStore_PopUnknownToken(t *testing.T) {
	store := newTestStore(t)

	n, err := store.Pop(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if n != nil {
		t.Errorf("expected nil notice, got %+v", n)
	}
}

func TestStore_WithoutClient(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if store.Available() {
		t.Error("store without client should not report available")
	}
	if _, err := store.Put(ctx, Notice{Level: LevelSuccess, Text: "x"}); err == nil {
		t.Error("expected put to fail without a client")
	}
	if n, err := store.Pop(ctx, "token"); err != nil || n != nil {
		t.Errorf("expected silent nil pop, got %v / %v", n, err)
	}
}
