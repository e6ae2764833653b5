package storage

import (
	"context"
	"errors"
	"testing"
)

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if !errors.Is(err, ErrUnsupportedStore) {
		t.Fatalf("expected unsupported store error, got %v", err)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveRun(context.Background(), sampleRun("r1", 0)); err == nil {
		t.Fatal("expected save before init to fail")
	}
}

func TestDefaultStoreKindIsSupported(t *testing.T) {
	store, err := NewStore(DefaultStoreKind(), t.TempDir()+"/default.db")
	if err != nil {
		t.Fatalf("new default store: %v", err)
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewStoreNormalizesKind(t *testing.T) {
	store, err := NewStore("  Memory ", "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestNewStoreEmptyKindUsesDefault(t *testing.T) {
	store, err := NewStore("", t.TempDir()+"/default.db")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = CloseIfSupported(store)
	})
	_, isMemory := store.(*MemoryStore)
	if isMemory != (DefaultStoreKind() == MemoryKind) {
		t.Fatalf("expected %s store, got %T", DefaultStoreKind(), store)
	}
}

func TestNewStoreSQLiteRequiresPath(t *testing.T) {
	if _, err := NewStore(SQLiteKind, ""); err == nil {
		t.Fatal("expected missing path error")
	}
}
