package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

func TestFileStorage_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStorage(path)
	ctx := context.Background()

	identity := &domain.Identity{Username: "admin", Email: "admin@investbank.com", Role: domain.RoleAdmin}
	if err := store.Save(ctx, "tok1", identity); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token, loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok1" {
		t.Fatalf("expected token tok1, got %q", token)
	}
	if loaded == nil || loaded.Username != "admin" || loaded.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", loaded)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	token, loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if token != "" || loaded != nil {
		t.Fatalf("expected empty slots after Clear, got %q / %+v", token, loaded)
	}

	// Clearing twice is fine.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestFileStorage_MissingFile_IsAbsentSession(t *testing.T) {
	store := NewFileStorage(filepath.Join(t.TempDir(), "nope", "credentials.json"))

	token, identity, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if token != "" || identity != nil {
		t.Fatalf("expected empty slots, got %q / %+v", token, identity)
	}
}

func TestFileStorage_IdentityNeverOutlivesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	// A hand-edited file with an identity but no token must load as absent.
	if err := os.WriteFile(path, []byte(`{"current_user":{"username":"ghost","role":"ADMIN"}}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	token, identity, err := NewFileStorage(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" || identity != nil {
		t.Fatalf("identity without a token must be dropped, got %q / %+v", token, identity)
	}
}

func TestFileStorage_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStorage(path)
	if err := store.Save(context.Background(), "tok1", nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("credentials file must be 0600, got %o", perm)
	}
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	identity := &domain.Identity{Username: "analyst", Role: domain.RoleUser}
	if err := store.Save(ctx, "tok2", identity); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating the caller's identity after Save must not leak into the store.
	identity.Username = "tampered"

	token, loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok2" || loaded == nil || loaded.Username != "analyst" {
		t.Fatalf("unexpected load result: %q / %+v", token, loaded)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if token, loaded, _ := store.Load(ctx); token != "" || loaded != nil {
		t.Fatalf("expected empty slots after Clear")
	}
}
