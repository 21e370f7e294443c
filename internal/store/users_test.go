package store_test

import (
	"context"
	"testing"

	"quizbot/internal/store"
)

func openTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	db, err := store.Open(context.Background(), store.DriverSQLite, "file:test.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`DELETE FROM users; DELETE FROM allowed_users;`); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return store.NewSQLStore(db)
}

func TestUpsertAndGetUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertUser(ctx, 101, "alice", "Alice A"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Second upsert updates, not duplicates.
	if err := s.UpsertUser(ctx, 101, "alice2", "Alice A"); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	u, err := s.GetUser(ctx, 101)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Username != "alice2" {
		t.Fatalf("username = %q", u.Username)
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users", len(users))
	}

	if _, err := s.GetUser(ctx, 999); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllowList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ok, err := s.IsAllowed(ctx, 202)
	if err != nil || ok {
		t.Fatalf("IsAllowed before add = %v, %v", ok, err)
	}
	if err := s.Allow(ctx, 202, "bob"); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok, _ := s.IsAllowed(ctx, 202); !ok {
		t.Fatal("user not allowed after Allow")
	}
	list, err := s.ListAllowed(ctx)
	if err != nil || len(list) != 1 || list[0].ID != 202 {
		t.Fatalf("list = %v, %v", list, err)
	}

	removed, err := s.Remove(ctx, 202)
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	if removed, _ := s.Remove(ctx, 202); removed {
		t.Fatal("second remove reported a deletion")
	}
	if ok, _ := s.IsAllowed(ctx, 202); ok {
		t.Fatal("user still allowed after Remove")
	}
}
