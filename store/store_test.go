package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faces.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, path
}

func TestLoadAll_EmptyDatabase(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()

	records, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestAppend_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	names := []string{"zoe", "adam", "zoe", "mia"}
	for i, n := range names {
		err := s.Append(ctx, Record{
			Name:  n,
			Age:   20 + i,
			Email: n + "@example.com",
			Face:  bytes.Repeat([]byte{byte(i)}, 16),
		})
		if err != nil {
			t.Fatalf("append %s: %v", n, err)
		}
	}

	records, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(names) {
		t.Fatalf("expected %d records, got %d", len(names), len(records))
	}
	for i, r := range records {
		if r.Name != names[i] {
			t.Errorf("expected %s at %d, got %s", names[i], i, r.Name)
		}
		if r.Age != 20+i {
			t.Errorf("expected age %d, got %d", 20+i, r.Age)
		}
		if !bytes.Equal(r.Face, bytes.Repeat([]byte{byte(i)}, 16)) {
			t.Errorf("face bytes of record %d differ", i)
		}
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	if err := s.Append(ctx, Record{Name: "Al", Age: 30, Email: "a@b", Face: []byte{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	records, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Name != "Al" || r.Age != 30 || r.Email != "a@b" {
		t.Errorf("expected {Al 30 a@b}, got %+v", r)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}
}

func TestAppend_ClosedStoreFails(t *testing.T) {
	s, _ := openTemp(t)
	s.Close()

	if err := s.Append(context.Background(), Record{Name: "x"}); err == nil {
		t.Error("expected error on closed store")
	}
}
