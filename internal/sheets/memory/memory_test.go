package memory

import (
	"context"
	"errors"
	"testing"

	"creditlens/internal/sheets"
)

func TestStoreReadGridReturnsCopy(t *testing.T) {
	s := New(map[string][][]string{
		"/st/a.xlsx": {{"h1", "h2"}, {"1", "2"}},
	})
	g, err := s.ReadGrid(context.Background(), "/st/a.xlsx")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	g[0][0] = "mutated"
	again, _ := s.ReadGrid(context.Background(), "/st/a.xlsx")
	if again[0][0] != "h1" {
		t.Fatalf("store grid was mutated through returned copy")
	}

	if _, err := s.ReadGrid(context.Background(), "/st/missing.xlsx"); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreListSiblings(t *testing.T) {
	s := New(map[string][][]string{
		"/st/03.xlsx":    nil,
		"/st/01.XLSX":    nil,
		"/st/02.xlsx":    nil,
		"/st/notes.csv":  nil,
		"/other/04.xlsx": nil,
	})
	got, err := s.ListSiblings(context.Background(), "/st/03.xlsx")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"/st/01.XLSX", "/st/02.xlsx"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if _, err := s.ListSiblings(context.Background(), "/nowhere/x.xlsx"); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown ref, got %v", err)
	}
}

func TestStoreFail(t *testing.T) {
	boom := errors.New("boom")
	s := New(map[string][][]string{"/st/a.csv": {{"x"}}})
	s.Fail("/st/b.csv", boom)

	if _, err := s.ReadGrid(context.Background(), "/st/b.csv"); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	sib, err := s.ListSiblings(context.Background(), "/st/a.csv")
	if err != nil || len(sib) != 1 || sib[0] != "/st/b.csv" {
		t.Fatalf("failing ref should still be listed: %v %v", sib, err)
	}
}

func TestStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(nil)
	if _, err := s.ReadGrid(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
