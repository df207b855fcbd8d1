package migrate

import (
	"testing"
	"testing/fstest"
)

func TestPending_SortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0010_later.sql": {Data: []byte("SELECT 1;")},
		"sql/0002_next.sql":  {Data: []byte("SELECT 1;")},
		"sql/0001_init.sql":  {Data: []byte("SELECT 1;")},
		"sql/README.md":      {Data: []byte("ignored")},
	}
	got, err := Pending(fsys)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	want := []int{1, 2, 10}
	if len(got) != len(want) {
		t.Fatalf("got %d migrations, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Version != want[i] {
			t.Fatalf("migration %d version = %d, want %d", i, m.Version, want[i])
		}
	}
}

func TestPending_RejectsBadNames(t *testing.T) {
	for _, name := range []string{"sql/init.sql", "sql/abc_init.sql"} {
		fsys := fstest.MapFS{name: {Data: []byte("SELECT 1;")}}
		if _, err := Pending(fsys); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPending_RejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_a.sql": {Data: []byte("SELECT 1;")},
		"sql/1_b.sql":    {Data: []byte("SELECT 1;")},
	}
	if _, err := Pending(fsys); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestEmbedded_ShipsInitialSchema(t *testing.T) {
	got, err := Pending(Embedded())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(got) == 0 || got[0].Version != 1 {
		t.Fatalf("embedded migrations = %+v", got)
	}
}
