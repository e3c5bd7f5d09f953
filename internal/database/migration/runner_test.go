package migration

import (
	"strings"
	"testing"
	"testing/fstest"

	"skillera/migrations"
)

func TestLoad_OrdersByVersionAndSkipsForeignFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql":    {Data: []byte("SELECT 10;")},
		"V2__second.sql":    {Data: []byte("SELECT 2;")},
		"V1__first.sql":     {Data: []byte("  SELECT 1;\n")},
		"README.md":         {Data: []byte("notes")},
		"v3__lowercase.sql": {Data: []byte("SELECT 3;")},
	}

	migs, err := Load(fsys)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	want := []int64{1, 2, 10}
	for i, m := range migs {
		if m.Version != want[i] {
			t.Fatalf("position %d: expected version %d, got %d", i, want[i], m.Version)
		}
	}
	if migs[0].SQL != "SELECT 1;" {
		t.Fatalf("expected trimmed sql, got %q", migs[0].SQL)
	}
	if len(migs[0].Checksum) != 64 {
		t.Fatalf("expected sha256 hex checksum, got %q", migs[0].Checksum)
	}
}

func TestLoad_RejectsDuplicatesAndEmptyFiles(t *testing.T) {
	dup := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := Load(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}

	empty := fstest.MapFS{"V1__empty.sql": {Data: []byte("   ")}}
	if _, err := Load(empty); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoad_EmbeddedSchema(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) == 0 || migs[0].Version != 1 {
		t.Fatalf("expected embedded V1 migration, got %+v", migs)
	}
	if !strings.Contains(migs[0].SQL, "matches_pair_uidx") {
		t.Fatalf("expected unordered pair index in schema")
	}
}
