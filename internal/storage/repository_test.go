package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hperssn/intervals/internal/domain"
)

func testRepository(t *testing.T, repo Repository) {
	t.Helper()

	tabata := domain.WorkoutConfig{Sets: 1, Reps: 8, InterRepRest: 10, RepWorkTime: 20}
	ladder := domain.WorkoutConfig{Sets: 3, Reps: 5, InterSetRest: 120, InterRepRest: 15, RepWorkTime: 45}

	a, err := NewPresetRecord("alice", "tabata", tabata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewPresetRecord("alice", "ladder", ladder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []*PresetRecord{a, b} {
		if err := repo.SavePreset(p); err != nil {
			t.Fatalf("SavePreset(%s): %v", p.Name, err)
		}
	}

	got, err := repo.GetPreset("alice", a.ID)
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	if got.Name != "tabata" || got.Config != tabata {
		t.Fatalf("GetPreset = %+v", got)
	}

	list, err := repo.ListPresets("alice")
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	if len(list) != 2 || list[0].Name != "ladder" || list[1].Name != "tabata" {
		t.Fatalf("ListPresets = %+v", list)
	}

	if _, err := repo.GetPreset("bob", a.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("GetPreset for other user = %v want ErrPresetNotFound", err)
	}
	if list, _ := repo.ListPresets("bob"); len(list) != 0 {
		t.Fatalf("bob sees %d presets", len(list))
	}

	renamed := *a
	renamed.Name = "tabata classic"
	renamed.UpdatedAt = time.Now().UTC()
	if err := repo.SavePreset(&renamed); err != nil {
		t.Fatalf("SavePreset update: %v", err)
	}
	hijack := *a
	hijack.UserID = "bob"
	hijack.Name = "mine now"
	if err := repo.SavePreset(&hijack); err != nil {
		t.Fatalf("SavePreset from other user: %v", err)
	}
	got, err = repo.GetPreset("alice", a.ID)
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	if got.Name != "tabata classic" {
		t.Fatalf("preset name = %q want %q", got.Name, "tabata classic")
	}

	if err := repo.DeletePreset("bob", a.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("DeletePreset by other user = %v", err)
	}
	if err := repo.DeletePreset("alice", a.ID); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}
	if _, err := repo.GetPreset("alice", a.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("GetPreset after delete = %v", err)
	}

	if _, ok, err := repo.GetLastConfig("alice"); err != nil || ok {
		t.Fatalf("GetLastConfig before save = %v, %v", ok, err)
	}
	if err := repo.SaveLastConfig("alice", tabata); err != nil {
		t.Fatalf("SaveLastConfig: %v", err)
	}
	if err := repo.SaveLastConfig("alice", ladder); err != nil {
		t.Fatalf("SaveLastConfig overwrite: %v", err)
	}
	last, ok, err := repo.GetLastConfig("alice")
	if err != nil || !ok || last != ladder {
		t.Fatalf("GetLastConfig = %+v, %v, %v", last, ok, err)
	}

	if err := repo.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, NewMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "prefs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()

	testRepository(t, repo)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("INTERVALS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INTERVALS_TEST_POSTGRES_DSN not set")
	}

	repo, err := NewPostgresRepository(dsn)
	if err != nil {
		t.Fatalf("NewPostgresRepository: %v", err)
	}
	defer repo.Close()

	if _, err := repo.db.Exec(`DELETE FROM presets WHERE user_id IN ('alice', 'bob'); DELETE FROM preferences WHERE user_id IN ('alice', 'bob')`); err != nil {
		t.Fatalf("reset tables: %v", err)
	}

	testRepository(t, repo)
}

func TestRebind(t *testing.T) {
	pg := &sqlRepository{d: dialect{numbered: true}}
	lite := &sqlRepository{d: dialect{}}

	q := `SELECT a FROM t WHERE b = ? AND c = ?`
	if got := pg.rebind(q); got != `SELECT a FROM t WHERE b = $1 AND c = $2` {
		t.Fatalf("postgres rebind = %q", got)
	}
	if got := lite.rebind(q); got != q {
		t.Fatalf("sqlite rebind = %q", got)
	}
}

func TestNewPresetRecordValidates(t *testing.T) {
	if _, err := NewPresetRecord("alice", "bad", domain.WorkoutConfig{}); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("NewPresetRecord with empty config = %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mongo", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
