package snapshot

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

func sampleSchema(extra string) *schema.Schema {
	models := map[string]schema.Model{
		"user": {Fields: []schema.Field{{Name: "id", PrimaryKey: true}}},
	}
	if extra != "" {
		models[extra] = schema.Model{Fields: []schema.Field{{Name: "id", PrimaryKey: true}}}
	}
	return &schema.Schema{Apps: map[string]schema.App{"app": {Models: models}}}
}

func TestHashStable(t *testing.T) {
	a, err := Hash(sampleSchema(""))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(sampleSchema(""))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Errorf("equal schemas hash differently: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestHashDistinguishesContent(t *testing.T) {
	a, _ := Hash(sampleSchema(""))
	b, _ := Hash(sampleSchema("post"))
	if a == b {
		t.Error("different schemas must hash differently")
	}
}

func TestNewSnapshot(t *testing.T) {
	snap, err := New(sampleSchema("post"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if snap.ID == "" {
		t.Error("snapshot missing ID")
	}
	if snap.TakenAt.IsZero() {
		t.Error("snapshot missing timestamp")
	}
	if snap.AppCount != 1 || snap.ModelCount != 2 {
		t.Errorf("counts = (%d, %d), want (1, 2)", snap.AppCount, snap.ModelCount)
	}
	if snap.Schema == nil {
		t.Error("snapshot missing schema")
	}
}

func TestNewSnapshotUniqueIDs(t *testing.T) {
	a, _ := New(sampleSchema(""))
	b, _ := New(sampleSchema(""))
	if a.ID == b.ID {
		t.Errorf("two snapshots share ID %s", a.ID)
	}
	if a.Hash != b.Hash {
		t.Error("same content must keep the same hash across snapshots")
	}
}

// memoryArchive implements Archive for recorder tests.
type memoryArchive struct {
	mu    sync.Mutex
	snaps []*Snapshot
}

func (m *memoryArchive) Save(ctx context.Context, s *schema.Schema) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, err := New(s)
	if err != nil {
		return nil, err
	}
	if n := len(m.snaps); n > 0 && m.snaps[n-1].Hash == snap.Hash {
		return m.snaps[n-1], nil
	}
	m.snaps = append(m.snaps, snap)
	return snap, nil
}

func (m *memoryArchive) Latest(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snaps) == 0 {
		return nil, ErrNotFound
	}
	return m.snaps[len(m.snaps)-1], nil
}

func (m *memoryArchive) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.snaps {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryArchive) List(ctx context.Context, limit int) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Snapshot
	for i := len(m.snaps) - 1; i >= 0 && len(out) < limit; i-- {
		header := *m.snaps[i]
		header.Schema = nil
		out = append(out, header)
	}
	return out, nil
}

func (m *memoryArchive) Close(ctx context.Context) error { return nil }

func (m *memoryArchive) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snaps)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestRecorderArchivesQueued(t *testing.T) {
	archive := &memoryArchive{}
	rec := NewRecorder(archive, quietLogger())

	rec.Record(sampleSchema(""))
	rec.Record(sampleSchema("post"))
	rec.Close()

	if got := archive.count(); got != 2 {
		t.Errorf("archived %d snapshots, want 2", got)
	}
}

func TestRecorderDeduplicatesByHash(t *testing.T) {
	archive := &memoryArchive{}
	rec := NewRecorder(archive, quietLogger())

	rec.Record(sampleSchema(""))
	rec.Record(sampleSchema(""))
	rec.Close()

	if got := archive.count(); got != 1 {
		t.Errorf("archived %d snapshots for identical content, want 1", got)
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	rec := NewRecorder(&memoryArchive{}, quietLogger())
	rec.Close()
	rec.Close()
}
