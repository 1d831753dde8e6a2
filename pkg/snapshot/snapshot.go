// Package snapshot archives fetched schemas to MongoDB.
//
// Every distinct schema the server fetches can be recorded as a snapshot:
// the full schema document plus a uuid, a content hash, and a timestamp.
// Snapshots are write-behind history; nothing on the request path reads
// them. Consecutive fetches of an unchanged schema collapse to one
// snapshot via the content hash.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one archived schema fetch.
type Snapshot struct {
	ID         string         `bson:"_id" json:"id"`
	Hash       string         `bson:"hash" json:"hash"`
	TakenAt    time.Time      `bson:"taken_at" json:"taken_at"`
	AppCount   int            `bson:"app_count" json:"app_count"`
	ModelCount int            `bson:"model_count" json:"model_count"`
	Schema     *schema.Schema `bson:"schema" json:"schema,omitempty"`
}

// Archive is the storage interface for schema snapshots.
type Archive interface {
	// Save archives a schema. When the most recent snapshot has the same
	// content hash, the existing snapshot is returned and nothing is
	// written.
	Save(ctx context.Context, s *schema.Schema) (*Snapshot, error)

	// Latest returns the most recent snapshot, or ErrNotFound.
	Latest(ctx context.Context) (*Snapshot, error)

	// Get returns the snapshot with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns up to limit snapshot headers, newest first. The Schema
	// field is omitted.
	List(ctx context.Context, limit int) ([]Snapshot, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// New builds an unsaved snapshot for a schema: fresh uuid, content hash,
// current UTC timestamp, and app/model counts.
func New(s *schema.Schema) (*Snapshot, error) {
	hash, err := Hash(s)
	if err != nil {
		return nil, err
	}

	models := 0
	for _, app := range s.Apps {
		models += len(app.Models)
	}
	return &Snapshot{
		ID:         uuid.NewString(),
		Hash:       hash,
		TakenAt:    time.Now().UTC(),
		AppCount:   len(s.Apps),
		ModelCount: models,
		Schema:     s,
	}, nil
}

// Hash computes the hex sha256 of the schema's canonical JSON form. Map
// keys marshal in sorted order, so equal schemas hash equally regardless
// of decode order.
func Hash(s *schema.Schema) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
