package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
)

const collectionAuthEvents = "auth_events"

// auditDocument is the stored shape of an audit event.
type auditDocument struct {
	EventID    string    `bson:"event_id"`
	Kind       string    `bson:"kind"`
	SubjectID  int64     `bson:"subject_id,omitempty"`
	Email      string    `bson:"email,omitempty"`
	Role       string    `bson:"role,omitempty"`
	RemoteIP   string    `bson:"remote_ip,omitempty"`
	Path       string    `bson:"path,omitempty"`
	Detail     string    `bson:"detail,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuthEvents)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// InsertEvent appends one event to the auth_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toAuditDocument(event))
	return err
}

// EnsureIndexes creates the indexes used by audit queries. event_id is unique
// so a retried write cannot duplicate an entry.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "occurred_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toAuditDocument(e *domain.AuditEvent) auditDocument {
	return auditDocument{
		EventID:    e.ID,
		Kind:       string(e.Kind),
		SubjectID:  e.SubjectID,
		Email:      e.Email,
		Role:       string(e.Role),
		RemoteIP:   e.RemoteIP,
		Path:       e.Path,
		Detail:     e.Detail,
		OccurredAt: e.OccurredAt.UTC(),
	}
}
