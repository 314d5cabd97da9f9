package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

// PropertyStore is the persistence the listing services need.
// *repository.PropertyRepository satisfies it.
type PropertyStore interface {
	Create(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id int64) (*model.Property, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Property, error)
	ListByAgent(ctx context.Context, agentID string) ([]model.Property, error)
	ListAll(ctx context.Context, limit int) ([]model.Property, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, p *model.Property) error
	SetStatus(ctx context.Context, id int64, status model.Status) error
	Delete(ctx context.Context, id int64) error
	SetPhoto(ctx context.Context, id int64, fileID, url string) error
}

type PhotoStore interface {
	UploadPhoto(ctx context.Context, src io.Reader, filename, contentType string) (string, error)
	DownloadPhoto(ctx context.Context, photoID string) ([]byte, string, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *model.Payment) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) error
	ListRecent(ctx context.Context, limit int) ([]model.Payment, error)
	SumSuccessful(ctx context.Context) (float64, error)
}

// SnapshotCache holds JSON snapshots of read-mostly collections.
type SnapshotCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, ev events.Event) error
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role model.Role
}

func (a Actor) IsSuperuser() bool { return a.Role == model.RoleSuperuser }

func (a Actor) CanManage(p *model.Property) bool {
	return a.IsSuperuser() || (a.ID != "" && a.ID == p.AgentID)
}
