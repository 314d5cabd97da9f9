package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/logger"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/query"
	"github.com/josiaO/SmartDalaliTZ/internal/repository"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

const publishedCacheKey = "properties:published"

// DefaultFeaturedLimit is the size of the home page showcase.
const DefaultFeaturedLimit = 3

// PropertyService serves the public catalogue and the agent/admin listing
// workflows. Catalogue reads run the query engine over the published set.
type PropertyService struct {
	store     PropertyStore
	photos    PhotoStore
	directory UserDirectory
	cache     SnapshotCache
	cacheTTL  time.Duration
	events    EventPublisher
}

func NewPropertyService(
	store PropertyStore,
	photos PhotoStore,
	directory UserDirectory,
	cache SnapshotCache,
	cacheTTL time.Duration,
	publisher EventPublisher,
) *PropertyService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &PropertyService{
		store:     store,
		photos:    photos,
		directory: directory,
		cache:     cache,
		cacheTTL:  cacheTTL,
		events:    publisher,
	}
}

// published loads the published collection, going through the cache when one
// is configured. Cache failures only cost a database read.
func (s *PropertyService) published(ctx context.Context) ([]model.Property, error) {
	if s.cache != nil {
		var cached []model.Property
		hit, err := s.cache.GetJSON(ctx, publishedCacheKey, &cached)
		if err != nil {
			logger.Log.WithError(err).Warn("published cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	list, err := s.store.ListByStatus(ctx, model.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.published: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, publishedCacheKey, list, s.cacheTTL); err != nil {
			logger.Log.WithError(err).Warn("published cache write failed")
		}
	}
	return list, nil
}

func (s *PropertyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey); err != nil {
		logger.Log.WithError(err).Warn("published cache invalidation failed")
	}
}

func (s *PropertyService) emit(ctx context.Context, routingKey string, p *model.Property) {
	ev := events.Event{
		Kind:       routingKey,
		PropertyID: p.ID,
		AgentID:    p.AgentID,
		Status:     string(p.Status),
		At:         time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, routingKey, ev); err != nil {
		logger.Log.WithError(err).Warnf("failed to publish %s for property %d", routingKey, p.ID)
	}
}

// Search runs d over the published catalogue.
func (s *PropertyService) Search(ctx context.Context, d query.Descriptor) ([]model.Property, error) {
	src, err := s.published(ctx)
	if err != nil {
		return nil, utils.NewInternal("Failed to load properties", err)
	}
	return query.Query(src, d), nil
}

// MapMarkers is Search restricted to properties that can be placed on a map.
func (s *PropertyService) MapMarkers(ctx context.Context, d query.Descriptor) ([]model.Property, error) {
	d.RequireCoordinates = true
	return s.Search(ctx, d)
}

func (s *PropertyService) Facets(ctx context.Context) (query.Facets, error) {
	src, err := s.published(ctx)
	if err != nil {
		return query.Facets{}, utils.NewInternal("Failed to load properties", err)
	}
	return query.DeriveFacets(src), nil
}

func (s *PropertyService) Featured(ctx context.Context, limit int) ([]model.Property, error) {
	src, err := s.published(ctx)
	if err != nil {
		return nil, utils.NewInternal("Failed to load properties", err)
	}
	return query.Featured(src, limit), nil
}

// Get returns a property. Unpublished ones are only visible to their agent
// and superusers; everyone else gets a not-found.
func (s *PropertyService) Get(ctx context.Context, viewer Actor, id int64) (*model.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != model.StatusPublished && !viewer.CanManage(p) {
		return nil, utils.NewNotFound("Property not found", repository.ErrNotFound)
	}
	return p, nil
}

func (s *PropertyService) load(ctx context.Context, id int64) (*model.Property, error) {
	p, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound("Property not found", err)
	}
	if err != nil {
		return nil, utils.NewInternal("Failed to load property", err)
	}
	return p, nil
}

// Create stores a new listing owned by agentID. Listings start pending and
// wait for a superuser to approve them. authHeader is forwarded to a remote
// user directory when one is configured.
func (s *PropertyService) Create(ctx context.Context, actor Actor, agentID, authHeader string, p model.Property) (*model.Property, error) {
	if agentID == "" || !actor.IsSuperuser() {
		agentID = actor.ID
	}

	agent, err := s.directory.Lookup(ctx, agentID, authHeader)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewValidation("Agent with given ID not found", err)
	}
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusBadGateway, Code: utils.ErrCodeExternalService, Message: "Error checking agent", Err: err}
	}

	p.ID = 0
	p.AgentID = agent.ID
	p.AgentName = agent.Name
	p.AgentPhone = agent.Phone
	p.Status = model.StatusPending
	p.CreatedAt = time.Now().UTC()
	if !actor.IsSuperuser() {
		p.Featured = false
	}
	if err := p.Validate(); err != nil {
		return nil, utils.NewValidation(err.Error(), err)
	}

	if err := s.store.Create(ctx, &p); err != nil {
		return nil, utils.NewInternal("Failed to create property", err)
	}
	logger.Log.Infof("Property %d created by %s for agent %s", p.ID, actor.ID, p.AgentID)
	s.emit(ctx, events.RoutingPropertyCreated, &p)
	return &p, nil
}

// Update replaces the editable fields of a listing. Only superusers may
// change the featured flag.
func (s *PropertyService) Update(ctx context.Context, actor Actor, id int64, in model.Property) (*model.Property, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(current) {
		return nil, utils.NewForbidden("You are not allowed to edit this property")
	}

	current.Title = in.Title
	current.Description = in.Description
	current.PropertyType = in.PropertyType
	current.Type = in.Type
	current.Price = in.Price
	current.Location = in.Location
	current.Images = in.Images
	current.Bedrooms = in.Bedrooms
	current.Bathrooms = in.Bathrooms
	current.Area = in.Area
	if actor.IsSuperuser() {
		current.Featured = in.Featured
	}
	if err := current.Validate(); err != nil {
		return nil, utils.NewValidation(err.Error(), err)
	}

	if err := s.store.Update(ctx, current); err != nil {
		return nil, utils.NewInternal("Failed to update property", err)
	}
	s.invalidate(ctx)
	return current, nil
}

func (s *PropertyService) Delete(ctx context.Context, actor Actor, id int64) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(current) {
		return utils.NewForbidden("You are not allowed to delete this property")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFound("Property not found", err)
		}
		return utils.NewInternal("Failed to delete property", err)
	}
	s.invalidate(ctx)
	s.emit(ctx, events.RoutingPropertyDeleted, current)
	return nil
}

func (s *PropertyService) ListPending(ctx context.Context) ([]model.Property, error) {
	list, err := s.store.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, utils.NewInternal("Failed to load pending properties", err)
	}
	return list, nil
}

func (s *PropertyService) AgentListings(ctx context.Context, agentID string) ([]model.Property, error) {
	list, err := s.store.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, utils.NewInternal("Failed to load agent properties", err)
	}
	return list, nil
}

// Approve publishes a listing.
func (s *PropertyService) Approve(ctx context.Context, id int64) (*model.Property, error) {
	return s.setStatus(ctx, id, model.StatusPublished)
}

// Reject sends a listing back to draft.
func (s *PropertyService) Reject(ctx context.Context, id int64) (*model.Property, error) {
	return s.setStatus(ctx, id, model.StatusDraft)
}

func (s *PropertyService) setStatus(ctx context.Context, id int64, status model.Status) (*model.Property, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFound("Property not found", err)
		}
		return nil, utils.NewInternal("Failed to update property status", err)
	}
	current.Status = status
	s.invalidate(ctx)
	s.emit(ctx, events.RoutingPropertyStatusChanged, current)
	return current, nil
}

// PhotoURL is the public path of a listing's uploaded photo.
func PhotoURL(id int64) string {
	return fmt.Sprintf("/api/v1/properties/%d/photo", id)
}

func (s *PropertyService) AttachPhoto(ctx context.Context, actor Actor, id int64, src io.Reader, filename, contentType string) (string, error) {
	if s.photos == nil {
		return "", &utils.AppError{StatusCode: http.StatusServiceUnavailable, Code: utils.ErrCodeExternalService, Message: "Photo storage is not configured"}
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !actor.CanManage(current) {
		return "", utils.NewForbidden("You are not allowed to edit this property")
	}

	name := fmt.Sprintf("property_%d_%s", id, filename)
	fileID, err := s.photos.UploadPhoto(ctx, src, name, contentType)
	if err != nil {
		return "", utils.NewInternal("Upload failed", err)
	}
	if err := s.store.SetPhoto(ctx, id, fileID, PhotoURL(id)); err != nil {
		return "", utils.NewInternal("Failed to update property", err)
	}
	s.invalidate(ctx)
	return fileID, nil
}

func (s *PropertyService) Photo(ctx context.Context, id int64) ([]byte, string, error) {
	if s.photos == nil {
		return nil, "", utils.NewNotFound("Photo not found for this property", nil)
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if p.PhotoFileID == "" {
		return nil, "", utils.NewNotFound("Photo not found for this property", nil)
	}
	data, contentType, err := s.photos.DownloadPhoto(ctx, p.PhotoFileID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", utils.NewNotFound("Photo not found for this property", err)
	}
	if err != nil {
		return nil, "", utils.NewInternal("Download failed", err)
	}
	return data, contentType, nil
}
