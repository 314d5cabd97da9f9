package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/query"
	"github.com/josiaO/SmartDalaliTZ/internal/seed"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

var (
	superuser  = Actor{ID: "1", Role: model.RoleSuperuser}
	agent      = Actor{ID: "2", Role: model.RoleAgent}
	otherAgent = Actor{ID: "4", Role: model.RoleAgent}
	visitor    = Actor{}
)

type propertyFixture struct {
	svc    *PropertyService
	store  *memPropertyStore
	cache  *memCache
	events *recordingPublisher
	photos *memPhotoStore
}

func newPropertyFixture(t *testing.T) propertyFixture {
	t.Helper()
	users := newMemUserStore(
		model.User{ID: "1", Name: "Admin User", Role: model.RoleSuperuser},
		model.User{ID: "2", Name: "John Agent", Phone: "+255 712 345 678", Role: model.RoleAgent},
		model.User{ID: "3", Name: "Regular User", Role: model.RoleUser},
		model.User{ID: "4", Name: "Asha Agent", Phone: "+255 754 000 111", Role: model.RoleAgent},
	)
	f := propertyFixture{
		store:  newMemPropertyStore(seed.Properties()),
		cache:  newMemCache(),
		events: &recordingPublisher{},
		photos: newMemPhotoStore(),
	}
	f.svc = NewPropertyService(f.store, f.photos, LocalDirectory{Users: users}, f.cache, time.Minute, f.events)
	return f
}

func ids(list []model.Property) []int64 {
	out := make([]int64, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func newListing() model.Property {
	beds := 2
	return model.Property{
		Title:        "Cozy Flat in Sinza",
		Description:  "Two bedroom flat close to the market.",
		PropertyType: "Apartment",
		Type:         model.TypeRent,
		Price:        600000,
		Location:     model.Location{City: "Dar es Salaam", Address: "Sinza"},
		Images:       []string{"https://example.com/sinza.jpg"},
		Bedrooms:     &beds,
		Area:         90,
		Featured:     true,
	}
}

func requireAppError(t *testing.T, err error, status int) *utils.AppError {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	return appErr
}

func TestPropertyService_Search(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	got, err := f.svc.Search(ctx, query.ParseDescriptor("", "rent", "all", false))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, ids(got))

	got, err = f.svc.Search(ctx, query.ParseDescriptor("  VILLA ", "", "", false))
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(got))
}

func TestPropertyService_SearchUsesCache(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Search(ctx, query.Descriptor{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.store.calls)

	_, err := f.svc.Reject(ctx, 1)
	require.NoError(t, err)

	got, err := f.svc.Search(ctx, query.Descriptor{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.calls)
	assert.Equal(t, []int64{2, 3, 4, 5, 6}, ids(got))
}

func TestPropertyService_FacetsAndFeatured(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	facets, err := f.svc.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dar es Salaam"}, facets.Cities)
	assert.Equal(t, []model.TransactionType{model.TypeLand, model.TypeRent, model.TypeSale}, facets.Types)

	featured, err := f.svc.Featured(ctx, DefaultFeaturedLimit)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids(featured))
}

func TestPropertyService_MapMarkersRequireCoordinates(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	noPin := newListing()
	noPin.Status = model.StatusPublished
	require.NoError(t, f.store.Create(ctx, &noPin))

	all, err := f.svc.Search(ctx, query.Descriptor{})
	require.NoError(t, err)
	assert.Len(t, all, 7)

	markers, err := f.svc.MapMarkers(ctx, query.Descriptor{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(markers))
}

func TestPropertyService_CreateStartsPending(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, agent, "", "", newListing())
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, model.StatusPending, p.Status)
	assert.Equal(t, "John Agent", p.AgentName)
	assert.Equal(t, "+255 712 345 678", p.AgentPhone)
	assert.False(t, p.Featured, "agents cannot feature their own listings")
	assert.Equal(t, []string{events.RoutingPropertyCreated}, f.events.kinds())

	// Pending listings stay out of the catalogue.
	got, err := f.svc.Search(ctx, query.Descriptor{})
	require.NoError(t, err)
	assert.NotContains(t, ids(got), p.ID)

	_, err = f.svc.Get(ctx, visitor, p.ID)
	requireAppError(t, err, http.StatusNotFound)
	_, err = f.svc.Get(ctx, otherAgent, p.ID)
	requireAppError(t, err, http.StatusNotFound)
	owned, err := f.svc.Get(ctx, agent, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, owned.Title)
}

func TestPropertyService_CreateOnBehalfOfAgent(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, superuser, "4", "", newListing())
	require.NoError(t, err)
	assert.Equal(t, "4", p.AgentID)
	assert.True(t, p.Featured)

	// Only superusers may pick the owner.
	p, err = f.svc.Create(ctx, agent, "4", "", newListing())
	require.NoError(t, err)
	assert.Equal(t, "2", p.AgentID)
}

func TestPropertyService_CreateRejects(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, superuser, "3", "", newListing())
	requireAppError(t, err, http.StatusBadRequest)

	_, err = f.svc.Create(ctx, superuser, "99", "", newListing())
	requireAppError(t, err, http.StatusBadRequest)

	noImages := newListing()
	noImages.Images = nil
	_, err = f.svc.Create(ctx, agent, "", "", noImages)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, appErr, model.ErrNoImages)

	badType := newListing()
	badType.Type = "lease"
	_, err = f.svc.Create(ctx, agent, "", "", badType)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestPropertyService_UpdateOwnership(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	in := newListing()
	in.Title = "Renamed"
	_, err := f.svc.Update(ctx, otherAgent, 1, in)
	requireAppError(t, err, http.StatusForbidden)

	updated, err := f.svc.Update(ctx, agent, 3, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.Featured, "only superusers toggle featured")
	assert.Equal(t, model.StatusPublished, updated.Status)

	in.Featured = true
	updated, err = f.svc.Update(ctx, superuser, 3, in)
	require.NoError(t, err)
	assert.True(t, updated.Featured)

	_, err = f.svc.Update(ctx, superuser, 404, in)
	requireAppError(t, err, http.StatusNotFound)
}

func TestPropertyService_Moderation(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, agent, "", "", newListing())
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, ids(pending))

	approved, err := f.svc.Approve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, approved.Status)

	got, err := f.svc.Search(ctx, query.ParseDescriptor("sinza", "", "", false))
	require.NoError(t, err)
	assert.Equal(t, []int64{p.ID}, ids(got))

	rejected, err := f.svc.Reject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, rejected.Status)

	assert.Equal(t, []string{
		events.RoutingPropertyCreated,
		events.RoutingPropertyStatusChanged,
		events.RoutingPropertyStatusChanged,
	}, f.events.kinds())

	_, err = f.svc.Approve(ctx, 404)
	requireAppError(t, err, http.StatusNotFound)
}

func TestPropertyService_Delete(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	err := f.svc.Delete(ctx, otherAgent, 2)
	requireAppError(t, err, http.StatusForbidden)

	require.NoError(t, f.svc.Delete(ctx, agent, 2))
	mine, err := f.svc.AgentListings(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 5, 6}, ids(mine))
	assert.Equal(t, []string{events.RoutingPropertyDeleted}, f.events.kinds())

	err = f.svc.Delete(ctx, superuser, 2)
	requireAppError(t, err, http.StatusNotFound)
}

func TestPropertyService_Photos(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Photo(ctx, 1)
	requireAppError(t, err, http.StatusNotFound)

	_, err = f.svc.AttachPhoto(ctx, otherAgent, 1, strings.NewReader("jpeg"), "front.jpg", "image/jpeg")
	requireAppError(t, err, http.StatusForbidden)

	fileID, err := f.svc.AttachPhoto(ctx, agent, 1, strings.NewReader("jpeg"), "front.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, fileID)

	data, contentType, err := f.svc.Photo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
	assert.Equal(t, "image/jpeg", contentType)

	p, err := f.svc.Get(ctx, visitor, 1)
	require.NoError(t, err)
	assert.Contains(t, p.Images, PhotoURL(1))
}

func TestPropertyService_PhotosWithoutStorage(t *testing.T) {
	users := newMemUserStore(model.User{ID: "2", Role: model.RoleAgent})
	svc := NewPropertyService(newMemPropertyStore(seed.Properties()), nil, LocalDirectory{Users: users}, nil, 0, nil)

	_, err := svc.AttachPhoto(context.Background(), agent, 1, strings.NewReader("x"), "a.jpg", "image/jpeg")
	requireAppError(t, err, http.StatusServiceUnavailable)

	got, err := svc.Search(context.Background(), query.Descriptor{})
	require.NoError(t, err)
	assert.Len(t, got, 6)
}
