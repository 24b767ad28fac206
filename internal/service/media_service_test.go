package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IvanTsarou/GenTS/internal/geo"
	"github.com/IvanTsarou/GenTS/internal/model"

	"go.uber.org/zap"
)

type fakeMediaStore struct {
	saved    []*model.Media
	counts   map[string]int
	unlinked []model.Media

	attachedIDs []string
	attachedLoc string
}

func (f *fakeMediaStore) Create(m *model.Media) error {
	f.saved = append(f.saved, m)
	return nil
}

func (f *fakeMediaStore) CountByLocationAndUser(locationID, userID string) (int, error) {
	return f.counts[locationID], nil
}

func (f *fakeMediaStore) ListUnlinked(tripID, userID string, limit int) ([]model.Media, error) {
	if len(f.unlinked) > limit {
		return f.unlinked[:limit], nil
	}
	return f.unlinked, nil
}

func (f *fakeMediaStore) AttachLocation(mediaIDs []string, locationID string, lat, lng float64) error {
	f.attachedIDs = mediaIDs
	f.attachedLoc = locationID
	return nil
}

type fakeResolver struct {
	location *model.Location
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(ctx context.Context, tripID string, point geo.Coordinates) (*model.Location, error) {
	f.calls++
	return f.location, f.err
}

func newTestMediaService(store *fakeMediaStore, resolver *fakeResolver) *MediaService {
	if store.counts == nil {
		store.counts = map[string]int{}
	}
	s := NewMediaService(store, resolver, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestSaveMediaWithoutCoordinates(t *testing.T) {
	store := &fakeMediaStore{}
	resolver := &fakeResolver{}
	s := newTestMediaService(store, resolver)

	result, err := s.SaveMedia(context.Background(), SaveMediaInput{
		TripID:         "trip-1",
		UserID:         "user-1",
		TelegramFileID: "file-1",
		FileURL:        "https://cdn.example.com/p.jpg",
	})
	if err != nil {
		t.Fatalf("SaveMedia: %v", err)
	}
	if !result.NeedsGeolocation {
		t.Fatal("NeedsGeolocation = false для медиа без координат")
	}
	if resolver.calls != 0 {
		t.Errorf("кластеризация вызвана %d раз без координат", resolver.calls)
	}
	if len(store.saved) != 1 {
		t.Fatalf("сохранено медиа: %d", len(store.saved))
	}
	m := store.saved[0]
	if m.LocationID != nil || m.Lat != nil || m.Lng != nil {
		t.Error("медиа без координат не должно получать привязку")
	}
	if m.ShotAt == nil || !m.ShotAt.Equal(testNow) {
		t.Errorf("shot_at: %v, ожидался момент сохранения", m.ShotAt)
	}
}

func TestSaveMediaClustersIntoLocation(t *testing.T) {
	store := &fakeMediaStore{}
	resolver := &fakeResolver{location: &model.Location{ID: "loc-1", Name: sptr("Эйфелева башня")}}
	s := newTestMediaService(store, resolver)

	shotAt := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	result, err := s.SaveMedia(context.Background(), SaveMediaInput{
		TripID:         "trip-1",
		UserID:         "user-1",
		TelegramFileID: "file-1",
		FileURL:        "https://cdn.example.com/p.jpg",
		ShotAt:         &shotAt,
		Coordinates:    &geo.Coordinates{Lat: 48.8584, Lng: 2.2945},
	})
	if err != nil {
		t.Fatalf("SaveMedia: %v", err)
	}
	if result.Location == nil || result.Location.ID != "loc-1" {
		t.Fatalf("локация = %v, ожидалась loc-1", result.Location)
	}
	m := store.saved[0]
	if m.LocationID == nil || *m.LocationID != "loc-1" {
		t.Errorf("location_id: %v", m.LocationID)
	}
	if m.Lat == nil || *m.Lat != 48.8584 {
		t.Errorf("lat: %v", m.Lat)
	}
	if m.ShotAt == nil || !m.ShotAt.Equal(shotAt) {
		t.Errorf("shot_at: %v, ожидалась дата из EXIF", m.ShotAt)
	}
}

func TestSaveMediaLimitKeepsMediaUnlinked(t *testing.T) {
	store := &fakeMediaStore{counts: map[string]int{"loc-1": PhotoLimitPerLocation}}
	resolver := &fakeResolver{location: &model.Location{ID: "loc-1", Name: sptr("Эйфелева башня")}}
	s := newTestMediaService(store, resolver)

	result, err := s.SaveMedia(context.Background(), SaveMediaInput{
		TripID:         "trip-1",
		UserID:         "user-1",
		TelegramFileID: "file-1",
		FileURL:        "https://cdn.example.com/p.jpg",
		Coordinates:    &geo.Coordinates{Lat: 48.8584, Lng: 2.2945},
	})
	if err != nil {
		t.Fatalf("SaveMedia: %v", err)
	}
	if !result.LimitReached {
		t.Fatal("LimitReached = false при достигнутом лимите")
	}
	// Медиа сохраняется, координаты остаются, привязки нет
	if len(store.saved) != 1 {
		t.Fatalf("сохранено медиа: %d", len(store.saved))
	}
	m := store.saved[0]
	if m.LocationID != nil {
		t.Error("медиа сверх лимита не должно привязываться к локации")
	}
	if m.Lat == nil || m.Lng == nil {
		t.Error("координаты медиа должны сохраниться")
	}
}

func TestSaveMediaSurvivesResolverFailure(t *testing.T) {
	store := &fakeMediaStore{}
	resolver := &fakeResolver{err: errors.New("геокодер недоступен")}
	s := newTestMediaService(store, resolver)

	result, err := s.SaveMedia(context.Background(), SaveMediaInput{
		TripID:         "trip-1",
		UserID:         "user-1",
		TelegramFileID: "file-1",
		FileURL:        "https://cdn.example.com/p.jpg",
		Coordinates:    &geo.Coordinates{Lat: 48.8584, Lng: 2.2945},
	})
	if err != nil {
		t.Fatalf("SaveMedia должен переживать отказ кластеризации: %v", err)
	}
	if result.Location != nil {
		t.Errorf("локация = %v, ожидалось nil", result.Location)
	}
	if len(store.saved) != 1 {
		t.Fatal("медиа не сохранено")
	}
}

func TestAttachGeolocationNothingToAttach(t *testing.T) {
	store := &fakeMediaStore{}
	resolver := &fakeResolver{location: &model.Location{ID: "loc-1"}}
	s := newTestMediaService(store, resolver)

	result, err := s.AttachGeolocation(context.Background(), "trip-1", "user-1", geo.Coordinates{Lat: 48.8584, Lng: 2.2945})
	if err != nil {
		t.Fatalf("AttachGeolocation: %v", err)
	}
	if result.Attached != 0 {
		t.Errorf("Attached = %d, ожидалось 0", result.Attached)
	}
	if resolver.calls != 0 {
		t.Errorf("кластеризация вызвана %d раз без непривязанных медиа", resolver.calls)
	}
}

func TestAttachGeolocationBackfillsBatch(t *testing.T) {
	store := &fakeMediaStore{unlinked: []model.Media{{ID: "m-1"}, {ID: "m-2"}}}
	resolver := &fakeResolver{location: &model.Location{ID: "loc-1", Name: sptr("Эйфелева башня")}}
	s := newTestMediaService(store, resolver)

	result, err := s.AttachGeolocation(context.Background(), "trip-1", "user-1", geo.Coordinates{Lat: 48.8584, Lng: 2.2945})
	if err != nil {
		t.Fatalf("AttachGeolocation: %v", err)
	}
	if result.Attached != 2 {
		t.Errorf("Attached = %d, ожидалось 2", result.Attached)
	}
	if store.attachedLoc != "loc-1" {
		t.Errorf("локация привязки: %s", store.attachedLoc)
	}
	if len(store.attachedIDs) != 2 || store.attachedIDs[0] != "m-1" || store.attachedIDs[1] != "m-2" {
		t.Errorf("привязанные медиа: %v", store.attachedIDs)
	}
}
