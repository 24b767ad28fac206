package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/IvanTsarou/GenTS/internal/model"

	"go.uber.org/zap"
)

type fakeMediaFinder struct {
	byFileID map[string]*model.Media
	latest   *model.Media
	since    time.Time // фактический аргумент последнего вызова LatestGeotagged
}

func (f *fakeMediaFinder) GetByTelegramFileID(tripID, fileID string) (*model.Media, error) {
	if m, ok := f.byFileID[fileID]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMediaFinder) LatestGeotagged(tripID, userID string, since time.Time) (*model.Media, error) {
	f.since = since
	if f.latest == nil {
		return nil, sql.ErrNoRows
	}
	if f.latest.CreatedAt.Before(since) {
		return nil, sql.ErrNoRows
	}
	return f.latest, nil
}

type fakeReviewStore struct {
	saved  []*model.Review
	counts map[string]int // location_id -> количество отзывов пользователя
}

func (f *fakeReviewStore) Create(rev *model.Review) error {
	f.saved = append(f.saved, rev)
	return nil
}

func (f *fakeReviewStore) CountByLocationAndUser(locationID, userID string) (int, error) {
	return f.counts[locationID], nil
}

type fakeLocationGetter struct {
	locations map[string]*model.Location
}

func (f *fakeLocationGetter) GetByID(id string) (*model.Location, error) {
	if loc, ok := f.locations[id]; ok {
		return loc, nil
	}
	return nil, sql.ErrNoRows
}

var testNow = time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

func newTestReviewService(media *fakeMediaFinder, store *fakeReviewStore, locs *fakeLocationGetter) *ReviewService {
	if store.counts == nil {
		store.counts = map[string]int{}
	}
	s := NewReviewService(store, media, locs, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestFindLocationPrefersReplyOverRecency(t *testing.T) {
	replyLoc := "loc-reply"
	recentLoc := "loc-recent"
	media := &fakeMediaFinder{
		byFileID: map[string]*model.Media{
			"file-42": {ID: "m-1", LocationID: &replyLoc},
		},
		latest: &model.Media{ID: "m-2", LocationID: &recentLoc, CreatedAt: testNow.Add(-10 * time.Minute)},
	}
	locs := &fakeLocationGetter{locations: map[string]*model.Location{
		"loc-reply":  {ID: "loc-reply", Name: sptr("Эйфелева башня")},
		"loc-recent": {ID: "loc-recent", Name: sptr("Лувр")},
	}}
	s := newTestReviewService(media, &fakeReviewStore{}, locs)

	got, err := s.FindLocationForContent("trip-1", "user-1", "file-42")
	if err != nil {
		t.Fatalf("FindLocationForContent: %v", err)
	}
	if got == nil || got.ID != "loc-reply" {
		t.Fatalf("локация = %v, ожидалась loc-reply (реплай важнее давности)", got)
	}
}

func TestFindLocationRecentPhotoWithinWindow(t *testing.T) {
	locID := "loc-1"
	media := &fakeMediaFinder{
		latest: &model.Media{ID: "m-1", LocationID: &locID, CreatedAt: testNow.Add(-90 * time.Minute)},
	}
	locs := &fakeLocationGetter{locations: map[string]*model.Location{
		"loc-1": {ID: "loc-1", Name: sptr("Эйфелева башня")},
	}}
	s := newTestReviewService(media, &fakeReviewStore{}, locs)

	got, err := s.FindLocationForContent("trip-1", "user-1", "")
	if err != nil {
		t.Fatalf("FindLocationForContent: %v", err)
	}
	if got == nil || got.ID != "loc-1" {
		t.Fatalf("локация = %v, ожидалась loc-1 (фото 90 минут назад)", got)
	}
	if want := testNow.Add(-2 * time.Hour); !media.since.Equal(want) {
		t.Errorf("начало окна: %v, ожидалось %v", media.since, want)
	}
}

func TestFindLocationRecentPhotoTooOld(t *testing.T) {
	locID := "loc-1"
	media := &fakeMediaFinder{
		latest: &model.Media{ID: "m-1", LocationID: &locID, CreatedAt: testNow.Add(-3 * time.Hour)},
	}
	s := newTestReviewService(media, &fakeReviewStore{}, &fakeLocationGetter{})

	got, err := s.FindLocationForContent("trip-1", "user-1", "")
	if err != nil {
		t.Fatalf("FindLocationForContent: %v", err)
	}
	if got != nil {
		t.Fatalf("локация = %s, ожидалось nil (фото старше 2 часов)", got.ID)
	}
}

func TestSaveTextReviewAttachesLocation(t *testing.T) {
	locID := "loc-1"
	media := &fakeMediaFinder{
		latest: &model.Media{ID: "m-1", LocationID: &locID, CreatedAt: testNow.Add(-time.Hour)},
	}
	store := &fakeReviewStore{}
	locs := &fakeLocationGetter{locations: map[string]*model.Location{
		"loc-1": {ID: "loc-1", Name: sptr("Эйфелева башня")},
	}}
	s := newTestReviewService(media, store, locs)

	result, err := s.SaveTextReview("trip-1", "user-1", "Потрясающий вид!", "")
	if err != nil {
		t.Fatalf("SaveTextReview: %v", err)
	}
	if result.LimitReached {
		t.Fatal("LimitReached = true при нулевом счетчике")
	}
	if len(store.saved) != 1 {
		t.Fatalf("сохранено отзывов: %d, ожидался 1", len(store.saved))
	}
	rev := store.saved[0]
	if rev.ID == "" {
		t.Error("у отзыва пустой ID")
	}
	if rev.Format != model.ReviewFormatText {
		t.Errorf("формат: %s, ожидался text", rev.Format)
	}
	if rev.LocationID == nil || *rev.LocationID != "loc-1" {
		t.Errorf("location_id: %v, ожидался loc-1", rev.LocationID)
	}
	if rev.DayDate == nil || !rev.DayDate.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day_date: %v, ожидалась полночь UTC 2024-05-10", rev.DayDate)
	}
}

func TestSaveTextReviewWithoutLocation(t *testing.T) {
	store := &fakeReviewStore{}
	s := newTestReviewService(&fakeMediaFinder{}, store, &fakeLocationGetter{})

	result, err := s.SaveTextReview("trip-1", "user-1", "Хороший день", "")
	if err != nil {
		t.Fatalf("SaveTextReview: %v", err)
	}
	if result.Location != nil {
		t.Fatalf("локация = %v, ожидалось nil", result.Location)
	}
	if len(store.saved) != 1 || store.saved[0].LocationID != nil {
		t.Fatal("отзыв должен сохраниться без привязки к локации")
	}
}

func TestSaveTextReviewLimitReached(t *testing.T) {
	locID := "loc-1"
	media := &fakeMediaFinder{
		latest: &model.Media{ID: "m-1", LocationID: &locID, CreatedAt: testNow.Add(-time.Hour)},
	}
	store := &fakeReviewStore{counts: map[string]int{"loc-1": ReviewLimitPerLocation}}
	locs := &fakeLocationGetter{locations: map[string]*model.Location{
		"loc-1": {ID: "loc-1", Name: sptr("Эйфелева башня")},
	}}
	s := newTestReviewService(media, store, locs)

	result, err := s.SaveTextReview("trip-1", "user-1", "Еще один отзыв", "")
	if err != nil {
		t.Fatalf("SaveTextReview: %v", err)
	}
	if !result.LimitReached {
		t.Fatal("LimitReached = false при достигнутом лимите")
	}
	if len(store.saved) != 0 {
		t.Fatalf("отзыв сохранен несмотря на лимит: %+v", store.saved)
	}
	if result.Location == nil || result.Location.ID != "loc-1" {
		t.Errorf("в результате нет локации, по которой достигнут лимит")
	}
}

func TestSaveVoiceReviewUsesPlaceholderText(t *testing.T) {
	store := &fakeReviewStore{}
	s := newTestReviewService(&fakeMediaFinder{}, store, &fakeLocationGetter{})

	result, err := s.SaveVoiceReview("trip-1", "user-1", "https://cdn.example.com/a.ogg", "")
	if err != nil {
		t.Fatalf("SaveVoiceReview: %v", err)
	}
	rev := result.Review
	if rev.Format != model.ReviewFormatAudio {
		t.Errorf("формат: %s, ожидался audio", rev.Format)
	}
	if rev.AudioURL == nil || *rev.AudioURL != "https://cdn.example.com/a.ogg" {
		t.Errorf("audio_url: %v", rev.AudioURL)
	}
	if rev.Text == nil || *rev.Text == "" {
		t.Error("у голосового отзыва должен быть текст-заглушка")
	}
}
