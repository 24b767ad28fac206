package service

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/IvanTsarou/GenTS/internal/model"
)

func sptr(s string) *string { return &s }

func tptr(t time.Time) *time.Time { return &t }

func testTrip() *model.Trip {
	return &model.Trip{
		ID:        "trip-1",
		Name:      "Поездка в Париж",
		Status:    model.TripStatusActive,
		CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func photoAt(id, locationID string, shotAt time.Time) model.MediaWithAuthor {
	m := model.MediaWithAuthor{
		Media: model.Media{
			ID:        id,
			TripID:    "trip-1",
			UserID:    "user-1",
			FileURL:   sptr("https://example.com/" + id + ".jpg"),
			ShotAt:    tptr(shotAt),
			CreatedAt: shotAt,
		},
		AuthorName: sptr("Иван"),
	}
	if locationID != "" {
		m.LocationID = &locationID
	}
	return m
}

func reviewOn(id, locationID, dayDate string) model.ReviewWithAuthor {
	r := model.ReviewWithAuthor{
		Review: model.Review{
			ID:        id,
			TripID:    "trip-1",
			UserID:    "user-1",
			Text:      sptr("Отличное место"),
			Format:    model.ReviewFormatText,
			CreatedAt: time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC),
		},
		AuthorName: sptr("Иван"),
	}
	if locationID != "" {
		r.LocationID = &locationID
	}
	if dayDate != "" {
		// Драйвер возвращает колонку DATE как time.Time с полночью UTC
		d, err := time.Parse("2006-01-02", dayDate)
		if err != nil {
			panic(err)
		}
		r.DayDate = &d
	}
	return r
}

func TestBuildOrdersDaysAndNumbersThem(t *testing.T) {
	locations := []model.Location{{ID: "loc-1", Name: sptr("Эйфелева башня")}}
	// Медиа приходят не по порядку дат
	media := []model.MediaWithAuthor{
		photoAt("p-3", "loc-1", time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)),
		photoAt("p-1", "loc-1", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		photoAt("p-2", "loc-1", time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)),
	}

	got := Build(testTrip(), media, nil, locations)

	if len(got.Days) != 3 {
		t.Fatalf("дней: %d, ожидалось 3", len(got.Days))
	}
	wantDates := []string{"2024-05-01", "2024-05-02", "2024-05-03"}
	for i, day := range got.Days {
		if day.Date != wantDates[i] {
			t.Errorf("день %d: дата %s, ожидалась %s", i, day.Date, wantDates[i])
		}
		if day.DayNumber != i+1 {
			t.Errorf("день %s: номер %d, ожидался %d", day.Date, day.DayNumber, i+1)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	locations := []model.Location{
		{ID: "loc-1", Name: sptr("Эйфелева башня")},
		{ID: "loc-2", Name: sptr("Лувр")},
	}
	media := []model.MediaWithAuthor{
		photoAt("p-1", "loc-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		photoAt("p-2", "loc-2", time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)),
		photoAt("p-3", "", time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)),
	}
	reviews := []model.ReviewWithAuthor{
		reviewOn("r-1", "loc-2", "2024-05-01"),
		reviewOn("r-2", "", "2024-05-02"),
	}

	first := Build(testTrip(), media, reviews, locations)
	second := Build(testTrip(), media, reviews, locations)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("повторный Build на тех же данных дал другой результат")
	}
}

func TestBuildDanglingLocationGoesToUnassigned(t *testing.T) {
	// Ссылка на несуществующую локацию деградирует в «Без локации»
	media := []model.MediaWithAuthor{
		photoAt("p-1", "deleted-loc", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	}

	got := Build(testTrip(), media, nil, nil)

	if len(got.Days) != 1 || len(got.Days[0].Locations) != 1 {
		t.Fatalf("неожиданная структура: %+v", got.Days)
	}
	bucket := got.Days[0].Locations[0]
	if bucket.Location.ID != "unassigned" {
		t.Errorf("id псевдолокации: %s, ожидалось unassigned", bucket.Location.ID)
	}
	if bucket.Location.Name == nil || *bucket.Location.Name != "Без локации" {
		t.Errorf("имя псевдолокации: %v, ожидалось «Без локации»", bucket.Location.Name)
	}
	if len(bucket.Photos) != 1 || bucket.Photos[0].ID != "p-1" {
		t.Errorf("фото не попало в псевдолокацию: %+v", bucket.Photos)
	}
}

func TestBuildUnassignedSharesBucketWithDangling(t *testing.T) {
	media := []model.MediaWithAuthor{
		photoAt("p-none", "", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		photoAt("p-dangling", "deleted-loc", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}

	got := Build(testTrip(), media, nil, nil)

	if len(got.Days[0].Locations) != 1 {
		t.Fatalf("корзин: %d, ожидалась одна общая «Без локации»", len(got.Days[0].Locations))
	}
	if len(got.Days[0].Locations[0].Photos) != 2 {
		t.Fatalf("фото в корзине: %d, ожидалось 2", len(got.Days[0].Locations[0].Photos))
	}
}

func TestBuildLocationOrderFollowsPhotosThenReviews(t *testing.T) {
	locations := []model.Location{
		{ID: "loc-photo", Name: sptr("Эйфелева башня")},
		{ID: "loc-review", Name: sptr("Лувр")},
	}
	media := []model.MediaWithAuthor{
		photoAt("p-1", "loc-photo", time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)),
	}
	// Отзыв о другой локации в тот же день: его корзина появится после фото
	reviews := []model.ReviewWithAuthor{
		reviewOn("r-1", "loc-review", "2024-05-01"),
	}

	got := Build(testTrip(), media, reviews, locations)

	day := got.Days[0]
	if len(day.Locations) != 2 {
		t.Fatalf("корзин: %d, ожидалось 2", len(day.Locations))
	}
	if day.Locations[0].Location.ID != "loc-photo" {
		t.Errorf("первая корзина: %s, ожидалась loc-photo", day.Locations[0].Location.ID)
	}
	if day.Locations[1].Location.ID != "loc-review" {
		t.Errorf("вторая корзина: %s, ожидалась loc-review", day.Locations[1].Location.ID)
	}
}

func TestBuildDayKeyFallbacks(t *testing.T) {
	// Медиа без shot_at попадает в день по created_at;
	// отзыв с day_date попадает в указанный день, а не в день создания записи
	media := []model.MediaWithAuthor{
		{
			Media: model.Media{
				ID:        "p-1",
				TripID:    "trip-1",
				UserID:    "user-1",
				CreatedAt: time.Date(2024, 5, 7, 23, 30, 0, 0, time.UTC),
			},
		},
	}
	reviews := []model.ReviewWithAuthor{
		reviewOn("r-1", "", "2024-05-03"),
	}

	got := Build(testTrip(), media, reviews, nil)

	if len(got.Days) != 2 {
		t.Fatalf("дней: %d, ожидалось 2", len(got.Days))
	}
	if got.Days[0].Date != "2024-05-03" || got.Days[1].Date != "2024-05-07" {
		t.Fatalf("даты дней: %s, %s", got.Days[0].Date, got.Days[1].Date)
	}
}

func TestBuildReviewAndPhotoShareCalendarDay(t *testing.T) {
	// day_date, прочитанный из базы, приходит как time.Time с полночью UTC;
	// отзыв и фото одной календарной даты обязаны попасть в один день
	locations := []model.Location{{ID: "loc-1", Name: sptr("Эйфелева башня")}}
	media := []model.MediaWithAuthor{
		photoAt("p-1", "loc-1", time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)),
	}
	dayDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	review := reviewOn("r-1", "loc-1", "")
	review.DayDate = &dayDate
	reviews := []model.ReviewWithAuthor{review}

	got := Build(testTrip(), media, reviews, locations)

	if len(got.Days) != 1 {
		t.Fatalf("дней: %d, ожидался 1", len(got.Days))
	}
	day := got.Days[0]
	if day.Date != "2024-05-10" {
		t.Fatalf("дата дня: %q, ожидалась 2024-05-10", day.Date)
	}
	if len(day.Locations) != 1 {
		t.Fatalf("корзин: %d, ожидалась 1", len(day.Locations))
	}
	if len(day.Locations[0].Photos) != 1 || len(day.Locations[0].Reviews) != 1 {
		t.Fatalf("фото и отзыв разошлись по корзинам: %+v", day.Locations)
	}
}

func TestBuildKeepsEveryRecord(t *testing.T) {
	locations := []model.Location{
		{ID: "loc-1", Name: sptr("Эйфелева башня")},
		{ID: "loc-2", Name: sptr("Лувр")},
	}
	media := []model.MediaWithAuthor{
		photoAt("p-1", "loc-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		photoAt("p-2", "loc-2", time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)),
		photoAt("p-3", "", time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)),
		photoAt("p-4", "deleted", time.Date(2024, 5, 2, 11, 0, 0, 0, time.UTC)),
	}
	reviews := []model.ReviewWithAuthor{
		reviewOn("r-1", "loc-1", "2024-05-01"),
		reviewOn("r-2", "", "2024-05-02"),
	}

	got := Build(testTrip(), media, reviews, locations)

	photos, revs := 0, 0
	for _, day := range got.Days {
		for _, loc := range day.Locations {
			photos += len(loc.Photos)
			revs += len(loc.Reviews)
		}
	}
	if photos != len(media) {
		t.Errorf("фото в структуре: %d, ожидалось %d", photos, len(media))
	}
	if revs != len(reviews) {
		t.Errorf("отзывов в структуре: %d, ожидалось %d", revs, len(reviews))
	}
}

func TestBuildEmptyTrip(t *testing.T) {
	got := Build(testTrip(), nil, nil, nil)
	if len(got.Days) != 0 {
		t.Fatalf("дней: %d, ожидалось 0", len(got.Days))
	}
	if got.Trip.ID != "trip-1" || got.Trip.Name != "Поездка в Париж" {
		t.Fatalf("сводка поездки: %+v", got.Trip)
	}
}

type fakeTripReader struct {
	trip *model.Trip
	err  error
}

func (f *fakeTripReader) GetByID(id string) (*model.Trip, error) { return f.trip, f.err }

type fakeMediaLister struct{ media []model.MediaWithAuthor }

func (f *fakeMediaLister) ListByTripWithAuthors(tripID string) ([]model.MediaWithAuthor, error) {
	return f.media, nil
}

type fakeReviewLister struct{ reviews []model.ReviewWithAuthor }

func (f *fakeReviewLister) ListByTripWithAuthors(tripID string) ([]model.ReviewWithAuthor, error) {
	return f.reviews, nil
}

type fakeLocationLister struct{ locations []model.Location }

func (f *fakeLocationLister) ListByTrip(tripID string) ([]model.Location, error) {
	return f.locations, nil
}

func TestStructureTripNotFound(t *testing.T) {
	s := NewStructureService(
		&fakeTripReader{err: sql.ErrNoRows},
		&fakeMediaLister{}, &fakeReviewLister{}, &fakeLocationLister{})

	_, err := s.StructureTrip("missing")
	if !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("err = %v, ожидался ErrTripNotFound", err)
	}
}

func TestStructureTripBuildsFromStores(t *testing.T) {
	s := NewStructureService(
		&fakeTripReader{trip: testTrip()},
		&fakeMediaLister{media: []model.MediaWithAuthor{
			photoAt("p-1", "loc-1", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		}},
		&fakeReviewLister{},
		&fakeLocationLister{locations: []model.Location{{ID: "loc-1", Name: sptr("Эйфелева башня")}}})

	got, err := s.StructureTrip("trip-1")
	if err != nil {
		t.Fatalf("StructureTrip: %v", err)
	}
	if len(got.Days) != 1 || got.Days[0].Locations[0].Location.ID != "loc-1" {
		t.Fatalf("неожиданная структура: %+v", got.Days)
	}
}
