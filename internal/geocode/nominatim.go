// Package geocode реализует клиент обратного геокодирования Nominatim (OpenStreetMap).
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/IvanTsarou/GenTS/internal/geo"
)

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// Result содержит результат обратного геокодирования.
type Result struct {
	Name      string
	Address   string
	City      string
	Country   string
	PlaceType string
}

// Client выполняет запросы к Nominatim с ограничением 1 запрос в секунду
// (требование условий использования API).
type Client struct {
	httpClient  *http.Client
	userAgent   string
	baseURL     string
	lastRequest time.Time
	rateMu      sync.Mutex
}

// NewClient создает клиент Nominatim. userAgent обязателен по правилам сервиса.
func NewClient(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   nominatimBaseURL,
	}
}

type nominatimResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Error       string `json:"error"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		Country      string `json:"country"`
	} `json:"address"`
}

type nominatimSearchItem struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// ReverseGeocode возвращает название и адрес места по координатам.
// Возвращает (nil, nil), если сервис не нашел место.
func (c *Client) ReverseGeocode(ctx context.Context, point geo.Coordinates) (*Result, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "ru,en")

	var resp nominatimResponse
	if err := c.get(ctx, "/reverse", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, nil
	}

	name := resp.Name
	if name == "" {
		name = firstPart(resp.DisplayName)
	}
	if name == "" {
		name = "Unknown"
	}

	city := resp.Address.City
	if city == "" {
		city = resp.Address.Town
	}
	if city == "" {
		city = resp.Address.Village
	}
	if city == "" {
		city = resp.Address.Municipality
	}

	return &Result{
		Name:      name,
		Address:   resp.DisplayName,
		City:      city,
		Country:   resp.Address.Country,
		PlaceType: resp.Type,
	}, nil
}

// SearchPlace ищет координаты по текстовому запросу.
// Возвращает (nil, nil), если ничего не найдено.
func (c *Client) SearchPlace(ctx context.Context, query string) (*geo.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var items []nominatimSearchItem
	if err := c.get(ctx, "/search", params, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("некорректная широта в ответе Nominatim: %w", err)
	}
	lng, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("некорректная долгота в ответе Nominatim: %w", err)
	}

	return &geo.Coordinates{Lat: lat, Lng: lng}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	// Лимит Nominatim: 1 запрос в секунду
	c.rateMu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < time.Second {
		time.Sleep(time.Second - elapsed)
	}
	c.lastRequest = time.Now()
	c.rateMu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к Nominatim не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Nominatim вернул статус %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("не удалось разобрать ответ Nominatim: %w", err)
	}
	return nil
}

func firstPart(displayName string) string {
	for i := 0; i < len(displayName); i++ {
		if displayName[i] == ',' {
			return displayName[:i]
		}
	}
	return displayName
}
