// Package wiki ищет краткое описание места в Wikipedia
// (сначала русская, затем английская).
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var languages = []string{"ru", "en"}

// Result описывает найденную статью.
type Result struct {
	Title       string
	Description string
	URL         string
}

// Client выполняет запросы к MediaWiki API.
type Client struct {
	httpClient *http.Client
}

// NewClient создает клиент Wikipedia.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search ищет статью по названию места. Возвращает (nil, nil), если не найдено.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	for _, lang := range languages {
		result, err := c.searchByLang(ctx, query, lang)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) searchByLang(ctx context.Context, query, lang string) (*Result, error) {
	apiURL := fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)

	// Шаг 1: поиск статьи
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", "1")
	params.Set("format", "json")

	var search searchResponse
	if err := c.get(ctx, apiURL, params, &search); err != nil {
		return nil, err
	}
	if len(search.Query.Search) == 0 {
		return nil, nil
	}
	pageTitle := search.Query.Search[0].Title

	// Шаг 2: краткое описание (первые три предложения)
	params = url.Values{}
	params.Set("action", "query")
	params.Set("titles", pageTitle)
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("exsentences", "3")
	params.Set("format", "json")

	var extract extractResponse
	if err := c.get(ctx, apiURL, params, &extract); err != nil {
		return nil, err
	}

	for pageID, page := range extract.Query.Pages {
		if pageID == "-1" {
			return nil, nil
		}
		articleURL := fmt.Sprintf("https://%s.wikipedia.org/wiki/%s",
			lang, url.PathEscape(strings.ReplaceAll(page.Title, " ", "_")))
		return &Result{
			Title:       page.Title,
			Description: page.Extract,
			URL:         articleURL,
		}, nil
	}
	return nil, nil
}

func (c *Client) get(ctx context.Context, apiURL string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к Wikipedia не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Wikipedia вернула статус %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("не удалось разобрать ответ Wikipedia: %w", err)
	}
	return nil
}
