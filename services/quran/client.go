package quransvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core"
)

var ErrNotFound = core.NotFoundf("quran reference not found")

const cachePrefix = "quran"

type (
	Surah struct {
		Number                 int    `json:"number"`
		Name                   string `json:"name"`
		EnglishName            string `json:"englishName"`
		EnglishNameTranslation string `json:"englishNameTranslation"`
		NumberOfAyahs          int    `json:"numberOfAyahs"`
		RevelationType         string `json:"revelationType"`
	}

	Ayah struct {
		Number        int    `json:"number"`
		Text          string `json:"text"`
		NumberInSurah int    `json:"numberInSurah"`
		Juz           int    `json:"juz"`
		Surah         *Surah `json:"surah,omitempty"`
	}

	SurahDetail struct {
		Surah
		Ayahs []Ayah `json:"ayahs"`
	}

	// envelope is the alquran.cloud response wrapper.
	envelope struct {
		Code   int             `json:"code"`
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}

	// Client proxies the alquran.cloud content API. Responses are immutable
	// scripture so they are cached aggressively through the shared cache.
	Client struct {
		http     *http.Client
		baseURL  string
		cache    core.Cache
		cacheTTL time.Duration
	}
)

func NewClient(conf *core.Config, cache core.Cache) *Client {
	return &Client{
		http:     &http.Client{Timeout: conf.Quran.Timeout},
		baseURL:  conf.Quran.BaseURL,
		cache:    cache,
		cacheTTL: conf.Quran.CacheTTL,
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "building quran request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling quran api")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(err, "decoding quran response")
	}
	if env.Code != http.StatusOK {
		return errors.Errorf("quran api: %d %s", env.Code, env.Status)
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "decoding quran payload")
	}
	return nil
}

func (c *Client) ListSurahs(ctx context.Context) ([]Surah, error) {
	val, err := core.CachedQuery(c.cache, cachePrefix+":surahs", func() (interface{}, error) {
		var surahs []Surah
		if err := c.get(ctx, "/surah", &surahs); err != nil {
			return nil, err
		}
		return surahs, nil
	}, c.cacheTTL)
	if err != nil {
		return nil, err
	}
	return val.([]Surah), nil
}

func (c *Client) GetSurah(ctx context.Context, number int) (SurahDetail, error) {
	val, err := core.CachedQuery(c.cache, fmt.Sprintf("%s:surah:%d", cachePrefix, number), func() (interface{}, error) {
		var surah SurahDetail
		if err := c.get(ctx, fmt.Sprintf("/surah/%d", number), &surah); err != nil {
			return nil, err
		}
		return surah, nil
	}, c.cacheTTL)
	if err != nil {
		return SurahDetail{}, err
	}
	return val.(SurahDetail), nil
}

// GetAyah fetches one ayah by reference, either "surah:ayah" (e.g. "2:255")
// or an absolute ayah number.
func (c *Client) GetAyah(ctx context.Context, reference string) (Ayah, error) {
	val, err := core.CachedQuery(c.cache, cachePrefix+":ayah:"+reference, func() (interface{}, error) {
		var ayah Ayah
		if err := c.get(ctx, "/ayah/"+reference, &ayah); err != nil {
			return nil, err
		}
		return ayah, nil
	}, c.cacheTTL)
	if err != nil {
		return Ayah{}, err
	}
	return val.(Ayah), nil
}
