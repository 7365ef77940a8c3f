package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/medichat/backend/internal/domain/providers"
	apperrors "github.com/medichat/backend/pkg/errors"
	"github.com/medichat/backend/pkg/retry"
)

const (
	defaultKakaoBaseURL = "https://dapi.kakao.com"
	defaultHTTPTimeout  = 5 * time.Second
	cacheTTLSeconds     = 86400
)

// KakaoProvider implements GeocodingProvider using the Kakao Local
// address search API. Results are cached because addresses rarely move.
type KakaoProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewKakaoProvider creates a new Kakao geocoding provider
func NewKakaoProvider(apiKey string, cache providers.CacheProvider) providers.GeocodingProvider {
	return NewKakaoProviderWithOptions(apiKey, cache, defaultKakaoBaseURL, &http.Client{Timeout: defaultHTTPTimeout})
}

// NewKakaoProviderWithOptions creates a provider with a custom base URL
// and HTTP client (used for tests)
func NewKakaoProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) providers.GeocodingProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &KakaoProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

// Kakao returns document coordinates as strings, not numbers.
type kakaoAddressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// Geocode resolves a road address through the Kakao address search API
func (p *KakaoProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	if address == "" {
		return nil, apperrors.NewValidationError("address must not be empty")
	}

	cacheKey := fmt.Sprintf("geocode:%s", address)
	if p.cache != nil {
		if data, err := p.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			var coords providers.Coordinates
			if err := json.Unmarshal(data, &coords); err == nil {
				return &coords, nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s/v2/local/search/address.json?query=%s", p.baseURL, url.QueryEscape(address))

	var parsed kakaoAddressResponse
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "KakaoAK "+p.apiKey)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("kakao API returned status %d: %s", resp.StatusCode, string(payload))
		}

		return json.NewDecoder(resp.Body).Decode(&parsed)
	})
	if err != nil {
		return nil, apperrors.NewExternalError("geocoding request failed", err)
	}

	if len(parsed.Documents) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("address not found: %s", address))
	}

	doc := parsed.Documents[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("kakao API returned malformed latitude", err)
	}
	lon, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, apperrors.NewExternalError("kakao API returned malformed longitude", err)
	}

	coords := &providers.Coordinates{Latitude: lat, Longitude: lon}

	if p.cache != nil {
		if data, err := json.Marshal(coords); err == nil {
			_ = p.cache.Set(ctx, cacheKey, data, cacheTTLSeconds)
		}
	}

	return coords, nil
}
