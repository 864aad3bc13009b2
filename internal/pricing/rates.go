package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateUnavailable is returned when no rate exists for a currency pair.
var ErrRateUnavailable = errors.New("pricing: rate unavailable")

// Rates is a table of conversion factors from Base.
type Rates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Factor returns how many units of to one unit of from buys.
func (r Rates) Factor(from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return 1, nil
	}
	rate := func(code string) (float64, bool) {
		if code == strings.ToUpper(r.Base) {
			return 1, true
		}
		v, ok := r.Rates[code]
		return v, ok && v > 0
	}
	fromRate, ok := rate(from)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRateUnavailable, from)
	}
	toRate, ok := rate(to)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRateUnavailable, to)
	}
	return toRate / fromRate, nil
}

// RateSource loads the latest rates for a base currency.
type RateSource interface {
	Latest(ctx context.Context, base string) (Rates, error)
}

// HTTPRateSource queries an exchange-rate API of the form
// GET {baseURL}/latest?base=EUR.
type HTTPRateSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPRateSource constructs the API client.
func NewHTTPRateSource(baseURL string) *HTTPRateSource {
	return &HTTPRateSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Latest implements RateSource.
func (s *HTTPRateSource) Latest(ctx context.Context, base string) (Rates, error) {
	endpoint := fmt.Sprintf("%s/latest?base=%s", s.baseURL, url.QueryEscape(strings.ToUpper(base)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Rates{}, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Rates{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Rates{}, fmt.Errorf("pricing: exchange api returned status %d", resp.StatusCode)
	}
	var out Rates
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Rates{}, fmt.Errorf("pricing: decode rates: %w", err)
	}
	if out.Base == "" {
		out.Base = strings.ToUpper(base)
	}
	return out, nil
}

// CachedRateSource keeps rates in Redis for ttl.
type CachedRateSource struct {
	source RateSource
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCachedRateSource wraps source with a Redis cache. A nil client
// disables caching.
func NewCachedRateSource(source RateSource, client redis.UniversalClient, ttl time.Duration) *CachedRateSource {
	return &CachedRateSource{source: source, client: client, ttl: ttl}
}

func rateKey(base string) string {
	return "pricing:rates:" + strings.ToUpper(base)
}

// Latest implements RateSource.
func (c *CachedRateSource) Latest(ctx context.Context, base string) (Rates, error) {
	if c.client == nil {
		return c.source.Latest(ctx, base)
	}
	raw, err := c.client.Get(ctx, rateKey(base)).Bytes()
	if err == nil {
		var cached Rates
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return Rates{}, err
	}
	return c.Refresh(ctx, base)
}

// Refresh bypasses the cache and stores fresh rates.
func (c *CachedRateSource) Refresh(ctx context.Context, base string) (Rates, error) {
	rates, err := c.source.Latest(ctx, base)
	if err != nil {
		return Rates{}, err
	}
	if c.client == nil {
		return rates, nil
	}
	data, err := json.Marshal(rates)
	if err != nil {
		return Rates{}, err
	}
	if err := c.client.Set(ctx, rateKey(base), data, c.ttl).Err(); err != nil {
		return Rates{}, err
	}
	return rates, nil
}

// Converter converts money between currencies.
type Converter struct {
	rates RateSource
}

// NewConverter constructs a Converter. A nil source converts nothing.
func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Convert returns m expressed in the target currency. When no rate is
// available the original amount is returned together with the error.
func (c *Converter) Convert(ctx context.Context, m Money, target string) (Money, error) {
	target = strings.ToUpper(strings.TrimSpace(target))
	if target == "" || strings.EqualFold(target, m.Currency) {
		return m, nil
	}
	fromUnit, err := ParseCurrency(m.Currency)
	if err != nil {
		return m, err
	}
	toUnit, err := ParseCurrency(target)
	if err != nil {
		return m, err
	}
	if c == nil || c.rates == nil {
		return m, ErrRateUnavailable
	}
	rates, err := c.rates.Latest(ctx, m.Currency)
	if err != nil {
		return m, err
	}
	factor, err := rates.Factor(m.Currency, target)
	if err != nil {
		return m, err
	}
	major := float64(m.Minor) / math.Pow10(Scale(fromUnit))
	converted := math.Round(major * factor * math.Pow10(Scale(toUnit)))
	return Money{Minor: int64(converted), Currency: target}, nil
}

// Display converts to the preferred currency and formats for the locale,
// falling back to the original currency when conversion fails.
func (c *Converter) Display(ctx context.Context, m Money, preferred, locale string) string {
	converted, err := c.Convert(ctx, m, preferred)
	if err != nil {
		return Format(m, locale)
	}
	return Format(converted, locale)
}
