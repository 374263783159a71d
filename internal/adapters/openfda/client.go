package openfda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/drug-checker/internal/core"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public openFDA drug label search
const DefaultEndpoint = "https://api.fda.gov/drug/label.json"

// maxNamesPerField caps how many brand or generic names one label contributes
const maxNamesPerField = 2

// Options configures the label client
type Options struct {
	Endpoint       string
	APIKey         string
	Timeout        time.Duration
	SuggestTimeout time.Duration
	RatePerSecond  float64
	Burst          int
}

// Client is an implementation of core.LabelClient backed by openFDA
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       Options
	logger     *zap.Logger
}

// labelResponse is the subset of the openFDA label document that is used
type labelResponse struct {
	Results []struct {
		DrugInteractions interactionText `json:"drug_interactions"`
		OpenFDA          struct {
			BrandName   []string `json:"brand_name"`
			GenericName []string `json:"generic_name"`
		} `json:"openfda"`
	} `json:"results"`
}

// interactionText accepts drug_interactions as either a string or a list
// of strings. Lists are joined with single spaces.
type interactionText string

func (t *interactionText) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = interactionText(single)
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("failed to decode drug_interactions: %w", err)
	}
	*t = interactionText(strings.Join(parts, " "))
	return nil
}

// NewClient creates a new openFDA label client. A nil httpClient uses a
// fresh http.Client; per-request timeouts come from opts.
func NewClient(httpClient *http.Client, opts Options, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.SuggestTimeout <= 0 {
		opts.SuggestTimeout = 5 * time.Second
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		opts:       opts,
		logger:     logger,
	}
}

// FetchInteractions returns the drug_interactions text of up to limit
// labels that mention drugName
func (c *Client) FetchInteractions(ctx context.Context, drugName string, limit int) core.LabelResult {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.search(ctx, "drug_interactions:"+drugName, limit)
	if err != nil {
		if errors.Is(err, errNoMatches) {
			c.logger.Debug("No labels matched", zap.String("drug", drugName))
			return core.LabelMissing()
		}
		if isTimeout(err) {
			c.logger.Warn("Label request timed out", zap.String("drug", drugName))
			return core.LabelError(core.TimeoutMessage)
		}
		c.logger.Warn("Label request failed", zap.String("drug", drugName), zap.Error(err))
		return core.LabelError(err.Error())
	}

	var texts []string
	for _, result := range resp.Results {
		if text := string(result.DrugInteractions); text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return core.LabelMissing()
	}

	c.logger.Debug("Fetched interaction text",
		zap.String("drug", drugName),
		zap.Int("labels", len(texts)))
	return core.LabelTexts(texts)
}

// SearchSuggestions returns up to limit lowercased brand and generic names
// whose brand name starts with partialName. Failures return no suggestions.
func (c *Client) SearchSuggestions(ctx context.Context, partialName string, limit int) []string {
	ctx, cancel := context.WithTimeout(ctx, c.opts.SuggestTimeout)
	defer cancel()

	resp, err := c.search(ctx, "openfda.brand_name:"+partialName+"*", limit)
	if err != nil {
		c.logger.Debug("Suggestion lookup failed", zap.String("partial", partialName), zap.Error(err))
		return []string{}
	}

	seen := make(map[string]bool)
	suggestions := []string{}
	add := func(names []string) {
		if len(names) > maxNamesPerField {
			names = names[:maxNamesPerField]
		}
		for _, name := range names {
			name = strings.ToLower(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			suggestions = append(suggestions, name)
		}
	}

	for _, result := range resp.Results {
		add(result.OpenFDA.BrandName)
		add(result.OpenFDA.GenericName)
	}

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// errNoMatches is openFDA's 404 for a search without hits
var errNoMatches = errors.New("no matches found")

func (c *Client) search(ctx context.Context, query string, limit int) (*labelResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("search", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if c.opts.APIKey != "" {
		params.Set("api_key", c.opts.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, errNoMatches
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%d %s for url %s", resp.StatusCode, http.StatusText(resp.StatusCode), c.opts.Endpoint)
	}

	var decoded labelResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode label response: %w", err)
	}
	return &decoded, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ core.LabelClient = (*Client)(nil)
