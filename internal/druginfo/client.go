// Package druginfo looks up public drug-label information from the openFDA
// API so users can double-check a medication while entering it.  Responses
// are cached in Redis because label data changes rarely and the public API
// enforces a courtesy quota.
package druginfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dosebuddy/dosebuddy-server/internal/config"
)

// ErrUpstream marks failures of the openFDA API itself, as opposed to a
// simple "no results" answer.
var ErrUpstream = errors.New("druginfo: upstream request failed")

// Label is the subset of an openFDA drug label the clients display.
type Label struct {
	BrandName   string `json:"brand_name"`
	GenericName string `json:"generic_name"`
	Purpose     string `json:"purpose,omitempty"`
	Dosage      string `json:"dosage,omitempty"`
	Warnings    string `json:"warnings,omitempty"`
}

// Client queries the openFDA /drug/label.json endpoint.  A nil Redis client
// simply disables caching.
type Client struct {
	cfg config.DrugInfoConfig
	hc  *http.Client
	rdb *redis.Client
}

// NewClient builds a Client from configuration.  The HTTP timeout comes from
// the config so slow upstream answers cannot hold a handler open.
func NewClient(cfg config.DrugInfoConfig, rdb *redis.Client) *Client {
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
		rdb: rdb,
	}
}

// openFDA response shape.  Every field arrives as a string array; we keep
// the first entry of each.
type fdaResponse struct {
	Results []struct {
		Purpose []string `json:"purpose"`
		Dosage  []string `json:"dosage_and_administration"`
		Warning []string `json:"warnings"`
		OpenFDA struct {
			BrandName   []string `json:"brand_name"`
			GenericName []string `json:"generic_name"`
		} `json:"openfda"`
	} `json:"results"`
}

// Search finds labels matching a medication name.  The brand-name index is
// tried first, then generic names, then active ingredients; if nothing
// matches and the name carries a strength suffix ("Aspirin 100mg"), the
// first word alone is retried.  An empty slice with a nil error means no
// matches.
func (c *Client) Search(ctx context.Context, name string) ([]Label, error) {
	if !c.cfg.Enabled {
		return []Label{}, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return []Label{}, nil
	}

	key := c.cfg.Prefix + ":" + strings.ToLower(name)
	if cached, ok := c.fromCache(ctx, key); ok {
		return cached, nil
	}

	labels, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		// Retry with the first word to drop dosage suffixes the user typed
		// into the name field.
		if first, _, found := strings.Cut(name, " "); found && first != name {
			labels, err = c.lookup(ctx, first)
			if err != nil {
				return nil, err
			}
		}
	}

	c.toCache(ctx, key, labels)
	return labels, nil
}

func (c *Client) lookup(ctx context.Context, name string) ([]Label, error) {
	for _, field := range []string{"openfda.brand_name", "openfda.generic_name", "openfda.substance_name"} {
		labels, err := c.query(ctx, field, name)
		if err != nil {
			return nil, err
		}
		if len(labels) > 0 {
			return labels, nil
		}
	}
	return []Label{}, nil
}

func (c *Client) query(ctx context.Context, field, name string) ([]Label, error) {
	search := fmt.Sprintf(`%s:%q`, field, name)
	u := fmt.Sprintf("%s/drug/label.json?search=%s&limit=%d",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.QueryEscape(search), c.cfg.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	// openFDA answers 404 when a search matches nothing.
	if resp.StatusCode == http.StatusNotFound {
		return []Label{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body fdaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	labels := make([]Label, 0, len(body.Results))
	for _, r := range body.Results {
		labels = append(labels, Label{
			BrandName:   first(r.OpenFDA.BrandName),
			GenericName: first(r.OpenFDA.GenericName),
			Purpose:     first(r.Purpose),
			Dosage:      first(r.Dosage),
			Warnings:    first(r.Warning),
		})
	}
	return labels, nil
}

func (c *Client) fromCache(ctx context.Context, key string) ([]Label, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var labels []Label
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return nil, false
	}
	return labels, true
}

func (c *Client) toCache(ctx context.Context, key string, labels []Label) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(labels)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.cfg.CacheTTL).Err(); err != nil {
		log.Printf("druginfo: cache write failed: %v", err)
	}
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
