// Package pubchem implements a client for the PubChem PUG REST compound
// service. It exposes the small set of read-only lookups the resolution
// engine needs: name to SMILES, name to CID, CID to SMILES, and name to
// synonyms.
//
// The client treats "not found" as an absent value, never as an error:
// any non-2xx response that survives the retry policy yields an empty
// result so callers can move on to their next strategy. Only transport
// failures (DNS, connection reset, timeout after retries) surface as
// errors.
package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

var tracer = otel.Tracer("pubchem")

// DefaultBaseURL is the public PUG REST endpoint.
const DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// Config holds client configuration.
type Config struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	// MaxInflight bounds simultaneous outstanding requests to the service,
	// independently of how many resolution workers are running.
	MaxInflight int64
}

// Client is a rate-bounded PUG REST client. It is safe for concurrent use.
type Client struct {
	http *resty.Client
	gate *semaphore.Weighted
}

// New creates a Client, filling unset Config fields with defaults tuned
// for PubChem's documented rate limits.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = "smiq SMILES resolver (academic research)"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 12 * time.Second
	}

	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 4
	}

	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = 8 * time.Second
	}

	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = 30
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}

			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &Client{
		http: rc,
		gate: semaphore.NewWeighted(cfg.MaxInflight),
	}
}

// SMILESByName looks up the canonical SMILES for a compound name.
// Returns "" when the name is unknown to the service.
func (c *Client) SMILESByName(ctx context.Context, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "SMILESByName",
		trace.WithAttributes(attribute.String("compound.name", name)))
	defer span.End()

	var table propertyTable

	path := fmt.Sprintf("/compound/name/%s/property/CanonicalSMILES/JSON", url.PathEscape(name))

	found, err := c.get(ctx, path, &table)
	if err != nil || !found {
		return "", err
	}

	return table.firstSMILES(), nil
}

// SMILESByRawName is the free-text variant of SMILESByName: the name is
// submitted as a POST body instead of a path segment, which sidesteps URL
// encoding issues for names full of commas, slashes, and brackets.
func (c *Client) SMILESByRawName(ctx context.Context, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "SMILESByRawName",
		trace.WithAttributes(attribute.String("compound.name", name)))
	defer span.End()

	if err := c.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.gate.Release(1)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(name).
		Post("/compound/name/property/CanonicalSMILES/JSON")
	if err != nil {
		return "", err
	}

	if !resp.IsSuccess() {
		return "", nil
	}

	var table propertyTable
	if err := json.Unmarshal(resp.Body(), &table); err != nil {
		slog.Debug("pubchem: undecodable response", "path", resp.Request.URL, "err", err)
		return "", nil
	}

	return table.firstSMILES(), nil
}

// SMILESByCID looks up the canonical SMILES for a compound identifier code.
func (c *Client) SMILESByCID(ctx context.Context, cid int) (string, error) {
	ctx, span := tracer.Start(ctx, "SMILESByCID",
		trace.WithAttributes(attribute.Int("compound.cid", cid)))
	defer span.End()

	var table propertyTable

	path := fmt.Sprintf("/compound/cid/%d/property/CanonicalSMILES/JSON", cid)

	found, err := c.get(ctx, path, &table)
	if err != nil || !found {
		return "", err
	}

	return table.firstSMILES(), nil
}

// CIDsByName resolves a compound name to its list of PubChem CIDs.
// A trailing "*" in the name performs a wildcard (fuzzy) search.
func (c *Client) CIDsByName(ctx context.Context, name string) ([]int, error) {
	ctx, span := tracer.Start(ctx, "CIDsByName",
		trace.WithAttributes(attribute.String("compound.name", name)))
	defer span.End()

	var list identifierList

	path := fmt.Sprintf("/compound/name/%s/cids/JSON", url.PathEscape(name))

	found, err := c.get(ctx, path, &list)
	if err != nil || !found {
		return nil, err
	}

	return list.IdentifierList.CID, nil
}

// SynonymsByName returns the known synonyms for a compound name.
func (c *Client) SynonymsByName(ctx context.Context, name string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SynonymsByName",
		trace.WithAttributes(attribute.String("compound.name", name)))
	defer span.End()

	var list informationList

	path := fmt.Sprintf("/compound/name/%s/synonyms/JSON", url.PathEscape(name))

	found, err := c.get(ctx, path, &list)
	if err != nil || !found {
		return nil, err
	}

	info := list.InformationList.Information
	if len(info) == 0 {
		return nil, nil
	}

	return info[0].Synonym, nil
}

// get performs one gated GET request and decodes the body into out.
// The boolean reports whether a decodable 2xx response was received.
func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer c.gate.Release(1)

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return false, err
	}

	if !resp.IsSuccess() {
		// 404 is PubChem's normal "no such compound" answer; anything else
		// non-retryable is equally uninteresting to the cascade.
		return false, nil
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		slog.Debug("pubchem: undecodable response", "path", path, "err", err)
		return false, nil
	}

	return true, nil
}
