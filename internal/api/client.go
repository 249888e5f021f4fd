package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/swarmwatch/internal/version"
)

// Fetcher defines the read-only API surface the sync jobs depend on.
// This interface is implemented by *Client and can be faked in tests.
type Fetcher interface {
	ListTorrents(ctx context.Context) (TorrentListResponse, error)
	TorrentDetails(ctx context.Context, id int) (TorrentDetails, error)
	TorrentStats(ctx context.Context, id int) (TorrentStats, error)
	PeerStats(ctx context.Context, id int, filter PeerFilter) (PeerStatsResponse, error)
	SessionStats(ctx context.Context) (SessionStats, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the torrent engine HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultAPIURL  = "http://127.0.0.1:3030"
	requestTimeout = 5 * time.Second
	maxErrorBody   = 4 << 10
)

// NewClient builds a Client for the API at apiURL (host:port or full URL).
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: "swarmwatch/" + version.Version,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListTorrents retrieves every torrent the engine manages.
func (c *Client) ListTorrents(ctx context.Context) (TorrentListResponse, error) {
	if c == nil {
		return TorrentListResponse{}, fmt.Errorf("client is nil")
	}
	var payload TorrentListResponse
	if err := c.do(ctx, "/torrents", nil, &payload); err != nil {
		return TorrentListResponse{}, err
	}
	if err := payload.Validate(); err != nil {
		return TorrentListResponse{}, fmt.Errorf("invalid torrent list: %w", err)
	}
	return payload, nil
}

// TorrentDetails retrieves file metadata for one torrent. It fails with an
// error matching ErrNotReady until the engine has resolved the metadata.
func (c *Client) TorrentDetails(ctx context.Context, id int) (TorrentDetails, error) {
	if c == nil {
		return TorrentDetails{}, fmt.Errorf("client is nil")
	}
	var payload TorrentDetails
	if err := c.do(ctx, torrentPath(id), nil, &payload); err != nil {
		return TorrentDetails{}, err
	}
	return payload, nil
}

// TorrentStats retrieves live progress for one torrent.
func (c *Client) TorrentStats(ctx context.Context, id int) (TorrentStats, error) {
	if c == nil {
		return TorrentStats{}, fmt.Errorf("client is nil")
	}
	var payload TorrentStats
	if err := c.do(ctx, torrentPath(id)+"/stats/v1", nil, &payload); err != nil {
		return TorrentStats{}, err
	}
	return payload, nil
}

// PeerStats retrieves per-peer counters for one torrent.
func (c *Client) PeerStats(ctx context.Context, id int, filter PeerFilter) (PeerStatsResponse, error) {
	if c == nil {
		return PeerStatsResponse{}, fmt.Errorf("client is nil")
	}
	if filter == "" {
		filter = PeerFilterLive
	}
	values := url.Values{}
	values.Set("state", string(filter))
	var payload PeerStatsResponse
	if err := c.do(ctx, torrentPath(id)+"/peer_stats", values, &payload); err != nil {
		return PeerStatsResponse{}, err
	}
	if err := payload.Validate(); err != nil {
		return PeerStatsResponse{}, fmt.Errorf("invalid peer stats: %w", err)
	}
	return payload, nil
}

// SessionStats retrieves engine-wide transfer totals.
func (c *Client) SessionStats(ctx context.Context) (SessionStats, error) {
	if c == nil {
		return SessionStats{}, fmt.Errorf("client is nil")
	}
	var payload SessionStats
	if err := c.do(ctx, "/stats", nil, &payload); err != nil {
		return SessionStats{}, err
	}
	return payload, nil
}

func torrentPath(id int) string {
	return "/torrents/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Path:       rel.Path,
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
