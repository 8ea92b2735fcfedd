// Package sheets reads rosters from Google spreadsheets through their CSV
// export endpoint.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/kilianp07/teamgen/auth"
	"github.com/kilianp07/teamgen/connectors"
	"github.com/kilianp07/teamgen/core/roster"
)

// ErrInvalidSheetURL is returned for links that do not point at a sheet tab.
var ErrInvalidSheetURL = errors.New("invalid sheet url: expected docs.google.com/spreadsheets/d/{id}/edit?gid={gid}")

var sheetURL = regexp.MustCompile(`(?:https?://)?docs\.google\.com/spreadsheets/d/([\w-]+)/edit.*?[?&#]gid=(\w+)`)

var exportBaseURL = "https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s"

// maxBody bounds the size of an export.
const maxBody = 8 << 20

// ExportURL converts a sheet edit link into its CSV export link.
func ExportURL(link string) (string, error) {
	m := sheetURL.FindStringSubmatch(link)
	if m == nil {
		return "", ErrInvalidSheetURL
	}
	return fmt.Sprintf(exportBaseURL, m[1], m[2]), nil
}

// IsSheetURL reports whether link looks like a sheet edit link.
func IsSheetURL(link string) bool { return sheetURL.MatchString(link) }

// Client fetches one sheet tab.
type Client struct {
	link string
	http *http.Client
	auth *auth.ClientCred
}

// New returns a Client for the sheet edit link. The link is validated here
// so configuration errors surface before the first fetch.
func New(link string, opts ...connectors.Option) (*Client, error) {
	if !IsSheetURL(link) {
		return nil, ErrInvalidSheetURL
	}
	c := &Client{link: link, http: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) connectors.Option {
	return func(s connectors.Source) error {
		c, ok := s.(*Client)
		if !ok {
			return fmt.Errorf(connectors.ErrIncompatibleOption, "WithHTTPClient", s.Name())
		}
		c.http = hc
		return nil
	}
}

// WithAuth authenticates export requests with client credentials.
func WithAuth(cred *auth.ClientCred) connectors.Option {
	return func(s connectors.Source) error {
		c, ok := s.(*Client)
		if !ok {
			return fmt.Errorf(connectors.ErrIncompatibleOption, "WithAuth", s.Name())
		}
		c.auth = cred
		return nil
	}
}

func (c *Client) Name() string { return "sheet" }

// Fetch downloads the export and parses it.
func (c *Client) Fetch(ctx context.Context) (roster.Roster, error) {
	url, err := ExportURL(c.link)
	if err != nil {
		return roster.Roster{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("failed to create request: %w", err)
	}
	if c.auth != nil {
		if err := c.auth.SetAuthHeader(req); err != nil {
			return roster.Roster{}, fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return roster.Roster{}, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	return roster.Parse(io.LimitReader(resp.Body, maxBody))
}
