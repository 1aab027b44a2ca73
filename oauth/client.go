// Package oauth obtains service tokens for outbound calls (fulfillment) with
// the client credentials grant.
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	fetchTimeout   = 10 * time.Second
	defaultLeeway  = 30 * time.Second
	authHeaderType = "Bearer"
)

type ClientConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// HTTPClient is used for the token request; nil means http.DefaultClient.
	HTTPClient *http.Client
	// Leeway renews a token this long before it expires. Zero means 30s.
	Leeway time.Duration
}

// Client shares one cached token between concurrent callers. Only one
// request to the token endpoint is in flight at a time.
type Client struct {
	grant      *clientcredentials.Config
	httpClient *http.Client
	leeway     time.Duration
	now        func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

func NewOAuthClient(cfg ClientConfig) *Client {
	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	return &Client{
		grant: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: cfg.HTTPClient,
		leeway:     leeway,
		now:        time.Now,
	}
}

func (c *Client) fresh(t *oauth2.Token) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.Expiry.IsZero() || c.now().Add(c.leeway).Before(t.Expiry)
}

// GetToken returns the cached token, fetching a new one when there is none
// or it is about to expire.
func (c *Client) GetToken(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh(c.token) {
		return c.token, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	t, err := c.grant.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token from %s: %w", c.grant.TokenURL, err)
	}
	c.token = t
	return t, nil
}

func (c *Client) GetAuthorizationHeader(ctx context.Context) (string, error) {
	t, err := c.GetToken(ctx)
	if err != nil {
		return "", err
	}
	return authHeaderType + " " + t.AccessToken, nil
}

// Invalidate forgets the cached token so the next call fetches a new one.
// Call it when the remote service answers 401.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}
