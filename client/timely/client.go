package timely

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sporadisk/weekclock/client"
	"golang.org/x/oauth2"
)

const (
	defaultEndpoint = "https://api.timelyapp.com"
	apiVersion      = "1.1"
	requestTimeout  = 10 * time.Second
)

var ErrNoToken = errors.New("no Timely token stored, run the timely-auth command first")

type Client struct {
	// Configuration
	Endpoint      string
	ApplicationID string
	ClientSecret  string
	CallbackURL   string
	AccountID     int
	TokenDir      string // defaults to ~/.weekclock
	Logger        *log.Logger

	// State
	HttpClient  *client.HttpClient
	oauthConfig *oauth2.Config
	token       *oauth2.Token
	user        *User
}

// Init loads the stored token and prepares an HTTP client that refreshes it
// when needed.
func (c *Client) Init(ctx context.Context) error {
	err := c.setDefaults()
	if err != nil {
		return err
	}

	err = c.loadTokenFromFile()
	if err != nil {
		return fmt.Errorf("loadTokenFromFile: %w", err)
	}
	if c.token == nil {
		return ErrNoToken
	}

	src := &persistingTokenSource{
		base:  c.oauthConfig.TokenSource(ctx, c.token),
		last:  c.token,
		store: c.storeToken,
	}
	c.HttpClient = client.WrapHttpClient(oauth2.NewClient(ctx, src), requestTimeout)
	return nil
}

func (c *Client) setDefaults() error {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.CallbackURL == "" {
		c.CallbackURL = LocalCallback
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	c.Logger = c.Logger.With("source", "timely")
	return c.setupOAuthConfig()
}

func (c *Client) timelyEndpoint(version, endpoint string) string {
	return strings.TrimRight(c.Endpoint, "/") + "/" + version + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) HasToken() bool {
	return c.token != nil && c.token.Valid()
}

// persistingTokenSource writes refreshed tokens back to disk.
type persistingTokenSource struct {
	base  oauth2.TokenSource
	last  *oauth2.Token
	store func(*oauth2.Token) error
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if p.last == nil || token.AccessToken != p.last.AccessToken {
		if err := p.store(token); err != nil {
			return nil, fmt.Errorf("storing refreshed token: %w", err)
		}
		p.last = token
	}
	return token, nil
}
