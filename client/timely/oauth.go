package timely

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
)

// LocalCallback is the OAuth2 callback URL for local applications
const LocalCallback = "urn:ietf:wg:oauth:2.0:oob"

const tokenFileName = "timely_token.json"

func (c *Client) setupOAuthConfig() error {
	if c.CallbackURL != LocalCallback {
		return fmt.Errorf("the local callback is currently the only supported callback URL")
	}

	c.oauthConfig = &oauth2.Config{
		ClientID:     c.ApplicationID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.timelyEndpoint(apiVersion, "oauth/authorize"),
			TokenURL: c.timelyEndpoint(apiVersion, "oauth/token"),
		},
		RedirectURL: c.CallbackURL,
	}
	return nil
}

// Authorize runs the interactive code exchange: the user opens the printed
// URL, pastes the code back, and the token is stored for later runs.
func (c *Client) Authorize(ctx context.Context, in io.Reader, out io.Writer) error {
	err := c.setDefaults()
	if err != nil {
		return err
	}

	state := oauth2.GenerateVerifier()
	authURL := c.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Please visit this auth URL: %s\n", authURL)
	fmt.Fprint(out, "Enter the authorization code: ")

	authCode, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading authorization code: %w", err)
	}
	authCode = strings.TrimSpace(authCode)
	if authCode == "" {
		return fmt.Errorf("no authorization code entered")
	}
	fmt.Fprintln(out, "Attempting exchange..")

	token, err := c.oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("oauthConfig.Exchange: %w", err)
	}
	fmt.Fprintln(out, "Success!")

	err = c.storeToken(token)
	if err != nil {
		return fmt.Errorf("storeToken: %w", err)
	}
	c.token = token
	return nil
}

// loadTokenFromFile reads the stored token, if there is one. A missing
// file leaves c.token nil.
func (c *Client) loadTokenFromFile() error {
	path, err := c.tokenPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}

	token := &oauth2.Token{}
	err = json.Unmarshal(data, token)
	if err != nil {
		return fmt.Errorf("decoding token %s: %w", path, err)
	}

	c.token = token
	c.Logger.Debug("token loaded", "path", path, "expiry", token.Expiry)
	return nil
}

// storeToken writes token next to the other weekclock state, readable by
// the owner only.
func (c *Client) storeToken(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("no token to store")
	}

	path, err := c.tokenPath()
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

func (c *Client) tokenPath() (string, error) {
	dir := c.TokenDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		dir = filepath.Join(home, ".weekclock")
	}
	return filepath.Join(dir, tokenFileName), nil
}
