// Package gmail syncs messages from a Gmail mailbox into the local store
// and sends drafts through the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
)

const gmailUserID = "me"

// Client wraps the Gmail API for the account whose token is on disk.
type Client struct {
	cfg       *oauth2.Config
	token     *oauth2.Token
	tokenPath string
}

// NewClient loads OAuth2 credentials and a previously stored token. It
// does not hit the network; the first API call does.
func NewClient(cfg config.Gmail) (*Client, error) {
	credBytes, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", cfg.CredentialsFile, err)
	}
	oauthCfg, err := google.ConfigFromJSON(credBytes, gmail.GmailReadonlyScope, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	token, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: oauthCfg, token: token, tokenPath: cfg.TokenFile}, nil
}

// AuthURL returns the URL the user must visit to authorize the app.
func (c *Client) AuthURL() string {
	return c.cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange redeems an authorization code and persists the token.
func (c *Client) Exchange(ctx context.Context, code string) error {
	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	c.token = token
	return saveToken(c.tokenPath, token)
}

func (c *Client) service(ctx context.Context) (*gmail.Service, error) {
	if c.token == nil {
		return nil, fmt.Errorf("no Gmail token stored; run the auth flow first (visit %s)", c.AuthURL())
	}
	httpClient := c.cfg.Client(ctx, c.token)
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}
	return svc, nil
}

// ListMessageIDs returns up to maxResults message ids matching the query.
func (c *Client) ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Users.Messages.List(gmailUserID).MaxResults(maxResults)
	if query != "" {
		call = call.Q(query)
	}
	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	ids := make([]string, 0, len(result.Messages))
	for _, m := range result.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches one full message.
func (c *Client) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := svc.Users.Messages.Get(gmailUserID, id).Do()
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}
	return msg, nil
}

// SendDraft sends an email with the given headers and body from the
// authorized account.
func (c *Client) SendDraft(ctx context.Context, to, subject, body string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	rfc822 := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s", to, subject, body)
	msg := &gmail.Message{
		Raw: base64.RawURLEncoding.EncodeToString([]byte(rfc822)),
	}
	if _, err := svc.Users.Messages.Send(gmailUserID, msg).Do(); err != nil {
		return fmt.Errorf("messages.Send failed: %w", err)
	}
	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open token file %s: %w", path, err)
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", path, err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", path, err)
	}
	return nil
}
