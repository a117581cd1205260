package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/naveenspark/xpboard/pkg/domain"
)

// ProfileQuery is the fixed GraphQL document sent by FetchProfile.
const ProfileQuery = `{
  user {
    id
    firstName
    lastName
    auditRatio
    groups { id }
    xps { amount path }
  }
  transaction { type amount createdAt }
}`

// maxBodySize caps how much of any response body is read.
const maxBodySize = 16 << 20

// Client talks to the campus signin endpoint and the GraphQL query API.
type Client struct {
	signinURL  string
	graphqlURL string
	httpClient *http.Client
}

// New creates a new API client. A zero timeout falls back to 30s.
func New(signinURL, graphqlURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		signinURL:  signinURL,
		graphqlURL: graphqlURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ExchangeCredentials trades a username and password for a bearer token.
// One attempt, no retry.
func (c *Client) ExchangeCredentials(ctx context.Context, username, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signinURL, nil)
	if err != nil {
		return "", &AuthenticationError{Reason: "create request", Err: err}
	}
	req.SetBasicAuth(username, password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthenticationError{Reason: "signin request failed", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthenticationError{Reason: "signin rejected", Err: readHTTPError(resp)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &AuthenticationError{Reason: "read signin body", Err: err}
	}
	token := decodeToken(body)
	if token == "" {
		return "", &AuthenticationError{Reason: "empty token"}
	}
	if !domain.ValidTokenShape(token) {
		return "", &AuthenticationError{Reason: "malformed token"}
	}
	return token, nil
}

// FetchProfile runs ProfileQuery with the given bearer token and converts the
// response into domain types. One attempt, no retry, no cache.
func (c *Client) FetchProfile(ctx context.Context, token string) (*domain.ProfilePayload, error) {
	var out profileResponse
	if err := c.query(ctx, token, ProfileQuery, &out); err != nil {
		return nil, err
	}
	if out.Errors != nil {
		return nil, &DataFetchError{Reason: "query returned errors", Err: newQueryError(*out.Errors)}
	}
	if len(out.Data.User) == 0 {
		return nil, &DataFetchError{Reason: "user record missing"}
	}
	return out.payload(), nil
}

func (c *Client) query(ctx context.Context, token, query string, out any) error {
	data, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return &DataFetchError{Reason: "marshal query", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(data))
	if err != nil {
		return &DataFetchError{Reason: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DataFetchError{Reason: "query request failed", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DataFetchError{Reason: "query rejected", Err: readHTTPError(resp)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return &DataFetchError{Reason: "decode response", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// decodeToken accepts either a raw token body or a JSON string literal.
func decodeToken(body []byte) string {
	s := strings.TrimSpace(string(body))
	if strings.HasPrefix(s, `"`) {
		var quoted string
		if err := json.Unmarshal([]byte(s), &quoted); err != nil {
			return ""
		}
		s = strings.TrimSpace(quoted)
	}
	return s
}

// readHTTPError turns a non-2xx response into an *HTTPError, preferring the
// API's {"error": "..."} message when present.
func readHTTPError(resp *http.Response) *HTTPError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
}
