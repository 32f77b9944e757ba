package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tapolight/internal/lighting"
	"tapolight/internal/logging"
	"tapolight/internal/protocol"
)

const (
	// DefaultPort is the HTTP port Tapo bulbs listen on
	DefaultPort = 80

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// appPath is the single endpoint exposed by the firmware
	appPath = "/app"
)

// session holds the negotiated state for one handshake: the AES cipher, the
// device's session cookie, and the login token that scopes requests.
type session struct {
	cipher *protocol.SessionCipher
	cookie string
	token  string
}

// Client communicates with a single Tapo bulb over its local HTTP API.
// It implements lighting.Requester. Clients are safe for concurrent use;
// the session is shared and re-established under an internal lock.
type Client struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.1.100:80")
	BaseURL string

	// Username is the Tapo account email
	Username string

	// Password is the Tapo account password
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool

	// terminalUUID identifies this client instance on passthrough requests
	terminalUUID string

	// sessionMutex protects the session field
	sessionMutex sync.Mutex

	// session is the active device session (nil until first request)
	session *session
}

// NewClient creates a client for the bulb at the given IP and port,
// authenticating with Tapo account credentials.
func NewClient(ip string, port int, username, password string) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", ip, port), username, password)
}

// NewClientWithURL creates a client with a full base URL
// (e.g., "http://192.168.1.100:80").
func NewClientWithURL(baseURL, username, password string) *Client {
	return &Client{
		BaseURL:               baseURL,
		Username:              username,
		Password:              password,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		terminalUUID:          uuid.NewString(),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Light returns a parameter builder bound to this client.
// Call Send on the builder to apply the staged state.
func (c *Client) Light() *lighting.ColorLightParams {
	return lighting.NewColorLightParams(c)
}

// SetDeviceInfo applies a set_device_info request with the given encoded
// parameters. This is the lighting.Requester implementation; most callers
// should go through Light() instead of calling it directly.
func (c *Client) SetDeviceInfo(ctx context.Context, params json.RawMessage) error {
	return c.execute(ctx, protocol.MethodSetDeviceInfo, params, nil)
}

// GetDeviceInfo retrieves the bulb's current state
func (c *Client) GetDeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	var info DeviceInfo
	if err := c.execute(ctx, protocol.MethodGetDeviceInfo, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// execute runs one passthrough request with retries. Session timeouts
// invalidate the cached session so the next attempt re-handshakes;
// non-retryable errors are returned immediately.
func (c *Client) execute(ctx context.Context, method string, params, result any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(currentDelay):
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := c.executeOnce(ctx, method, params, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if protocol.IsSessionError(err) {
			logging.Debug("session expired, re-establishing",
				zap.String("device", c.BaseURL),
				zap.String("method", method))
			c.invalidateSession()
			continue
		}

		if !protocol.IsRetryable(err) {
			return err
		}

		logging.Debug("retrying request",
			zap.String("device", c.BaseURL),
			zap.String("method", method),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return lastErr
}

func (c *Client) executeOnce(ctx context.Context, method string, params, result any) error {
	s, err := c.ensureSession(ctx)
	if err != nil {
		return err
	}
	return c.passthrough(ctx, s, method, params, result)
}

// ensureSession returns the active session, performing the handshake and
// login on first use.
func (c *Client) ensureSession(ctx context.Context) (*session, error) {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	s, err := c.handshake(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.login(ctx, s); err != nil {
		return nil, err
	}

	c.session = s
	logging.Debug("session established", zap.String("device", c.BaseURL))
	return s, nil
}

func (c *Client) invalidateSession() {
	c.sessionMutex.Lock()
	defer c.sessionMutex.Unlock()
	c.session = nil
}

// handshake exchanges an ephemeral RSA public key for the AES session secret
func (c *Client) handshake(ctx context.Context) (*session, error) {
	keyPair, err := protocol.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	publicPEM, err := keyPair.PublicPEM()
	if err != nil {
		return nil, err
	}

	response, cookie, err := c.post(ctx, "", "",
		protocol.NewRequest(protocol.MethodHandshake, protocol.HandshakeParams{Key: publicPEM}))
	if err != nil {
		return nil, err
	}
	if err := response.Err(); err != nil {
		return nil, err
	}

	var result protocol.HandshakeResult
	if err := json.Unmarshal(response.Result, &result); err != nil {
		return nil, protocol.NewParseError("malformed handshake result", err)
	}

	cipher, err := keyPair.DecryptSessionKey(result.Key)
	if err != nil {
		return nil, err
	}

	return &session{cipher: cipher, cookie: cookie}, nil
}

// login authenticates over the encrypted channel and stores the token
func (c *Client) login(ctx context.Context, s *session) error {
	var result protocol.LoginResult
	err := c.passthrough(ctx, s, protocol.MethodLoginDevice,
		protocol.NewLoginParams(c.Username, c.Password), &result)
	if err != nil {
		return err
	}

	s.token = result.Token
	return nil
}

// passthrough encrypts an inner request, wraps it in a securePassthrough
// envelope, and decrypts the inner response. When result is non-nil the
// inner result payload is unmarshaled into it.
func (c *Client) passthrough(ctx context.Context, s *session, method string, params, result any) error {
	inner := protocol.NewRequest(method, params)
	inner.TerminalUUID = c.terminalUUID

	innerJSON, err := json.Marshal(inner)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	logging.LogRawJSON("passthrough request", loggableRequestBody(method, innerJSON))

	outer, _, err := c.post(ctx, s.token, s.cookie,
		protocol.NewRequest(protocol.MethodSecurePassthrough,
			protocol.SecurePassthroughParams{Request: s.cipher.Encrypt(innerJSON)}))
	if err != nil {
		return err
	}
	if err := outer.Err(); err != nil {
		return err
	}

	var wrapped protocol.SecurePassthroughResult
	if err := json.Unmarshal(outer.Result, &wrapped); err != nil {
		return protocol.NewParseError("malformed passthrough result", err)
	}

	innerBody, err := s.cipher.Decrypt(wrapped.Response)
	if err != nil {
		return err
	}

	logging.LogRawJSON("passthrough response", innerBody)

	var response protocol.Response
	if err := json.Unmarshal(innerBody, &response); err != nil {
		return protocol.NewParseError("malformed inner response", err)
	}
	if err := response.Err(); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(response.Result, result); err != nil {
			return protocol.NewParseError(fmt.Sprintf("malformed %s result", method), err)
		}
	}

	return nil
}

// loggableRequestBody returns body unless the request carries account
// credentials, in which case the params are replaced before the envelope
// reaches the debug log.
func loggableRequestBody(method string, body []byte) []byte {
	if method == protocol.MethodLoginDevice {
		return []byte(fmt.Sprintf(`{"method":%q,"params":"(redacted)"}`, method))
	}
	return body
}

// post sends one envelope to the device and parses the outer response.
// token scopes the request when non-empty; cookie carries the session
// cookie captured during the handshake. Returns any Set-Cookie value so the
// handshake can capture it.
func (c *Client) post(ctx context.Context, token, cookie string, envelope *protocol.Request) (*protocol.Response, string, error) {
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request envelope: %w", err)
	}

	url := c.BaseURL + appPath
	if token != "" {
		url += "?token=" + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", protocol.NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", protocol.NewNetworkError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", protocol.NewNetworkError(
			fmt.Sprintf("unexpected status code %d", resp.StatusCode), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", protocol.NewNetworkError("failed to read response body", err)
	}

	var response protocol.Response
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, "", protocol.NewParseError("malformed response envelope", err)
	}

	return &response, resp.Header.Get("Set-Cookie"), nil
}
