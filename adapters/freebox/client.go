package freebox

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamearena/wakegate/core"
)

// apiBase is the Freebox OS API version every endpoint lives under.
const apiBase = "/api/v8"

// responses larger than this are truncated before they end up in error messages
const maxErrorSnippet = 2000

// Client implements ports.RouterClient against the Freebox OS HTTP API.
type Client struct {
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a Freebox client with a bounded request timeout.
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "freebox").Logger(),
	}
}

// envelope is the common Freebox response wrapper.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"msg"`
	ErrorCode string          `json:"error_code"`
	Result    json.RawMessage `json:"result"`
}

type challengeResult struct {
	Challenge string `json:"challenge"`
}

type sessionRequest struct {
	AppID    string `json:"app_id"`
	Password string `json:"password"`
}

type sessionResult struct {
	SessionToken string `json:"session_token"`
}

type permission struct {
	Value       bool   `json:"value"`
	Description string `json:"desc"`
}

type authorizeRequest struct {
	AppID       string                `json:"app_id"`
	AppName     string                `json:"app_name"`
	AppVersion  string                `json:"app_version"`
	DeviceName  string                `json:"device_name"`
	Permissions map[string]permission `json:"app_permissions"`
}

type authorizeResult struct {
	AppToken string `json:"app_token"`
	TrackID  int    `json:"track_id"`
}

type trackResult struct {
	Status string `json:"status"`
}

type wakeRequest struct {
	MAC string `json:"mac"`
}

// LoginPassword derives the session password from a challenge: the
// hex-encoded HMAC-SHA1 of the challenge keyed by the application token.
func LoginPassword(appToken, challenge string) string {
	mac := hmac.New(sha1.New, []byte(appToken))
	mac.Write([]byte(challenge))
	return hex.EncodeToString(mac.Sum(nil))
}

// Login performs the two-step handshake: fetch a single-use challenge,
// then trade the derived password for a session token.
func (c *Client) Login(ctx context.Context, cred core.Credential) (string, error) {
	challenge, err := c.challenge(ctx, cred.FreeboxURL)
	if err != nil {
		return "", err
	}

	payload := sessionRequest{
		AppID:    cred.AppID,
		Password: LoginPassword(cred.AppToken, challenge),
	}

	env, err := c.postJSON(ctx, cred.FreeboxURL, "/login/session/", payload, nil)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if !env.Success {
		return "", rejection(env, "login")
	}

	var result sessionResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return "", fmt.Errorf("%w: login: decoding result: %v", core.ErrProtocol, err)
	}
	if result.SessionToken == "" {
		return "", fmt.Errorf("%w: login reported success but carried no session_token", core.ErrProtocol)
	}

	c.log.Debug().Str("app_id", cred.AppID).Msg("session opened")
	return result.SessionToken, nil
}

func (c *Client) challenge(ctx context.Context, baseURL string) (string, error) {
	env, err := c.getJSON(ctx, baseURL, "/login/")
	if err != nil {
		return "", fmt.Errorf("challenge: %w", err)
	}
	if !env.Success {
		return "", rejection(env, "challenge")
	}

	var result challengeResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return "", fmt.Errorf("%w: challenge: decoding result: %v", core.ErrProtocol, err)
	}
	if result.Challenge == "" {
		return "", fmt.Errorf("%w: empty challenge", core.ErrProtocol)
	}
	return result.Challenge, nil
}

// Wake asks the router to emit a wake-on-LAN frame for mac on the public
// LAN interface. The router's success flag is authoritative: a transport
// success with success=false is a rejection, not a network error.
func (c *Client) Wake(ctx context.Context, baseURL, sessionToken, mac string) error {
	headers := map[string]string{"X-Fbx-App-Auth": sessionToken}

	env, err := c.postJSON(ctx, baseURL, "/lan/wol/pub/", wakeRequest{MAC: mac}, headers)
	if err != nil {
		return fmt.Errorf("wake: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", core.ErrWakeRejected, envelopeDetail(env))
	}

	c.log.Info().Str("mac", mac).Msg("wake request accepted")
	return nil
}

// RequestAuthorization registers the application with the router. The
// settings permission is mandatory: the wake endpoint requires it.
func (c *Client) RequestAuthorization(ctx context.Context, baseURL string, app core.AppMetadata) (core.AuthorizationRequest, error) {
	payload := authorizeRequest{
		AppID:      app.ID,
		AppName:    app.Name,
		AppVersion: app.Version,
		DeviceName: app.DeviceName,
		Permissions: map[string]permission{
			"settings": {Value: true, Description: "Router settings access, required for wake-on-LAN"},
		},
	}

	env, err := c.postJSON(ctx, baseURL, "/login/authorize/", payload, nil)
	if err != nil {
		return core.AuthorizationRequest{}, fmt.Errorf("authorize: %w", err)
	}
	if !env.Success {
		return core.AuthorizationRequest{}, fmt.Errorf("%w: %s", core.ErrRegistrationRejected, envelopeDetail(env))
	}

	var result authorizeResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return core.AuthorizationRequest{}, fmt.Errorf("%w: authorize: decoding result: %v", core.ErrProtocol, err)
	}
	if result.AppToken == "" {
		return core.AuthorizationRequest{}, fmt.Errorf("%w: authorize reported success but carried no app_token", core.ErrProtocol)
	}

	return core.AuthorizationRequest{AppToken: result.AppToken, TrackID: result.TrackID}, nil
}

// AuthorizationStatus reports the approval state of a pending registration.
func (c *Client) AuthorizationStatus(ctx context.Context, baseURL string, trackID int) (core.AuthStatus, error) {
	env, err := c.getJSON(ctx, baseURL, fmt.Sprintf("/login/authorize/%d", trackID))
	if err != nil {
		return "", fmt.Errorf("authorization status: %w", err)
	}
	if !env.Success {
		return "", rejection(env, "authorization status")
	}

	var result trackResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return "", fmt.Errorf("%w: authorization status: decoding result: %v", core.ErrProtocol, err)
	}

	switch status := core.AuthStatus(result.Status); status {
	case core.AuthPending, core.AuthGranted, core.AuthDenied, core.AuthTimeout:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown authorization status %q", core.ErrProtocol, result.Status)
	}
}

func (c *Client) getJSON(ctx context.Context, baseURL, path string) (envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, path), nil)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: building request: %v", core.ErrNetwork, err)
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, baseURL, path string, body any, headers map[string]string) (envelope, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: encoding request: %v", core.ErrProtocol, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(baseURL, path), bytes.NewReader(encoded))
	if err != nil {
		return envelope{}, fmt.Errorf("%w: building request: %v", core.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return envelope{}, fmt.Errorf("%w: reading response: %v", core.ErrNetwork, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: non-JSON response (status %d): %s", core.ErrProtocol, resp.StatusCode, snippet(raw))
	}
	return env, nil
}

func rejection(env envelope, op string) error {
	return fmt.Errorf("%w: %s: %s", core.ErrRouterRejected, op, envelopeDetail(env))
}

// envelopeDetail keeps the router's raw error payload for diagnostics.
func envelopeDetail(env envelope) string {
	parts := make([]string, 0, 2)
	if env.ErrorCode != "" {
		parts = append(parts, env.ErrorCode)
	}
	if env.Message != "" {
		parts = append(parts, env.Message)
	}
	if len(parts) == 0 {
		return "no detail provided"
	}
	return strings.Join(parts, ": ")
}

func snippet(raw []byte) string {
	if len(raw) > maxErrorSnippet {
		raw = raw[:maxErrorSnippet]
	}
	return string(raw)
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + apiBase + path
}
