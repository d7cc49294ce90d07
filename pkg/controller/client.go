// Package controller is a minimal authenticated JSON client for the PnP
// controller's REST API.
package controller

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/pnpclaim/pkg/util"
)

const (
	apiBase   = "api/v1/"
	authPath  = "api/system/v1/auth/token"
	tokenHdr  = "X-Auth-Token"
	maxErrLen = 512
)

// Config holds connection parameters for a controller.
type Config struct {
	Host     string // host[:port] or full base URL
	Username string
	Password string
	Insecure bool // skip TLS verification (self-signed appliance certs)
	Timeout  time.Duration
}

// APIError is a non-2xx reply from the controller.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to the controller. It is created and logged in once before
// a batch starts and is not safe for concurrent Login calls.
type Client struct {
	root     *url.URL
	api      *url.URL
	username string
	password string
	token    string
	http     *http.Client
	log      *logrus.Entry
}

// NewClient validates cfg and creates an unauthenticated client.
func NewClient(cfg Config, log *logrus.Entry) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("controller host not configured")
	}
	host := cfg.Host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	root, err := url.Parse(strings.TrimRight(host, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing controller host %q: %w", cfg.Host, err)
	}
	api, _ := root.Parse(apiBase)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	if log == nil {
		log = logrus.NewEntry(util.Logger)
	}

	return &Client{
		root:     root,
		api:      api,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: transport},
		log:      log.WithField("controller", root.Host),
	}, nil
}

// Login obtains a session token using basic authentication.
func (c *Client) Login(ctx context.Context) error {
	u, _ := c.root.Parse(authPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return fmt.Errorf("building auth request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	var tok struct {
		Token string `json:"Token"`
	}
	if err := c.exchange(req, authPath, &tok); err != nil {
		return fmt.Errorf("authenticating as %s: %w", c.username, err)
	}
	if tok.Token == "" {
		return util.NewMalformedResponseError(authPath, "no Token in reply", nil)
	}
	c.token = tok.Token
	c.log.Debug("Authenticated")
	return nil
}

// Get issues a GET against the API base and decodes the reply into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the reply into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid API path %q: %w", path, err)
	}
	u := c.api.ResolveReference(ref)

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", path, err)
		}
		rd = bytes.NewReader(data)
		c.log.WithField("path", path).Debugf("POST body: %s", data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(tokenHdr, c.token)
	}

	c.log.WithField("path", path).Debugf("%s %s", method, u.String())
	return c.exchange(req, path, out)
}

// exchange performs req and decodes a 2xx JSON reply into out.
func (c *Client) exchange(req *http.Request, path string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s reply: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(data))
		if len(text) > maxErrLen {
			text = text[:maxErrLen] + "..."
		}
		return &APIError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Body: text}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return util.NewMalformedResponseError(path, "decoding body", err)
	}
	return nil
}
