// Package httputil fetches remote documents for reference resolution.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defaults.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultDialTimeout = 10 * time.Second
	MaxRedirects       = 10
)

// IsRemote reports whether ref is an http or https URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NewClient returns an HTTP client with the default timeout. Unless
// allowPrivate is set, connections and redirects to private, loopback,
// link-local or unspecified addresses are refused.
func NewClient(allowPrivate bool) *http.Client {
	if allowPrivate {
		return &http.Client{Timeout: DefaultTimeout}
	}

	dialer := &net.Dialer{Timeout: DefaultDialTimeout}
	return &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := lookupPublic(ctx, host)
				if err != nil {
					return nil, err
				}
				return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", MaxRedirects)
			}
			_, err := lookupPublic(req.Context(), req.URL.Hostname())
			return err
		},
	}
}

func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

func lookupPublic(ctx context.Context, host string) ([]net.IPAddr, error) {
	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no IP addresses found for host: %s", host)
	}
	for _, ipAddr := range ips {
		if isBlockedIP(ipAddr.IP) {
			return nil, fmt.Errorf("blocked request to private/loopback IP: %s (%s)", host, ipAddr.IP)
		}
	}
	return ips, nil
}

// Fetch downloads rawURL with a GET request and returns the body.
// Non-200 responses and bodies larger than maxSize (when positive) fail.
func Fetch(ctx context.Context, client *http.Client, rawURL, userAgent string, maxSize int64) ([]byte, error) {
	if client == nil {
		client = NewClient(false)
	}
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("httputil: invalid URL %q: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("httputil: failed to create request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req) //nolint:gosec // URL comes from a document reference
	if err != nil {
		return nil, fmt.Errorf("httputil: failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httputil: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body := io.Reader(resp.Body)
	if maxSize > 0 {
		body = io.LimitReader(resp.Body, maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("httputil: failed to read response body: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("httputil: response from %s exceeds %d bytes", rawURL, maxSize)
	}
	return data, nil
}
