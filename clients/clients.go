// Package clients talks to the model services that produce the per-video
// inputs: facial emotion, text emotion, speech recognition and plotting.
package clients

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

type HTTP struct{ c *http.Client }

// NewHTTP returns a client with a per-request timeout; zero means one
// minute.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = time.Minute
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 3 * time.Minute,
		}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       2 * time.Minute,
		TLSHandshakeTimeout:   30 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
	}
	return &HTTP{c: &http.Client{Transport: tr, Timeout: timeout}}
}

// statusError reads at most 4 KiB of an error body into the message.
func statusError(what string, resp *http.Response) error {
	const maxErr = 4096
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErr))
	return fmt.Errorf("%s %s: %s", what, resp.Status, strings.TrimSpace(string(body)))
}
