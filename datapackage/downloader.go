// Package datapackage loads data package manifests over HTTP and reads their
// tabular resources.
package datapackage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/metrics"
	"golang.org/x/net/http2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	userAgent = "ct-placenames/1.0"

	// maxBodySize caps a single manifest or resource download
	maxBodySize = 64 * 1024 * 1024

	kindManifest = "manifest"
	kindResource = "resource"

	defaultTimeout = time.Minute
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewHTTPClient returns the client used for downloads, with HTTP/2 enabled
// on its transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		logging.Warn("Failed to enable HTTP/2 for downloads", "error", err)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// download fetches url and returns the raw body.
func (l *Loader) download(ctx context.Context, kind string, url string) ([]byte, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.ObserveFetch(kind, status, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	response, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "url", url, "error", err)
		}
	}()

	status = strconv.Itoa(response.StatusCode)
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download %s: unexpected status %s", url, response.Status)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, maxBodySize)
	}

	logging.Debug("Downloaded "+kind, "url", url, "bytes", len(body), "duration", time.Since(start).String())
	return body, nil
}

// decodeText returns a UTF-8 reader over body. A declared encoding wins;
// otherwise bodies that are not valid UTF-8 are read as ISO-8859-1.
func decodeText(body []byte, encoding string) (io.Reader, error) {
	body = bytes.TrimPrefix(body, utf8BOM)

	if encoding != "" {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, fmt.Errorf("unsupported resource encoding %q: %w", encoding, err)
		}
		if name, _ := htmlindex.Name(enc); name == "utf-8" {
			return bytes.NewReader(body), nil
		}
		return enc.NewDecoder().Reader(bytes.NewReader(body)), nil
	}

	if utf8.Valid(body) {
		return bytes.NewReader(body), nil
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(body)), nil
}
