// Package ianadist queries the [IANA data server] for the version of the
// latest tzdb release.
//
// The generator derives its data from the timezone database embedded in
// the Go runtime, which only changes with a toolchain update. Comparing
// that against the latest release tells an operator whether a generated
// dataset was built from stale rules. Clients are advised to store the
// [ETags] returned by this package and pass them to subsequent calls to
// avoid downloading the same release twice.
//
// [ETags]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/ETag
// [IANA data server]: https://www.iana.org/time-zones
package ianadist

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// latestURL is the URL of the latest IANA time zone database release.
	latestURL = "https://data.iana.org/time-zones/tzdata-latest.tar.gz"
	// versionFilename is the name of the version file in the archive.
	versionFilename = "version"
	// emptyEtag is the empty etag value.
	emptyEtag = ""
)

// DefaultClient is the default client to query the IANA data server.
// It is ready to use and is used by the top-level LatestVersion function.
var DefaultClient = &Client{}

// Client is a client to query the IANA data server.
// The zero value is ready to use.
type Client struct {
	// HTTPClient is the http.Client used to talk to the IANA data server.
	// If HTTPClient is nil, http.DefaultClient is used.
	//
	// This variable is useful to prevent network calls during tests by
	// using a http.Client with a fake http.RoundTripper that returns
	// canned responses.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// LatestVersion returns the version of the latest tzdb release, for
// example "2025b".
//
// If the server responds with a 304 Not Modified status code for the
// given ETag, the returned ETag is the same as the input and the returned
// version is empty. If an error is returned, the returned ETag is empty.
//
// LatestVersion is a wrapper around DefaultClient.LatestVersion.
func LatestVersion(ctx context.Context, etag string) (string, string, error) {
	return DefaultClient.LatestVersion(ctx, etag)
}

// LatestVersion returns the version of the latest tzdb release.
// See the package-level LatestVersion for the ETag contract.
func (c *Client) LatestVersion(ctx context.Context, etag string) (string, string, error) {
	body, newEtag, err := c.download(ctx, latestURL, etag)
	if err != nil {
		return "", emptyEtag, err
	}
	if body == nil {
		return "", etag, nil // Not modified.
	}
	defer func() {
		// Drain and close the response body to ensure the
		// connection can be reused.
		_, _ = io.ReadAll(body)
		_ = body.Close()
	}()

	version, err := readVersion(body)
	if err != nil {
		return "", emptyEtag, err
	}
	return version, newEtag, nil
}

// readVersion scans the gzip-compressed tar archive for the version file
// and returns its content. Reading stops as soon as the file is found;
// the data files making up the bulk of the archive are never extracted.
func readVersion(r io.Reader) (string, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if header.Name != versionFilename {
			continue
		}
		versionBytes, err := io.ReadAll(tr)
		if err != nil {
			return "", fmt.Errorf("read version file: %w", err)
		}
		version := strings.TrimSpace(string(versionBytes))
		if version == "" {
			return "", fmt.Errorf("empty version file")
		}
		return version, nil
	}
	return "", fmt.Errorf("no version file found")
}

// download fetches the given URL with caching using the given ETag.
//
// If the etag is not empty and the server responds with a 304 Not
// Modified status code, the returned io.ReadCloser and error are both
// nil, and the etag is the same as the input. Otherwise the caller must
// read and close the returned body.
func (c *Client) download(ctx context.Context, url, etag string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("create request for %q: %w", url, err)
	}

	if etag != emptyEtag {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("GET %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Drain and close the response body to reuse the connection.
		if resp.Body != nil {
			_, _ = io.ReadAll(resp.Body)
			_ = resp.Body.Close()
		}

		if resp.StatusCode == http.StatusNotModified {
			return nil, etag, nil
		}
		return nil, emptyEtag, fmt.Errorf("response for %q: unexpected status: %s", url, resp.Status)
	}

	return resp.Body, resp.Header.Get("etag"), nil
}
