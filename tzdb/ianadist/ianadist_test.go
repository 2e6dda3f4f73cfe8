package ianadist

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"testing"
)

// roundTripperFunc is a function that implements the http.RoundTripper interface.
// Useful to fake a http.Client with fakeClient.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func fakeClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn}
}

// fakeArchive builds a gzip-compressed tar archive with the given files.
func fakeArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLatestVersion(t *testing.T) {
	const (
		testEtag  = "test-etag"
		emptyEtag = ""
	)
	archive := fakeArchive(t, map[string]string{
		"africa":  "# tzdb data for Africa and environs\n",
		"version": "2025b\n",
	})
	httpClient := fakeClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			t.Errorf("unexpected method %q", req.Method)
		}
		if req.URL.String() != "https://data.iana.org/time-zones/tzdata-latest.tar.gz" {
			t.Errorf("unexpected URL %q", req.URL)
		}

		if req.Header.Get("If-None-Match") == testEtag {
			return &http.Response{
				StatusCode: http.StatusNotModified,
				Body:       http.NoBody,
			}, nil
		}

		resp := &http.Response{
			Body:       io.NopCloser(bytes.NewReader(archive)),
			StatusCode: http.StatusOK,
		}
		resp.Header = make(http.Header)
		resp.Header.Set("etag", testEtag)
		return resp, nil
	})

	client := &Client{HTTPClient: httpClient}
	ctx := context.Background()

	// Test that LatestVersion returns the latest release version.
	version, gotEtag, err := client.LatestVersion(ctx, emptyEtag)
	if err != nil {
		t.Errorf("LatestVersion(%q) returned unexpected error: %v", emptyEtag, err)
	}
	if version != "2025b" {
		t.Errorf("LatestVersion(%q) = %q, want %q", emptyEtag, version, "2025b")
	}
	if gotEtag != testEtag {
		t.Errorf("LatestVersion(%q) returned ETag %q, want %q", emptyEtag, gotEtag, testEtag)
	}

	// Test that LatestVersion returns no version when the ETag is up-to-date.
	version, newEtag, err := client.LatestVersion(ctx, gotEtag)
	if err != nil {
		t.Errorf("LatestVersion(%q) returned unexpected error: %v", gotEtag, err)
	}
	if newEtag != testEtag {
		t.Errorf("LatestVersion(%q) returned ETag %q, want %q", gotEtag, newEtag, testEtag)
	}
	if version != "" {
		t.Errorf("LatestVersion(%q) = %q, want empty version", gotEtag, version)
	}
}

func TestLatestVersion_ServerError(t *testing.T) {
	httpClient := fakeClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Status:     "500 Internal Server Error",
			Body:       http.NoBody,
		}, nil
	})
	client := &Client{HTTPClient: httpClient}

	if _, _, err := client.LatestVersion(context.Background(), ""); err == nil {
		t.Error("LatestVersion() = nil error, want status error")
	}
}

func TestReadVersion(t *testing.T) {
	cases := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr bool
	}{
		{"version present", map[string]string{"version": "2024b\n", "europe": "# tzdb data for Europe\n"}, "2024b", false},
		{"version missing", map[string]string{"europe": "# tzdb data for Europe\n"}, "", true},
		{"version empty", map[string]string{"version": "\n"}, "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := readVersion(bytes.NewReader(fakeArchive(t, c.files)))
			if c.wantErr {
				if err == nil {
					t.Error("readVersion() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("readVersion() error: %v", err)
			}
			if got != c.want {
				t.Errorf("readVersion() = %q, want %q", got, c.want)
			}
		})
	}
}
