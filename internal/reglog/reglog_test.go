package reglog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
)

func TestRedactAuthorizationPreservesOtherHeaders(t *testing.T) {
	in := http.Header{
		"Authorization": {"Bearer secret-token"},
		"Accept":        {"application/json"},
	}
	got := redactAuthorization(in)

	want := http.Header{
		"Authorization": {"Bearer REDACTED"},
		"Accept":        {"application/json"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("redactAuthorization mismatch (-want +got):\n%s", diff)
	}
	// the input map itself must not be mutated
	if diff := cmp.Diff("Bearer secret-token", in.Get("Authorization")); diff != "" {
		t.Fatalf("input header was mutated (-want +got):\n%s", diff)
	}
}

func TestRedactAuthorizationOpaqueScheme(t *testing.T) {
	got := redactAuthorization(http.Header{"Authorization": {"opaquetoken"}})
	qt.Assert(t, qt.Equals(got.Get("Authorization"), "REDACTED"))
}

type fakeRoundTripper struct {
	resp *http.Response
}

func (f *fakeRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return f.resp, nil
}

func TestTransportDoesNotTruncateCallerVisibleBody(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), DefaultMaxBodySize*2)
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/octet-stream"}},
		Body:       io.NopCloser(bytes.NewReader(payload)),
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rt := Transport(Config{Logger: logger, Base: &fakeRoundTripper{resp: resp}})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://example.invalid/pkg", nil)
	qt.Assert(t, qt.IsNil(err))

	got, err := rt.RoundTrip(req)
	qt.Assert(t, qt.IsNil(err))

	full, err := io.ReadAll(got.Body)
	qt.Assert(t, qt.IsNil(err))
	if diff := cmp.Diff(payload, full); diff != "" {
		t.Fatalf("round-tripped body was altered by logging (-want +got)")
	}
}
