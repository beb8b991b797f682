package challenge

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DSACMS/challenge-runner/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	called int
	req    *http.Request
	body   []byte
	resp   *http.Response
	err    error
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.called++
	f.req = req
	if req.Body != nil {
		f.body, _ = io.ReadAll(req.Body)
	}
	return f.resp, f.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *core.ChallengeConfig {
	return &core.ChallengeConfig{
		GenerateWebhookURL: "https://example.test/hiring/generateWebhook/GO",
		Name:               "Jane Doe",
		RegNo:              "22BCE2466",
		Email:              "jane@example.test",
	}
}

func newTestService(t *testing.T, ft *fakeTransport) *service {
	t.Helper()

	svc, err := New(testConfig(), Options{
		HTTPClient: ft,
		Logger:     discardLogger(),
	})
	require.NoError(t, err)

	impl, ok := svc.(*service)
	require.True(t, ok, "New should return *service implementation")
	return impl
}

func TestNew_UsesInjectedHTTPClient(t *testing.T) {
	cfg := testConfig()
	ft := &fakeTransport{}

	svc, err := New(cfg, Options{
		HTTPClient: ft,
	})
	require.NoError(t, err)

	impl, ok := svc.(*service)
	require.True(t, ok, "New should return *service implementation")
	require.Same(t, cfg, impl.cfg, "should preserve cfg pointer")
	require.Same(t, ft, impl.client, "should use injected HTTP client")
}

func TestNew_DefaultsToHeaderPreservingClient(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 7 * time.Second

	svc, err := New(cfg, Options{})
	require.NoError(t, err)

	impl := svc.(*service)
	client, ok := impl.client.(*http.Client)
	require.True(t, ok, "default transport should be *http.Client")
	require.NotNil(t, client.CheckRedirect)
	require.Equal(t, 7*time.Second, client.Timeout)
	require.Equal(t, 7*time.Second, impl.timeout)
}

func TestNew_OptionTimeoutWins(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 7 * time.Second

	svc, err := New(cfg, Options{HTTPClient: &fakeTransport{}, Timeout: time.Second})
	require.NoError(t, err)

	require.Equal(t, time.Second, svc.(*service).timeout)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, Options{})
	require.ErrorIs(t, err, ErrMissingConfig)

	_, err = New(&core.ChallengeConfig{}, Options{})
	require.Error(t, err)
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "empty", in: "", n: 8, want: ""},
		{name: "zero width", in: "abcdefghij", n: 0, want: ""},
		{name: "short value is masked", in: "abc", n: 8, want: "…"},
		{name: "exact length is masked", in: "abcdefgh", n: 8, want: "…"},
		{name: "long value", in: "abcdefghij", n: 8, want: "abcdefgh…"},
		{name: "cut inside rune", in: "abcdefgé-rest", n: 8, want: "abcdefg…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prefix(tt.in, tt.n))
		})
	}
}

func TestSnippet_TruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxErrBodyLogBytes-1) + "é" + "tail"

	got := snippet([]byte(body))

	require.True(t, utf8.ValidString(got), "snippet must stay valid UTF-8")
	assert.Equal(t, strings.Repeat("a", maxErrBodyLogBytes-1)+"...", got)
}

func TestSnippet_ShortBodyUnchanged(t *testing.T) {
	assert.Equal(t, `{"message":"bad"}`, snippet([]byte("  {\"message\":\"bad\"}\n")))
}
