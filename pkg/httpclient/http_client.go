package httpclient

import (
	"net/http"
	"time"
)

const maxRedirects = 10

// HeaderPreservingClient returns a client that copies the first request's
// headers onto every redirect hop. net/http drops Authorization when a
// redirect changes host, and the webhook token has to reach the final URL.
// Redirects that would rewrite the method (301, 302 and 303 on a POST) are
// not followed, so the caller sees the redirect status instead of a
// body-less GET.
func HeaderPreservingClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: preserveHeaders,
	}
}

func preserveHeaders(r *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return http.ErrUseLastResponse
	}

	if len(via) == 0 {
		return nil
	}

	if r.Method != via[0].Method {
		return http.ErrUseLastResponse
	}

	r.Header = via[0].Header.Clone()

	return nil
}
