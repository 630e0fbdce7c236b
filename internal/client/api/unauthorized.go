package api

import "net/http"

// unauthorizedInterceptor wraps a RoundTripper and invokes hook whenever a
// response comes back with status 401. The response is always handed back to
// the caller untouched: the interceptor observes, it never suppresses, so
// local UI can still react in addition to the global effect.
//
// The at-most-one-logout guarantee does not live here. Several in-flight
// requests can fail with 401 at the same time and each will fire the hook;
// the session store re-checks its own state at handle time and collapses the
// burst into a single logout cycle.
type unauthorizedInterceptor struct {
	next http.RoundTripper
	hook func()
}

func (t *unauthorizedInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusUnauthorized && t.hook != nil {
		t.hook()
	}
	return resp, err
}
