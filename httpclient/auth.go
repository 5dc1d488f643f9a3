package httpclient

import "net/http"

// Auth decorates an outgoing request with credentials.
type Auth func(req *http.Request)

// BearerAuth sends "Authorization: Bearer <token>", as wit.ai expects.
func BearerAuth(token string) Auth {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// APIKeyAuthQuery puts key into the named query parameter, as Google's
// REST APIs expect for ?key=.
func APIKeyAuthQuery(key, param string) Auth {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Set(param, key)
		req.URL.RawQuery = q.Encode()
	}
}
