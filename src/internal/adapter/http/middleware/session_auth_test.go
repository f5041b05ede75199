package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	tokens map[string]*session.Session
}

func (s stubAuthenticator) Authenticate(token string) (*session.Session, error) {
	sess, ok := s.tokens[token]
	if !ok {
		return nil, commons.ErrSessionNotFound
	}
	return sess, nil
}

func TestSessionAuth(t *testing.T) {
	sess := &session.Session{ID: "sid-1", Username: "js"}
	auth := stubAuthenticator{tokens: map[string]*session.Session{"good": sess}}

	var seen *session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name       string
		allowQuery bool
		header     string
		target     string
		want       int
	}{
		{name: "bearer header", header: "Bearer good", target: "/account", want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", target: "/account", want: http.StatusOK},
		{name: "unknown token", header: "Bearer bad", target: "/account", want: http.StatusUnauthorized},
		{name: "missing token", target: "/account", want: http.StatusUnauthorized},
		{name: "query token allowed", allowQuery: true, target: "/session/events?token=good", want: http.StatusOK},
		{name: "query token ignored", target: "/account?token=good", want: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			SessionAuth(auth, tc.allowQuery)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusOK {
				assert.Same(t, sess, seen)
				return
			}
			assert.Nil(t, seen)
			var body commons.Response[struct{}]
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, commons.CodeSessionNotFound, body.Code)
		})
	}
}
