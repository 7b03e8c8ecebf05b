package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPMiddleware(t *testing.T) {
	trusted := []string{"10.0.0.0/8", "::1/128"}

	tests := []struct {
		name           string
		remoteAddr     string
		headers        map[string]string
		expectedRemote string
	}{
		{
			name:           "direct connection keeps peer",
			remoteAddr:     "203.0.113.1:54321",
			expectedRemote: "203.0.113.1:54321",
		},
		{
			name:           "direct connection without port",
			remoteAddr:     "203.0.113.1",
			expectedRemote: "203.0.113.1:0",
		},
		{
			name:           "untrusted peer cannot spoof headers",
			remoteAddr:     "203.0.113.1:54321",
			headers:        map[string]string{"X-Forwarded-For": "198.51.100.9", "X-Real-IP": "198.51.100.8"},
			expectedRemote: "203.0.113.1:54321",
		},
		{
			name:           "trusted proxy forwards single hop",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "198.51.100.3"},
			expectedRemote: "198.51.100.3:12345",
		},
		{
			name:           "rightmost untrusted hop wins",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "192.0.2.77, 198.51.100.4, 10.0.0.2"},
			expectedRemote: "198.51.100.4:12345",
		},
		{
			name:           "all hops trusted uses leftmost",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "10.0.0.5, 10.0.0.2"},
			expectedRemote: "10.0.0.5:12345",
		},
		{
			name:           "x-real-ip fallback",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Real-IP": "198.51.100.2"},
			expectedRemote: "198.51.100.2:12345",
		},
		{
			name:           "true-client-ip fallback",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"True-Client-IP": "198.51.100.1"},
			expectedRemote: "198.51.100.1:12345",
		},
		{
			name:           "invalid forwarded value keeps peer",
			remoteAddr:     "10.0.0.1:12345",
			headers:        map[string]string{"X-Forwarded-For": "not-an-ip"},
			expectedRemote: "10.0.0.1:12345",
		},
		{
			name:           "ipv6 trusted proxy",
			remoteAddr:     "[::1]:8080",
			headers:        map[string]string{"X-Forwarded-For": "2001:db8::1"},
			expectedRemote: "[2001:db8::1]:8080",
		},
		{
			name:           "unparseable remote addr is left alone",
			remoteAddr:     "garbage",
			expectedRemote: "garbage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRemote string
			handler := ClientIPMiddleware(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRemote = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			if gotRemote != tt.expectedRemote {
				t.Errorf("expected RemoteAddr %q, got %q", tt.expectedRemote, gotRemote)
			}
		})
	}
}

func TestClientIPMiddleware_NoTrustedProxies(t *testing.T) {
	var gotRemote string
	handler := ClientIPMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRemote = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	req.Header.Set("X-Forwarded-For", "198.51.100.3")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotRemote != "10.0.0.1:12345" {
		t.Errorf("expected forwarding headers ignored, got %q", gotRemote)
	}
}

func TestParseProxyNetworks_SkipsInvalid(t *testing.T) {
	networks := parseProxyNetworks([]string{"10.0.0.0/8", "nope", " 192.168.0.0/16 "})
	if len(networks) != 2 {
		t.Fatalf("expected 2 networks, got %d", len(networks))
	}
}
