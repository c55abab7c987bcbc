package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"no trusted proxies ignores headers", nil, "10.0.0.1:1234",
			map[string]string{"X-Real-IP": "1.2.3.4"}, "10.0.0.1:1234"},
		{"trusted proxy real ip", []string{"10.0.0.0/8"}, "10.0.0.1:1234",
			map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted proxy forwarded for", []string{"10.0.0.0/8"}, "10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.2"}, "5.6.7.8"},
		{"bare address entry", []string{"127.0.0.1"}, "127.0.0.1:80",
			map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"untrusted source", []string{"10.0.0.0/8"}, "192.168.1.1:1234",
			map[string]string{"X-Real-IP": "1.2.3.4"}, "192.168.1.1:1234"},
		{"invalid header kept out", []string{"10.0.0.0/8"}, "10.0.0.1:1234",
			map[string]string{"X-Real-IP": "not-an-ip"}, "10.0.0.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxies_SkipsInvalid(t *testing.T) {
	got := ParseTrustedProxies([]string{"10.0.0.0/8", "", "bogus", "::1"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(got), got)
	}
	if got[1].Bits() != 128 {
		t.Errorf("bare IPv6 address bits = %d, want 128", got[1].Bits())
	}
}

func TestLogger_CapturesStatusAndBytes(t *testing.T) {
	var rw *responseWriter
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rw.status != http.StatusTeapot || rw.bytes != 5 {
		t.Errorf("captured status=%d bytes=%d", rw.status, rw.bytes)
	}
}
