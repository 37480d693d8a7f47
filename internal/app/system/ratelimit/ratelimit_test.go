package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndBlock(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt should be blocked")
	}
	if !l.Allow("other") {
		t.Error("separate keys have separate windows")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("window should be full")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("reset should reopen the window")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	l := New(1, 10*time.Millisecond)
	l.Allow("k")
	time.Sleep(20 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("expired window should reopen")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", "", "", "10.0.0.1"},
		{"x-forwarded-for first hop", "10.0.0.1:1234", "203.0.113.9, 10.0.0.2", "", "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:1234", "", "203.0.113.9", "203.0.113.9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoginLimiter_UsernameWindow(t *testing.T) {
	ll := &LoginLimiter{
		ip:       New(100, time.Minute),
		username: New(2, time.Minute),
	}

	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	if !ll.Check(r, "Keshav@Example.com") || !ll.Check(r, "keshav@example.com") {
		t.Fatal("first two attempts should pass")
	}
	if ll.Check(r, "KESHAV@example.com") {
		t.Error("third attempt on the same username should be blocked")
	}

	ll.ResetUsername("keshav@example.com")
	if !ll.Check(r, "keshav@example.com") {
		t.Error("reset should reopen the username window")
	}
}

func TestLoginLimiter_IPWindow(t *testing.T) {
	ll := &LoginLimiter{
		ip:       New(2, time.Minute),
		username: New(100, time.Minute),
	}

	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	ll.Check(r, "a@example.com")
	ll.Check(r, "b@example.com")
	if ll.Check(r, "c@example.com") {
		t.Error("third attempt from the same IP should be blocked")
	}

	other := httptest.NewRequest("POST", "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	if !ll.Check(other, "c@example.com") {
		t.Error("a different IP has its own window")
	}
}
