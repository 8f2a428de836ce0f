package ratelimit

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time         { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, period time.Duration) (*Limiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := New(limit, period)
	l.now = c.now
	return l, c
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt should be refused")
	}
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
	if !l.Allow("other") {
		t.Error("keys are independent")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, c := newTestLimiter(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second attempt in the window should be refused")
	}
	c.advance(time.Minute)
	if !l.Allow("k") {
		t.Error("a new window should allow again")
	}
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Allow("k")
	l.Reset("k")
	if got := l.Remaining("k"); got != 1 {
		t.Errorf("Remaining after reset: got %d, want 1", got)
	}
}

func TestLimiter_SweepsExpiredKeys(t *testing.T) {
	l, c := newTestLimiter(5, time.Second)

	for i := 0; i < sweepEvery-1; i++ {
		l.Allow(fmt.Sprintf("k%d", i))
	}
	c.advance(2 * time.Second)
	l.Allow("fresh")

	if got := l.Len(); got != 1 {
		t.Errorf("Len after sweep: got %d, want 1", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.7 "}, "10.0.0.2:1234", "198.51.100.7"},
		{"remote with port", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginGuard(t *testing.T) {
	g := &LoginGuard{Client: New(100, time.Minute), Account: New(2, time.Minute)}
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if err := g.Check(r, "Admin@Example.com"); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if err := g.Check(r, "admin@example.com "); !errors.Is(err, ErrTooManyForAccount) {
		t.Errorf("expected ErrTooManyForAccount, got %v", err)
	}

	g.Succeeded("ADMIN@example.com")
	if err := g.Check(r, "admin@example.com"); err != nil {
		t.Errorf("after success the account counter resets, got %v", err)
	}
}

func TestLoginGuard_ClientLimit(t *testing.T) {
	g := &LoginGuard{Client: New(1, time.Minute), Account: New(100, time.Minute)}
	r := httptest.NewRequest("POST", "/login", nil)

	if err := g.Check(r, "a@example.com"); err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if err := g.Check(r, "b@example.com"); !errors.Is(err, ErrTooManyFromClient) {
		t.Errorf("expected ErrTooManyFromClient, got %v", err)
	}
}
