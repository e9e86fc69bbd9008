package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"go-invoice-api/internal/logger"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewProvider(srv.URL, 200*time.Millisecond, DefaultFallback, logger.Nop())
}

func TestRateReadsINR(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"INR":84.12}}`))
	})
	got := p.Rate(context.Background())
	if !got.Equal(decimal.RequireFromString("84.12")) {
		t.Fatalf("rate: got=%s want=84.12", got)
	}
}

func TestRateFallsBack(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":`))
		},
		"missing INR": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":{"EUR":0.92}}`))
		},
		"zero INR": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":{"INR":0}}`))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			p := newTestProvider(t, h)
			got := p.Rate(context.Background())
			if !got.Equal(decimal.NewFromInt(83)) {
				t.Fatalf("rate: got=%s want=83", got)
			}
		})
	}
}

func TestRateUnreachableHost(t *testing.T) {
	p := NewProvider("http://127.0.0.1:1/latest/USD", 100*time.Millisecond, 0, logger.Nop())
	if got := p.Rate(context.Background()); !got.Equal(p.Fallback()) {
		t.Fatalf("rate: got=%s want fallback %s", got, p.Fallback())
	}
}
