package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dashboard-system/dashboard-root/internal/testutil/testlog"
)

func TestCheckTreats2xxAsHealthy(t *testing.T) {
	testlog.Start(t)
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer healthy.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	checker := NewCheckerWithClient(healthy.Client(), []string{healthy.URL, broken.URL})
	results := checker.Check()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Healthy {
		t.Fatalf("2xx endpoint should be healthy: %v", results[0].Err)
	}
	if results[1].Healthy {
		t.Fatal("5xx endpoint should not be healthy")
	}
}

func TestCheckUnreachableEndpoint(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	checker := NewCheckerWithClient(&http.Client{}, []string{url})
	results := checker.Check()
	if results[0].Healthy {
		t.Fatal("unreachable endpoint should not be healthy")
	}
	if results[0].Err == nil {
		t.Fatal("transport error should be recorded")
	}
}
