package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEndpointChecker_DedicatedURL(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Status
	}{
		{"200 healthy", http.StatusOK, StatusHealthy},
		{"204 healthy", http.StatusNoContent, StatusHealthy},
		{"403 unhealthy", http.StatusForbidden, StatusUnhealthy},
		{"500 unhealthy", http.StatusInternalServerError, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := statusServer(t, tt.status)
			c := NewEndpointChecker("ep", srv.URL+"/health", srv.URL, srv.Client())

			result := c.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v", result.Status, tt.want)
			}
		})
	}
}

func TestEndpointChecker_BaseURLTreatsNon404AsHealthy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Status
	}{
		{"200 healthy", http.StatusOK, StatusHealthy},
		{"403 still healthy", http.StatusForbidden, StatusHealthy},
		{"500 still healthy", http.StatusInternalServerError, StatusHealthy},
		{"404 unhealthy", http.StatusNotFound, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := statusServer(t, tt.status)
			c := NewEndpointChecker("ep", "", srv.URL, srv.Client())

			result := c.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v", result.Status, tt.want)
			}
		})
	}
}

func TestEndpointChecker_TransportFailure(t *testing.T) {
	srv := statusServer(t, http.StatusOK)
	url := srv.URL
	srv.Close() // refuse connections

	c := NewEndpointChecker("ep", url, "", http.DefaultClient)
	result := c.Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if result.Error == nil {
		t.Error("Error = nil, want transport error")
	}
}

func TestEndpointChecker_Name(t *testing.T) {
	c := NewEndpointChecker("EU GDPR Authority", "", "https://x.example", nil)
	if c.Name() != "EU GDPR Authority" {
		t.Errorf("Name() = %q", c.Name())
	}
}
