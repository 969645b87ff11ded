package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/regops/secret"
)

func validEndpoint() Endpoint {
	return Endpoint{
		ID:      "gdpr_eu",
		Name:    "EU GDPR Authority",
		BaseURL: "https://api.gdpr.europa.example",
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := New()

	ep := validEndpoint()
	ep.APIKey = "key-123"
	ep.RateLimit = 100
	ep.Timeout = 10 * time.Second
	ep.Retry = RetryPolicy{MaxRetries: 2, InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2.0}
	ep.HealthCheckURL = "https://api.gdpr.europa.example/health"

	if err := reg.Register(context.Background(), ep); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Get("gdpr_eu")
	if !ok {
		t.Fatal("Get() not found after Register()")
	}
	if got.Name != ep.Name || got.BaseURL != ep.BaseURL || got.APIKey != ep.APIKey {
		t.Errorf("Get() = %+v, want fields of %+v", got, ep)
	}
	if got.RateLimit != 100 || got.Timeout != 10*time.Second {
		t.Errorf("Get() limits = (%d, %v), want (100, 10s)", got.RateLimit, got.Timeout)
	}
	if got.Retry != ep.Retry {
		t.Errorf("Retry = %+v, want %+v", got.Retry, ep.Retry)
	}
	if !got.Healthy {
		t.Error("new endpoint should start healthy")
	}
}

func TestRegistry_Defaults(t *testing.T) {
	reg := New()

	if err := reg.Register(context.Background(), validEndpoint()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, _ := reg.Get("gdpr_eu")
	if got.RateLimit != 60 {
		t.Errorf("RateLimit = %d, want 60", got.RateLimit)
	}
	if got.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", got.Timeout)
	}
	if got.Retry != DefaultRetryPolicy() {
		t.Errorf("Retry = %+v, want default policy", got.Retry)
	}
}

func TestRegistry_Validation(t *testing.T) {
	reg := New()

	tests := []struct {
		name string
		ep   Endpoint
		want error
	}{
		{"empty id", Endpoint{BaseURL: "https://x.example"}, ErrEmptyID},
		{"empty base url", Endpoint{ID: "a"}, ErrInvalidBaseURL},
		{"no scheme", Endpoint{ID: "a", BaseURL: "x.example/path"}, ErrInvalidBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Register(context.Background(), tt.ep); err != tt.want {
				t.Errorf("Register() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistry_OverwriteByID(t *testing.T) {
	reg := New()

	ep := validEndpoint()
	if err := reg.Register(context.Background(), ep); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ep.Name = "Renamed Authority"
	if err := reg.Register(context.Background(), ep); err != nil {
		t.Fatalf("Register() overwrite error = %v", err)
	}

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	got, _ := reg.Get("gdpr_eu")
	if got.Name != "Renamed Authority" {
		t.Errorf("Name = %q, want overwritten value", got.Name)
	}
}

func TestRegistry_InitializersRunOnRegister(t *testing.T) {
	var seen []string
	reg := New(WithInitializer(func(ep Endpoint) {
		seen = append(seen, ep.ID)
	}))

	if err := reg.Register(context.Background(), validEndpoint()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(seen) != 1 || seen[0] != "gdpr_eu" {
		t.Errorf("initializer calls = %v, want [gdpr_eu]", seen)
	}
}

func TestRegistry_ResolvesAPIKey(t *testing.T) {
	t.Setenv("GDPR_API_KEY", "resolved-key")
	reg := New(WithResolver(secret.NewResolver(true, secret.NewEnvProvider())))

	ep := validEndpoint()
	ep.APIKey = "secretref:env:GDPR_API_KEY"
	if err := reg.Register(context.Background(), ep); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, _ := reg.Get("gdpr_eu")
	if got.APIKey != "resolved-key" {
		t.Errorf("APIKey = %q, want resolved value", got.APIKey)
	}
}

func TestRegistry_SetHealth(t *testing.T) {
	reg := New()
	if err := reg.Register(context.Background(), validEndpoint()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if !reg.SetHealth("gdpr_eu", false) {
		t.Fatal("SetHealth() = false for existing endpoint")
	}
	got, _ := reg.Get("gdpr_eu")
	if got.Healthy {
		t.Error("Healthy = true, want false")
	}
	if got.LastHealthCheck.IsZero() {
		t.Error("LastHealthCheck not stamped")
	}

	if reg.SetHealth("missing", true) {
		t.Error("SetHealth() = true for unknown endpoint")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.Register(context.Background(), validEndpoint())
		}()
		go func() {
			defer wg.Done()
			reg.Get("gdpr_eu")
			reg.List()
		}()
	}
	wg.Wait()

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}
