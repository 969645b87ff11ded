package secret

import (
	"context"
	"testing"
)

func TestResolver_PlainValuePassesThrough(t *testing.T) {
	r := NewResolver(true, NewEnvProvider())

	got, err := r.ResolveValue(context.Background(), "plain-api-key")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "plain-api-key" {
		t.Errorf("ResolveValue() = %q, want %q", got, "plain-api-key")
	}
}

func TestResolver_EnvExpansion(t *testing.T) {
	t.Setenv("REGOPS_TEST_KEY", "expanded")
	r := NewResolver(true, NewEnvProvider())

	got, err := r.ResolveValue(context.Background(), "${REGOPS_TEST_KEY}")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "expanded" {
		t.Errorf("ResolveValue() = %q, want %q", got, "expanded")
	}
}

func TestResolver_MissingEnvErrors(t *testing.T) {
	r := NewResolver(true, NewEnvProvider())

	_, err := r.ResolveValue(context.Background(), "${REGOPS_DEFINITELY_UNSET}")
	if err == nil {
		t.Error("ResolveValue() error = nil, want missing-variable error")
	}
}

func TestResolver_SecretRef(t *testing.T) {
	t.Setenv("REGOPS_REF_KEY", "from-ref")
	r := NewResolver(true, NewEnvProvider())

	got, err := r.ResolveValue(context.Background(), "secretref:env:REGOPS_REF_KEY")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "from-ref" {
		t.Errorf("ResolveValue() = %q, want %q", got, "from-ref")
	}
}

func TestResolver_UnknownProvider(t *testing.T) {
	r := NewResolver(true)

	_, err := r.ResolveValue(context.Background(), "secretref:vault:some/path")
	if err == nil {
		t.Error("ResolveValue() error = nil, want unregistered-provider error")
	}
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		value        string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{"secretref:env:API_KEY", "env", "API_KEY", true},
		{"secretref:vault:kv/data/key", "vault", "kv/data/key", true},
		{"secretref:env:", "", "", false},
		{"secretref::ref", "", "", false},
		{"plain", "", "", false},
	}

	for _, tt := range tests {
		provider, ref, ok := ParseSecretRef(tt.value)
		if provider != tt.wantProvider || ref != tt.wantRef || ok != tt.wantOK {
			t.Errorf("ParseSecretRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.value, provider, ref, ok, tt.wantProvider, tt.wantRef, tt.wantOK)
		}
	}
}

func TestExpandEnvStrict_EscapedDollar(t *testing.T) {
	got, err := ExpandEnvStrict("pre$$fix")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if got != "pre$fix" {
		t.Errorf("ExpandEnvStrict() = %q, want %q", got, "pre$fix")
	}
}
