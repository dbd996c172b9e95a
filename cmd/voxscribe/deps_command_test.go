package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"voxscribe/internal/config"
	"voxscribe/internal/preflight"
)

func TestDepsRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("PATH", t.TempDir())

	stdout, _, _ := runCLI(t, env, &fakeBackend{}, "deps")
	requireContains(t, stdout, "FFmpeg")
	requireContains(t, stdout, "Speech API key")
	requireContains(t, stdout, "optional")
}

func TestDepsRequiresKeyForDefaultEndpoint(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv(config.SpeechAPIKeyEnv, "")
	body, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	updated := strings.Replace(string(body), `base_url = "http://127.0.0.1:0/recognize"`, `base_url = "http://www.google.com/speech-api/v2/recognize"`, 1)
	if err := os.WriteFile(env.configPath, []byte(updated), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, stderr, code := runCLI(t, env, &fakeBackend{}, "deps")
	if code != 1 {
		t.Fatalf("expected exit 1 without a key for the default endpoint, got %d", code)
	}
	requireContains(t, stdout, "missing")
	requireContains(t, stderr, "Speech API key")
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		result preflight.Result
		want   string
	}{
		{preflight.Result{Passed: true}, "ok"},
		{preflight.Result{Optional: true}, "optional"},
		{preflight.Result{}, "missing"},
	}
	for _, tc := range cases {
		if got := statusLabel(tc.result, false); got != tc.want {
			t.Errorf("statusLabel(%+v) = %q, want %q", tc.result, got, tc.want)
		}
	}
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers must never be colourized")
	}
}
