package publishers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "publishers.yaml", `
publishers:
  - id: deploy-hook
    type: http
    http:
      url: https://hooks.example/build
      headers:
        Authorization: Bearer token
  - id: run-events
    type: queue
    enabled: false
    queue:
      provider: aws-sqs
      aws:
        queue_url: https://sqs.eu-north-1.amazonaws.com/1/q
        region: eu-north-1
`)

	sinks, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("got %d sinks, want 2", len(sinks))
	}

	enabled := Enabled(sinks)
	if len(enabled) != 1 || enabled[0].ID != "deploy-hook" {
		t.Fatalf("Enabled = %+v, want only deploy-hook", enabled)
	}

	hook := sinks[0]
	if hook.HTTP.Method != "POST" {
		t.Errorf("Method = %q, want POST default", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want default", hook.HTTP.TimeoutSeconds)
	}
	if sinks[1].Queue.AWS.QueueURL == "" {
		t.Error("queue_url lost in decode")
	}
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("HOOK_URL", "https://hooks.example/from-env")
	path := writeTemp(t, "publishers.yaml", `
publishers:
  - id: hook
    type: http
    http:
      url: ${HOOK_URL}
`)

	sinks, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sinks[0].HTTP.URL != "https://hooks.example/from-env" {
		t.Fatalf("URL = %q, want env-expanded", sinks[0].HTTP.URL)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", "publishers: []\n"},
		{"missing id", "publishers:\n  - type: http\n    http:\n      url: https://x.example\n"},
		{"missing http url", "publishers:\n  - id: a\n    type: http\n    http: {}\n"},
		{"unknown type", "publishers:\n  - id: a\n    type: carrier-pigeon\n"},
		{"unknown queue provider", "publishers:\n  - id: a\n    type: queue\n    queue:\n      provider: azure\n"},
		{"duplicate id", "publishers:\n  - id: a\n    type: http\n    http:\n      url: https://x.example\n  - id: a\n    type: http\n    http:\n      url: https://y.example\n"},
		{"sqs missing region", "publishers:\n  - id: a\n    type: queue\n    queue:\n      provider: aws-sqs\n      aws:\n        queue_url: https://sqs.example/q\n"},
		{"sns missing topic", "publishers:\n  - id: a\n    type: queue\n    queue:\n      provider: aws-sns\n      aws:\n        region: eu-north-1\n"},
		{"half a credential pair", "publishers:\n  - id: a\n    type: queue\n    queue:\n      provider: aws-sqs\n      aws:\n        queue_url: https://sqs.example/q\n        region: eu-north-1\n        access_key_id: AKIA\n"},
		{"gcp missing topic", "publishers:\n  - id: a\n    type: queue\n    queue:\n      provider: gcp\n      gcp:\n        project_id: p\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "publishers.yaml", tt.content)
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEnabledValue(t *testing.T) {
	var cfg SinkConfig
	if !cfg.EnabledValue() {
		t.Error("nil enabled must default to true")
	}
	off := false
	cfg.Enabled = &off
	if cfg.EnabledValue() {
		t.Error("explicit false ignored")
	}
}

func TestBuildHTTP(t *testing.T) {
	cfg := SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPConfig{URL: "https://hooks.example/build", Method: "POST", TimeoutSeconds: 5},
	}

	pub, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pub.ID() != "hook" || pub.Type() != TypeHTTP {
		t.Errorf("pub = %s/%s, want hook/http", pub.ID(), pub.Type())
	}
}

func TestBuildUnknownType(t *testing.T) {
	if _, err := Build(context.Background(), SinkConfig{ID: "a", Type: "carrier-pigeon"}, nil); err == nil {
		t.Fatal("expected error")
	}
}
