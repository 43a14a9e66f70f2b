package publishers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writePublishersFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: hook2
    type: HTTP
    http:
      url: " https://example.com/2 "
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123:news
      region: eu-west-1
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "hook2" || enabled[1].ID != "topic" {
		t.Fatalf("unexpected enabled publishers %#v", enabled)
	}
	hook, ok := reg.ByID("hook2")
	if !ok || hook.Type != TypeHTTP || hook.HTTP.URL != "https://example.com/2" || hook.HTTP.Method != "POST" {
		t.Fatalf("hook2 not sanitized: %#v", hook)
	}
}

func TestLoadRegistryEmptyPath(t *testing.T) {
	reg, err := LoadRegistry("  ")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 0 {
		t.Fatalf("expected no publishers")
	}
}

func TestLoadRegistryJSONRejectsDuplicates(t *testing.T) {
	path := writePublishersFile(t, "publishers.json", `{"publishers":[
  {"id":"a","type":"http","http":{"url":"https://x"}},
  {"id":"a","type":"http","http":{"url":"https://y"}}
]}`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing id":     {Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "u"}},
		"missing http":   {ID: "h", Type: TypeHTTP},
		"missing region": {ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}},
		"missing topic":  {ID: "p", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "proj"}},
		"unknown type":   {ID: "k", Type: "kafka"},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}

	if _, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
