package llm

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeClient implements the full Client interface for wrapper tests
type fakeClient struct {
	fakeChatCompleter
	info ModelInfo
}

func (f *fakeClient) GetModelInfo() ModelInfo { return f.info }
func (f *fakeClient) TokenUsage() Usage       { return Usage{} }
func (f *fakeClient) Cost() float64           { return 0 }
func (f *fakeClient) Close() error            { return nil }

func TestLoggingClient(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "llm_logs")
	fake := &fakeClient{
		fakeChatCompleter: fakeChatCompleter{
			responses: []*ChatResponse{{
				ID:    "resp-1",
				Model: "fake-model",
				Choices: []Choice{{
					Message: NewTextMessage(RoleAssistant, "the answer"),
				}},
			}},
		},
	}

	logged, err := NewLoggingClient(fake, logDir)
	if err != nil {
		t.Fatalf("NewLoggingClient failed: %v", err)
	}

	req := ChatRequest{
		Model: "fake-model",
		Messages: []Message{
			NewTextMessage(RoleSystem, "be brief"),
			NewTextMessage(RoleUser, "what is 2+2?"),
		},
	}
	resp, err := logged.ChatCompletion(context.Background(), req)
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if resp.Text() != "the answer" {
		t.Errorf("Expected response to pass through, got %q", resp.Text())
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log files, got %d", len(entries))
	}

	var promptFile, completionFile string
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), "_a_prompt.txt"):
			promptFile = e.Name()
		case strings.HasSuffix(e.Name(), "_b_completion.txt"):
			completionFile = e.Name()
		default:
			t.Errorf("Unexpected log file name: %q", e.Name())
		}
	}
	if promptFile == "" || completionFile == "" {
		t.Fatal("Expected one prompt file and one completion file")
	}

	prompt, err := os.ReadFile(filepath.Join(logDir, promptFile))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := "system: be brief\nuser: what is 2+2?"
	if string(prompt) != want {
		t.Errorf("Unexpected prompt log:\n%q\nwant:\n%q", prompt, want)
	}

	completion, err := os.ReadFile(filepath.Join(logDir, completionFile))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(completion) != "the answer" {
		t.Errorf("Unexpected completion log: %q", completion)
	}
}

func TestLoggingClientClearsDirectory(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "llm_logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(logDir, "stale.txt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoggingClient(&fakeClient{}, logDir); err != nil {
		t.Fatalf("NewLoggingClient failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Expected stale log files to be removed")
	}
}

func TestLoggingClientSkipsFailedRequests(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "llm_logs")
	fake := &fakeClient{
		fakeChatCompleter: fakeChatCompleter{
			errors: []error{NewProviderRequestError("network_error", "connection refused")},
		},
	}

	logged, err := NewLoggingClient(fake, logDir)
	if err != nil {
		t.Fatalf("NewLoggingClient failed: %v", err)
	}

	_, err = logged.ChatCompletion(context.Background(), NewUserRequest("fake-model", "hi"))
	if err == nil {
		t.Fatal("Expected error to pass through")
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no log files for failed requests, got %d", len(entries))
	}
}
