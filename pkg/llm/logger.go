// Completion logging wrapper
package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LoggingClient wraps an existing Client and records every prompt/completion
// pair as a pair of timestamped text files in a log directory. Usage and
// cost accounting are delegated to the wrapped client.
type LoggingClient struct {
	client Client
	logDir string

	// serializes file writes so concurrent calls can't interleave timestamps
	mu sync.Mutex
}

// NewLoggingClient creates a LoggingClient writing into logDir.
// The directory is removed and recreated, so each run starts with a clean log.
func NewLoggingClient(client Client, logDir string) (*LoggingClient, error) {
	if err := os.RemoveAll(logDir); err != nil {
		return nil, fmt.Errorf("failed to clear log directory: %w", err)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &LoggingClient{
		client: client,
		logDir: logDir,
	}, nil
}

// ChatCompletion delegates to the wrapped client and logs the exchange.
// Failed requests are not logged; the error passes through unchanged.
func (l *LoggingClient) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := l.client.ChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if logErr := l.logExchange(req, resp); logErr != nil {
		return nil, fmt.Errorf("completion succeeded but logging failed: %w", logErr)
	}

	return resp, nil
}

// logExchange writes the prompt and completion as two files sharing a timestamp
func (l *LoggingClient) logExchange(req ChatRequest, resp *ChatResponse) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006_01_02_15_04_05.000000")
	// The format above uses a dot for fractional seconds; file names stay underscore-only
	timestamp = strings.ReplaceAll(timestamp, ".", "_")

	promptPath := filepath.Join(l.logDir, timestamp+"_a_prompt.txt")
	completionPath := filepath.Join(l.logDir, timestamp+"_b_completion.txt")

	if err := os.WriteFile(promptPath, []byte(renderMessages(req.Messages)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(completionPath, []byte(resp.Text()), 0o644)
}

// renderMessages flattens a message sequence into readable prompt text
func renderMessages(messages []Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// GetModelInfo implements Client
func (l *LoggingClient) GetModelInfo() ModelInfo {
	return l.client.GetModelInfo()
}

// TokenUsage implements Client
func (l *LoggingClient) TokenUsage() Usage {
	return l.client.TokenUsage()
}

// Cost implements Client
func (l *LoggingClient) Cost() float64 {
	return l.client.Cost()
}

// Close implements Client
func (l *LoggingClient) Close() error {
	return l.client.Close()
}
