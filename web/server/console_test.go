package server

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	serverLog := &recordingLogger{}
	logger := NewWebLogger("test-render-123", messageChan, serverLog)

	testMessage := "Test log message"
	logger.Printf("%s\n", testMessage)

	select {
	case msg := <-messageChan:
		expectedMessage := testMessage + "\n"
		if msg.Message != expectedMessage {
			t.Errorf("Expected message '%s', got '%s'", expectedMessage, msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}

	if len(serverLog.lines) != 1 || !strings.HasPrefix(serverLog.lines[0], "[test-render-123] ") {
		t.Errorf("Expected one prefixed server log line, got %q", serverLog.lines)
	}
}

func TestWebLogger_Drain(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan, nil)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s", msg)
	}

	received := drain(messageChan)
	if len(received) != len(messages) {
		t.Fatalf("Expected %d messages, got %d", len(messages), len(received))
	}
	for i, expected := range messages {
		if received[i].Message != expected {
			t.Errorf("Message %d: expected '%s', got '%s'", i, expected, received[i].Message)
		}
	}

	if again := drain(messageChan); len(again) != 0 {
		t.Errorf("Expected an empty channel after draining, got %d messages", len(again))
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan, nil)

	logger.Printf("Message 1\n")
	// These must not block even though the channel is full
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	received := drain(messageChan)
	if len(received) != 1 || received[0].Message != "Message 1\n" {
		t.Errorf("Expected only the first message to be queued, got %+v", received)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	serverLog := &recordingLogger{}
	logger := NewWebLogger("test-render-nil", nil, serverLog)

	logger.Printf("Test message with nil channel\n")

	if len(serverLog.lines) != 1 {
		t.Errorf("Expected the server log to still receive the message, got %q", serverLog.lines)
	}
}

func TestWebLogger_FormattedMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-format", messageChan, nil)

	logger.Printf("Loading %s with %d triangles...\n", "dragon.ply", 12345)

	received := drain(messageChan)
	expected := "Loading dragon.ply with 12345 triangles...\n"
	if len(received) != 1 || received[0].Message != expected {
		t.Errorf("Expected formatted message '%s', got %+v", expected, received)
	}
}
