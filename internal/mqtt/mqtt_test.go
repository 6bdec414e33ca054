package mqtt

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	p := NewPublisher(Options{Broker: "tcp://broker:1883"})
	if p.opts.ClientID != "tempo" {
		t.Errorf("ClientID = %q, want tempo", p.opts.ClientID)
	}
	if p.opts.Topic != "tempo/state" {
		t.Errorf("Topic = %q, want tempo/state", p.opts.Topic)
	}
}

func TestEnabled(t *testing.T) {
	if NewPublisher(Options{}).Enabled() {
		t.Error("publisher without broker should be disabled")
	}
	if !NewPublisher(Options{Broker: "tcp://broker:1883"}).Enabled() {
		t.Error("publisher with broker should be enabled")
	}
}

func TestPublishBadBroker(t *testing.T) {
	// Connecting to a non-existent broker should return a connect error.
	p := NewPublisher(Options{Broker: "tcp://127.0.0.1:19999"})
	if err := p.PublishPhase("work", "Work", 1); err == nil {
		t.Fatal("expected error for unreachable broker")
	}
}

func TestPublishBadScheme(t *testing.T) {
	// A completely invalid broker URL should fail.
	p := NewPublisher(Options{Broker: "not-a-url"})
	if err := p.PublishPhase("work", "Work", 1); err == nil {
		t.Fatal("expected error for invalid broker URL")
	}
}

func TestCloseWithoutConnect(t *testing.T) {
	// Close before any publish must not panic.
	NewPublisher(Options{Broker: "tcp://127.0.0.1:19999"}).Close()
}

func TestStateMessageShape(t *testing.T) {
	msg := StateMessage{Phase: "break", Label: "Break", Cycles: 4, At: time.Now().Format(time.RFC3339)}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"phase", "label", "cycles", "at"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
}
