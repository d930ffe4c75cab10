package bot

import (
	"testing"

	"summary-bot/config"
	"summary-bot/pipeline"
)

func TestNewSerializesGatewayEvents(t *testing.T) {
	cfg := &config.Config{Token: "tok", SummaryChannelID: "sum"}
	b, err := New(cfg, &pipeline.Pipeline{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !b.Session.SyncEvents {
		t.Error("gateway events must be dispatched synchronously")
	}
}
