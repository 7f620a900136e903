// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"testing"
)

type samplePayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEnvelopeSurvivesFileRoundTrip(t *testing.T) {
	states := NewFileAppStateStore(t.TempDir())

	want := samplePayload{Name: "scratch", Count: 3}
	if err := SaveAppState(states, "app.sample", 1, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The file on disk is indented; the integrity hash must still verify.
	envelope, err := states.LoadEnvelope("app.sample")
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if envelope == nil {
		t.Fatal("envelope missing after save")
	}
	if envelope.SchemaVersion != 1 || envelope.Namespace != "app.sample" {
		t.Fatalf("envelope metadata = %+v", envelope)
	}

	var got samplePayload
	if err := envelope.DecodePayload(&got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got != want {
		t.Fatalf("payload = %+v, want %+v", got, want)
	}
}

func TestEnvelopeHashIgnoresIndentation(t *testing.T) {
	envelope, err := BuildEnvelope("app.sample", 1, samplePayload{Name: "a", Count: 1})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	indented := []byte("{\n    \"name\": \"a\",\n    \"count\": 1\n  }")
	if payloadHash("app.sample", indented) != envelope.Hash {
		t.Fatal("hash changed with payload indentation")
	}
	if payloadHash("app.sample", []byte(`{"name":"b","count":1}`)) == envelope.Hash {
		t.Fatal("hash failed to change with payload content")
	}
}
