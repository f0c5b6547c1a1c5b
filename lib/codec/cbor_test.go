// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sample struct {
	Name  string `cbor:"name"`
	Count int    `cbor:"count"`
	Body  []byte `cbor:"body,omitempty"`
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	in := sample{Name: "queues", Count: 3, Body: []byte("ctx/flags")}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != in.Name || out.Count != in.Count || !bytes.Equal(out.Body, in.Body) {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	t.Parallel()
	value := map[string]int{"zebra": 1, "alpha": 2, "mid": 3}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding varies between runs:\n%x\n%x", first, again)
		}
	}
}

func TestAnyTargetDecodesToStringKeyedMap(t *testing.T) {
	t.Parallel()
	data, err := Marshal(map[string]any{"driver": "testdrv"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out any
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	decoded, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("decoded type: got %T, want map[string]any", out)
	}
	if decoded["driver"] != "testdrv" {
		t.Errorf("decoded value: got %v", decoded["driver"])
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer

	encoder := NewEncoder(&buffer)
	for _, name := range []string{"name", "mem", "vm"} {
		if err := encoder.Encode(sample{Name: name}); err != nil {
			t.Fatalf("Encode(%s): %v", name, err)
		}
	}

	decoder := NewDecoder(&buffer)
	for _, want := range []string{"name", "mem", "vm"} {
		var got sample
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Name != want {
			t.Errorf("stream order: got %q, want %q", got.Name, want)
		}
	}
}
