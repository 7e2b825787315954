package protocol

import (
	"errors"
	"testing"
)

func TestDecode_Action(t *testing.T) {
	text := "Thought: I computed a path of 6 steps to the goal. Next move is SOUTH.\n" +
		"Action: move_agent\n" +
		"Action Input: SOUTH"

	msg, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if msg.Kind != KindAction {
		t.Errorf("Kind = %v, want action", msg.Kind)
	}
	if msg.Action != "move_agent" {
		t.Errorf("Action = %q, want move_agent", msg.Action)
	}
	if msg.Input != "SOUTH" {
		t.Errorf("Input = %q, want SOUTH", msg.Input)
	}
	if msg.Thought == "" {
		t.Error("Thought should be captured")
	}
	if msg.IsFinal() {
		t.Error("IsFinal() = true for action message")
	}
}

func TestDecode_InputPassedThroughUndivided(t *testing.T) {
	text := "Action: update_map\n" +
		"Action Input: (1, 1), Area is Open."

	msg, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	// The codec must not sub-split the argument text.
	if msg.Input != "(1, 1), Area is Open." {
		t.Errorf("Input = %q, want the comma-separated pair intact", msg.Input)
	}
}

func TestDecode_Final(t *testing.T) {
	msg, err := Decode("Final Answer: SUCCESS - agent reached the goal.")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !msg.IsFinal() {
		t.Fatal("IsFinal() = false, want true")
	}
	if msg.Answer != "SUCCESS - agent reached the goal." {
		t.Errorf("Answer = %q", msg.Answer)
	}
}

func TestDecode_FinalWithLeadingWhitespace(t *testing.T) {
	msg, err := Decode("\n  Final Answer: done")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !msg.IsFinal() {
		t.Error("IsFinal() = false, want true")
	}
	if msg.Answer != "done" {
		t.Errorf("Answer = %q, want done", msg.Answer)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"free text", "I think I should move south."},
		{"action without input", "Action: move_agent"},
		{"input without action", "Action Input: SOUTH"},
		{"final marker mid-message", "Thought: done\nFinal Answer: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			if !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformedMessage", tt.text, err)
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	encoded := EncodeAction("next move is EAST", "move_agent", "EAST")
	msg, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode(EncodeAction(...)) error = %v", err)
	}
	if msg.Thought != "next move is EAST" || msg.Action != "move_agent" || msg.Input != "EAST" {
		t.Errorf("round trip = %+v", msg)
	}

	final, err := Decode(EncodeFinal("no path"))
	if err != nil {
		t.Fatalf("Decode(EncodeFinal(...)) error = %v", err)
	}
	if !final.IsFinal() || final.Answer != "no path" {
		t.Errorf("final round trip = %+v", final)
	}
}
