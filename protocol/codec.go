package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Role tags a conversation history entry.
type Role string

const (
	// RoleSystem is the run's standing instructions.
	RoleSystem Role = "system"

	// RoleUser is an instruction from the operator.
	RoleUser Role = "user"

	// RoleAssistant is a raw decision-source message.
	RoleAssistant Role = "assistant"

	// RoleObservation is a tool result fed back to the decision source.
	RoleObservation Role = "observation"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Message labels recognized by the codec.
const (
	LabelThought     = "Thought:"
	LabelAction      = "Action:"
	LabelActionInput = "Action Input:"
	LabelFinal       = "Final Answer:"
)

// Kind discriminates decoded messages.
type Kind string

const (
	// KindAction is a message requesting a tool dispatch.
	KindAction Kind = "action"

	// KindFinal is a terminal message carrying no action.
	KindFinal Kind = "final"
)

// ErrMalformedMessage is returned when a message contains neither an action
// marker nor a final marker.
var ErrMalformedMessage = errors.New("protocol: message has neither an action nor a final answer marker")

// Message is a decoded decision-source message.
type Message struct {
	// Kind is KindAction or KindFinal.
	Kind Kind

	// Thought is the free-text rationale segment, if present.
	Thought string

	// Action is the tool name to dispatch (KindAction only).
	Action string

	// Input is the raw, undivided argument text (KindAction only).
	Input string

	// Answer is the final result text (KindFinal only).
	Answer string
}

// IsFinal reports whether the message terminates the run.
func (m *Message) IsFinal() bool {
	return m.Kind == KindFinal
}

var (
	thoughtPattern = regexp.MustCompile(`^Thought:\s*(.*)$`)
	actionPattern  = regexp.MustCompile(`^Action:\s*(\w+)`)
	inputPattern   = regexp.MustCompile(`^Action Input:\s*(.*)$`)
)

// Decode parses a decision-source message.
//
// A message whose first non-empty line begins with the final marker decodes
// as KindFinal; the answer is everything after the label. Otherwise the
// first line labeled "Action:" supplies the tool name and the first
// subsequent line labeled "Action Input:" supplies the raw argument text;
// both must be present. Anything else is ErrMalformedMessage.
func Decode(text string) (*Message, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, LabelFinal) {
		return &Message{
			Kind:   KindFinal,
			Answer: strings.TrimSpace(strings.TrimPrefix(trimmed, LabelFinal)),
		}, nil
	}

	msg := &Message{Kind: KindAction}
	haveAction := false
	haveInput := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := thoughtPattern.FindStringSubmatch(line); m != nil && msg.Thought == "" {
			msg.Thought = strings.TrimSpace(m[1])
			continue
		}
		if m := actionPattern.FindStringSubmatch(line); m != nil && !haveAction {
			msg.Action = m[1]
			haveAction = true
			continue
		}
		if m := inputPattern.FindStringSubmatch(line); m != nil && haveAction && !haveInput {
			msg.Input = strings.TrimSpace(m[1])
			haveInput = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("protocol: error reading message: %w", err)
	}

	if !haveAction || !haveInput {
		return nil, ErrMalformedMessage
	}
	return msg, nil
}

// EncodeAction formats a tool-dispatch message.
func EncodeAction(thought, action, input string) string {
	return fmt.Sprintf("%s %s\n%s %s\n%s %s", LabelThought, thought, LabelAction, action, LabelActionInput, input)
}

// EncodeFinal formats a terminal message.
func EncodeFinal(answer string) string {
	return fmt.Sprintf("%s %s", LabelFinal, answer)
}
