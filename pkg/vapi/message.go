package vapi

import (
	"encoding/json"
	"math"
)

// ServerMessage is the envelope the voice platform posts to webhook endpoints.
// The platform is loose about field placement, so the raw types below accept
// every shape it is known to send; handlers work with the normalized forms.
type ServerMessage struct {
	Message Message `json:"message"`
}

type Message struct {
	Type            string              `json:"type"`
	Call            *Call               `json:"call"`
	CallID          string              `json:"callId"`
	StartTime       *float64            `json:"startTime"` // epoch milliseconds
	EndTime         *float64            `json:"endTime"`   // epoch milliseconds
	DurationSeconds *float64            `json:"durationSeconds"`
	EndedReason     string              `json:"endedReason"`
	Messages        []TranscriptMessage `json:"messages"`
	Assistant       *Assistant          `json:"assistant"`
	Customer        *Caller             `json:"customer"`
	ToolCallList    []RawToolCall       `json:"toolCallList"`
	ToolCalls       []RawToolCall       `json:"toolCalls"`
}

type Call struct {
	ID       string  `json:"id"`
	Customer *Caller `json:"customer"`
}

type Caller struct {
	Number string `json:"number"`
}

type TranscriptMessage struct {
	Role    string `json:"role"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// Content returns the utterance text, whichever field carried it.
func (m TranscriptMessage) Content() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Text
}

type Assistant struct {
	Model AssistantModel `json:"model"`
}

type AssistantModel struct {
	ToolIDs []string          `json:"toolIds"`
	Tools   []json.RawMessage `json:"tools"`
}

// RawToolCall mirrors the loose wire shape: name and arguments appear either
// at the top level or nested under "function", and arguments may be a JSON
// object or a JSON-encoded string.
type RawToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Function  *RawFunction    `json:"function"`
}

type RawFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolCall is the strict internal form handlers dispatch on.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// CallIDValue returns the call id regardless of where the payload carried it.
func (m *Message) CallIDValue() string {
	if m.Call != nil && m.Call.ID != "" {
		return m.Call.ID
	}
	return m.CallID
}

// CallerNumber returns the caller's phone number, preferring the top-level
// customer object over the one nested in the call.
func (m *Message) CallerNumber() string {
	if m.Customer != nil && m.Customer.Number != "" {
		return m.Customer.Number
	}
	if m.Call != nil && m.Call.Customer != nil {
		return m.Call.Customer.Number
	}
	return ""
}

// Duration returns the call duration in whole seconds. It prefers an explicit
// durationSeconds field and otherwise derives it from the start and end
// timestamps. Returns nil when neither is available.
func (m *Message) Duration() *int {
	if m.DurationSeconds != nil {
		d := int(math.Floor(*m.DurationSeconds))
		return &d
	}
	if m.StartTime != nil && m.EndTime != nil {
		d := int(math.Floor((*m.EndTime - *m.StartTime) / 1000.0))
		return &d
	}
	return nil
}

// NormalizedToolCalls flattens toolCallList/toolCalls into the strict form.
func (m *Message) NormalizedToolCalls() []ToolCall {
	raw := m.ToolCallList
	if len(raw) == 0 {
		raw = m.ToolCalls
	}

	calls := make([]ToolCall, 0, len(raw))
	for _, rc := range raw {
		name := rc.Name
		args := rc.Arguments
		if rc.Function != nil {
			if name == "" {
				name = rc.Function.Name
			}
			if len(args) == 0 {
				args = rc.Function.Arguments
			}
		}
		calls = append(calls, ToolCall{
			ID:   rc.ID,
			Name: name,
			Args: decodeArguments(args),
		})
	}
	return calls
}

// decodeArguments accepts a JSON object, a JSON-encoded string containing an
// object, or garbage. Garbage decodes to an empty map rather than an error.
func decodeArguments(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return map[string]interface{}{}
	}

	args := map[string]interface{}{}
	if err := json.Unmarshal(raw, &args); err == nil {
		return args
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		inner := map[string]interface{}{}
		if err := json.Unmarshal([]byte(encoded), &inner); err == nil {
			return inner
		}
	}

	return map[string]interface{}{}
}
