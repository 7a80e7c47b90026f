package ws

import "encoding/json"

// stateDoc is the serialized form of an object's members, shared by the
// state frame, the REST snapshot and the statepub fan-out.
type stateDoc struct {
	ClassName string                 `json:"className"`
	Members   map[string]memberState `json:"members"`
}

type memberState struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// inbound is a client-to-server frame.
type inbound struct {
	Type  string   `json:"type"`
	ID    string   `json:"id,omitempty"`
	Field string   `json:"field,omitempty"`
	Value string   `json:"value,omitempty"`
	Name  string   `json:"name,omitempty"`
	Args  []string `json:"args,omitempty"`
}

// outbound server-to-client frames.
type stateFrame struct {
	Type string `json:"type"`
	stateDoc
}

type valueFrame struct {
	Type  string          `json:"type"`
	ID    string          `json:"id,omitempty"`
	Field string          `json:"field"`
	Tag   string          `json:"tag"`
	Value json.RawMessage `json:"value"`
}

type methodFrame struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type pongFrame struct {
	Type string `json:"type"`
}
