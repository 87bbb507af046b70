package model

import (
	"time"
)

// FlowNode is one node of a chatbot flow graph. Data is opaque editor
// state; the platform stores flows but never executes them.
type FlowNode struct {
	ID       string            `json:"id"`
	Kind     string            `json:"kind"`
	Label    string            `json:"label,omitempty"`
	Position FlowPosition      `json:"position"`
	Data     map[string]string `json:"data,omitempty"`
}

// FlowPosition is a node's canvas coordinate.
type FlowPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FlowEdge connects two nodes of a chatbot flow graph.
type FlowEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Flow is a stored chatbot flow graph.
type Flow struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	Nodes       []FlowNode `json:"nodes,omitempty"`
	Edges       []FlowEdge `json:"edges,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EntityID returns the flow id.
func (f *Flow) EntityID() int { return f.ID }

// SetEntityID sets the flow id.
func (f *Flow) SetEntityID(id int) { f.ID = id }

// StampCreated records the creation time.
func (f *Flow) StampCreated(t time.Time) { f.CreatedAt = t }

// StampUpdated records the last modification time.
func (f *Flow) StampUpdated(t time.Time) { f.UpdatedAt = t }

// Clone returns a deep copy of the flow graph.
func (f *Flow) Clone() *Flow {
	cp := *f
	if f.Nodes != nil {
		cp.Nodes = make([]FlowNode, len(f.Nodes))
		for i, n := range f.Nodes {
			cp.Nodes[i] = n
			if n.Data != nil {
				d := make(map[string]string, len(n.Data))
				for k, v := range n.Data {
					d[k] = v
				}
				cp.Nodes[i].Data = d
			}
		}
	}
	if f.Edges != nil {
		cp.Edges = append([]FlowEdge(nil), f.Edges...)
	}
	return &cp
}

// CreateFlowRequest is the request to create a chatbot flow.
type CreateFlowRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Nodes       []FlowNode `json:"nodes,omitempty"`
	Edges       []FlowEdge `json:"edges,omitempty"`
}

// UpdateFlowRequest is the request to update a chatbot flow. Nodes and
// Edges replace the stored graph wholesale when non-nil.
type UpdateFlowRequest struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Nodes       []FlowNode `json:"nodes,omitempty"`
	Edges       []FlowEdge `json:"edges,omitempty"`
}

// ListFlowsResponse is the response for listing chatbot flows.
type ListFlowsResponse struct {
	Flows []*Flow `json:"flows"`
	Total int     `json:"total"`
}
