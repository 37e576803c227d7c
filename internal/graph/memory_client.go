package graph

import (
	"context"
	"maps"
	"strings"
	"sync"
)

// Mode tells reads from writes in recorded calls.
type Mode string

const (
	ModeRead  Mode = "read"
	ModeWrite Mode = "write"
)

// Call is one statement seen by a MemoryClient.
type Call struct {
	Mode   Mode
	Query  string
	Params map[string]any
}

type responder struct {
	fragment string
	result   Result
}

// MemoryClient stands in for Neo4j in tests. Statements are answered by the
// first responder whose fragment appears in the Cypher text, and every call
// is recorded.
type MemoryClient struct {
	mu           sync.Mutex
	calls        []Call
	responders   []responder
	err          error
	connectivity error
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Respond answers any statement containing fragment with res.
func (m *MemoryClient) Respond(fragment string, res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responders = append(m.responders, responder{fragment: fragment, result: res})
	return m
}

// FailWith makes every subsequent statement return err.
func (m *MemoryClient) FailWith(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Unreachable makes VerifyConnectivity return err.
func (m *MemoryClient) Unreachable(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(ModeWrite, cypher, params)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(ModeRead, cypher, params)
}

func (m *MemoryClient) execute(mode Mode, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Result{}, m.err
	}
	m.calls = append(m.calls, Call{Mode: mode, Query: cypher, Params: maps.Clone(params)})
	for _, r := range m.responders {
		if strings.Contains(cypher, r.fragment) {
			return r.result, nil
		}
	}
	return Result{}, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error { return nil }

// Calls returns the recorded statements, optionally restricted to one mode.
func (m *MemoryClient) Calls(mode Mode) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.calls {
		if mode == "" || c.Mode == mode {
			out = append(out, c)
		}
	}
	return out
}
