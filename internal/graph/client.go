// Package graph talks to the optional Neo4j mirror of the social network.
package graph

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client runs Cypher statements against a graph store.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the rows returned by a statement.
type Result struct {
	Records []Record
}

// Record is one returned row keyed by column alias.
type Record map[string]any

// String returns the value under key as text, or "" when absent.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value under key as an int. Neo4j returns integers as
// int64 and aggregates sometimes as float64.
func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Time returns the value under key as a time, or nil when it is not one.
func (r Record) Time(key string) *time.Time {
	switch v := r[key].(type) {
	case time.Time:
		t := v.UTC()
		return &t
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}

// Options configures a graph client.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
