package mocks

import (
	"context"
	"fmt"

	"github.com/sgaunet/release-toolbox/pkg/metadata"
)

// MetadataSource is a mock implementation of metadata.Source backed by maps.
// Ids missing from both maps resolve to metadata.ErrUnresolvable.
type MetadataSource struct {
	recorder

	Responses map[int]metadata.IssueMetadata
	Errors    map[int]error
}

// NewMetadataSource creates a mock source serving the given issues.
func NewMetadataSource(issues ...metadata.IssueMetadata) *MetadataSource {
	m := &MetadataSource{
		Responses: make(map[int]metadata.IssueMetadata),
		Errors:    make(map[int]error),
	}
	for _, issue := range issues {
		m.Responses[issue.ID] = issue
	}
	return m
}

// Fetch implements metadata.Source.
func (m *MetadataSource) Fetch(_ context.Context, id int) (metadata.IssueMetadata, error) {
	m.trackCall("Fetch", map[string]any{"id": id})

	if err, ok := m.Errors[id]; ok {
		return metadata.IssueMetadata{}, err
	}
	if meta, ok := m.Responses[id]; ok {
		return meta, nil
	}
	return metadata.IssueMetadata{}, fmt.Errorf("%w: #%d", metadata.ErrUnresolvable, id)
}

// FetchCountFor returns how many times id was fetched.
func (m *MetadataSource) FetchCountFor(id int) int {
	count := 0
	for _, call := range m.GetCalls() {
		if call.Method == "Fetch" && call.Args["id"] == id {
			count++
		}
	}
	return count
}

// Ensure MetadataSource implements metadata.Source interface.
var _ metadata.Source = (*MetadataSource)(nil)
