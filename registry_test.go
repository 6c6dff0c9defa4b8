package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *Logger { return NewLogger(io.Discard, "silent") }

func TestRegistryAddThenList(t *testing.T) {
	r := NewRegistry(testLogger())
	assert.Empty(t, r.List())

	for i, name := range []string{"Ana", "Bruno", "Carla"} {
		a := Agent{ID: name + "-id", Name: name, Role: "Notetaker"}
		require.NoError(t, r.Add(a))

		list := r.List()
		require.Len(t, list, i+1)
		assert.Equal(t, a, list[len(list)-1])
	}
	assert.Equal(t, 3, r.Len())

	names := []string{}
	for _, a := range r.List() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Carla"}, names)
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(NewLogger(&buf, "error"))

	require.NoError(t, r.Add(Agent{ID: "x", Name: "First"}))
	err := r.Add(Agent{ID: "x", Name: "Second"})

	require.ErrorIs(t, err, ErrDuplicateAgent)
	assert.Equal(t, 1, r.Len())
	got, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, "First", got.Name)
	assert.Contains(t, buf.String(), "duplicate")
}

func TestRegistryListIsACopy(t *testing.T) {
	r := NewRegistry(testLogger())
	require.NoError(t, r.Add(Agent{ID: "a", Name: "Ana", Integrations: []string{"slack"}}))

	list := r.List()
	list[0].Name = "Mutated"
	list[0].Integrations[0] = "gmail"

	fresh := r.List()
	require.Len(t, fresh, 1)
	assert.Equal(t, "Ana", fresh[0].Name)
	assert.Equal(t, []string{"slack"}, fresh[0].Integrations)
}

func TestRegistryAddCopiesInput(t *testing.T) {
	r := NewRegistry(testLogger())
	a := Agent{ID: "a", KnowledgeBase: []string{"company_docs"}}
	require.NoError(t, r.Add(a))

	a.KnowledgeBase[0] = "internal_wiki"
	got, _ := r.Get("a")
	assert.Equal(t, []string{"company_docs"}, got.KnowledgeBase)
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(testLogger())
	_, ok := r.Get("nope")
	assert.False(t, ok)
}
