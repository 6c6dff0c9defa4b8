package main

import (
	"errors"
	"fmt"
)

var ErrDuplicateAgent = errors.New("duplicate agent id")

// Registry is the ordered, append-only collection of agents created in
// this session. Insertion order is display order.
type Registry struct {
	agents []Agent
	index  map[string]int
	log    *Logger
}

func NewRegistry(log *Logger) *Registry {
	return &Registry{
		index: make(map[string]int),
		log:   log.Sub("registry"),
	}
}

// Add appends a. A repeated id is a programming error and is rejected
// without touching the registry.
func (r *Registry) Add(a Agent) error {
	if _, ok := r.index[a.ID]; ok {
		r.log.Error().Str("agent_id", a.ID).Msg("rejected duplicate agent")
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, a.ID)
	}
	r.index[a.ID] = len(r.agents)
	r.agents = append(r.agents, a.clone())
	r.log.Info().
		Str("agent_id", a.ID).
		Str("name", a.Name).
		Str("role", a.Role).
		Int("total", len(r.agents)).
		Msg("agent created")
	return nil
}

// List returns a deep copy of all agents in insertion order.
func (r *Registry) List() []Agent {
	out := make([]Agent, len(r.agents))
	for i, a := range r.agents {
		out[i] = a.clone()
	}
	return out
}

func (r *Registry) Get(id string) (Agent, bool) {
	i, ok := r.index[id]
	if !ok {
		return Agent{}, false
	}
	return r.agents[i].clone(), true
}

func (r *Registry) Len() int { return len(r.agents) }
