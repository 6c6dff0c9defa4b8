package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DraftField names a draft field for UpdateField and ToggleMultiSelect.
type DraftField string

const (
	FieldName          DraftField = "name"
	FieldRole          DraftField = "role"
	FieldPersonality   DraftField = "personality"
	FieldIntegrations  DraftField = "integrations"
	FieldKnowledgeBase DraftField = "knowledgeBase"
)

var (
	ErrUnknownField    = errors.New("unknown draft field")
	ErrIncompleteDraft = errors.New("draft is incomplete")
)

// Draft is the in-progress agent configuration owned by the wizard.
type Draft struct {
	Name          string
	Role          string
	Integrations  []string
	KnowledgeBase []string
	Personality   string
	// AttachedFile is a path kept for display only; it is never opened.
	AttachedFile string
}

// Missing lists the required fields that are empty or blank.
func (d Draft) Missing() []DraftField {
	var missing []DraftField
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(d.Role) == "" {
		missing = append(missing, FieldRole)
	}
	if strings.TrimSpace(d.Personality) == "" {
		missing = append(missing, FieldPersonality)
	}
	return missing
}

func (d Draft) Complete() bool { return len(d.Missing()) == 0 }

func (d Draft) clone() Draft {
	d.Integrations = slices.Clone(d.Integrations)
	d.KnowledgeBase = slices.Clone(d.KnowledgeBase)
	return d
}

// validate returns ErrIncompleteDraft naming every missing field.
func (d Draft) validate() error {
	missing := d.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
	}
	return fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(names, ", "))
}

// Agent is a finalized configuration. Values handed out by the registry are
// copies; nothing mutates an Agent after NewAgent.
type Agent struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Role          string    `yaml:"role"`
	Integrations  []string  `yaml:"integrations"`
	KnowledgeBase []string  `yaml:"knowledge_base"`
	Personality   string    `yaml:"personality"`
	AvatarURL     string    `yaml:"avatar_url"`
	CreatedAt     time.Time `yaml:"created_at"`
}

var newAgentID = func() string { return uuid.NewString() }

// NewAgent finalizes a submitted draft. The avatar URL is derived here and
// never recomputed.
func NewAgent(d Draft, avatarEndpoint string, now time.Time) Agent {
	return Agent{
		ID:            newAgentID(),
		Name:          d.Name,
		Role:          d.Role,
		Integrations:  slices.Clone(d.Integrations),
		KnowledgeBase: slices.Clone(d.KnowledgeBase),
		Personality:   d.Personality,
		AvatarURL:     avatarURLFor(avatarEndpoint, d.Role, d.Personality),
		CreatedAt:     now,
	}
}

func (a Agent) clone() Agent {
	a.Integrations = slices.Clone(a.Integrations)
	a.KnowledgeBase = slices.Clone(a.KnowledgeBase)
	return a
}
