package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// agentRequest is a complete agent description given up front, as the
// agent new command receives it.
type agentRequest struct {
	Name         string
	Role         string
	Personality  string
	Integrations []string
	Knowledge    []string
	File         string
}

// createAgent walks the wizard steps without a terminal, so headless
// creation obeys the same rules as the interactive flow.
func createAgent(cat Catalog, req agentRequest, endpoint string, now time.Time) (Agent, error) {
	w := NewWizardState(cat)

	if err := w.UpdateField(FieldName, req.Name); err != nil {
		return Agent{}, err
	}
	if err := w.UpdateField(FieldRole, cat.RoleName(req.Role)); err != nil {
		return Agent{}, err
	}
	w.Advance()

	for _, id := range dedupe(req.Integrations) {
		if err := w.ToggleMultiSelect(FieldIntegrations, id); err != nil {
			return Agent{}, err
		}
	}
	w.Advance()

	for _, id := range dedupe(req.Knowledge) {
		if err := w.ToggleMultiSelect(FieldKnowledgeBase, id); err != nil {
			return Agent{}, err
		}
	}
	if req.File != "" {
		if err := w.AttachFiles(req.File); err != nil {
			return Agent{}, err
		}
	}
	w.Advance()

	if err := w.UpdateField(FieldPersonality, req.Personality); err != nil {
		return Agent{}, err
	}
	d, err := w.Submit()
	if err != nil {
		return Agent{}, err
	}
	return NewAgent(d, endpoint, now), nil
}

// dedupe drops repeated ids, keeping first occurrences in order. A repeat
// would otherwise toggle the id back off.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// ── agent command ─────────────────────────────────────────────────

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Work with digital agents without the interactive UI",
	}
	cmd.AddCommand(newAgentNewCmd())
	return cmd
}

func newAgentNewCmd() *cobra.Command {
	var req agentRequest

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an agent and print it as YAML",
		Long:  "Create an agent from flags, checked by the same rules as the wizard, and print it as YAML. Nothing is stored.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadStudioConfig()
			if err != nil {
				return err
			}
			log := newConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			a, err := createAgent(cfg.Catalog, req, cfg.Avatar.Endpoint, time.Now())
			if err != nil {
				return fmt.Errorf("create agent: %w", err)
			}
			log.Info().
				Str("agent_id", a.ID).
				Str("name", a.Name).
				Str("role", a.Role).
				Msg("agent created")

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "agent name")
	cmd.Flags().StringVar(&req.Role, "role", "", "role id or name (e.g. notetaker, \"Chat with CRM\")")
	cmd.Flags().StringVar(&req.Personality, "personality", "", "free-text personality description")
	cmd.Flags().StringSliceVar(&req.Integrations, "integration", nil, "integration id (repeatable)")
	cmd.Flags().StringSliceVar(&req.Knowledge, "knowledge", nil, "knowledge base id (repeatable)")
	cmd.Flags().StringVar(&req.File, "file", "", "image to attach (JPEG or PNG)")

	return cmd
}
