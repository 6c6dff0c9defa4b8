package main

// ── Label Resolvers ────────────────────────────────────────────────
//
// Each resolver is total: an id the catalog does not know renders as
// itself.

func (c Catalog) IntegrationLabel(id string) string {
	return optionLabel(c.Integrations, id)
}

func (c Catalog) KnowledgeBaseLabel(id string) string {
	return optionLabel(c.KnowledgeBases, id)
}

func (c Catalog) PersonalityLabel(id string) string {
	if label, ok := c.Personalities[id]; ok && label != "" {
		return label
	}
	return id
}

func optionLabel(opts []Option, id string) string {
	for _, o := range opts {
		if o.ID != id {
			continue
		}
		if o.Label != "" {
			return o.Label
		}
		if o.Name != "" {
			return o.Name
		}
		break
	}
	return id
}

// RoleNames returns the role display names in catalog order. Agents store
// the display name, not the id.
func (c Catalog) RoleNames() []string {
	names := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		names = append(names, name)
	}
	return names
}

// RoleName resolves a role given by id or display name to its display
// name. Unknown input is returned unchanged.
func (c Catalog) RoleName(s string) string {
	for _, r := range c.Roles {
		if r.ID == s && r.Name != "" {
			return r.Name
		}
	}
	return s
}

func (c Catalog) IntegrationIDs() []string   { return optionIDs(c.Integrations) }
func (c Catalog) KnowledgeBaseIDs() []string { return optionIDs(c.KnowledgeBases) }

func optionIDs(opts []Option) []string {
	ids := make([]string, 0, len(opts))
	for _, o := range opts {
		ids = append(ids, o.ID)
	}
	return ids
}

func hasOption(opts []Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
