package main

import (
	"image"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── View & Mode ────────────────────────────────────────────────────

// View is the top-level screen. Exactly one is active at a time.
type View int

const (
	ViewGallery View = iota
	ViewWizard
)

func (v View) String() string {
	switch v {
	case ViewGallery:
		return "gallery"
	case ViewWizard:
		return "wizard"
	}
	return "unknown"
}

type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommandPalette
)

// ── Model ──────────────────────────────────────────────────────────

type Model struct {
	cfg        *StudioConfig
	configPath string
	catalog    Catalog
	registry   *Registry
	log        *Logger
	keys       KeyMap
	client     *http.Client
	now        func() time.Time

	view      View
	mode      InputMode
	modeStack []InputMode // mode history for push/pop navigation

	// Wizard (nil when not active)
	wizard *WizardState

	// Gallery selection; the index after the last agent is the add tile.
	selected  int
	scrollRow int

	// Avatars by agent id
	baseAvatar image.Image
	avatars    map[string]*avatarSlot

	// One-line message shown in the status bar until the next key press
	notice string

	// Command palette
	cmdPaletteInput  string
	cmdPaletteCursor int

	// Layout cache (recomputed on resize and registry change)
	layout LayoutCache

	width  int
	height int
	ready  bool
}

// NewModel builds the studio model. configPath is only used to reload the
// catalog on demand.
func NewModel(cfg *StudioConfig, configPath string, log *Logger) Model {
	return Model{
		cfg:        cfg,
		configPath: configPath,
		catalog:    cfg.Catalog,
		registry:   NewRegistry(log),
		log:        log.Sub("ui"),
		keys:       DefaultKeyMap(),
		client:     &http.Client{Timeout: cfg.Avatar.Timeout},
		now:        time.Now,
		baseAvatar: loadAssetAvatar(cfg.AssetsDir),
		avatars:    make(map[string]*avatarSlot),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// ── Accessors ──────────────────────────────────────────────────────

func (m *Model) pushMode(mode InputMode) {
	m.modeStack = append(m.modeStack, m.mode)
	m.mode = mode
}

func (m *Model) popMode() {
	if len(m.modeStack) > 0 {
		m.mode = m.modeStack[len(m.modeStack)-1]
		m.modeStack = m.modeStack[:len(m.modeStack)-1]
	} else {
		m.mode = ModeNormal
	}
}

// avatarFor returns the agent's avatar slot, falling back to the tinted
// bundled image until a fetch lands.
func (m Model) avatarFor(a Agent) *avatarSlot {
	if s, ok := m.avatars[a.ID]; ok {
		return s
	}
	s := &avatarSlot{img: fallbackAvatar(m.baseAvatar, a.Role)}
	m.avatars[a.ID] = s
	return s
}

// ── Update ─────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case AvatarReadyMsg:
		return m.handleAvatarReady(msg)
	case CatalogReloadedMsg:
		return m.handleCatalogReloaded(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		m.notice = ""
		if m.mode == ModeCommandPalette {
			return m.handleCommandPalette(msg)
		}
		if m.view == ViewWizard {
			return m.handleWizardKeys(msg)
		}
		return m.handleGalleryKeys(msg)
	}
	return m, nil
}

// ── Resize ─────────────────────────────────────────────────────────

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.recomputeLayout()
	return m, nil
}

// ── Async Messages ────────────────────────────────────────────────

func (m Model) handleAvatarReady(msg AvatarReadyMsg) (tea.Model, tea.Cmd) {
	a, ok := m.registry.Get(msg.AgentID)
	if !ok {
		return m, nil
	}
	if msg.Err != nil || msg.Image == nil {
		m.log.Warn().Err(msg.Err).Str("agent_id", a.ID).Str("url", a.AvatarURL).Msg("avatar unavailable, using placeholder")
		return m, nil
	}
	m.avatarFor(a).set(msg.Image)
	m.log.Debug().Str("agent_id", a.ID).Msg("avatar loaded")
	return m, nil
}

// handleCatalogReloaded swaps the option catalog. Agents already created
// and an open wizard keep the options they were built with.
func (m Model) handleCatalogReloaded(msg CatalogReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Msg("config reload failed, keeping current catalog")
		m.notice = "Configuração inválida, catálogo mantido"
		return m, nil
	}
	m.catalog = msg.Catalog
	m.log.Info().
		Int("roles", len(msg.Catalog.Roles)).
		Int("integrations", len(msg.Catalog.Integrations)).
		Int("knowledge_bases", len(msg.Catalog.KnowledgeBases)).
		Msg("catalog reloaded")
	m.notice = "Catálogo recarregado"
	return m, nil
}

// ── View Transitions ──────────────────────────────────────────────

// requestCreate opens the wizard with an empty draft.
func (m Model) requestCreate() (Model, tea.Cmd) {
	m.view = ViewWizard
	m.wizard = NewWizardState(m.catalog)
	if m.ready {
		m.wizard.setWidth(m.wizardBoxWidth() - 8)
	}
	m.log.Debug().Stringer("view", m.view).Msg("create requested")
	return m, m.wizard.syncFocus()
}

// submitWizard finalizes the draft, registers the agent and starts its
// avatar fetch. Validation failures keep the wizard open.
func (m Model) submitWizard() (Model, tea.Cmd) {
	d, err := m.wizard.Submit()
	if err != nil {
		m.log.Debug().Err(err).Msg("submit rejected")
		return m, nil
	}

	a := NewAgent(d, m.cfg.Avatar.Endpoint, m.now())
	if err := m.registry.Add(a); err != nil {
		m.wizard.Err = "Não foi possível criar o agente"
		return m, nil
	}
	m.avatars[a.ID] = &avatarSlot{img: fallbackAvatar(m.baseAvatar, a.Role)}

	m.view = ViewGallery
	m.wizard = nil
	m.selected = m.registry.Len() - 1
	m.recomputeLayout()
	m.notice = "Agente " + a.Name + " criado"

	if !m.cfg.Avatar.Fetch {
		return m, nil
	}
	return m, loadAvatar(m.client, a.ID, a.AvatarURL)
}

// cancelWizard discards the draft.
func (m Model) cancelWizard() (Model, tea.Cmd) {
	m.view = ViewGallery
	m.wizard = nil
	m.log.Debug().Stringer("view", m.view).Msg("wizard cancelled")
	return m, nil
}

// ── Mouse ──────────────────────────────────────────────────────────

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.mode != ModeNormal {
		return m, nil
	}

	// Navbar row
	if msg.Y == 0 {
		i := m.navItemAt(msg.X)
		if i < 0 || navItems[i].Inert || navItems[i].Target == m.view {
			return m, nil
		}
		if navItems[i].Target == ViewWizard {
			return m.requestCreate()
		}
		return m.cancelWizard()
	}

	if m.view == ViewWizard {
		return m, nil // no mouse in wizard
	}

	// Header "Criar Agente" button
	if msg.Y == navbarHeight {
		if x0, x1 := m.createButtonSpan(); msg.X >= x0 && msg.X < x1 {
			return m.requestCreate()
		}
		return m, nil
	}

	if m.registry.Len() == 0 {
		x0, y0, x1, y1 := m.emptyStateBounds()
		if msg.X >= x0 && msg.X < x1 && msg.Y >= y0 && msg.Y < y1 {
			return m.requestCreate()
		}
		return m, nil
	}

	idx := m.slotAt(msg.X, msg.Y)
	if idx < 0 {
		return m, nil
	}
	m.selected = idx
	if idx == m.addTileIndex() {
		return m.requestCreate()
	}
	return m, nil
}

// ── Gallery Keys ───────────────────────────────────────────────────

func (m Model) handleGalleryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Palette):
		m.pushMode(ModeCommandPalette)
		m.cmdPaletteInput = ""
		m.cmdPaletteCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m.requestCreate()
	case key.Matches(msg, m.keys.Enter):
		if m.registry.Len() == 0 || m.selected == m.addTileIndex() {
			return m.requestCreate()
		}
		m.notice = "Chat e Detalhes ainda não estão disponíveis"
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-m.layout.CardsPerRow)
	case key.Matches(msg, m.keys.Down):
		step := m.layout.CardsPerRow
		if step < 1 {
			return m, nil
		}
		if m.selected+step >= m.gallerySlots() && m.selected/step < (m.gallerySlots()-1)/step {
			// Short last row: land on its final slot.
			step = m.gallerySlots() - 1 - m.selected
		}
		m.moveSelection(step)
	}
	return m, nil
}
