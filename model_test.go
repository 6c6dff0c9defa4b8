package main

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Avatar.Fetch = false
	cfg.AssetsDir = t.TempDir()
	m := NewModel(cfg, "", testLogger())
	m.now = func() time.Time { return time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC) }
	return update(m, tea.WindowSizeMsg{Width: 120, Height: 60})
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// createViaKeys walks the wizard the way a user would: name, role, first
// integration, no knowledge base, personality.
func createViaKeys(m Model, name, personality string) Model {
	m = update(m, runes("n"))
	m = update(m, runes(name), keyEnter, keyEnter) // name, then pick the first role
	m = update(m, keySpace, keyEnter)              // integrations
	m = update(m, keyEnter)                        // knowledge
	m = update(m, runes(personality), keySave)
	return m
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "gallery", ViewGallery.String())
	assert.Equal(t, "wizard", ViewWizard.String())
	assert.Equal(t, "unknown", View(9).String())
}

func TestViewBeforeResize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AssetsDir = t.TempDir()
	m := NewModel(cfg, "", testLogger())
	assert.Equal(t, "Carregando...", m.View())
}

func TestEmptyGallery(t *testing.T) {
	m := testModel(t)

	out := m.View()
	assert.Contains(t, out, "Nenhum agente criado")
	assert.Contains(t, out, "Criar Primeiro Agente")
	assert.Contains(t, out, "Agentes: 0")
	assert.Contains(t, out, "mavericks")
	assert.Contains(t, out, "Todos os direitos reservados")
}

func TestNewKeyOpensWizard(t *testing.T) {
	m := update(testModel(t), runes("n"))

	assert.Equal(t, ViewWizard, m.view)
	require.NotNil(t, m.wizard)
	assert.Equal(t, StepBasicInfo, m.wizard.Step)
	assert.Equal(t, Draft{}, m.wizard.Draft())
	assert.Contains(t, m.View(), "Criar Agente Digital")
}

func TestEnterOnEmptyGalleryOpensWizard(t *testing.T) {
	m := update(testModel(t), keyEnter)
	assert.Equal(t, ViewWizard, m.view)
}

func TestWizardCancelDiscardsDraft(t *testing.T) {
	m := update(testModel(t), runes("n"), runes("Ana"), keyEsc)

	assert.Equal(t, ViewGallery, m.view)
	assert.Nil(t, m.wizard)
	assert.Equal(t, 0, m.registry.Len())

	m = update(m, runes("n"))
	assert.Empty(t, m.wizard.Draft().Name, "a reopened wizard starts empty")
}

func TestWizardKeyFlowCreatesAgent(t *testing.T) {
	m := createViaKeys(testModel(t), "Ana Silva", "Amigável e analítica")

	require.Equal(t, ViewGallery, m.view)
	assert.Nil(t, m.wizard)
	require.Equal(t, 1, m.registry.Len())

	a := m.registry.List()[0]
	assert.Equal(t, "Ana Silva", a.Name)
	assert.Equal(t, "Notetaker", a.Role)
	assert.Equal(t, []string{"slack"}, a.Integrations)
	assert.Empty(t, a.KnowledgeBase)
	assert.Equal(t, "Amigável e analítica", a.Personality)
	assert.Equal(t, "https://source.unsplash.com/300x400/?notes,professional,portrait", a.AvatarURL)
	assert.Equal(t, m.now(), a.CreatedAt)

	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "Agente Ana Silva criado", m.notice)

	out := m.View()
	assert.Contains(t, out, "Ana Silva")
	assert.Contains(t, out, "Adicionar Agente")
	assert.Contains(t, out, "Agentes: 1")
	assert.NotContains(t, out, "Nenhum agente criado")
}

func TestWizardSubmitIncompleteStaysOpen(t *testing.T) {
	m := update(testModel(t), runes("n"))
	m = update(m, keyEnter, keyEnter) // no name typed
	m = update(m, keyEnter, keyEnter) // skip integrations and knowledge
	m = update(m, keySave)

	require.Equal(t, ViewWizard, m.view)
	assert.Equal(t, StepPersonality, m.wizard.Step)
	assert.Contains(t, m.wizard.Err, "Nome do Agente")
	assert.Contains(t, m.wizard.Err, "Personalidade")
	assert.Equal(t, 0, m.registry.Len())
	assert.Contains(t, m.View(), "Preencha os campos obrigatórios")
}

func TestWizardEscRetreats(t *testing.T) {
	m := update(testModel(t), runes("n"), runes("Ana"), keyEnter, keyEnter)
	require.Equal(t, StepIntegrations, m.wizard.Step)

	m = update(m, keyEsc)
	assert.Equal(t, ViewWizard, m.view)
	assert.Equal(t, StepBasicInfo, m.wizard.Step)
	assert.Equal(t, "Ana", m.wizard.Draft().Name)
}

func TestWizardPastedPathAttaches(t *testing.T) {
	img := touch(t, t.TempDir()+"/me.png")
	m := update(testModel(t), runes("n"), runes("Ana"), keyEnter, keyEnter, keyEnter)
	require.Equal(t, StepKnowledge, m.wizard.Step)

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'" + img + "' "), Paste: true})
	assert.Equal(t, img, m.wizard.Draft().AttachedFile)
	assert.Empty(t, m.wizard.Err)

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/cv.pdf"), Paste: true})
	assert.Equal(t, img, m.wizard.Draft().AttachedFile)
	assert.Contains(t, m.wizard.Err, "JPEG ou PNG")

	m = update(m, runes("x"))
	assert.Empty(t, m.wizard.Draft().AttachedFile)
}

func TestWizardNameHasNoLengthLimit(t *testing.T) {
	long := strings.Repeat("Ana ", 30)
	m := update(testModel(t), runes("n"), runes(long), runes("x"))
	assert.Equal(t, long+"x", m.wizard.Draft().Name)

	m = update(m, keyEnter, keyEnter, keyEnter, keyEnter, runes("calma"), keySave)
	require.Equal(t, 1, m.registry.Len())
	assert.Len(t, []rune(m.registry.List()[0].Name), 121)
}

func TestWizardTypingBurstIsNotAFileDrop(t *testing.T) {
	img := touch(t, t.TempDir()+"/me.png")
	m := update(testModel(t), runes("n"), runes("Ana"), keyEnter, keyEnter, keyEnter)
	require.Equal(t, StepKnowledge, m.wizard.Step)

	m = update(m, runes("jjj"))
	assert.Empty(t, m.wizard.Err)
	assert.Empty(t, m.wizard.Draft().AttachedFile)

	// Without bracketed paste a dropped path arrives as plain runes.
	m = update(m, runes(img))
	assert.Equal(t, img, m.wizard.Draft().AttachedFile)
	assert.Empty(t, m.wizard.Err)
}

func TestGalleryEnterOnCardIsInert(t *testing.T) {
	m := createViaKeys(testModel(t), "Ana", "calma")
	require.Equal(t, 0, m.selected)

	m = update(m, keyEnter)
	assert.Equal(t, ViewGallery, m.view)
	assert.Contains(t, m.notice, "ainda não estão disponíveis")

	m = update(m, keyRight, keyEnter)
	assert.Equal(t, ViewWizard, m.view, "enter on the add tile opens the wizard")
}

func TestGallerySelectionBounds(t *testing.T) {
	m := testModel(t)
	m = createViaKeys(m, "Ana", "calma")
	m = createViaKeys(m, "Bruno", "direto")
	require.Equal(t, 3, m.layout.CardsPerRow)
	require.Equal(t, 1, m.selected)

	m = update(m, keyRight, keyRight, keyRight)
	assert.Equal(t, 2, m.selected, "the add tile is the last slot")

	m = update(m, runes("h"), runes("h"), runes("h"))
	assert.Equal(t, 0, m.selected)

	m = update(m, keyDown)
	assert.Equal(t, 0, m.selected, "no second row to move into")
}

func TestGalleryDownLandsOnShortLastRow(t *testing.T) {
	m := testModel(t)
	for _, name := range []string{"A", "B", "C", "D"} {
		m = createViaKeys(m, name, "calma")
	}
	// Slots: A B C / D +
	m.selected = 2
	m = update(m, keyDown)
	assert.Equal(t, 4, m.selected)
}

func TestMouseEmptyStateOpensWizard(t *testing.T) {
	m := testModel(t)
	x0, y0, x1, y1 := m.emptyStateBounds()

	m = update(m, click((x0+x1)/2, (y0+y1)/2))
	assert.Equal(t, ViewWizard, m.view)
}

func TestMouseHeaderButtonOpensWizard(t *testing.T) {
	m := testModel(t)
	x0, _ := m.createButtonSpan()

	m = update(m, click(x0+1, navbarHeight))
	assert.Equal(t, ViewWizard, m.view)
}

func TestMouseAddTileOpensWizard(t *testing.T) {
	m := createViaKeys(testModel(t), "Ana", "calma")
	tileW := m.layout.CardWidth + 2
	y := navbarHeight + galleryHeaderHeight + 2

	m = update(m, click(galleryPadX+1, y))
	assert.Equal(t, ViewGallery, m.view, "clicking a card only selects it")
	assert.Equal(t, 0, m.selected)

	m = update(m, click(galleryPadX+tileW+1, y))
	assert.Equal(t, ViewWizard, m.view)
	assert.Equal(t, 1, m.selected)
}

func TestMouseNavbar(t *testing.T) {
	m := testModel(t)

	createX := -1
	for x := 0; x < m.width; x++ {
		if i := m.navItemAt(x); i >= 0 && navItems[i].Label == "Criar Agente" {
			createX = x
			break
		}
	}
	require.GreaterOrEqual(t, createX, 0)

	m = update(m, click(createX, 0))
	assert.Equal(t, ViewWizard, m.view)

	// Clicks inside the wizard body are ignored.
	m = update(m, click(10, 10))
	assert.Equal(t, ViewWizard, m.view)
}

func TestFourIntegrationsShowOverflowBadge(t *testing.T) {
	m := testModel(t)
	require.NoError(t, m.registry.Add(Agent{
		ID:            "a1",
		Name:          "Ana",
		Role:          "Notetaker",
		Integrations:  []string{"slack", "teams", "gmail", "drive"},
		KnowledgeBase: []string{"company_docs"},
		Personality:   "friendly",
	}))
	m.recomputeLayout()

	out := m.View()
	for _, want := range []string{"Slack", "Teams", "Gmail", "+1", "Docs", "Amigável", "Chat", "Detalhes"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Drive")
}

func TestAvatarReadyReplacesPlaceholder(t *testing.T) {
	m := createViaKeys(testModel(t), "Ana", "calma")
	a := m.registry.List()[0]

	img := solidImage(4, 4, color.RGBA{R: 200, A: 255})
	m = update(m, AvatarReadyMsg{AgentID: a.ID, Image: img})
	assert.Equal(t, img, m.avatars[a.ID].img)

	m = update(m, AvatarReadyMsg{AgentID: a.ID, Err: errors.New("timeout")})
	assert.Equal(t, img, m.avatars[a.ID].img, "a failed fetch keeps the current image")

	m = update(m, AvatarReadyMsg{AgentID: "ghost", Image: img})
	assert.NotContains(t, m.avatars, "ghost")
}

func TestCatalogReloaded(t *testing.T) {
	m := testModel(t)

	cat := DefaultCatalog()
	cat.Roles = append(cat.Roles, Option{ID: "sdr", Name: "SDR"})
	m = update(m, CatalogReloadedMsg{Catalog: cat})
	assert.Equal(t, cat, m.catalog)
	assert.Equal(t, "Catálogo recarregado", m.notice)

	m = update(m, CatalogReloadedMsg{Err: ErrInvalidConfig})
	assert.Equal(t, cat, m.catalog)
	assert.Equal(t, "Configuração inválida, catálogo mantido", m.notice)

	m = update(m, runes("n"))
	assert.Contains(t, m.wizard.catalog.RoleNames(), "SDR")
}

func TestCommandPalette(t *testing.T) {
	m := createViaKeys(testModel(t), "Ana", "calma")
	m = update(m, keyRight)
	require.Equal(t, 1, m.selected)

	m = update(m, runes(":"))
	require.Equal(t, ModeCommandPalette, m.mode)
	assert.Contains(t, m.View(), "Selecionar Ana (Notetaker)")
	assert.NotContains(t, m.View(), "Recarregar catálogo", "no reload without a config path")

	m = update(m, runes("s"), runes("e"), runes("l"), keyEnter)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 0, m.selected)

	m = update(m, runes(":"), runes("n"), runes("o"), runes("v"), keyEnter)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, ViewWizard, m.view)

	m = update(m, keyEsc, runes(":"), keyEsc)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, ViewGallery, m.view)
}

func TestPaletteReloadAction(t *testing.T) {
	m := testModel(t)
	m.configPath = writeConfig(t, "catalog:\n  roles:\n    - id: sdr\n      name: SDR\n")

	var reload PaletteAction
	for _, a := range m.paletteActions() {
		if a.Label == "Recarregar catálogo" {
			reload = a
		}
	}
	require.NotNil(t, reload.Action)

	msg := reload.Action(&m)()
	got, ok := msg.(CatalogReloadedMsg)
	require.True(t, ok)
	require.NoError(t, got.Err)
	assert.Equal(t, []string{"SDR"}, got.Catalog.RoleNames())
}

func TestQuit(t *testing.T) {
	_, cmd := testModel(t).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
