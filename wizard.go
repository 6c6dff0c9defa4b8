package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Wizard Types ──────────────────────────────────────────────────

type WizardStep int

const (
	StepBasicInfo WizardStep = iota
	StepIntegrations
	StepKnowledge
	StepPersonality
)

const wizardSteps = 4

func (s WizardStep) Title() string {
	switch s {
	case StepBasicInfo:
		return "Informações Básicas"
	case StepIntegrations:
		return "Integrações"
	case StepKnowledge:
		return "Base de Conhecimento"
	case StepPersonality:
		return "Personalidade"
	}
	return ""
}

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrNotFinalStep  = errors.New("submit is only available on the last step")
)

// basicInfoFocus selects which step-one control receives keys.
type basicInfoFocus int

const (
	focusName basicInfoFocus = iota
	focusRole
)

// WizardState owns the draft while an agent is being created. It reads
// options from a snapshot of the catalog taken when the wizard opened.
type WizardState struct {
	Step       WizardStep
	Cursor     int
	Focus      basicInfoFocus
	RoleCursor int
	Err        string       // inline message shown under the step
	Browser    *fileBrowser // step-three file browser, nil when closed

	draft       Draft
	catalog     Catalog
	name        textinput.Model
	personality textarea.Model
}

func NewWizardState(catalog Catalog) *WizardState {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Ex: Ana Silva, Assistente Financeiro"

	personality := textarea.New()
	personality.Placeholder = "Ex: Profissional e objetivo, com foco em resultados e comunicação clara..."
	personality.ShowLineNumbers = false
	personality.SetHeight(5)

	return &WizardState{
		catalog:     catalog,
		name:        name,
		personality: personality,
	}
}

// Draft returns a copy of the draft being edited.
func (w *WizardState) Draft() Draft { return w.draft.clone() }

// ── Wizard Operations ─────────────────────────────────────────────

// Advance moves to the next step. It is a no-op on the last step.
func (w *WizardState) Advance() {
	if w.Step < StepPersonality {
		w.Step++
		w.Cursor = 0
		w.Err = ""
	}
}

// Retreat moves to the previous step. It is a no-op on the first step.
func (w *WizardState) Retreat() {
	if w.Step > StepBasicInfo {
		w.Step--
		w.Cursor = 0
		w.Err = ""
		w.Browser = nil
	}
}

// ToggleMultiSelect adds id to a multi-select field, or removes it when
// already present.
func (w *WizardState) ToggleMultiSelect(field DraftField, id string) error {
	switch field {
	case FieldIntegrations:
		if !hasOption(w.catalog.Integrations, id) {
			return fmt.Errorf("%w: integration %q", ErrUnknownOption, id)
		}
		w.draft.Integrations = toggleID(w.draft.Integrations, id)
	case FieldKnowledgeBase:
		if !hasOption(w.catalog.KnowledgeBases, id) {
			return fmt.Errorf("%w: knowledge base %q", ErrUnknownOption, id)
		}
		w.draft.KnowledgeBase = toggleID(w.draft.KnowledgeBase, id)
	default:
		return fmt.Errorf("%w: %s is not a multi-select field", ErrUnknownField, field)
	}
	return nil
}

// UpdateField overwrites one of the scalar draft fields. A role must be
// one of the catalog's role names, or empty to clear it.
func (w *WizardState) UpdateField(field DraftField, value string) error {
	switch field {
	case FieldName:
		w.draft.Name = value
		if w.name.Value() != value {
			w.name.SetValue(value)
		}
	case FieldRole:
		roles := w.catalog.RoleNames()
		i := slices.Index(roles, value)
		if value != "" && i < 0 {
			return fmt.Errorf("%w: role %q", ErrUnknownOption, value)
		}
		w.draft.Role = value
		if i >= 0 {
			w.RoleCursor = i
		}
	case FieldPersonality:
		w.draft.Personality = value
		if w.personality.Value() != value {
			w.personality.SetValue(value)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Submit hands back a copy of a complete draft. It only works on the last
// step; a draft with blank required fields is rejected and the missing
// fields are shown inline.
func (w *WizardState) Submit() (Draft, error) {
	if w.Step != StepPersonality {
		return Draft{}, ErrNotFinalStep
	}
	if err := w.draft.validate(); err != nil {
		w.Err = "Preencha os campos obrigatórios: " + missingFieldLabels(w.draft.Missing())
		return Draft{}, err
	}
	w.Err = ""
	return w.draft.clone(), nil
}

// AttachFiles accepts exactly one existing JPEG or PNG image. On any error
// the draft is left as it was.
func (w *WizardState) AttachFiles(paths ...string) error {
	switch {
	case len(paths) == 0:
		return ErrNoFile
	case len(paths) > 1:
		return fmt.Errorf("%w: got %d", ErrTooManyFiles, len(paths))
	}
	if err := validateAttachment(paths[0]); err != nil {
		return err
	}
	w.draft.AttachedFile = filepath.Clean(paths[0])
	return nil
}

func (w *WizardState) DetachFile() {
	w.draft.AttachedFile = ""
}

func (w *WizardState) selectRole(i int) {
	roles := w.catalog.RoleNames()
	if i >= 0 && i < len(roles) {
		_ = w.UpdateField(FieldRole, roles[i])
	}
}

// syncFocus focuses the text control of the current step and blurs the
// rest.
func (w *WizardState) syncFocus() tea.Cmd {
	w.name.Blur()
	w.personality.Blur()
	switch {
	case w.Step == StepBasicInfo && w.Focus == focusName:
		return w.name.Focus()
	case w.Step == StepPersonality:
		return w.personality.Focus()
	}
	return nil
}

func (w *WizardState) setWidth(width int) {
	if width < 12 {
		width = 12
	}
	w.name.Width = width - 2
	w.personality.SetWidth(width)
}

var fieldLabels = map[DraftField]string{
	FieldName:        "Nome do Agente",
	FieldRole:        "Classe de Atuação",
	FieldPersonality: "Personalidade",
}

func missingFieldLabels(fields []DraftField) string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = fieldLabels[f]
	}
	return strings.Join(labels, ", ")
}

func attachErrorText(err error) string {
	switch {
	case errors.Is(err, ErrTooManyFiles):
		return "Apenas um arquivo pode ser anexado"
	case errors.Is(err, ErrUnsupportedFile):
		return "Formato não suportado: use JPEG ou PNG"
	case errors.Is(err, ErrNoFile):
		return "Nenhum arquivo recebido"
	}
	return "Arquivo não encontrado"
}

// ── Key Dispatch ──────────────────────────────────────────────────

func (m Model) handleWizardKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.wizard.Browser != nil {
		return m.wizardBrowserKeys(msg)
	}
	switch m.wizard.Step {
	case StepBasicInfo:
		return m.wizardBasicInfo(msg)
	case StepIntegrations:
		return m.wizardChecklist(msg, FieldIntegrations, m.wizard.catalog.IntegrationIDs())
	case StepKnowledge:
		return m.wizardKnowledge(msg)
	case StepPersonality:
		return m.wizardPersonality(msg)
	}
	return m, nil
}

// ── Step Handlers ─────────────────────────────────────────────────

func (m Model) wizardBasicInfo(msg tea.KeyMsg) (Model, tea.Cmd) {
	w := m.wizard

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.cancelWizard()
	case key.Matches(msg, m.keys.SwitchField):
		if w.Focus == focusName {
			w.Focus = focusRole
		} else {
			w.Focus = focusName
		}
		return m, w.syncFocus()
	case key.Matches(msg, m.keys.Enter):
		if w.Focus == focusName {
			w.Focus = focusRole
			return m, w.syncFocus()
		}
		w.selectRole(w.RoleCursor)
		w.Advance()
		return m, w.syncFocus()
	}

	if w.Focus == focusRole {
		switch {
		case key.Matches(msg, m.keys.Up):
			if w.RoleCursor > 0 {
				w.RoleCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if w.RoleCursor < len(w.catalog.Roles)-1 {
				w.RoleCursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			w.selectRole(w.RoleCursor)
		}
		return m, nil
	}

	var cmd tea.Cmd
	w.name, cmd = w.name.Update(msg)
	w.draft.Name = w.name.Value()
	return m, cmd
}

// wizardChecklist drives the cursor lists of steps two and three.
func (m Model) wizardChecklist(msg tea.KeyMsg, field DraftField, ids []string) (Model, tea.Cmd) {
	w := m.wizard

	switch {
	case key.Matches(msg, m.keys.Back):
		w.Retreat()
		return m, w.syncFocus()
	case key.Matches(msg, m.keys.Enter):
		w.Advance()
		return m, w.syncFocus()
	case key.Matches(msg, m.keys.Up):
		if w.Cursor > 0 {
			w.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if w.Cursor < len(ids)-1 {
			w.Cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if w.Cursor < len(ids) {
			if err := w.ToggleMultiSelect(field, ids[w.Cursor]); err != nil {
				m.log.Warn().Err(err).Msg("toggle failed")
			}
		}
	}
	return m, nil
}

func (m Model) wizardKnowledge(msg tea.KeyMsg) (Model, tea.Cmd) {
	w := m.wizard

	if droppedFile(msg) {
		m.attach(splitDroppedPaths(string(msg.Runes))...)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Browse):
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		w.Browser = newFileBrowser(dir)
		return m, nil
	case key.Matches(msg, m.keys.Detach):
		if w.draft.AttachedFile != "" {
			m.log.Debug().Str("file", w.draft.AttachedFile).Msg("file detached")
		}
		w.DetachFile()
		w.Err = ""
		return m, nil
	}
	return m.wizardChecklist(msg, FieldKnowledgeBase, w.catalog.KnowledgeBaseIDs())
}

// droppedFile reports whether msg carries a file dropped on the terminal.
// Terminals paste the path; without bracketed paste it arrives as a burst
// of runes, which fast typing also produces, so a bare burst only counts
// when it contains a path separator.
func droppedFile(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return false
	}
	if msg.Paste {
		return true
	}
	return len(msg.Runes) > 1 && strings.ContainsRune(string(msg.Runes), filepath.Separator)
}

func (m Model) wizardBrowserKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	w := m.wizard
	b := w.Browser

	switch {
	case key.Matches(msg, m.keys.Back):
		w.Browser = nil
	case key.Matches(msg, m.keys.Up):
		b.move(-1)
	case key.Matches(msg, m.keys.Down):
		b.move(1)
	case key.Matches(msg, m.keys.Parent):
		b.parent()
	case key.Matches(msg, m.keys.Enter):
		if b.Cursor == 0 {
			b.parent()
			break
		}
		e, ok := b.selected()
		if !ok {
			break
		}
		path := filepath.Join(b.Dir, e.Name)
		if e.Dir {
			b.open(path)
			break
		}
		if m.attach(path) {
			w.Browser = nil
		}
	}
	return m, nil
}

func (m Model) wizardPersonality(msg tea.KeyMsg) (Model, tea.Cmd) {
	w := m.wizard

	switch {
	case key.Matches(msg, m.keys.Back):
		w.Retreat()
		return m, w.syncFocus()
	case key.Matches(msg, m.keys.Submit):
		return m.submitWizard()
	}

	var cmd tea.Cmd
	w.personality, cmd = w.personality.Update(msg)
	w.draft.Personality = w.personality.Value()
	return m, cmd
}

// attach records a dropped or browsed file on the draft and reports
// whether it was accepted.
func (m Model) attach(paths ...string) bool {
	w := m.wizard
	if err := w.AttachFiles(paths...); err != nil {
		w.Err = attachErrorText(err)
		m.log.Warn().Err(err).Strs("paths", paths).Msg("attachment rejected")
		return false
	}
	w.Err = ""
	m.log.Info().Str("file", w.draft.AttachedFile).Msg("file attached")
	return true
}

// ── Wizard Rendering ──────────────────────────────────────────────

const wizardMaxWidth = 72

func (m Model) wizardBoxWidth() int {
	if m.width < wizardMaxWidth+4 {
		return m.width - 4
	}
	return wizardMaxWidth
}

func (m Model) renderWizard(height int) string {
	w := m.wizard
	boxWidth := m.wizardBoxWidth()

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorPurple).
		Padding(1, 3).
		Width(boxWidth).
		Background(colorBgMedium)

	var lines []string
	lines = append(lines, styleTitle.Render("Criar Agente Digital"))
	lines = append(lines, styleTextDim.Render("Configure seu funcionário digital para automatizar tarefas e aumentar a produtividade"))
	lines = append(lines, "")
	lines = append(lines, renderStepIndicator(w.Step))
	lines = append(lines, "")
	lines = append(lines, stylePurpleBold.Render(fmt.Sprintf("%d  %s", int(w.Step)+1, w.Step.Title())))
	lines = append(lines, "")

	switch w.Step {
	case StepBasicInfo:
		lines = append(lines, m.renderWizardBasicInfo()...)
	case StepIntegrations:
		lines = append(lines, styleText.Render("Selecione as APIs que o agente poderá acessar"))
		lines = append(lines, "")
		lines = append(lines, renderChecklist(w.catalog.Integrations, w.draft.Integrations, w.Cursor)...)
	case StepKnowledge:
		lines = append(lines, m.renderWizardKnowledge()...)
	case StepPersonality:
		lines = append(lines, styleText.Render("Descreva a personalidade do agente"))
		lines = append(lines, w.personality.View())
	}

	if w.Err != "" {
		lines = append(lines, "")
		lines = append(lines, styleError.Render(w.Err))
	}

	lines = append(lines, "")
	lines = append(lines, styleTextDim.Render(wizardHint(w)))

	box := boxStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

func wizardHint(w *WizardState) string {
	switch {
	case w.Browser != nil:
		return "↑↓:navegar  enter:abrir/anexar  backspace:pasta acima  esc:fechar"
	case w.Step == StepBasicInfo:
		return "tab:campo  ↑↓:classe  enter:próximo  esc:cancelar"
	case w.Step == StepIntegrations:
		return "↑↓:navegar  espaço:marcar  enter:próximo  esc:voltar"
	case w.Step == StepKnowledge:
		return "↑↓:navegar  espaço:marcar  a:anexar  x:remover  enter:próximo  esc:voltar"
	default:
		return "ctrl+s:criar agente  esc:voltar"
	}
}

// renderStepIndicator draws 1 ─── 2 ─── 3 ─── 4 with the current step
// highlighted and completed steps in the brand color.
func renderStepIndicator(current WizardStep) string {
	var b strings.Builder
	for i := 0; i < wizardSteps; i++ {
		s := WizardStep(i)
		style := styleStepFuture
		switch {
		case s == current:
			style = styleStepCurrent
		case s < current:
			style = styleStepDone
		}
		b.WriteString(style.Render(strconv.Itoa(i + 1)))
		if i < wizardSteps-1 {
			conn := styleTextDim
			if s < current {
				conn = stylePurple
			}
			b.WriteString(conn.Render(" ─── "))
		}
	}
	return b.String()
}

func (m Model) renderWizardBasicInfo() []string {
	w := m.wizard
	var lines []string

	label := func(text string, focused bool) string {
		if focused {
			return styleOrangeBold.Render(text)
		}
		return styleText.Render(text)
	}

	lines = append(lines, label("Nome do Agente", w.Focus == focusName))
	lines = append(lines, styleInput.Render(w.name.View()))
	lines = append(lines, "")
	lines = append(lines, label("Classe de Atuação", w.Focus == focusRole))

	if w.draft.Role == "" {
		lines = append(lines, styleTextDim.Render("  Selecione uma classe"))
	}
	for i, role := range w.catalog.RoleNames() {
		prefix := "  "
		if w.Focus == focusRole && i == w.RoleCursor {
			prefix = "> "
		}
		mark := "( )"
		style := styleTextDim
		if role == w.draft.Role {
			mark = "(•)"
			style = styleNameBright
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%s %s", prefix, mark, role)))
	}
	return lines
}

func renderChecklist(opts []Option, selected []string, cursor int) []string {
	lines := make([]string, 0, len(opts))
	for i, o := range opts {
		prefix := "  "
		if i == cursor {
			prefix = "> "
		}
		check := "[ ]"
		style := styleTextDim
		if containsID(selected, o.ID) {
			check = "[x]"
			style = stylePurpleLight
		}
		if i == cursor {
			style = style.Bold(true)
		}
		name := o.Name
		if name == "" {
			name = o.ID
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%s %s", prefix, check, name)))
	}
	return lines
}

func (m Model) renderWizardKnowledge() []string {
	w := m.wizard
	var lines []string

	lines = append(lines, styleText.Render("Selecione as fontes de conhecimento para o agente"))
	lines = append(lines, "")
	lines = append(lines, renderChecklist(w.catalog.KnowledgeBases, w.draft.KnowledgeBase, w.Cursor)...)
	lines = append(lines, "")
	lines = append(lines, styleText.Render("Arquivos Adicionais (opcional)"))

	if w.Browser != nil {
		lines = append(lines, renderFileBrowser(w.Browser)...)
		return lines
	}

	var zone []string
	if w.draft.AttachedFile != "" {
		zone = append(zone, styleNameBright.Render(filepath.Base(w.draft.AttachedFile)))
		zone = append(zone, styleTextDim.Render("Arraste outra imagem para trocar o arquivo"))
	} else {
		zone = append(zone, styleText.Render("Arraste uma imagem para o terminal ou pressione a"))
		zone = append(zone, styleTextDim.Render("JPEG ou PNG, um arquivo"))
	}
	lines = append(lines, styleDropZone.Render(strings.Join(zone, "\n")))
	return lines
}

func renderFileBrowser(b *fileBrowser) []string {
	var lines []string
	lines = append(lines, styleInput.Render(b.Dir))

	total := b.rows()
	maxVisible := 8
	scrollOffset := 0
	if b.Cursor >= maxVisible {
		scrollOffset = b.Cursor - maxVisible + 1
	}

	for i := scrollOffset; i < total && i < scrollOffset+maxVisible; i++ {
		prefix := "  "
		style := styleTextDim
		if i == b.Cursor {
			prefix = "> "
			style = styleNameBright
		}
		var label string
		if i == 0 {
			label = "../"
		} else {
			e := b.Entries[i-1]
			label = e.Name
			if e.Dir {
				label += "/"
			} else if i != b.Cursor {
				style = stylePurpleLight
			}
		}
		lines = append(lines, style.Render(prefix+label))
	}

	if total > maxVisible {
		lines = append(lines, styleTextDim.Render(fmt.Sprintf("  (%d/%d)", b.Cursor+1, total)))
	}
	if len(b.Entries) == 0 {
		lines = append(lines, styleTextDim.Render("  (nenhuma imagem nesta pasta)"))
	}
	return lines
}
