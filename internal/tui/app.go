// Package tui implements the terminal card composer and gallery with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/quotecard/internal/cardstore"
	"github.com/starford/quotecard/internal/catalog"
	"github.com/starford/quotecard/internal/composer"
	"github.com/starford/quotecard/internal/render"
)

// Mode selects the active screen.
type Mode int

const (
	ModeCompose Mode = iota
	ModeGallery
)

const previewWidth = 30

// Deps are the collaborators the terminal UI drives.
type Deps struct {
	Composer *composer.Composer
	Store    *cardstore.Store
	// Renderer may be nil; export then reports an error.
	Renderer  *render.Renderer
	ExportDir string
}

type confirmAction int

const (
	confirmReset confirmAction = iota
	confirmDelete
	confirmClear
)

type confirmation struct {
	prompt string
	action confirmAction
	id     string
}

// Model is the top-level Bubble Tea model.
type Model struct {
	ctx       context.Context
	comp      *composer.Composer
	cat       *catalog.Catalog
	store     *cardstore.Store
	renderer  *render.Renderer
	exportDir string
	now       func() time.Time

	mode        Mode
	quote       textarea.Model
	author      textinput.Model
	authorFocus bool
	gallery     GalleryModel
	confirm     *confirmation
	status      string
	statusErr   bool
	width       int
	height      int
}

// NewModel creates a Model around an existing composer session.
func NewModel(ctx context.Context, d Deps) Model {
	ta := textarea.New()
	ta.CharLimit = composer.MaxQuoteRunes
	ta.ShowLineNumbers = false
	ta.Placeholder = composer.DefaultQuote
	ta.SetWidth(40)
	ta.SetHeight(4)

	ti := textinput.New()
	ti.Prompt = "— "
	ti.Placeholder = composer.DefaultAuthor

	exportDir := d.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := Model{
		ctx:       ctx,
		comp:      d.Composer,
		cat:       d.Composer.Catalog(),
		store:     d.Store,
		renderer:  d.Renderer,
		exportDir: exportDir,
		now:       time.Now,
		quote:     ta,
		author:    ti,
	}
	m.syncInputs()
	m.refreshFocus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// syncInputs copies the composer's text fields into the input widgets.
func (m *Model) syncInputs() {
	s := m.comp.State()
	m.quote.SetValue(s.QuoteText)
	m.author.SetValue(s.QuoteAuthor)
}

// refreshFocus focuses the active text widget on the text step and blurs
// both elsewhere.
func (m *Model) refreshFocus() {
	if m.mode != ModeCompose || m.comp.State().Step != composer.StepText {
		m.quote.Blur()
		m.author.Blur()
		return
	}
	if m.authorFocus {
		m.quote.Blur()
		m.author.Focus()
	} else {
		m.author.Blur()
		m.quote.Focus()
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if w := msg.Width - previewWidth - 12; w > 20 {
			m.quote.SetWidth(min(w, 60))
		}
		return m, nil

	case StateMsg, CopiedMsg:
		// View reads the composer directly; the message only triggers a redraw.
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.setStatus("저장하지 못했어요: "+msg.Err.Error(), true)
			return m, nil
		}
		m.setStatus("갤러리에 저장했어요", false)
		if m.gallery.loaded {
			return m, LoadCardsCmd(m.ctx, m.store)
		}
		return m, nil

	case CardsMsg:
		m.gallery.SetCards(msg.Cards)
		return m, nil

	case CardDeletedMsg:
		if msg.Err != nil {
			m.setStatus("삭제하지 못했어요: "+msg.Err.Error(), true)
			return m, nil
		}
		m.setStatus("카드를 삭제했어요", false)
		return m, LoadCardsCmd(m.ctx, m.store)

	case CardsClearedMsg:
		if msg.Err != nil {
			m.setStatus("삭제하지 못했어요: "+msg.Err.Error(), true)
			return m, nil
		}
		m.setStatus("갤러리를 비웠어요", false)
		return m, LoadCardsCmd(m.ctx, m.store)

	case ExportedMsg:
		if msg.Err != nil {
			m.setStatus("이미지를 저장하지 못했어요: "+msg.Err.Error(), true)
			return m, nil
		}
		m.setStatus("이미지를 저장했어요: "+msg.Path, false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	m.status = ""
	if m.mode == ModeGallery {
		return m.handleGalleryKey(msg)
	}
	return m.handleComposeKey(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	switch msg.String() {
	case "y", "Y", "enter":
	default:
		return m, nil
	}

	switch c.action {
	case confirmReset:
		m.comp.Reset()
		m.syncInputs()
		m.refreshFocus()
		m.setStatus("처음부터 다시 시작해요", false)
		return m, nil
	case confirmDelete:
		return m, DeleteCardCmd(m.ctx, m.store, c.id)
	case confirmClear:
		return m, ClearCardsCmd(m.ctx, m.store)
	}
	return m, nil
}

func (m Model) openGallery() (tea.Model, tea.Cmd) {
	m.mode = ModeGallery
	m.refreshFocus()
	return m, LoadCardsCmd(m.ctx, m.store)
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "g":
		m.mode = ModeCompose
		m.refreshFocus()
	case "up", "k":
		m.gallery.MoveUp()
	case "down", "j":
		m.gallery.MoveDown()
	case "enter":
		if card, ok := m.gallery.Selected(); ok {
			m.comp.Load(card)
			m.syncInputs()
			m.mode = ModeCompose
			m.refreshFocus()
			m.setStatus("카드를 불러왔어요", false)
		}
	case "d", "x":
		if card, ok := m.gallery.Selected(); ok {
			m.confirm = &confirmation{prompt: "이 카드를 삭제할까요?", action: confirmDelete, id: card.ID}
		}
	case "D":
		if m.gallery.Len() > 0 {
			m.confirm = &confirmation{prompt: "저장된 카드를 모두 삭제할까요?", action: confirmClear}
		}
	}
	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.comp.Next()
		m.refreshFocus()
		return m, nil
	case "shift+tab":
		m.comp.Prev()
		m.refreshFocus()
		return m, nil
	}

	s := m.comp.State()
	if s.Step == composer.StepText {
		return m.handleTextKey(msg, s)
	}

	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "g":
		return m.openGallery()
	case "1", "2", "3", "4", "5":
		m.comp.GoTo(composer.Steps[int(key[0]-'1')])
		m.refreshFocus()
		return m, nil
	case "enter":
		m.comp.Next()
		m.refreshFocus()
		return m, nil
	}

	delta := 0
	switch key {
	case "up", "k":
		delta = -1
	case "down", "j":
		delta = 1
	}

	switch s.Step {
	case composer.StepBackground:
		if delta != 0 {
			i := clampIndex(indexOf(m.cat.Backgrounds, s.BackgroundID)+delta, len(m.cat.Backgrounds))
			m.comp.SelectBackground(m.cat.Backgrounds[i].ID)
		}
	case composer.StepTemplate:
		if delta != 0 {
			i := clampIndex(indexOf(m.cat.Templates, s.TemplateID)+delta, len(m.cat.Templates))
			m.comp.SelectTemplate(m.cat.Templates[i].ID)
		}
	case composer.StepDetail:
		switch key {
		case "left", "h", "right", "l":
			step := 1
			if key == "left" || key == "h" {
				step = -1
			}
			i := clampIndex(slices.Index(m.cat.Accents, s.AccentColor)+step, len(m.cat.Accents))
			m.comp.SetAccentColor(m.cat.Accents[i])
		case "a":
			m.comp.ToggleAccent()
		case "s":
			m.comp.ToggleAuthor()
		default:
			if delta != 0 {
				i := clampIndex(indexOf(m.cat.Ratios, s.RatioID)+delta, len(m.cat.Ratios))
				m.comp.SelectRatio(m.cat.Ratios[i].ID)
			}
		}
	case composer.StepComplete:
		switch key {
		case "c":
			return m, CopyCmd(m.ctx, m.comp)
		case "w":
			return m, SaveCardCmd(m.ctx, m.store, m.comp)
		case "e":
			return m, ExportCmd(m.renderer, m.comp, m.exportDir, m.now())
		case "r":
			m.confirm = &confirmation{prompt: "편집한 내용을 모두 지울까요?", action: confirmReset}
		}
	}
	return m, nil
}

func (m Model) handleTextKey(msg tea.KeyMsg, s composer.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		m.authorFocus = !m.authorFocus
		m.refreshFocus()
		return m, nil
	case "ctrl+t":
		m.comp.ToggleAuthor()
		return m, nil
	case "ctrl+r":
		m.comp.UndoText()
		m.syncInputs()
		return m, nil
	case "ctrl+g":
		return m.openGallery()
	}

	var cmd tea.Cmd
	if m.authorFocus {
		m.author, cmd = m.author.Update(msg)
		if v := m.author.Value(); v != s.QuoteAuthor {
			m.comp.SetQuoteAuthor(v)
		}
		return m, cmd
	}
	m.quote, cmd = m.quote.Update(msg)
	if v := composer.ClampQuote(m.quote.Value()); v != s.QuoteText {
		m.comp.SetQuoteText(v)
	}
	return m, cmd
}

func indexOf[T catalog.Identified](items []T, id string) int {
	for i, it := range items {
		if it.Key() == id {
			return i
		}
	}
	return 0
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Quotecard"))
	b.WriteString("\n\n")

	if m.mode == ModeGallery {
		b.WriteString(m.gallery.View(m.cat, m.now()))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("↑/↓ 이동 · enter 불러오기 · d 삭제 · D 모두 삭제 · esc 돌아가기 · q 종료"))
	} else {
		s := m.comp.State()
		b.WriteString(m.tabsView(s))
		b.WriteString("\n")
		b.WriteString(HelperStyle.Render(m.cat.Step(string(s.Step)).Helper))
		b.WriteString("\n\n")
		left := PanelStyle.Render(m.stepView(s))
		right := RenderPreview(composer.ResolvePreview(s, m.cat), previewWidth)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render(stepHelp(s.Step)))
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(StatusErrorStyle.Render(m.status))
		} else {
			b.WriteString(StatusStyle.Render(m.status))
		}
	}
	if m.confirm != nil {
		b.WriteString("\n")
		b.WriteString(ConfirmStyle.Render(m.confirm.prompt + " (y/n)"))
	}
	return b.String()
}

func (m Model) tabsView(s composer.State) string {
	tabs := make([]string, 0, len(composer.Steps))
	for i, st := range composer.Steps {
		label := fmt.Sprintf("%d %s", i+1, m.cat.Step(string(st)).Label)
		if st == s.Step {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func marker(selected bool) string {
	if selected {
		return CursorStyle.Render("▸ ")
	}
	return "  "
}

func (m Model) stepView(s composer.State) string {
	var b strings.Builder
	switch s.Step {
	case composer.StepBackground:
		for _, bg := range m.cat.Backgrounds {
			var sw strings.Builder
			for _, stop := range bg.Gradient {
				sw.WriteString(swatch(stop))
			}
			fmt.Fprintf(&b, "%s%s %s\n    %s\n", marker(bg.ID == s.BackgroundID), sw.String(),
				OptionStyle.Render(bg.Label), DescriptionStyle.Render(bg.Description))
		}

	case composer.StepTemplate:
		for _, t := range m.cat.Templates {
			fmt.Fprintf(&b, "%s%s\n    %s\n", marker(t.ID == s.TemplateID),
				OptionStyle.Render(t.Label), DescriptionStyle.Render(t.Description))
		}

	case composer.StepText:
		fmt.Fprintf(&b, "명언 %s\n", DescriptionStyle.Render(fmt.Sprintf("%d/%d",
			utf8.RuneCountInString(s.QuoteText), composer.MaxQuoteRunes)))
		b.WriteString(m.quote.View())
		b.WriteString("\n\n작가\n")
		b.WriteString(m.author.View())
		b.WriteString("\n\n")
		b.WriteString(checkbox(s.ShowAuthor, "작가 표시"))

	case composer.StepDetail:
		b.WriteString("비율\n")
		for _, r := range m.cat.Ratios {
			fmt.Fprintf(&b, "%s%s %s\n", marker(r.ID == s.RatioID),
				OptionStyle.Render(r.Label), DescriptionStyle.Render(r.Description))
		}
		b.WriteString("\n강조 색상\n")
		for _, c := range m.cat.Accents {
			if c == s.AccentColor {
				b.WriteString("[" + swatch(c) + "]")
			} else {
				b.WriteString(" " + swatch(c) + " ")
			}
		}
		b.WriteString("\n\n")
		if m.cat.Template(s.TemplateID).AccentPlacement == catalog.PlacementNone {
			b.WriteString(DescriptionStyle.Render("이 템플릿에는 강조 장식이 없어요"))
		} else {
			b.WriteString(checkbox(s.ShowAccent, "강조 표시"))
		}
		b.WriteString("\n")
		b.WriteString(checkbox(s.ShowAuthor, "작가 표시"))

	case composer.StepComplete:
		sum := composer.Summarize(s, m.cat)
		fmt.Fprintf(&b, "배경     %s\n", sum.Background)
		fmt.Fprintf(&b, "템플릿   %s\n", sum.Template)
		fmt.Fprintf(&b, "비율     %s %s\n", sum.Ratio, DescriptionStyle.Render(sum.RatioDescription))
		fmt.Fprintf(&b, "문장     %s\n", sum.Excerpt)
		switch s.CopyFeedback {
		case composer.FeedbackDone:
			b.WriteString("\n" + StatusStyle.Render("복사 완료!"))
		case composer.FeedbackError:
			b.WriteString("\n" + StatusErrorStyle.Render("복사에 실패했어요"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func stepHelp(step composer.Step) string {
	switch step {
	case composer.StepText:
		return "tab 다음 · ctrl+o 입력 전환 · ctrl+t 작가 표시 · ctrl+r 되돌리기 · ctrl+g 갤러리"
	case composer.StepDetail:
		return "↑/↓ 비율 · ←/→ 색상 · a 강조 · s 작가 · tab 다음 · g 갤러리 · q 종료"
	case composer.StepComplete:
		return "c 복사 · w 저장 · e 이미지 · r 처음부터 · g 갤러리 · q 종료"
	default:
		return "↑/↓ 선택 · enter/tab 다음 · 1-5 단계 이동 · g 갤러리 · q 종료"
	}
}
