package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/starrate/internal/config"
	"github.com/jask/starrate/internal/database/repository"
	"github.com/jask/starrate/internal/service"
	"github.com/jask/starrate/internal/widgets"
	"github.com/jask/starrate/rating"
)

var (
	headerStyle    = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(widgets.ColorSuccess)
	statusErrStyle = lipgloss.NewStyle().Foreground(widgets.ColorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
)

type pane int

const (
	paneSubjects pane = iota
	paneRating
)

// layout constants, in cells
const (
	headerRows    = 1
	footerRows    = 2 // status + help
	listRatio     = 0.4
	ratingRatio   = 0.6
	columnGap     = 1
	starRowOffset = 2 // star row line inside the rating pane content
)

// App is the root model: a subject list beside a controlled rating pane.
type App struct {
	ctx      context.Context
	svc      *service.RatingService
	logger   *zap.Logger
	defaults rating.Config

	subjects []repository.SubjectRating
	cursor   int
	focus    pane
	rating   Model
	loaded   bool

	// changes reported by OnChange during the current message
	changes []float64
	source  string

	// stamp of the newest accepted change per subject; saves carry it back
	latest    map[string]time.Time
	lastStamp time.Time

	width     int
	height    int
	status    string
	statusErr bool
}

// NewApp builds the root model. defaults carries presentation and read-only
// settings; each subject supplies its own max and half-step setting.
func NewApp(ctx context.Context, svc *service.RatingService, defaults rating.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		ctx:      ctx,
		svc:      svc,
		logger:   logger,
		defaults: defaults,
		latest:   make(map[string]time.Time),
		width:    80,
		height:   24,
	}
	a.rating = New(a.widgetConfig(nil))
	return a
}

type subjectsMsg []repository.SubjectRating

type savedMsg struct {
	subjectID string
	value     float64
	at        time.Time
}

type saveFailedMsg struct {
	subjectID string
	at        time.Time
	err       error
}

type errMsg struct{ error }

// ConfigReloadedMsg carries a configuration reloaded from disk.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

func (a *App) Init() tea.Cmd {
	return a.loadSubjects()
}

func (a *App) loadSubjects() tea.Cmd {
	return func() tea.Msg {
		list, err := a.svc.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return subjectsMsg(list)
	}
}

// saveCmd persists one accepted change. Commands run concurrently, so the
// event time is fixed by the caller rather than by whichever write lands
// first.
func (a *App) saveCmd(subjectID string, value float64, source string, at time.Time) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.svc.SaveAt(a.ctx, subjectID, value, source, at); err != nil {
			return saveFailedMsg{subjectID: subjectID, at: at, err: err}
		}
		return savedMsg{subjectID: subjectID, value: value, at: at}
	}
}

// stamp returns a strictly increasing event time.
func (a *App) stamp() time.Time {
	now := time.Now().UTC().Round(0)
	if !now.After(a.lastStamp) {
		now = a.lastStamp.Add(time.Microsecond)
	}
	a.lastStamp = now
	return now
}

func (a *App) current() *repository.SubjectRating {
	if a.cursor < 0 || a.cursor >= len(a.subjects) {
		return nil
	}
	return &a.subjects[a.cursor]
}

// widgetConfig is the controlled configuration for sr, or a display-only
// config when nothing is selected.
func (a *App) widgetConfig(sr *repository.SubjectRating) rating.Config {
	cfg := a.defaults
	if sr == nil {
		cfg.ReadOnly = true
		return cfg.Controlled(0)
	}
	cfg.Max = sr.Subject.MaxStars
	cfg.AllowHalf = sr.Subject.AllowHalf
	cfg.OnChange = a.onChange
	return cfg.Controlled(sr.Value)
}

func (a *App) onChange(v float64) {
	a.changes = append(a.changes, v)
}

// reconcile pushes the host's value for the selected subject into the
// widget.
func (a *App) reconcile() {
	a.rating.SetConfig(a.widgetConfig(a.current()))
}

// selectSubject swaps the widget for a fresh one, so preview and focus do
// not leak between subjects.
func (a *App) selectSubject(i int) {
	if len(a.subjects) == 0 {
		a.cursor = 0
		return
	}
	a.cursor = min(max(0, i), len(a.subjects)-1)
	a.rating = New(a.widgetConfig(a.current()))
	a.layout()
}

// accept applies the values OnChange reported during one message. The host
// owns the value, so it takes the change immediately and persists it in the
// background.
func (a *App) accept() tea.Cmd {
	if len(a.changes) == 0 {
		return nil
	}
	sr := a.current()
	v := a.changes[len(a.changes)-1]
	a.changes = a.changes[:0]
	if sr == nil {
		return nil
	}
	sr.Value, sr.Rated = v, true
	a.reconcile()
	at := a.stamp()
	a.latest[sr.Subject.ID] = at
	return a.saveCmd(sr.Subject.ID, v, a.source, at)
}

// applySaved reconciles a stored value into the list and, when its subject
// is selected, into the widget. Only the newest save of a subject counts;
// an older one finishing late must not roll the value back.
func (a *App) applySaved(m savedMsg) bool {
	if latest, ok := a.latest[m.subjectID]; !ok || !m.at.Equal(latest) {
		return false
	}
	delete(a.latest, m.subjectID)
	for i := range a.subjects {
		if a.subjects[i].Subject.ID != m.subjectID {
			continue
		}
		a.subjects[i].Value, a.subjects[i].Rated = m.value, true
		if i == a.cursor {
			a.reconcile()
		}
	}
	return true
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.layout()
		return a, nil
	case subjectsMsg:
		a.subjects = m
		a.loaded = true
		a.selectSubject(a.cursor)
		return a, nil
	case savedMsg:
		if a.applySaved(m) {
			a.setStatus(fmt.Sprintf("saved %s", rating.FormatValue(m.value)), false)
		}
		return a, nil
	case saveFailedMsg:
		a.logger.Error("save rating", zap.String("subject", m.subjectID), zap.Error(m.err))
		if latest, ok := a.latest[m.subjectID]; ok && m.at.Equal(latest) {
			delete(a.latest, m.subjectID)
		}
		a.setStatus(m.err.Error(), true)
		// the optimistic value is wrong; go back to what is stored
		return a, a.loadSubjects()
	case ConfigReloadedMsg:
		if m.Err != nil {
			a.setStatus("config reload: "+m.Err.Error(), true)
			return a, nil
		}
		a.defaults = m.Config.Rating.Widget()
		a.svc.Defaults = a.defaults
		a.reconcile()
		a.layout()
		a.logger.Info("config reloaded")
		a.setStatus("config reloaded", false)
		return a, nil
	case errMsg:
		a.setStatus(m.Error(), true)
		return a, nil
	case tea.MouseMsg:
		a.source = repository.SourcePointer
		if a.rating.HandleMouse(m) && m.Action == tea.MouseActionPress {
			a.focus = paneRating
		}
		return a, a.accept()
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.focus == paneRating {
		a.source = repository.SourceKeyboard
		if a.rating.HandleKey(m) {
			return a, a.accept()
		}
		if m.String() == "esc" {
			a.focus = paneSubjects
			return a, nil
		}
	}
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.focus == paneSubjects {
			a.selectSubject(a.cursor - 1)
		}
	case "down", "j":
		if a.focus == paneSubjects {
			a.selectSubject(a.cursor + 1)
		}
	case "enter", "right", "l", "tab":
		if a.focus == paneSubjects && a.current() != nil {
			a.focus = paneRating
		}
	case "r":
		return a, a.loadSubjects()
	}
	return a, nil
}

func (a *App) setStatus(text string, isErr bool) {
	a.status, a.statusErr = text, isErr
}

func (a *App) body() widgets.HStack {
	return widgets.HStack{
		Widgets: []widgets.Widget{a.listPane(), a.ratingPane()},
		Ratios:  []float64{listRatio, ratingRatio},
		Gap:     columnGap,
	}
}

func (a *App) columnWidths() []int {
	stack := widgets.HStack{Widgets: make([]widgets.Widget, 2), Ratios: []float64{listRatio, ratingRatio}, Gap: columnGap}
	return stack.Widths(a.width)
}

// layout tells the rating component where its star row lands on screen.
func (a *App) layout() {
	widths := a.columnWidths()
	cx, cy := widgets.PaneContentOffset()
	a.rating.SetOrigin(widths[0]+columnGap+cx, headerRows+cy+starRowOffset)
}

func (a *App) listPane() widgets.Pane {
	items := make([]string, len(a.subjects))
	for i, sr := range a.subjects {
		v := "–"
		if sr.Rated {
			v = rating.FormatValue(sr.Value)
		}
		items[i] = fmt.Sprintf("%s (%s)", sr.Subject.Name, v)
	}
	content := mutedStyle.Render("no subjects")
	if !a.loaded {
		content = mutedStyle.Render("loading…")
	} else if len(items) > 0 {
		w := max(1, a.columnWidths()[0]-4)
		content = widgets.List{Items: items, Cursor: a.cursor}.Render(w, max(1, a.bodyHeight()-2))
	}
	return widgets.Pane{Title: "Subjects", Content: content, Focused: a.focus == paneSubjects}
}

func (a *App) ratingPane() widgets.Pane {
	title := "Rating"
	if sr := a.current(); sr != nil {
		title = sr.Subject.Name
	}
	lines := []string{
		mutedStyle.Render(a.rating.SemanticsView()),
		"",
		a.rating.StarsView(),
	}
	if slot, ok := a.rating.Widget().Preview(); ok {
		lines = append(lines, "", mutedStyle.Render("preview: "+rating.SlotLabel(slot)))
	}
	return widgets.Pane{Title: title, Content: strings.Join(lines, "\n"), Focused: a.focus == paneRating}
}

func (a *App) bodyHeight() int {
	return max(3, a.height-headerRows-footerRows)
}

func (a *App) View() string {
	header := headerStyle.Render("★ starrate")
	body := a.body().Render(a.width, a.bodyHeight())

	status := statusStyle.Render(a.status)
	if a.statusErr {
		status = statusErrStyle.Render(a.status)
	}
	help := mutedStyle.Render("↑/↓ subject • enter rate • r reload • q quit")
	if a.focus == paneRating {
		help = a.rating.HelpView()
	}
	return strings.Join([]string{header, body, status, help}, "\n")
}
