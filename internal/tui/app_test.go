package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/starrate/internal/config"
	"github.com/jask/starrate/internal/database"
	"github.com/jask/starrate/internal/database/repository"
	"github.com/jask/starrate/internal/service"
	"github.com/jask/starrate/internal/widgets"
	"github.com/jask/starrate/rating"
)

type appFixture struct {
	app   *App
	svc   *service.RatingService
	ctx   context.Context
	alpha repository.Subject
	beta  repository.Subject
	close func() error
}

func newTestApp(t *testing.T) *appFixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "tui.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := &service.RatingService{
		Subjects: repository.NewSubjectRepo(db),
		Ratings:  repository.NewRatingRepo(db),
		Defaults: rating.DefaultConfig(),
	}
	alpha, err := svc.AddSubject(ctx, "Alpha", 5, true)
	require.NoError(t, err)
	beta, err := svc.AddSubject(ctx, "Beta", 3, false)
	require.NoError(t, err)
	_, err = svc.Save(ctx, alpha.ID, 2, repository.SourceCLI)
	require.NoError(t, err)

	f := &appFixture{
		app:   NewApp(ctx, svc, rating.DefaultConfig(), nil),
		svc:   svc,
		ctx:   ctx,
		alpha: alpha,
		beta:  beta,
		close: db.Close,
	}
	f.send(t, tea.WindowSizeMsg{Width: 80, Height: 24})
	f.run(t, f.app.Init())
	require.True(t, f.app.loaded)
	return f
}

// send delivers msg and runs any command it produced, the way the Bubble
// Tea runtime would, until the chain settles.
func (f *appFixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	_, cmd := f.app.Update(msg)
	f.run(t, cmd)
}

func (f *appFixture) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
		_, cmd = f.app.Update(msg)
	}
}

func (f *appFixture) stored(t *testing.T, id string) float64 {
	t.Helper()
	v, err := f.svc.Current(f.ctx, id)
	require.NoError(t, err)
	return v
}

func (f *appFixture) clickStar(slot int, right bool) tea.MouseMsg {
	w := widgets.SlotWidth(rating.DefaultSize)
	x := f.app.rating.originX + (slot-1)*w
	if right {
		x += w - 1
	}
	return tea.MouseMsg{X: x, Y: f.app.rating.originY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestAppLoadsSubjects(t *testing.T) {
	f := newTestApp(t)

	require.Len(t, f.app.subjects, 2)
	assert.Equal(t, "Alpha", f.app.subjects[0].Subject.Name)
	assert.Equal(t, rating.ModeControlled, f.app.rating.Widget().Mode())
	assert.Equal(t, 2.0, f.app.rating.Widget().Committed())

	view := f.app.View()
	assert.Contains(t, view, "Alpha (2)")
	assert.Contains(t, view, "Beta (–)")
	assert.Contains(t, view, "Star rating: 2 stars")
}

func TestAppMouseClickSavesHalfStar(t *testing.T) {
	f := newTestApp(t)

	f.send(t, f.clickStar(3, false))

	assert.Equal(t, paneRating, f.app.focus)
	assert.Equal(t, 2.5, f.app.rating.Widget().Committed())
	assert.Equal(t, 2.5, f.app.current().Value)
	assert.Equal(t, 2.5, f.stored(t, f.alpha.ID))
	assert.Equal(t, "saved 2.5", f.app.status)

	_, events, err := f.svc.History(f.ctx, "Alpha")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, repository.SourcePointer, events[1].Source)
}

func TestAppKeyboardRatesFocusedSubject(t *testing.T) {
	f := newTestApp(t)

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, paneRating, f.app.focus)

	f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2.5, f.stored(t, f.alpha.ID))

	f.send(t, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 5.0, f.stored(t, f.alpha.ID))

	// vim keys belong to the widget while it has focus
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 4.5, f.stored(t, f.alpha.ID))
	assert.Equal(t, 0, f.app.cursor)

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, paneSubjects, f.app.focus)
}

func TestAppSubjectSwitchUsesSubjectSettings(t *testing.T) {
	f := newTestApp(t)

	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "Beta", f.app.current().Subject.Name)
	cfg := f.app.rating.Widget().Config()
	assert.Equal(t, 3, cfg.Max)
	assert.False(t, cfg.AllowHalf)

	f.send(t, f.clickStar(2, false))
	assert.Equal(t, 2.0, f.stored(t, f.beta.ID), "whole stars only")

	f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3.0, f.stored(t, f.beta.ID), "clamped at max")
}

func TestAppQuit(t *testing.T) {
	f := newTestApp(t)
	_, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppSaveFailureReloads(t *testing.T) {
	f := newTestApp(t)
	require.NoError(t, f.close())

	_, cmd := f.app.Update(f.clickStar(4, true))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, saveFailedMsg{}, msg)

	_, cmd = f.app.Update(msg)
	assert.True(t, f.app.statusErr)
	assert.NotNil(t, cmd, "failed save triggers a reload")
}

func TestAppConfigReloadAppliesReadOnly(t *testing.T) {
	f := newTestApp(t)

	reloaded := config.Config{Rating: config.RatingConfig{
		Max:       5,
		AllowHalf: true,
		ReadOnly:  true,
		Size:      rating.DefaultSize,
	}}
	f.send(t, ConfigReloadedMsg{Config: reloaded})
	assert.Equal(t, "config reloaded", f.app.status)
	assert.True(t, f.app.rating.Widget().Config().ReadOnly)

	f.send(t, f.clickStar(5, true))
	assert.Equal(t, 2.0, f.stored(t, f.alpha.ID))
}

func TestAppConfigReloadError(t *testing.T) {
	f := newTestApp(t)
	f.send(t, ConfigReloadedMsg{Err: assert.AnError})
	assert.True(t, f.app.statusErr)
	assert.Contains(t, f.app.status, "config reload")
	assert.False(t, f.app.rating.Widget().Config().ReadOnly)
}

func TestAppSavesLandingOutOfOrderKeepNewest(t *testing.T) {
	f := newTestApp(t)
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	_, first := f.app.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, second := f.app.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 3.0, f.app.rating.Widget().Committed())

	// the runtime gives no ordering between commands
	secondMsg := second()
	firstMsg := first()
	f.app.Update(secondMsg)
	f.app.Update(firstMsg)

	assert.Equal(t, 3.0, f.stored(t, f.alpha.ID))
	assert.Equal(t, 3.0, f.app.rating.Widget().Committed())
	assert.Equal(t, 3.0, f.app.current().Value)
	assert.Equal(t, "saved 3", f.app.status)
}

func TestAppSavedValueIsReconciled(t *testing.T) {
	f := newTestApp(t)
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	_, save := f.app.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, save)

	// a reload that reads the store before the write lands
	f.app.Update(f.app.loadSubjects()())
	require.Equal(t, 2.0, f.app.rating.Widget().Committed())

	f.app.Update(save())
	assert.Equal(t, 2.5, f.app.rating.Widget().Committed())
	assert.Equal(t, 2.5, f.app.subjects[0].Value)
	assert.Empty(t, f.app.latest)
}
