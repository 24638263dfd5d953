// Package ui is the interactive terminal timeline editor. It drives the
// drag controller with keyboard-emulated pointer motion and renders the
// layered lane layout, the live playback set and waveform readouts.
package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracklane/tracklane/internal/drag"
	"github.com/tracklane/tracklane/internal/playback"
	"github.com/tracklane/tracklane/internal/timeline"
	"github.com/tracklane/tracklane/internal/waveform"
)

const (
	editorPixelWidth = 600.0
	coarseStep       = 1.0
	fineStep         = 0.1
	redrawInterval   = 100 * time.Millisecond
)

// ActiveSetMsg carries the playback synchronizer's current active item
// ids into the editor. The synchronizer runs outside the tea loop; the
// program bridges its change callback with Program.Send.
type ActiveSetMsg struct {
	Active map[string]struct{}
}

type tickMsg time.Time

// snapshot is the editor's in-memory track state, shared with the drag
// controller as both its track provider and its mutation sink.
type snapshot struct {
	tracks []timeline.Track
}

func (s *snapshot) Tracks() []timeline.Track {
	return s.tracks
}

func (s *snapshot) CommitDrag(itemID string, newStart, newEnd float64) error {
	for ti := range s.tracks {
		if it := s.tracks[ti].Item(itemID); it != nil {
			it.Start = newStart
			it.End = newEnd
			return nil
		}
	}
	return drag.ErrItemNotFound
}

// proposalView retains the last drag proposal for rendering. Clear
// hides it again; the controller calls Clear on commit, cancel and
// close.
type proposalView struct {
	proposal drag.Proposal
	visible  bool
}

func (f *proposalView) ShowProposal(p drag.Proposal) {
	f.proposal = p
	f.visible = true
}

func (f *proposalView) Clear() {
	f.visible = false
}

type Model struct {
	keys       keyMap
	snap       *snapshot
	feedback   *proposalView
	controller *drag.Controller
	transport  *playback.Transport
	samples    []float64
	total      float64
	logger     *slog.Logger

	trackIdx int
	itemIdx  int
	pointerX float64
	pointerY float64

	active   map[string]struct{}
	status   string
	quitting bool
}

func NewModel(tracks []timeline.Track, totalDuration float64, samples []float64, transport *playback.Transport, logger *slog.Logger) Model {
	snap := &snapshot{tracks: tracks}
	feedback := &proposalView{}

	cfg := drag.Config{
		PixelWidth:    editorPixelWidth,
		TotalDuration: totalDuration,
	}

	return Model{
		keys:       defaultKeyMap(),
		snap:       snap,
		feedback:   feedback,
		controller: drag.NewController(cfg, snap, snap, feedback, logger),
		transport:  transport,
		samples:    samples,
		total:      totalDuration,
		logger:     logger,
		active:     map[string]struct{}{},
	}
}

// Tracks exposes the editor's current snapshot, which the synchronizer
// outside the tea loop reads at startup.
func (m Model) Tracks() []timeline.Track {
	return m.snap.tracks
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			m.controller.Close()
			return m, tea.Quit
		}
		if m.controller.Dragging() {
			return m.updateDragging(msg)
		}
		return m.updateIdle(msg)

	case ActiveSetMsg:
		m.active = msg.Active
		return m, nil

	case tickMsg:
		if m.transport != nil && m.transport.Playing() {
			return m, redrawCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.trackIdx = clampIndex(m.trackIdx-1, len(m.snap.tracks))
		m.itemIdx = clampIndex(m.itemIdx, len(m.currentTrack().Items))

	case key.Matches(msg, m.keys.Down):
		m.trackIdx = clampIndex(m.trackIdx+1, len(m.snap.tracks))
		m.itemIdx = clampIndex(m.itemIdx, len(m.currentTrack().Items))

	case key.Matches(msg, m.keys.Left):
		m.itemIdx = clampIndex(m.itemIdx-1, len(m.currentTrack().Items))

	case key.Matches(msg, m.keys.Right):
		m.itemIdx = clampIndex(m.itemIdx+1, len(m.currentTrack().Items))

	case key.Matches(msg, m.keys.Grab):
		item := m.currentItem()
		if item == nil {
			m.status = "nothing to grab"
			return m, nil
		}
		m.pointerX = m.timeToPx(item.Start)
		m.pointerY = 0
		if err := m.controller.Start(item.ID, m.pointerX, m.pointerY); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("dragging %s", itemName(*item))
		m.controller.Move(m.pointerX, m.pointerY)

	case key.Matches(msg, m.keys.Play):
		if m.transport == nil {
			return m, nil
		}
		if m.transport.Toggle() {
			m.status = "playing"
			return m, redrawCmd()
		}
		m.status = "paused"
	}

	return m, nil
}

func (m Model) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := coarseStep
	if strings.HasPrefix(msg.String(), "shift+") {
		step = fineStep
	}

	switch {
	case key.Matches(msg, m.keys.Left), msg.String() == "shift+left":
		m.pointerX -= m.timeToPx(step)
		m.controller.Move(m.pointerX, m.pointerY)

	case key.Matches(msg, m.keys.Right), msg.String() == "shift+right":
		m.pointerX += m.timeToPx(step)
		m.controller.Move(m.pointerX, m.pointerY)

	case key.Matches(msg, m.keys.Up):
		m.pointerY -= drag.DefaultLayerHeight
		m.controller.Move(m.pointerX, m.pointerY)

	case key.Matches(msg, m.keys.Down):
		m.pointerY += drag.DefaultLayerHeight
		m.controller.Move(m.pointerX, m.pointerY)

	case key.Matches(msg, m.keys.Commit):
		res := m.controller.Commit()
		if res.Err != nil {
			m.status = fmt.Sprintf("commit failed: %v", res.Err)
		} else if res.Committed {
			m.status = fmt.Sprintf("moved %s to %.1f-%.1f", res.ItemID, res.NewStart, res.NewEnd)
		}

	case key.Matches(msg, m.keys.Cancel):
		m.controller.Cancel()
		m.status = "cancelled"
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("tracklane"))
	b.WriteString("\n\n")

	for ti, track := range m.snap.tracks {
		b.WriteString(m.renderTrack(ti, track))
	}

	if m.feedback.visible {
		b.WriteString("\n" + m.renderProposal())
	}
	b.WriteString("\n" + m.renderStatus())
	b.WriteString(HelpStyle.Render(m.renderHelp()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTrack(ti int, track timeline.Track) string {
	name := TrackNameStyle.Render(track.Name)
	if track.Locked {
		name = LockedStyle.Render(track.Name + " (locked)")
	}
	if !track.Visible {
		return name + StatusStyle.Render(" hidden") + "\n"
	}

	assign, err := timeline.AssignLayers(track.Items)
	if err != nil {
		return name + CollisionStyle.Render(" "+err.Error()) + "\n"
	}

	lanes := make(map[int][]timeline.TimedItem)
	maxLane := 0
	for _, it := range track.Items {
		lane := assign[it.ID]
		lanes[lane] = append(lanes[lane], it)
		if lane > maxLane {
			maxLane = lane
		}
	}

	var b strings.Builder
	for lane := 0; lane <= maxLane; lane++ {
		items := lanes[lane]
		sort.Slice(items, func(i, j int) bool { return items[i].Start < items[j].Start })

		prefix := strings.Repeat(" ", 14)
		if lane == 0 {
			prefix = name
		}
		b.WriteString(fmt.Sprintf("%s%d│", prefix, lane))
		for _, it := range items {
			b.WriteString(" " + m.renderItem(ti, it))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderItem(ti int, it timeline.TimedItem) string {
	text := fmt.Sprintf("[%s %.1f-%.1f]", itemName(it), it.Start, it.End)

	session := m.controller.Session()
	if session != nil && session.ItemID == it.ID {
		return DraggingStyle.Render(text)
	}
	if _, ok := m.active[it.ID]; ok {
		return ActiveStyle.Render(text)
	}
	if ti == m.trackIdx && m.currentItem() != nil && m.currentItem().ID == it.ID {
		return SelectedStyle.Render(text)
	}
	return ItemStyle.Render(text)
}

func (m Model) renderProposal() string {
	p := m.feedback.proposal
	line := fmt.Sprintf("drag %s → %.1f-%.1f layer %d", p.ItemID, p.Start, p.End, p.Layer)
	if p.Snapped {
		line += SnapStyle.Render(" snapped")
	}
	if p.HasCollision {
		line += CollisionStyle.Render(" collision")
	}
	return line + "\n"
}

func (m Model) renderStatus() string {
	var parts []string

	if m.transport != nil {
		indicator := "⏸"
		if m.transport.Playing() {
			indicator = "▶"
		}
		parts = append(parts, fmt.Sprintf("%s %.1fs", indicator, m.transport.Position()))
	}

	if item := m.currentItem(); item != nil && len(m.samples) > 0 {
		if stats := waveform.AnalyzeWindow(m.samples, m.total, item.Start, item.End); stats != nil {
			parts = append(parts, fmt.Sprintf("rms %.2f silence %.0f%%", stats.RMSEnergy, stats.SilenceRatio*100))
		}
	}

	if m.status != "" {
		parts = append(parts, m.status)
	}

	return StatusStyle.Render(strings.Join(parts, "  ")) + "\n"
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.helpBindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m Model) currentTrack() *timeline.Track {
	if len(m.snap.tracks) == 0 {
		return &timeline.Track{}
	}
	return &m.snap.tracks[clampIndex(m.trackIdx, len(m.snap.tracks))]
}

func (m Model) currentItem() *timeline.TimedItem {
	track := m.currentTrack()
	if len(track.Items) == 0 {
		return nil
	}
	return &track.Items[clampIndex(m.itemIdx, len(track.Items))]
}

func (m Model) timeToPx(seconds float64) float64 {
	if m.total <= 0 {
		return 0
	}
	return seconds / m.total * editorPixelWidth
}

func redrawCmd() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func itemName(it timeline.TimedItem) string {
	if it.Label != "" {
		return it.Label
	}
	return it.ID
}
