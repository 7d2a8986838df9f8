// Package tui is the interactive heap/stack project browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Pallavbh23/heapstack"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// LoadFunc fetches the items the session is rebuilt from.
type LoadFunc func(ctx context.Context) ([]heapstack.Item, error)

type loadedMsg struct {
	items []heapstack.Item
	err   error
}

// Model renders a session as a level-order heap next to its stack and maps
// key presses onto session operations.
type Model struct {
	session *heapstack.Session
	load    LoadFunc
	logger  *zap.Logger

	keys   KeyMap
	help   help.Model
	styles Styles

	loading bool
	status  string
	err     error
	width   int
}

// New returns a browser over session. When load is non-nil the session is
// rebuilt from its result once the program starts.
func New(session *heapstack.Session, load LoadFunc, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		session: session,
		load:    load,
		logger:  logger,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		styles:  DefaultStyles(),
		loading: load != nil,
	}
}

func (m Model) Init() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return func() tea.Msg {
		items, err := load(context.Background())
		return loadedMsg{items: items, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("failed to load projects", zap.Error(msg.err))
			return m, nil
		}
		if err := m.session.Reset(msg.items); err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("loaded %d projects", len(msg.items))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.loading {
			return m, nil
		}
		if op, ok := m.keys.opFor(msg.String()); ok {
			m.apply(op)
		}
	}
	return m, nil
}

func (m *Model) apply(op heapstack.Op) {
	before := m.session.Size()
	if err := m.session.Apply(op); err != nil {
		m.err = err
		return
	}
	after := m.session.Size()
	switch {
	case after == before:
		m.status = op.String() + ": nothing to move"
	case op.Kind == heapstack.OpReturn:
		m.status = "returned 1 project to the heap"
	default:
		m.status = fmt.Sprintf("popped %d", before.Heap-after.Heap)
	}
}

func (m Model) View() string {
	if m.loading {
		return m.styles.Status.Render("Fetching projects...") + "\n"
	}

	snap := m.session.Snapshot()

	heapPane := m.renderHeap(snap)
	stackPane := m.renderStack(snap)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, heapPane, " ", stackPane))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeap(snap heapstack.Snapshot) string {
	title := m.styles.Title.Render(fmt.Sprintf("Heap (%d)", len(snap.Heap)))
	if len(snap.Heap) == 0 {
		return m.styles.Pane.Render(title + "\n" + m.styles.Status.Render("Heap empty. Return items from the stack."))
	}

	rows := make([]string, 0, len(snap.Levels))
	for _, level := range snap.Levels {
		cards := make([]string, 0, len(level))
		for _, e := range level {
			cards = append(cards, m.renderCard(e))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	tree := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return m.styles.Pane.Render(title + "\n" + tree)
}

func (m Model) renderStack(snap heapstack.Snapshot) string {
	title := m.styles.Title.Render(fmt.Sprintf("Stack (%d)", len(snap.Stack)))
	if len(snap.Stack) == 0 {
		return m.styles.Pane.Render(title + "\n" + m.styles.Status.Render("Empty. Pop items from the heap."))
	}
	cards := make([]string, 0, len(snap.Stack))
	for _, e := range snap.Stack {
		cards = append(cards, m.renderCard(e))
	}
	return m.styles.Pane.Render(title + "\n" + lipgloss.JoinVertical(lipgloss.Left, cards...))
}

func (m Model) renderCard(e heapstack.Entry) string {
	tag := m.styles.PlainTag
	if e.Rank.Flagged {
		tag = m.styles.FlaggedTag
	}
	header := tag.Render(Badge(e))
	if e.Index >= 0 {
		header += " " + m.styles.Index.Render(fmt.Sprintf("#%d", e.Index))
	}
	body := header + "\n" + m.styles.CardName.Render(e.Item.Name)
	if e.Item.Description != "" {
		body += "\n" + m.styles.Description.Render(truncate(e.Item.Description, 40))
	}
	return m.styles.Card.Render(body)
}

// Badge is the short popularity label shown on a card, e.g. "42★•AI".
func Badge(e heapstack.Entry) string {
	s := fmt.Sprintf("%d★", e.Item.Popularity)
	if e.Rank.Flagged {
		s += "•AI"
	}
	if e.Item.Starred {
		s += "•starred"
	}
	return s
}

func truncate(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l-3]) + "..."
	}
	return s
}
