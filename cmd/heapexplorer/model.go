package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/logger"
)

// chromeHeight is the number of lines around the chunk list: header,
// summary, heap map, pane border, status and help.
const chromeHeight = 8

// Model is the explorer state. The allocator is shared; every other field is
// plain value state so Update can work on a copy.
type Model struct {
	heap *alloc.WorstFitAllocator
	rng  *rand.Rand

	keys     KeyMap
	help     help.Model
	viewport viewport.Model

	chunks []alloc.ChunkInfo
	cursor int

	width  int
	height int

	showStats bool

	status string
	err    error
}

// NewModel creates a model over a, drawing random sizes from seed.
func NewModel(a *alloc.WorstFitAllocator, seed uint64) Model {
	m := Model{
		heap:     a,
		rng:      rand.New(rand.NewPCG(seed, seed)),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(76, 16),
		width:    80,
		status:   "a: alloc  x: free  ?: help",
	}
	m.refresh()
	m.syncViewport()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		if m.showStats {
			// The stats panel is modal.
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Stats), key.Matches(msg, m.keys.Close):
				m.showStats = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.PageUp):
			m.moveCursor(-m.viewport.Height)
		case key.Matches(msg, m.keys.PageDown):
			m.moveCursor(m.viewport.Height)
		case key.Matches(msg, m.keys.Home):
			m.cursor = 0
		case key.Matches(msg, m.keys.End):
			m.cursor = max(len(m.chunks)-1, 0)
		case key.Matches(msg, m.keys.Alloc):
			m.alloc(1 + m.rng.Uint64N(512))
		case key.Matches(msg, m.keys.AllocLarge):
			m.alloc(4096 + m.rng.Uint64N(16384))
		case key.Matches(msg, m.keys.Free):
			m.freeSelected()
		case key.Matches(msg, m.keys.Realloc):
			m.reallocSelected()
		case key.Matches(msg, m.keys.Check):
			m.check()
		case key.Matches(msg, m.keys.Copy):
			m.copySelected()
		case key.Matches(msg, m.keys.Stats):
			m.showStats = true
		}
		m.syncViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Selected returns the chunk under the cursor.
func (m Model) Selected() (alloc.ChunkInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.chunks) {
		return alloc.ChunkInfo{}, false
	}
	return m.chunks[m.cursor], true
}

func (m *Model) alloc(size uint64) {
	p, err := m.heap.Alloc(size)
	if err != nil {
		m.status = fmt.Sprintf("alloc(%d) failed: %v", size, err)
		logger.Warn("alloc failed", "size", size, "err", err)
		return
	}
	m.refresh()
	m.selectPayload(p)
	m.status = fmt.Sprintf("alloc(%d) = %#x", size, uint64(p))
}

func (m *Model) freeSelected() {
	c, ok := m.Selected()
	if !ok {
		return
	}
	if !c.Used {
		// Freeing it again would abort the process.
		m.status = fmt.Sprintf("chunk %#x is already free", c.Offset)
		return
	}
	m.heap.Free(c.Payload)
	m.refresh()
	m.status = fmt.Sprintf("free(%#x)", uint64(c.Payload))
}

func (m *Model) reallocSelected() {
	c, ok := m.Selected()
	if !ok || !c.Used {
		m.status = "select a used chunk to reallocate"
		return
	}
	size := 2 * m.heap.UsableSize(c.Payload)
	p, err := m.heap.Realloc(c.Payload, size)
	if err != nil {
		m.status = fmt.Sprintf("realloc(%#x, %d) failed: %v", uint64(c.Payload), size, err)
		return
	}
	m.refresh()
	m.selectPayload(p)
	m.status = fmt.Sprintf("realloc(%#x, %d) = %#x", uint64(c.Payload), size, uint64(p))
}

func (m *Model) check() {
	if err := m.heap.Check(); err != nil {
		m.err = err
		m.status = err.Error()
		return
	}
	m.err = nil
	m.status = "heap ok"
}

func (m *Model) copySelected() {
	c, ok := m.Selected()
	if !ok {
		return
	}
	if err := clipboard.WriteAll(formatChunk(c)); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("chunk %#x copied to clipboard", c.Offset)
}

// refresh re-reads the chunk chain and clamps the cursor.
func (m *Model) refresh() {
	m.chunks = m.chunks[:0]
	m.heap.Walk(func(c alloc.ChunkInfo) bool {
		m.chunks = append(m.chunks, c)
		return true
	})
	m.moveCursor(0)
}

func (m *Model) moveCursor(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.chunks)-1, 0))
}

func (m *Model) selectPayload(p alloc.Ptr) {
	for i, c := range m.chunks {
		if c.Payload == p {
			m.cursor = i
			return
		}
	}
}

// syncViewport renders the chunk rows and scrolls so the cursor is visible.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderChunks())
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
