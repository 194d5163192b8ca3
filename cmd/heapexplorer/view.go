package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var numbers = message.NewPrinter(language.English)

// View renders the entire UI
func (m Model) View() string {
	if m.showStats {
		// Rebuilt every render: Update hands back copies, so stored
		// pointers into the model would go stale.
		return overlay.New(
			statsView{model: &m},
			mainView{model: &m},
			overlay.Center,
			overlay.Center,
			0,
			0,
		).View()
	}
	return m.renderMain()
}

// renderMain renders the explorer screen without overlays
func (m Model) renderMain() string {
	status := statusStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render("Error: " + m.err.Error())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderHeapMap(),
		paneStyle.Render(m.viewport.View()),
		status,
		m.help.View(m.keys),
	)
}

// renderHeader renders the title and heap summary
func (m Model) renderHeader() string {
	var used, free int
	var freeBytes int64
	for _, c := range m.chunks {
		if c.Used {
			used++
		} else {
			free++
			freeBytes += c.Size
		}
	}

	title := headerStyle.Render("Heap Explorer")
	summary := summaryStyle.Render(numbers.Sprintf(
		"heap %d bytes · %d used · %d free (%d bytes)",
		m.heap.HeapSize(), used, free, freeBytes,
	))
	return lipgloss.JoinVertical(lipgloss.Left, title, summary)
}

// renderHeapMap draws the region as one line, each cell colored by the chunk
// that covers its first byte.
func (m Model) renderHeapMap() string {
	width := max(m.viewport.Width, 10)
	size := m.heap.HeapSize()
	if size == 0 || len(m.chunks) == 0 {
		return statusStyle.Render(strings.Repeat("·", width))
	}

	var b strings.Builder
	ci := 0
	for i := range width {
		at := int64(i) * size / int64(width)
		for ci < len(m.chunks)-1 && at >= m.chunks[ci].Offset+m.chunks[ci].Size {
			ci++
		}
		if m.chunks[ci].Used {
			b.WriteString(usedCellStyle.Render("█"))
		} else {
			b.WriteString(freeCellStyle.Render("░"))
		}
	}
	return b.String()
}

// renderChunks renders one row per chunk, highlighting the cursor
func (m Model) renderChunks() string {
	if len(m.chunks) == 0 {
		return "(empty heap, press a to allocate)"
	}

	rows := make([]string, len(m.chunks))
	for i, c := range m.chunks {
		line := formatChunk(c)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case c.Used:
			line = usedChunkStyle.Render(line)
		default:
			line = freeChunkStyle.Render(line)
		}
		rows[i] = line
	}
	return strings.Join(rows, "\n")
}

func formatChunk(c alloc.ChunkInfo) string {
	state := "free"
	if c.Used {
		state = "used"
	}
	return fmt.Sprintf("%#08x  %s  %10s  prev %-8s payload %#x",
		c.Offset, state, numbers.Sprintf("%d", c.Size), numbers.Sprintf("%d", c.PrevSize), uint64(c.Payload))
}
