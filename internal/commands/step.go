package commands

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okra-platform/tagstream/internal/drain"
	"github.com/okra-platform/tagstream/internal/tagstream"
)

// maxStepLines bounds the trace lines shown per frame
const maxStepLines = 20

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// stepEntry is an event read with n, or a scope left with s.
type stepEntry struct {
	event tagstream.Event
	skip  bool
}

// stepFrame is one cursor of the fork stack.
type stepFrame struct {
	it      tagstream.Iterator
	entries []stepEntry
	depth   int
	done    bool
}

// stepModel steps a cursor interactively. Forks push a new frame that
// starts at the position of the one below; b drops it again.
type stepModel struct {
	title  string
	frames []*stepFrame
}

func newStepModel(title string, it tagstream.Iterator) stepModel {
	return stepModel{title: title, frames: []*stepFrame{{it: it}}}
}

func (m stepModel) top() *stepFrame {
	return m.frames[len(m.frames)-1]
}

func (m stepModel) Init() tea.Cmd {
	return nil
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	f := m.top()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n", "enter", " ", "s":
		if f.done {
			return m, nil
		}
	}

	switch key.String() {
	case "n", "enter", " ":
		tag, v := f.it.Next()
		f.entries = append(f.entries, stepEntry{event: tagstream.Ev(tag, v)})
		switch tag {
		case tagstream.Open:
			f.depth++
		case tagstream.Close:
			f.depth--
		}
	case "s":
		f.it.Skip()
		f.entries = append(f.entries, stepEntry{skip: true})
		f.depth--
	case "f":
		m.frames = append(m.frames, &stepFrame{
			it:      f.it.Fork(),
			entries: append([]stepEntry(nil), f.entries...),
			depth:   f.depth,
			done:    f.done,
		})
		return m, nil
	case "b":
		if len(m.frames) > 1 {
			m.frames = m.frames[:len(m.frames)-1]
		}
		return m, nil
	default:
		return m, nil
	}

	if f.depth < 0 {
		f.done = true
	}
	return m, nil
}

func (m stepModel) View() string {
	var sb strings.Builder
	f := m.top()

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  fork %d", m.title, len(m.frames)-1)))
	sb.WriteString("\n\n")
	sb.WriteString(m.trace(f))
	if f.done {
		sb.WriteString(doneStyle.Render("stream closed"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("n next • s skip • f fork • b back • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// trace renders the last lines of the frame's entries
func (m stepModel) trace(f *stepFrame) string {
	w := drain.NewTraceWriter("  ", true)
	for _, e := range f.entries {
		if e.skip {
			w.Skip()
			continue
		}
		w.Event(e.event)
	}

	lines := strings.SplitAfter(w.String(), "\n")
	if n := len(lines); n > maxStepLines+1 {
		lines = lines[n-maxStepLines-1:]
	}
	return strings.Join(lines, "")
}

// Step opens the interactive stepper on the first sample of the target
// shape, or the one named by --sample.
func (c *Controller) Step(ctx context.Context) error {
	return c.StepWithOptions(ctx)
}

// StepWithOptions runs the stepper with extra program options, e.g. a
// scripted input for tests.
func (c *Controller) StepWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	tgt, err := c.loadTarget()
	if err != nil {
		return err
	}
	if len(tgt.entry.Samples) == 0 {
		return fmt.Errorf("shape %s has no samples", tgt.entry.Name)
	}
	s := tgt.entry.Samples[0]

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(newStepModel(tgt.entry.Name+"/"+s.Name, s.Iterator()), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("stepper failed: %w", err)
	}
	return nil
}
