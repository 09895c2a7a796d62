package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quizline/internal/engine"
	"quizline/internal/persist"
	"quizline/internal/ui"
)

type boardModel struct {
	eng   *engine.Engine
	sched *persist.Scheduler

	set     *engine.TaskSet
	stats   engine.ProgressStats
	rating  engine.Rating
	status  persist.SaveStatus
	lastLog string
	width   int
}

func newBoardModel(eng *engine.Engine, sched *persist.Scheduler) *boardModel {
	m := &boardModel{eng: eng, sched: sched}
	m.refresh()
	return m
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *boardModel) refresh() {
	_ = m.eng.OnTick(time.Now())
	m.set = m.eng.TaskSet()
	m.stats = m.eng.Stats()
	m.rating = m.eng.Rating()
	m.status = m.sched.Status()
}

func (m *boardModel) Init() tea.Cmd { return tick() }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.refresh()
			m.lastLog = "refreshed"
			return m, nil
		}
	}
	return m, nil
}

func (m *boardModel) View() string {
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderTasks()

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	n := len(linesLeft)
	if len(linesRight) > n {
		n = len(linesRight)
	}
	var body strings.Builder
	for i := 0; i < n; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(pad(l, 34) + r + "\n")
	}
	return header + "\n" + body.String() + m.renderFooter()
}

func (m *boardModel) renderHeader() string {
	day := "-"
	bar := ""
	if m.set != nil {
		day = m.set.Day.String()
		bar = ui.ProgressBar(m.set.CompletedCount(), len(m.set.Tasks), 12)
	}
	return ui.Title.Render(fmt.Sprintf("Quizline | %s | %s Streak %d | XP %d %s",
		day, ui.IconFlame, m.stats.CurrentStreak, m.stats.TotalXP, bar))
}

func (m *boardModel) renderSidebar() string {
	lines := []string{"Stats"}
	lines = append(lines, fmt.Sprintf("- %s streak: %d (best %d)", ui.IconFlame, m.stats.CurrentStreak, m.stats.LongestStreak))
	lines = append(lines, fmt.Sprintf("- %s points: %d", ui.IconCoin, m.stats.TotalPoints))
	lines = append(lines, fmt.Sprintf("- %s rating: %.0f (%s)", ui.IconBolt, m.rating.Value, m.eng.RatingCategory()))
	lines = append(lines, fmt.Sprintf("- %s tasks done: %d", ui.IconDone, m.stats.TasksCompleted))
	grace := "spent"
	if m.stats.GraceAvailable && !m.stats.GraceUsed {
		grace = "ready"
	}
	lines = append(lines, fmt.Sprintf("- %s grace: %s", ui.IconShield, grace))
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m *boardModel) renderTasks() string {
	out := []string{"Daily Tasks"}
	if m.set == nil {
		out = append(out, ui.Muted.Render("no task set yet"))
		return strings.Join(out, "\n")
	}
	for i := range m.set.Tasks {
		t := &m.set.Tasks[i]
		out = append(out, ui.TaskLine(t.Title, t.Progress, t.Target, t.Completed))
	}
	if m.set.Bonus != nil {
		out = append(out, ui.TaskLine(m.set.Bonus.Title, m.set.Bonus.Progress, m.set.Bonus.Target, m.set.Bonus.Completed))
	}
	if m.set.Completed {
		out = append(out, "")
		out = append(out, ui.BadgeComplete)
	}
	return strings.Join(out, "\n")
}

func (m *boardModel) renderFooter() string {
	saved := "never"
	if !m.status.LastSaved.IsZero() {
		saved = m.status.LastSaved.Format("15:04:05")
	}
	auto := "off"
	if m.status.Enabled {
		auto = "on"
	}
	footer := ui.Muted.Render(fmt.Sprintf("%s autosave %s | last saved %s", ui.IconSave, auto, saved))
	if m.lastLog != "" {
		footer += "\n" + ui.Dim.Render(m.lastLog)
	}
	return footer
}

func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
