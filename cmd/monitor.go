// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 umas2022

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/umas2022/MultiAxisController-go8010/pkg/motorbus"
	"github.com/umas2022/MultiAxisController-go8010/pkg/ris"
)

var (
	monitorMotorID    int
	monitorIntervalMs int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live feedback dashboard for one motor",
	Long: `Poll a single motor with a passive command (all targets and gains zero)
and display the decoded feedback in a terminal dashboard. The motor produces
no torque while being watched.

A brake command is sent to the motor when the dashboard exits.

Examples:
  go8010 monitor --port /dev/ttyUSB0 --id 0
  go8010 monitor --port /dev/ttyUSB0 --id 3 --interval-ms 50

Press 'q' to quit.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorMotorID, "id", 0, "Motor id to watch (0-14)")
	monitorCmd.Flags().IntVar(&monitorIntervalMs, "interval-ms", 100, "Poll interval in milliseconds")
}

// Log entry for the event pane
type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Poll result delivered to the model
type feedbackMsg struct {
	feedback ris.Feedback
	err      error
}

type monitorTickMsg time.Time

// Dashboard model
type monitorModel struct {
	session       *motorbus.Session
	connInfo      string
	motorID       uint8
	interval      time.Duration
	probe         ris.Command
	lastFeedback  ris.Feedback
	hasFeedback   bool
	totalPolls    int
	validFrames   int
	timeouts      int
	corruptFrames int
	eventLog      []monitorLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
	pollErr       error
}

func initialMonitorModel(session *motorbus.Session, connInfo string, motorID uint8, interval time.Duration) (monitorModel, error) {
	probe, err := ris.NewCommand(ris.GoM80106, motorID, ris.ModeFOC, 0, 0, 0, 0, 0)
	if err != nil {
		return monitorModel{}, err
	}
	return monitorModel{
		session:       session,
		connInfo:      connInfo,
		motorID:       motorID,
		interval:      interval,
		probe:         probe,
		eventLog:      make([]monitorLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}, nil
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		m.pollCmd(),
		tea.EnterAltScreen,
	)
}

func (m monitorModel) pollCmd() tea.Cmd {
	return func() tea.Msg {
		feedback, err := m.session.Transact(m.probe)
		return feedbackMsg{feedback: feedback, err: err}
	}
}

func (m monitorModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monitorTickMsg:
		return m, m.pollCmd()

	case feedbackMsg:
		m.totalPolls++
		switch {
		case msg.err != nil:
			if errors.Is(msg.err, motorbus.ErrTimeout) {
				m.timeouts++
				m.addLogEntry("timeout waiting for reply", true)
			} else {
				// Transport is gone, nothing more to poll
				m.pollErr = msg.err
				m.quitting = true
				return m, tea.Quit
			}
		case !msg.feedback.Valid():
			m.corruptFrames++
			m.addLogEntry("corrupt frame rejected", true)
		default:
			m.validFrames++
			prevFault := ris.FaultNone
			if m.hasFeedback {
				prevFault = m.lastFeedback.Fault()
			}
			m.lastFeedback = msg.feedback
			m.hasFeedback = true
			if msg.feedback.Fault() != prevFault && msg.feedback.Fault() != ris.FaultNone {
				m.addLogEntry(fmt.Sprintf("fault raised: %s", msg.feedback.Fault()), true)
			}
			if msg.feedback.Temperature() >= ris.TempProtectLimit {
				m.addLogEntry(fmt.Sprintf("winding at %d C, protection limit reached", msg.feedback.Temperature()), true)
			}
		}
		return m, m.tickCmd()
	}

	return m, nil
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("GO8010 - MOTOR %d", m.motorID)))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Poll: %s | Press 'q' to quit",
		m.connInfo, m.interval)))
	s.WriteString("\n\n")

	// Poll statistics
	var validPercent float64
	if m.totalPolls > 0 {
		validPercent = float64(m.validFrames) * 100.0 / float64(m.totalPolls)
	}
	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		labelStyle.Render("Polls:"), valueStyle.Render(fmt.Sprintf("%d", m.totalPolls)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.validFrames, validPercent)),
		labelStyle.Render("Timeouts:"), func() string {
			if m.timeouts > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.timeouts))
			}
			return valueStyle.Render("0")
		}(),
		labelStyle.Render("Corrupt:"), func() string {
			if m.corruptFrames > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.corruptFrames))
			}
			return valueStyle.Render("0")
		}(),
	))
	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Latest feedback
	s.WriteString(labelStyle.Render("Latest Feedback:"))
	s.WriteString("\n")
	feedbackContent := strings.Builder{}
	if !m.hasFeedback {
		feedbackContent.WriteString(headerStyle.Render("(waiting for first valid frame)"))
	} else {
		fb := m.lastFeedback
		feedbackContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			labelStyle.Render("Position:"), valueStyle.Render(fmt.Sprintf("%+.4f rad", fb.Position())),
			labelStyle.Render("Velocity:"), valueStyle.Render(fmt.Sprintf("%+.3f rad/s", fb.Velocity())),
			labelStyle.Render("Torque:"), valueStyle.Render(fmt.Sprintf("%+.3f N.m", fb.Torque())),
		))
		tempStr := valueStyle.Render(fmt.Sprintf("%d C", fb.Temperature()))
		if fb.Temperature() >= ris.TempProtectLimit {
			tempStr = errorStyle.Render(fmt.Sprintf("%d C [LIMIT]", fb.Temperature()))
		}
		faultStr := valueStyle.Render(fb.Fault().String())
		if fb.Fault() != ris.FaultNone {
			faultStr = errorStyle.Render(fb.Fault().String())
		}
		feedbackContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
			labelStyle.Render("Temp:"), tempStr,
			labelStyle.Render("Fault:"), faultStr,
			labelStyle.Render("Foot Force:"), valueStyle.Render(fmt.Sprintf("%d", fb.FootForce())),
		))
	}
	s.WriteString(boxStyle.Render(feedbackContent.String()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 14
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if monitorMotorID < 0 || monitorMotorID > int(ris.MaxMotorID) {
		fmt.Fprintf(os.Stderr, "Argument error: id %d out of range 0-%d\n", monitorMotorID, ris.MaxMotorID)
		os.Exit(2)
	}
	if monitorIntervalMs <= 0 {
		fmt.Fprintf(os.Stderr, "Argument error: interval must be positive\n")
		os.Exit(2)
	}

	session, _, connInfo, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer session.Close()

	m, err := initialMonitorModel(session, connInfo, uint8(monitorMotorID),
		time.Duration(monitorIntervalMs)*time.Millisecond)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Argument error: %v\n", err)
		os.Exit(2)
	}

	p := tea.NewProgram(m)
	finalModel, runErr := p.Run()

	// Leave the motor released whatever happened to the dashboard
	if brake, err := ris.NewBrakeCommand(ris.GoM80106, uint8(monitorMotorID)); err == nil {
		session.Transact(brake)
	}

	if runErr != nil {
		return fmt.Errorf("TUI error: %v", runErr)
	}
	if mm, ok := finalModel.(monitorModel); ok && mm.pollErr != nil {
		fmt.Fprintf(os.Stderr, "Connection lost: %v\n", mm.pollErr)
		os.Exit(1)
	}
	return nil
}
