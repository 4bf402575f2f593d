// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/nuvostat/pkg/essentia"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	maxLogEntries      = 100
	defaultPollSeconds = 2
)

// Focus states
const (
	focusZoneList = iota
	focusVolumeInput
	focusSourceInput
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// errorLogEntry is one line of the event log
type errorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// zoneItem is one row of the zone list
type zoneItem struct {
	status essentia.ZoneStatus
	muted  bool
}

// Implement list.Item interface
func (z zoneItem) Title() string { return fmt.Sprintf("Zone %02d", z.status.Zone) }
func (z zoneItem) Description() string {
	if z.status.Updated.IsZero() {
		return "no reply yet"
	}
	desc := essentia.FormatPower(z.status.Power)
	if z.status.Source.Valid() {
		desc += fmt.Sprintf(" src %d", z.status.Source)
	}
	if z.status.Volume != essentia.LevelUnset {
		desc += fmt.Sprintf(" %ddB", z.status.Volume)
	}
	if z.muted {
		desc += " muted"
	}
	return desc
}
func (z zoneItem) FilterValue() string { return strconv.Itoa(int(z.status.Zone)) }

// controlModel is the Bubble Tea model for the control TUI
type controlModel struct {
	connMgr  *connectionManager
	connInfo string

	// Zone tracking
	zoneCount int
	state     *essentia.ZoneState
	muted     map[essentia.Zone]bool
	zoneList  list.Model

	// Polling
	pollInterval time.Duration
	lastPoll     time.Time
	nextPoll     essentia.Zone

	// Monitoring
	stats    *essentia.Statistics
	errorLog []errorLogEntry

	// Control
	volumeInput  textinput.Model
	sourceInput  textinput.Model
	focusedField int

	// UI state
	width          int
	height         int
	synchronized   bool
	quitting       bool
	connectionLost bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type controlTickMsg time.Time

type controlDataMsg struct {
	frame            essentia.Frame
	cmd              *essentia.Command
	decodeErr        error
	framingErr       error
	validationErrors []essentia.ValidationError
}

type controlSyncMsg struct {
	framingErrors int
}

type controlBatchMsg struct {
	messages []controlDataMsg
	syncMsg  *controlSyncMsg
}

type connectionLostMsg struct{}

type reconnectedMsg struct {
	connInfo string
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialControlModel(connMgr *connectionManager, connInfo string, zones int, pollInterval time.Duration) controlModel {
	volume := textinput.New()
	volume.Placeholder = "-30"
	volume.CharLimit = 3
	volume.Width = 6

	source := textinput.New()
	source.Placeholder = "1"
	source.CharLimit = 1
	source.Width = 4

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	zoneList := list.New([]list.Item{}, delegate, 30, 10)
	zoneList.Title = "Zones"
	zoneList.SetShowStatusBar(false)
	zoneList.SetShowHelp(false)
	zoneList.SetFilteringEnabled(false)

	if pollInterval <= 0 {
		pollInterval = defaultPollSeconds * time.Second
	}

	m := controlModel{
		connMgr:      connMgr,
		connInfo:     connInfo,
		zoneCount:    zones,
		state:        essentia.NewZoneState(),
		muted:        make(map[essentia.Zone]bool),
		zoneList:     zoneList,
		pollInterval: pollInterval,
		nextPoll:     1,
		stats:        essentia.NewStatistics(),
		errorLog:     make([]errorLogEntry, 0),
		volumeInput:  volume,
		sourceInput:  source,
		focusedField: focusZoneList,
		width:        80,
		height:       24,
	}
	m.updateZoneList()
	return m
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m controlModel) Init() tea.Cmd {
	m.sendReadVersion()
	return controlTickCmd()
}

func controlTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return controlTickMsg(t)
	})
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.zoneList, _ = m.zoneList.Update(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSize()

	case controlTickMsg:
		m.stats.CalculateRates()
		m.pollDue(time.Time(msg))
		return m, controlTickCmd()

	case controlBatchMsg:
		if msg.syncMsg != nil {
			m.synchronized = true
			if msg.syncMsg.framingErrors > 0 {
				m.addLogEntry(fmt.Sprintf("Synchronized after skipping %d framing errors", msg.syncMsg.framingErrors), false)
			} else {
				m.addLogEntry("Synchronized", false)
			}
		}
		for _, data := range msg.messages {
			m.processControlData(data)
		}

	case connectionLostMsg:
		m.connectionLost = true
		m.addLogEntry("Connection lost - reconnecting...", true)

	case reconnectedMsg:
		m.connectionLost = false
		m.connInfo = msg.connInfo
		m.synchronized = false
		m.lastPoll = time.Time{}
		m.addLogEntry("Reconnected - polling zones", false)
		m.sendReadVersion()
	}

	var cmd tea.Cmd
	switch m.focusedField {
	case focusVolumeInput:
		m.volumeInput, cmd = m.volumeInput.Update(msg)
		cmds = append(cmds, cmd)
	case focusSourceInput:
		m.sourceInput, cmd = m.sourceInput.Update(msg)
		cmds = append(cmds, cmd)
	default:
		m.zoneList, cmd = m.zoneList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *controlModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		return m.cycleFocus(1), nil

	case "shift+tab":
		return m.cycleFocus(-1), nil

	case "enter":
		return m.handleEnter()
	}

	// Inputs take every other key while focused
	if m.focusedField != focusZoneList {
		var cmd tea.Cmd
		if m.focusedField == focusVolumeInput {
			m.volumeInput, cmd = m.volumeInput.Update(msg)
		} else {
			m.sourceInput, cmd = m.sourceInput.Update(msg)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "o":
		m.sendZoneCommand("ON", func(z essentia.Zone) (*essentia.Command, error) {
			return essentia.NewTurnZone(m.connMgr.codec, z, true)
		})
	case "f":
		m.sendZoneCommand("OFF", func(z essentia.Zone) (*essentia.Command, error) {
			return essentia.NewTurnZone(m.connMgr.codec, z, false)
		})
	case "m":
		m.toggleMute()
	case "+", "=":
		m.stepVolume(1)
	case "-":
		m.stepVolume(-1)
	case "A":
		m.sendAllOff()
	case "up", "k", "down", "j":
		m.zoneList, _ = m.zoneList.Update(msg)
	}
	return m, nil
}

func (m *controlModel) cycleFocus(delta int) *controlModel {
	const maxFocus = focusSourceInput
	m.focusedField = (m.focusedField + delta + maxFocus + 1) % (maxFocus + 1)

	m.volumeInput.Blur()
	m.sourceInput.Blur()
	switch m.focusedField {
	case focusVolumeInput:
		m.volumeInput.Focus()
	case focusSourceInput:
		m.sourceInput.Focus()
	}
	return m
}

func (m *controlModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.focusedField {
	case focusVolumeInput:
		m.applyVolume()
	case focusSourceInput:
		m.applySource()
	}
	return m, nil
}

func (m controlModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
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

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	// Header
	s.WriteString(titleStyle.Render("NUVOSTAT CONTROL"))
	s.WriteString(" ")
	connStatus := m.connInfo
	if m.connectionLost {
		connStatus = warningStyle.Render("RECONNECTING...")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | q=quit Tab=switch o/f=power m=mute +/-=volume A=all off", connStatus)))
	s.WriteString("\n")

	if fw := m.state.Firmware(); fw != "" {
		s.WriteString(fmt.Sprintf(" %s %s", statsLabelStyle.Render("Firmware:"), statsValueStyle.Render(fw)))
	}
	if m.state.ExternalMute() {
		s.WriteString(" " + warningStyle.Render("EXTERNAL MUTE"))
	}
	s.WriteString("\n\n")

	// Layout: left panel (zones) | right panel (control)
	leftWidth := 30
	rightWidth := m.width - leftWidth - 6

	listStyle := boxStyle.Width(leftWidth)
	if m.focusedField == focusZoneList {
		listStyle = focusedBoxStyle.Width(leftWidth)
	}
	zonePanel := listStyle.Render(m.zoneList.View())

	controlPanel := boxStyle.Width(rightWidth).Render(m.renderControlPanel(statsLabelStyle, statsValueStyle, headerStyle))

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, zonePanel, " ", controlPanel))
	s.WriteString("\n\n")

	s.WriteString(m.renderStatisticsBar(statsLabelStyle, statsValueStyle, errorStyle, boxStyle))
	s.WriteString("\n\n")

	s.WriteString(m.renderEventLog(statsLabelStyle, warningStyle, boxStyle))

	return s.String()
}

//////////////////////////////////////////////////////////////
// View Helpers
//////////////////////////////////////////////////////////////

func (m controlModel) renderControlPanel(statsLabelStyle, statsValueStyle, headerStyle lipgloss.Style) string {
	var s strings.Builder

	item, ok := m.selectedZone()
	if !ok {
		s.WriteString(headerStyle.Render("No zone selected"))
		return s.String()
	}
	z := item.status

	s.WriteString(fmt.Sprintf("%s Zone %d\n", statsLabelStyle.Render("Selected:"), z.Zone))
	if z.Updated.IsZero() {
		s.WriteString(headerStyle.Render("Waiting for status reply"))
		s.WriteString("\n\n")
	} else {
		power := essentia.FormatPower(z.Power)
		if item.muted {
			power += " (muted)"
		}
		s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Power:"), statsValueStyle.Render(power)))
		if z.Source.Valid() {
			s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Source:"), statsValueStyle.Render(strconv.Itoa(int(z.Source)))))
		}
		if z.Volume != essentia.LevelUnset {
			s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Volume:"), statsValueStyle.Render(fmt.Sprintf("%d dB", z.Volume))))
		}
		if z.Bass != essentia.LevelUnset && z.Treble != essentia.LevelUnset {
			s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Tone:"),
				statsValueStyle.Render(fmt.Sprintf("bass %+d treble %+d", z.Bass, z.Treble))))
		}
		s.WriteString(headerStyle.Render(fmt.Sprintf("Updated %s", z.Updated.Format("15:04:05"))))
		s.WriteString("\n\n")
	}

	s.WriteString(statsLabelStyle.Render("Volume: "))
	s.WriteString(renderInput(m.volumeInput, m.focusedField == focusVolumeInput))
	s.WriteString("  ")
	s.WriteString(statsLabelStyle.Render("Source: "))
	s.WriteString(renderInput(m.sourceInput, m.focusedField == focusSourceInput))

	return s.String()
}

// renderInput shows a focused input live and an unfocused one as plain text
func renderInput(input textinput.Model, focused bool) string {
	if focused {
		return input.View()
	}
	val := input.Value()
	if val == "" {
		val = input.Placeholder
	}
	return fmt.Sprintf("[%s]", val)
}

func (m controlModel) renderStatisticsBar(statsLabelStyle, statsValueStyle, errorStyle lipgloss.Style, boxStyle lipgloss.Style) string {
	var cleanPercent, errorPercent float64
	if m.stats.TotalTelegrams > 0 {
		cleanPercent = float64(m.stats.Clean) * 100.0 / float64(m.stats.TotalTelegrams)
		errorPercent = float64(m.stats.Errors()) * 100.0 / float64(m.stats.TotalTelegrams)
	}

	errors := statsValueStyle.Render("0.0%")
	if errorPercent > 0 {
		errors = errorStyle.Render(fmt.Sprintf("%.1f%%", errorPercent))
	}

	content := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		statsLabelStyle.Render("Total:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalTelegrams)),
		statsLabelStyle.Render("Clean:"), statsValueStyle.Render(fmt.Sprintf("%.1f%%", cleanPercent)),
		statsLabelStyle.Render("Errors:"), errors,
		statsLabelStyle.Render("Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f tg/s", m.stats.TelegramRate)),
	)

	return boxStyle.Width(m.width - 4).Render(content)
}

func (m controlModel) renderEventLog(statsLabelStyle, warningStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(statsLabelStyle.Render("EVENTS"))
	s.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyleLocal := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	logHeight := 8
	startIdx := len(m.errorLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.errorLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.errorLog); i++ {
			entry := m.errorLog[i]
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyleLocal
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Data Processing
//////////////////////////////////////////////////////////////

func (m *controlModel) processControlData(msg controlDataMsg) {
	if msg.framingErr != nil {
		if m.synchronized {
			m.stats.Update(nil, msg.framingErr, nil)
			m.addLogEntry(fmt.Sprintf("FRAMING ERROR: %v", msg.framingErr), true)
		}
		return
	}
	if msg.cmd == nil {
		return
	}

	m.stats.Update(msg.cmd, nil, msg.validationErrors)
	if msg.decodeErr != nil {
		m.addLogEntry(fmt.Sprintf("%q: %v", msg.frame.Telegram, msg.decodeErr), true)
	}

	switch msg.cmd.Kind() {
	case essentia.ExternalMuteActivated:
		m.addLogEntry("External mute activated", true)
	case essentia.ExternalMuteDeactivated:
		m.addLogEntry("External mute released", false)
	case essentia.ErrorInCommand:
		m.addLogEntry("Device rejected the last command", true)
	case essentia.ReadVersion:
		if f := msg.cmd.Fields(); f.Set(essentia.FieldFirmwareVersion) && f.FirmwareVersion != m.state.Firmware() {
			m.addLogEntry(fmt.Sprintf("Firmware %s", f.FirmwareVersion), false)
		}
	default:
		for _, err := range msg.validationErrors {
			if err.Type == essentia.AnomalyDeviceError || err.Type == essentia.AnomalyExternalMute {
				continue
			}
			m.addLogEntry(fmt.Sprintf("%s: %s", essentia.FormatKind(msg.cmd.Kind()), err.Message), true)
		}
	}

	if m.applyReply(msg.cmd) {
		m.updateZoneList()
	}
}

// applyReply folds a decoded reply into the zone state and logs power changes
func (m *controlModel) applyReply(cmd *essentia.Command) bool {
	v := cmd.Fields()
	before, known := m.state.Zone(v.Zone)
	if !m.state.Apply(cmd) {
		return false
	}

	after, ok := m.state.Zone(v.Zone)
	if ok && known && before.Power != after.Power && after.Power != essentia.PowerUnknown {
		m.addLogEntry(fmt.Sprintf("Zone %d: %s -> %s", after.Zone,
			essentia.FormatPower(before.Power), essentia.FormatPower(after.Power)), false)
	}
	if ok && after.Power == essentia.PowerOff {
		delete(m.muted, after.Zone)
	}
	return true
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

// send writes cmd and logs the outcome under label
func (m *controlModel) send(cmd *essentia.Command, label string) bool {
	if m.connectionLost {
		m.addLogEntry("Cannot send command: connection lost", true)
		return false
	}
	if err := m.connMgr.send(cmd); err != nil {
		m.addLogEntry(fmt.Sprintf("Failed to send %s: %v", label, err), true)
		return false
	}
	m.addLogEntry(fmt.Sprintf("Sent %s %q", label, cmd.Outgoing()), false)
	return true
}

func (m *controlModel) sendZoneCommand(label string, build func(essentia.Zone) (*essentia.Command, error)) bool {
	item, ok := m.selectedZone()
	if !ok {
		return false
	}
	cmd, err := build(item.status.Zone)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Cannot encode %s: %v", label, err), true)
		return false
	}
	return m.send(cmd, fmt.Sprintf("%s to zone %d", label, item.status.Zone))
}

func (m *controlModel) toggleMute() {
	item, ok := m.selectedZone()
	if !ok {
		return
	}
	mute := !item.muted
	label := "MUTE ON"
	if !mute {
		label = "MUTE OFF"
	}
	sent := m.sendZoneCommand(label, func(z essentia.Zone) (*essentia.Command, error) {
		return essentia.NewMute(m.connMgr.codec, z, mute)
	})
	if sent {
		m.muted[item.status.Zone] = mute
		m.updateZoneList()
	}
}

func (m *controlModel) stepVolume(delta int) {
	item, ok := m.selectedZone()
	if !ok {
		return
	}
	if item.status.Volume == essentia.LevelUnset {
		m.addLogEntry(fmt.Sprintf("Zone %d volume not known yet", item.status.Zone), true)
		return
	}
	m.setVolume(item.status.Volume + delta)
}

func (m *controlModel) applyVolume() {
	raw := strings.TrimSpace(m.volumeInput.Value())
	if raw == "" {
		raw = m.volumeInput.Placeholder
	}
	volume, err := strconv.Atoi(raw)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Invalid volume: %s", raw), true)
		return
	}
	if volume > 0 {
		volume = -volume
	}
	m.setVolume(volume)
}

func (m *controlModel) setVolume(volume int) {
	if volume < essentia.MinVolume || volume > essentia.MaxVolume {
		m.addLogEntry(fmt.Sprintf("Volume must be between %d and %d", essentia.MinVolume, essentia.MaxVolume), true)
		return
	}
	m.sendZoneCommand(fmt.Sprintf("VOLUME %d", volume), func(z essentia.Zone) (*essentia.Command, error) {
		return essentia.NewSetVolume(m.connMgr.codec, z, volume)
	})
}

func (m *controlModel) applySource() {
	raw := strings.TrimSpace(m.sourceInput.Value())
	if raw == "" {
		raw = m.sourceInput.Placeholder
	}
	n, err := strconv.Atoi(raw)
	source := essentia.Source(n)
	if err != nil || !source.Valid() {
		m.addLogEntry(fmt.Sprintf("Source must be between 1 and %d", essentia.MaxSource), true)
		return
	}
	m.sendZoneCommand(fmt.Sprintf("SOURCE %d", source), func(z essentia.Zone) (*essentia.Command, error) {
		return essentia.NewSetSource(m.connMgr.codec, z, source)
	})
}

func (m *controlModel) sendAllOff() {
	cmd, err := essentia.NewTurnAllZoneOff(m.connMgr.codec)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Cannot encode ALL OFF: %v", err), true)
		return
	}
	m.send(cmd, "ALL OFF")
}

func (m *controlModel) sendReadVersion() {
	cmd, err := essentia.NewReadVersion(m.connMgr.codec)
	if err != nil {
		return
	}
	_ = m.connMgr.send(cmd)
}

// pollDue requests the status of the next zone once per poll interval slice,
// so every zone is refreshed once per interval without bursts on the wire
func (m *controlModel) pollDue(now time.Time) {
	if m.connectionLost {
		return
	}
	slice := m.pollInterval / time.Duration(m.zoneCount)
	if !m.lastPoll.IsZero() && now.Sub(m.lastPoll) < slice {
		return
	}
	m.lastPoll = now

	cmd, err := essentia.NewReadStatusConnect(m.connMgr.codec, m.nextPoll)
	if err == nil {
		_ = m.connMgr.send(cmd)
	}

	m.nextPoll++
	if int(m.nextPoll) > m.zoneCount {
		m.nextPoll = 1
	}
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *controlModel) addLogEntry(message string, isError bool) {
	m.errorLog = append(m.errorLog, errorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	if len(m.errorLog) > maxLogEntries {
		m.errorLog = m.errorLog[len(m.errorLog)-maxLogEntries:]
	}
}

func (m *controlModel) selectedZone() (zoneItem, bool) {
	item, ok := m.zoneList.SelectedItem().(zoneItem)
	return item, ok
}

// updateZoneList rebuilds the list rows, keeping every configured zone visible
func (m *controlModel) updateZoneList() {
	items := make([]list.Item, 0, m.zoneCount)
	for z := essentia.Zone(1); int(z) <= m.zoneCount; z++ {
		status, ok := m.state.Zone(z)
		if !ok {
			status = essentia.ZoneStatus{Zone: z, Power: essentia.PowerUnknown, Volume: essentia.LevelUnset, Bass: essentia.LevelUnset, Treble: essentia.LevelUnset}
		}
		items = append(items, zoneItem{status: status, muted: m.muted[z]})
	}
	m.zoneList.SetItems(items)
}

func (m *controlModel) updateListSize() {
	listHeight := m.height / 2
	if listHeight < 5 {
		listHeight = 5
	}
	m.zoneList.SetSize(28, listHeight)
}
