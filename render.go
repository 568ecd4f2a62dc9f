package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mrdg/modsynth/audio"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cellStyle   = lipgloss.NewStyle().Width(10)
)

const (
	stepPlayhead = '▶'
	stepNormal   = '●'
	stepSkip     = '·'
	stepRepeat   = '↺'
)

// table lays out rows in fixed width columns under a header.
func table(header []string, rows [][]string, style func(row int) lipgloss.Style) string {
	line := func(cells []string, s lipgloss.Style) string {
		var rendered []string
		for _, c := range cells {
			rendered = append(rendered, s.Inherit(cellStyle).Render(c))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}
	lines := []string{line(header, headerStyle)}
	for i, row := range rows {
		lines = append(lines, line(row, style(i)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderVoices(voices []audio.VoiceStatus) string {
	if len(voices) == 0 {
		return dimStyle.Render("no voices")
	}
	var rows [][]string
	for _, v := range voices {
		note := "-"
		if v.State != audio.VoiceDeactivated {
			note = v.Note.String()
		}
		rows = append(rows, []string{strconv.Itoa(v.Index), v.State.String(), note})
	}
	return table([]string{"voice", "state", "note"}, rows, func(i int) lipgloss.Style {
		switch voices[i].State {
		case audio.VoiceActivated:
			return activeStyle
		case audio.VoiceDeactivated:
			return dimStyle
		}
		return lipgloss.NewStyle()
	})
}

func renderSteps(steps []audio.Step, current int, playing bool) string {
	if len(steps) == 0 {
		return dimStyle.Render("no steps")
	}
	var rows [][]string
	for i, s := range steps {
		mark := stepNormal
		switch s.Kind {
		case audio.StepSkip:
			mark = stepSkip
		case audio.StepRepeat:
			mark = stepRepeat
		}
		if i == current {
			mark = stepPlayhead
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(mark),
			s.Kind.String(),
			strconv.FormatFloat(s.Value, 'f', -1, 64),
		})
	}
	state := "stopped"
	if playing {
		state = "playing"
	}
	t := table([]string{"step", "", "kind", "value"}, rows, func(i int) lipgloss.Style {
		if i == current {
			return activeStyle
		}
		return lipgloss.NewStyle()
	})
	return lipgloss.JoinVertical(lipgloss.Left, t, dimStyle.Render(state))
}

func renderNotes(src *audio.MIDISource) string {
	notes := src.NotesOn()
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	channel := strconv.Itoa(src.Channel())
	if src.Channel() < 0 {
		channel = "all"
	}
	status := fmt.Sprintf("track %d, channel %s, at %v", src.Track(), channel, src.Position())
	if src.Done() {
		status += ", done"
	}
	playing := dimStyle.Render("silent")
	if len(names) > 0 {
		playing = activeStyle.Render(strings.Join(names, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(status), playing)
}
