// Package ui renders the weather state streams in the terminal.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakhrymubarak/weather-forecast/internal/presentation"
)

const (
	noData         = "No weather data"
	refreshTimeout = 30 * time.Second
)

// Holder is the part of presentation.StateHolder the view depends on.
type Holder interface {
	CurrentWeather() <-chan presentation.CurrentWeatherState
	Forecast() <-chan presentation.ForecastState
	Refresh(ctx context.Context) error
	PinCurrent(ctx context.Context) error
	Clear()
}

type currentMsg struct {
	state presentation.CurrentWeatherState
}

type forecastMsg struct {
	state presentation.ForecastState
}

type refreshDoneMsg struct {
	err error
}

type pinnedMsg struct {
	err error
}

// streamClosedMsg is sent once a state stream has been closed.
type streamClosedMsg struct{}

// Model is the Bubbletea model for the weather screen.
type Model struct {
	holder   Holder
	spinner  spinner.Model
	current  presentation.CurrentWeatherState
	forecast presentation.ForecastState
	status   string
	err      error
	quitting bool
}

func NewModel(holder Holder) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		holder:   holder,
		spinner:  s,
		current:  presentation.CurrentLoading{},
		forecast: presentation.ForecastLoading{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitCurrent(m.holder.CurrentWeather()),
		waitForecast(m.holder.Forecast()),
		m.refresh,
	)
}

func waitCurrent(ch <-chan presentation.CurrentWeatherState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return currentMsg{state: s}
	}
}

func waitForecast(ch <-chan presentation.ForecastState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return forecastMsg{state: s}
	}
}

func (m Model) refresh() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	return refreshDoneMsg{err: m.holder.Refresh(ctx)}
}

func (m Model) pin() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	return pinnedMsg{err: m.holder.PinCurrent(ctx)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "r":
			m.status = "Refreshing..."

			return m, m.refresh

		case "f":
			return m, m.pin

		case "c":
			m.holder.Clear()

			return m, nil
		}

	case currentMsg:
		m.current = msg.state

		return m, waitCurrent(m.holder.CurrentWeather())

	case forecastMsg:
		m.forecast = msg.state

		return m, waitForecast(m.holder.Forecast())

	case refreshDoneMsg:
		m.err = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = "Updated " + time.Now().Format("15:04:05")
		}

		return m, nil

	case pinnedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Saved to favourites"
		}

		return m, nil

	case streamClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Current weather"))
	b.WriteString("\n")
	b.WriteString(m.currentView())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Forecast"))
	b.WriteString("\n")
	b.WriteString(m.forecastView())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("r: refresh • f: save to favourites • c: clear • q: quit"))

	return docStyle.Render(b.String())
}

func (m Model) currentView() string {
	switch s := m.current.(type) {
	case presentation.CurrentLoading:
		return m.spinner.View() + " Loading current weather"
	case presentation.CurrentSuccess:
		w := s.Weather
		primary := w.PrimaryWeather()
		name := w.Name
		if name == "" {
			name = fmt.Sprintf("%.4f, %.4f", w.Coord.Lat, w.Coord.Lon)
		}
		return fmt.Sprintf("%s  %s  %s\n%s",
			name,
			tempStyle.Render(presentation.ConvertKelvinToCelsius(w.MainInfo.Temp)),
			primary.Description,
			mutedStyle.Render(fmt.Sprintf("min %s  max %s",
				presentation.ConvertKelvinToCelsius(w.MainInfo.TempMin),
				presentation.ConvertKelvinToCelsius(w.MainInfo.TempMax))),
		)
	default:
		// Empty, Failure and Cleared all render the same.
		return mutedStyle.Render(noData)
	}
}

func (m Model) forecastView() string {
	switch s := m.forecast.(type) {
	case presentation.ForecastLoading:
		return m.spinner.View() + " Loading forecast"
	case presentation.ForecastSuccess:
		days := presentation.DistinctByDay(s.Forecast)
		lines := make([]string, 0, len(days))
		for _, d := range days {
			lines = append(lines, fmt.Sprintf("%s %s  %s",
				dayStyle.Render(d.DayOfTheWeek),
				tempStyle.Render(presentation.ConvertKelvinToCelsius(d.Temp)),
				d.WeatherTypeDescription))
		}
		return strings.Join(lines, "\n")
	default:
		return mutedStyle.Render(noData)
	}
}

// Run starts the program in the alternate screen and blocks until the user quits.
func Run(holder Holder) error {
	_, err := tea.NewProgram(NewModel(holder), tea.WithAltScreen()).Run()
	return err
}
