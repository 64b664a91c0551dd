package preferences

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"oneline/internal/core/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	colorScheme string
	onSave      func(Settings, string)
	lineWidth   *widget.Slider
	widthLabel  *widget.Label
	junctions   *widget.Check
	colorEntry  *widget.Entry
	easeEntry   *widget.Entry
	dayCheck    *widget.Entry
	verbose     *widget.Check
	errorLabel  *widget.Label
}

// New creates a preferences window. onSave receives the edited settings and
// the line colour.
func New(app fyne.App, settings Settings, colorScheme string, onSave func(Settings, string)) *Window {
	window := app.NewWindow("One Line Settings")

	lineWidth := widget.NewSlider(1, 12)
	lineWidth.Step = 0.5
	widthLabel := widget.NewLabel("")
	lineWidth.OnChanged = func(value float64) {
		widthLabel.SetText(fmt.Sprintf("%.1f px", value))
	}

	junctions := widget.NewCheck("Show a dot where each day begins", nil)
	colorEntry := widget.NewEntry()
	colorEntry.SetPlaceHolder("#3B82F6")
	easeEntry := widget.NewEntry()
	dayCheck := widget.NewEntry()
	verbose := widget.NewCheck("Verbose logging (applies on restart)", nil)

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance

	pickButton := widget.NewButton("Pick...", func() {
		picker := dialog.NewColorPicker("Line colour", "Choose the colour of the line", func(picked color.Color) {
			colorEntry.SetText(hexColor(picked))
		}, window)
		picker.Advanced = true
		picker.Show()
	})

	form := container.NewVBox(
		widget.NewLabelWithStyle("Line", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Width"), widthLabel, lineWidth),
		container.NewBorder(nil, nil, widget.NewLabel("Colour"), pickButton, colorEntry),
		junctions,
		widget.NewLabelWithStyle("Behaviour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Zoom easing"), easeEntry, widget.NewLabel("ms")),
		container.NewHBox(widget.NewLabel("Check for a new day every"), dayCheck, widget.NewLabel("sec")),
		verbose,
		errorLabel,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(440, 380))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		lineWidth:  lineWidth,
		widthLabel: widthLabel,
		junctions:  junctions,
		colorEntry: colorEntry,
		easeEntry:  easeEntry,
		dayCheck:   dayCheck,
		verbose:    verbose,
		errorLabel: errorLabel,
	}
	prefs.UpdateSettings(settings, colorScheme)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings, prefs.colorScheme)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings, colorScheme string) {
	prefs.settings = settings
	prefs.colorScheme = colorScheme
	prefs.lineWidth.SetValue(settings.LineWidth)
	prefs.widthLabel.SetText(fmt.Sprintf("%.1f px", settings.LineWidth))
	prefs.junctions.SetChecked(settings.ShowJunctions)
	prefs.colorEntry.SetText(colorScheme)
	prefs.easeEntry.SetText(strconv.Itoa(int(settings.Ease / time.Millisecond)))
	prefs.dayCheck.SetText(strconv.Itoa(int(settings.DayCheckInterval / time.Second)))
	prefs.verbose.SetChecked(settings.VerboseLogging)
	prefs.errorLabel.SetText("")
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	colorScheme := strings.TrimSpace(prefs.colorEntry.Text)
	if _, err := scene.ParseHex(colorScheme); err != nil {
		prefs.errorLabel.SetText("Colour must look like #3B82F6")
		return
	}
	if !strings.HasPrefix(colorScheme, "#") {
		colorScheme = "#" + colorScheme
	}

	settings.LineWidth = prefs.lineWidth.Value
	settings.ShowJunctions = prefs.junctions.Checked
	if millis, ok := parsePositiveInt(prefs.easeEntry.Text); ok && millis <= 1000 {
		settings.Ease = time.Duration(millis) * time.Millisecond
	}
	if seconds, ok := parsePositiveInt(prefs.dayCheck.Text); ok {
		settings.DayCheckInterval = time.Duration(seconds) * time.Second
	}
	settings.VerboseLogging = prefs.verbose.Checked

	prefs.settings = settings
	prefs.colorScheme = colorScheme
	prefs.errorLabel.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(settings, colorScheme)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func hexColor(value color.Color) string {
	nrgba := color.NRGBAModel.Convert(value).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", nrgba.R, nrgba.G, nrgba.B)
}
