package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"narrtest/internal/config"
	"narrtest/internal/domain"
	"narrtest/internal/storage"
)

// maxTraceLines bounds the stack frames shown for one failure
const maxTraceLines = 10

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	config  *config.Config
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(cfg *config.Config, st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		config:  cfg,
		storage: st,
	}
}

// View displays test failures in an interactive TUI. R toggles the
// resolved mark of the selected failure and saves the record.
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()
	var saveErr error

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, failure := range results.Details {
		list.AddItem(listItemText(i, failure), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	// Location header above the details
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 2, 0, false).
		AddItem(detailsView, 0, 1, false)

	// List on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	updateHeader := func() {
		headerView.SetText(headerText(results.Details))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]
			statsView.SetText(formatFailureStats(failure))
			detailsView.SetText(formatFailureDetails(failure)).ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					results.Details[index].Resolved = !results.Details[index].Resolved
					list.SetItemText(index, listItemText(index, results.Details[index]), "")
					updateHeader()
					updateDetails()
					if err := ev.storage.SaveOutput(results); err != nil {
						saveErr = err
						app.Stop()
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

func headerText(details []domain.TestFailure) string {
	unresolved := 0
	for _, d := range details {
		if !d.Resolved {
			unresolved++
		}
	}
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ", len(details), unresolved)
}

// listItemText is the list entry of a failure, using tview color tags
func listItemText(index int, failure domain.TestFailure) string {
	label := tview.Escape(fmt.Sprintf("%s:%d", failure.File, failure.Line))
	kind := "[red]" + failure.Kind
	if failure.Kind == domain.KindError {
		kind = "[yellow]" + failure.Kind
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ %d. %s %s[white]", index+1, label, failure.Kind)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s %s[white]", index+1, label, kind)
}

// formatFailureStats formats the location header of a failure
func formatFailureStats(failure domain.TestFailure) string {
	status := "[red]unresolved[white]"
	if failure.Resolved {
		status = "[green]resolved[white]"
	}
	return fmt.Sprintf("[cyan]file:[white] [yellow]%s[white]  [cyan]line:[white] [yellow]%d[white]  %s\n",
		tview.Escape(failure.File), failure.Line, status)
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder
	section := func(title, body string) {
		fmt.Fprintf(&b, "[yellow]%s:[white]\n", title)
		body = strings.TrimRight(body, "\n")
		if body != "" {
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(&b, "    %s\n", tview.Escape(line))
			}
		}
		b.WriteString("\n")
	}

	if failure.Kind == domain.KindError {
		b.WriteString("[red]✗ Broken test case[white]\n\n")
		section("Message", failure.Message)
		return b.String()
	}

	b.WriteString("[red]✗ Test failed[white]\n\n")
	section("Code", failure.Code)
	section("Expected output", failure.Expected)
	section("Actual output", failure.Actual)
	if len(failure.Trace) > 0 {
		b.WriteString("[yellow]Stack Trace:[white]\n")
		for i, frame := range failure.Trace {
			if i == maxTraceLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(failure.Trace)-maxTraceLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(frame))
		}
	}
	return b.String()
}
