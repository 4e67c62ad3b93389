package reminders

import (
	"time"

	"github.com/neboloop/maclink/internal/applescript"
)

// Reminder rows cross the bridge as unit-separator-delimited fields with
// record-separator line breaks, so free-text notes cannot corrupt the
// framing.
const (
	fieldSepDecl = `set fieldSep to character id 31`
	recSepDecl   = `set recSep to character id 30`
)

// emitReminder appends one encoded reminder row to `out`. Expects `r` and
// the separators to be in scope.
func emitReminder(s *applescript.Script) {
	s.Raw(`		set dueText to ""`).
		Raw(`		if due date of r is not missing value then set dueText to (due date of r) as «class isot» as string`).
		Raw(`		set noteText to ""`).
		Raw(`		if body of r is not missing value then set noteText to body of r`).
		Raw(`		set doneText to "false"`).
		Raw(`		if completed of r then set doneText to "true"`).
		Raw(`		set out to out & (name of l) & fieldSep & (name of r) & fieldSep & (id of r) & fieldSep & dueText & fieldSep & doneText & fieldSep & noteText & recSep`)
}

// listsScript returns one line per list as "name<US>id".
func listsScript() string {
	return applescript.NewScript().
		Raw(fieldSepDecl).
		Raw(recSepDecl).
		Raw(`set out to ""`).
		Raw(`tell application "Reminders"`).
		Raw(`	repeat with l in lists`).
		Raw(`		set out to out & (name of l) & fieldSep & (id of l) & recSep`).
		Raw(`	end repeat`).
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// allRemindersScript returns every incomplete reminder across all lists.
func allRemindersScript() string {
	s := applescript.NewScript().
		Raw(fieldSepDecl).
		Raw(recSepDecl).
		Raw(`set out to ""`).
		Raw(`tell application "Reminders"`).
		Raw(`	repeat with l in lists`).
		Raw(`		repeat with r in (reminders of l whose completed is false)`)
	emitReminder(s)
	return s.
		Raw(`		end repeat`).
		Raw(`	end repeat`).
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// searchScript returns reminders whose name contains the query, completed or
// not.
func searchScript(query string) string {
	s := applescript.NewScript().
		Raw(fieldSepDecl).
		Raw(recSepDecl).
		Line(`set queryText to "%s"`, query).
		Raw(`set out to ""`).
		Raw(`tell application "Reminders"`).
		Raw(`	repeat with l in lists`).
		Raw(`		repeat with r in (reminders of l whose name contains queryText)`)
	emitReminder(s)
	return s.
		Raw(`		end repeat`).
		Raw(`	end repeat`).
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// listByIDScript returns reminders belonging to the list with the given id.
func listByIDScript(listID string) string {
	s := applescript.NewScript().
		Raw(fieldSepDecl).
		Raw(recSepDecl).
		Line(`set listID to "%s"`, listID).
		Raw(`set out to ""`).
		Raw(`tell application "Reminders"`).
		Raw(`	set l to first list whose id is listID`).
		Raw(`	repeat with r in reminders of l`)
	emitReminder(s)
	return s.
		Raw(`	end repeat`).
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// createScript makes a new reminder and returns its encoded row. The due
// date is set component by component: AppleScript date literals parse
// locale-dependently.
func createScript(name, list, notes string, due *time.Time) string {
	s := applescript.NewScript().
		Raw(fieldSepDecl).
		Raw(recSepDecl).
		Line(`set newName to "%s"`, name).
		Line(`set listName to "%s"`, list)
	if notes != "" {
		s.Line(`set noteBody to "%s"`, notes)
	}
	if due != nil {
		d := due.Local()
		s.Raw(`set dueDate to current date`).
			Line(`set year of dueDate to %d`, d.Year()).
			Line(`set month of dueDate to %d`, int(d.Month())).
			Line(`set day of dueDate to %d`, d.Day()).
			Line(`set hours of dueDate to %d`, d.Hour()).
			Line(`set minutes of dueDate to %d`, d.Minute()).
			Raw(`set seconds of dueDate to 0`)
	}

	s.Raw(`tell application "Reminders"`).
		Raw(`	set l to list listName`)
	props := `{name:newName`
	if notes != "" {
		props += `, body:noteBody`
	}
	if due != nil {
		props += `, due date:dueDate`
	}
	props += `}`
	s.Raw(`	set r to make new reminder at end of reminders of l with properties ` + props).
		Raw(`	set out to ""`)
	emitReminder(s)
	return s.
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// openScript brings Reminders.app to the foreground on the list holding the
// matched reminder.
func openScript(listName string) string {
	return applescript.NewScript().
		Line(`set listName to "%s"`, listName).
		Raw(`tell application "Reminders"`).
		Raw(`	activate`).
		Raw(`	show list listName`).
		Raw(`end tell`).
		Raw(`return "opened"`).
		String()
}

// pingScript is the loader's access probe.
func pingScript() string {
	return applescript.NewScript().
		Raw(`tell application "Reminders"`).
		Raw(`	return count of lists`).
		Raw(`end tell`).
		String()
}
