package contacts

import "github.com/neboloop/maclink/internal/applescript"

// Scripts return tab/linefeed-delimited text rather than AppleScript lists:
// osascript flattens lists into comma-joined output, which is ambiguous for
// names containing commas.

// enumerateScript lists up to max people with at least one phone number, one
// per line as "name<TAB>num;num;...".
func enumerateScript(max int) string {
	return applescript.NewScript().
		Line("set maxCount to %d", max).
		Raw(`set out to ""`).
		Raw(`tell application "Contacts"`).
		Raw(`	set peopleList to people`).
		Raw(`	set n to count of peopleList`).
		Raw(`	if n > maxCount then set n to maxCount`).
		Raw(`	repeat with i from 1 to n`).
		Raw(`		set p to item i of peopleList`).
		Raw(`		set nums to ""`).
		Raw(`		repeat with ph in phones of p`).
		Raw(`			if nums is "" then`).
		Raw(`				set nums to value of ph`).
		Raw(`			else`).
		Raw(`				set nums to nums & ";" & value of ph`).
		Raw(`			end if`).
		Raw(`		end repeat`).
		Raw(`		if nums is not "" then`).
		Raw(`			set out to out & name of p & tab & nums & linefeed`).
		Raw(`		end if`).
		Raw(`	end repeat`).
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// exactSearchScript finds people whose full display name matches exactly.
// Same line format as enumerateScript.
func exactSearchScript(name string) string {
	return applescript.NewScript().
		Line(`set queryName to "%s"`, name).
		Raw(`set out to ""`).
		Raw(`tell application "Contacts"`).
		Raw(`	set matches to people whose name is queryName`).
		Raw(`	repeat with p in matches`).
		Raw(`		set nums to ""`).
		Raw(`		repeat with ph in phones of p`).
		Raw(`			if nums is "" then`).
		Raw(`				set nums to value of ph`).
		Raw(`			else`).
		Raw(`				set nums to nums & ";" & value of ph`).
		Raw(`			end if`).
		Raw(`		end repeat`).
		Raw(`		set out to out & name of p & tab & nums & linefeed`).
		Raw(`	end repeat`).
		Raw(`end tell`).
		Raw(`return out`).
		String()
}

// pingScript is the cheapest request that still exercises the automation
// permission: the loader uses it to verify Contacts access.
func pingScript() string {
	return applescript.NewScript().
		Raw(`tell application "Contacts"`).
		Raw(`	return count of people`).
		Raw(`end tell`).
		String()
}
