package messages

import "github.com/neboloop/maclink/internal/applescript"

// sendScript delivers a message through Messages.app, preferring iMessage and
// falling back to SMS when the recipient has no iMessage registration.
func sendScript(recipient, body string) string {
	return applescript.NewScript().
		Line(`set theRecipient to "%s"`, recipient).
		Line(`set theBody to "%s"`, body).
		Raw(`tell application "Messages"`).
		Raw(`	set targetService to 1st account whose service type = iMessage`).
		Raw(`	try`).
		Raw(`		set targetBuddy to participant theRecipient of targetService`).
		Raw(`		send theBody to targetBuddy`).
		Raw(`	on error`).
		Raw(`		set smsService to 1st account whose service type = SMS`).
		Raw(`		set targetBuddy to participant theRecipient of smsService`).
		Raw(`		send theBody to targetBuddy`).
		Raw(`	end try`).
		Raw(`end tell`).
		Raw(`return "sent"`).
		String()
}

// messagesPingScript exercises Messages automation access without sending
// anything.
func messagesPingScript() string {
	return applescript.NewScript().
		Raw(`tell application "Messages"`).
		Raw(`	return count of accounts`).
		Raw(`end tell`).
		String()
}
