package mailbox

import (
	"fmt"
	"strings"
	"time"
)

const (
	// fileStampLayout is the second-resolution timestamp embedded in message
	// identifiers. Two deposits from the same sender within the same second
	// produce the same identifier and the later one wins.
	fileStampLayout = "20060102_150405"

	// displayLayout is the human-readable timestamp written into the stored
	// record and echoed in push notifications.
	displayLayout = "02/01/2006 15:04:05"

	// WelcomeID is the identifier of the message seeded into every freshly
	// registered mailbox.
	WelcomeID = "welcome_message.txt"
)

// MessageID builds the identifier for a deposit: from_<sender>_<stamp>.txt.
func MessageID(sender string, at time.Time) string {
	return fmt.Sprintf("from_%s_%s.txt", sender, at.Format(fileStampLayout))
}

// DisplayTime renders the timestamp the way stored records and push
// notifications show it.
func DisplayTime(at time.Time) string {
	return at.Format(displayLayout)
}

// FormatMessage renders the stored record. The subject line is omitted when
// empty, which keeps records written by early-variant clients readable.
func FormatMessage(sender, senderAddr, subject, body string, at time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s (%s)\n", sender, senderAddr)
	fmt.Fprintf(&sb, "Date: %s\n", DisplayTime(at))
	if subject != "" {
		fmt.Fprintf(&sb, "Subject: %s\n", subject)
	}
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String()
}
