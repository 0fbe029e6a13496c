package notify

import (
	"fmt"
	"strings"

	"hotpicks/internal/lines"
	"hotpicks/pkg/email"
)

// Subject is the subject line of every predictions email.
const Subject = "Your EuroMillions Predictions"

// Message is a rendered plain-text email.
type Message struct {
	Subject string
	Body    string
}

// Compose renders the predictions email for recipient.
func Compose(recipient string, batch []lines.Line) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", email.GreetingName(recipient))
	b.WriteString("Here are your EuroMillions predictions:\n\n")
	for i, line := range batch {
		fmt.Fprintf(&b, "Line %d: Main Balls: %s | Lucky Stars: %s\n",
			i+1, lines.FormatNumbers(line.Main), lines.FormatNumbers(line.Bonus))
	}
	b.WriteString("\nGood luck!\n")
	return Message{Subject: Subject, Body: b.String()}
}
