package service

import (
	"fmt"
	"strings"
)

const defaultCaregiverMessage = "I could use a little help remembering to drink water today."

// caregiverAlertTemplate returns the subject and a Markdown body, which is
// sent as the text part and rendered for the HTML part.
func caregiverAlertTemplate(name, message, appName string) (string, string) {
	if name == "" {
		name = "there"
	}
	if message == "" {
		message = defaultCaregiverMessage
	}

	subject := fmt.Sprintf("A hydration check-in from %s", appName)
	body := fmt.Sprintf(`Hi %s,

Someone you care for is using %s to keep track of their water and asked us to reach out:

%s

A friendly reminder or a glass of water goes a long way.

Best,
The %s Team`, name, appName, quote(message), appName)

	return subject, body
}

func quote(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = "> " + strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}
