package service

import "fmt"

func reminderEmailTemplate(title, body, appName string) (string, string) {
	subject := fmt.Sprintf("%s: %s", appName, title)
	text := fmt.Sprintf(`%s

%s

You are getting this because reminders are turned on in %s.`, title, body, appName)

	return subject, text
}
