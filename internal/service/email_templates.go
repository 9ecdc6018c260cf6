package service

import (
	"fmt"
	"strconv"
)

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Set your first goal and start tracking your progress:
%s

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func goalCompletedEmailTemplate(name, goalType string, target float64, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("You reached your %s goal!", goalType)
	body := fmt.Sprintf(`Hi %s,

Congratulations, you hit your target of %s for %s.

See all your goals here:
%s

Best,
The %s Team`, name, strconv.FormatFloat(target, 'f', -1, 64), goalType, dashboardURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been permanently deleted from %s.

If you didn't request this deletion, please contact our support team immediately, though we won't be able to recover your account.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}
