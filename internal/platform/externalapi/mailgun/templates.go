package mailgun

import (
	"fmt"

	"ecommerce_backend/internal/feature/auth/usecase"
)

type message struct {
	Subject string
	Text    string
}

// render はテンプレート種別ごとに件名と本文を組み立てます。
func render(n usecase.Notification) (message, error) {
	switch n.Kind {
	case usecase.TemplateSignup:
		text := fmt.Sprintf("Hi %s! Thank you for creating an account with us!", n.FirstName)
		return message{Subject: "Account Registration", Text: text}, nil
	case usecase.TemplateReset:
		text := "You are receiving this because you have requested to reset your password for your account.\n\n" +
			"Please click on the following link, or paste this into your browser to complete the process:\n\n" +
			fmt.Sprintf("http://%s/reset-password/%s\n\n", n.Host, n.Token) +
			"If you did not request this, please ignore this email and your password will remain unchanged.\n"
		return message{Subject: "Reset Password", Text: text}, nil
	case usecase.TemplateResetConfirmation:
		text := "You are receiving this email because you changed your password.\n\n" +
			"If you did not request this change, please contact us immediately."
		return message{Subject: "Password Changed", Text: text}, nil
	default:
		return message{}, fmt.Errorf("mailgun: unknown template %q", n.Kind)
	}
}
