package mailer

import (
	"fmt"
	"log"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendResetPassword emails the password recovery link. The body is rendered
// with hermes and delivered through sendgrid.
func SendResetPassword(toEmail, token string) error {
	appEnv := os.Getenv("APP_ENV")
	resetBase := os.Getenv("RESET_PASSWORD_URL")
	if resetBase == "" {
		resetBase = "http://localhost:3000/password/reset"
	}
	resetLink := fmt.Sprintf("%s?token=%s", resetBase, token)

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: "Postline",
			Link: os.Getenv("APP_URL"),
		},
	}

	email := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"You have received this email because a password reset request was made for your account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password:",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  resetLink,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
		},
	}

	emailBody, err := h.GenerateHTML(email)
	if err != nil {
		return err
	}

	// Outside production we just log the link instead of sending mail.
	if appEnv != "production" && os.Getenv("SENDGRID_API_KEY") == "" {
		log.Printf("password reset link for %s: %s", toEmail, resetLink)
		return nil
	}

	from := mail.NewEmail("Postline", os.Getenv("SENDGRID_FROM"))
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, "Reset your password", to, emailBody, emailBody)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))

	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d", response.StatusCode)
	}
	return nil
}
