package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"time"

	"chatline/configs"
)

const otpTemplate = `
<!DOCTYPE html>
<html>
<body>
    <p>Hi {{.UserName}},</p>
    <p>Your verification code is:</p>
    <h2>{{.Code}}</h2>
    <p>It is valid for {{.Minutes}} minutes.</p>
    <p>If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>
`

type EmailService struct {
	config *configs.Config
}

func NewEmailService(config *configs.Config) *EmailService {
	return &EmailService{
		config: config,
	}
}

// SendOtpEmail mails the one-time passcode. When no SMTP host is configured
// the mail is printed to the log instead, which keeps local development free
// of mail credentials.
func (es *EmailService) SendOtpEmail(to, userName, code string, ttl time.Duration) error {
	t, err := template.New("otp").Parse(otpTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	data := map[string]any{
		"UserName": userName,
		"Code":     code,
		"Minutes":  int(ttl.Minutes()),
	}
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	host := es.config.Viper.GetString("smtp.host")
	from := es.config.Viper.GetString("smtp.from")
	subject := "Your verification code"

	if host == "" {
		log.Printf("MOCK EMAIL TO %s: %s (code %s)", to, subject, code)
		return nil
	}

	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body.String()

	auth := smtp.PlainAuth(
		"",
		es.config.Viper.GetString("smtp.username"),
		es.config.Viper.GetString("smtp.password"),
		host,
	)
	addr := fmt.Sprintf("%s:%s", host, es.config.Viper.GetString("smtp.port"))

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(message))
}
