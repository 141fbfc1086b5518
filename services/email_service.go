// File: /services/email_service.go
package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"fitpulse-api/config"
	"fitpulse-api/models"
)

// EmailService sends transactional mail. Every send here is best-effort:
// failures are logged and never propagated to the operation that triggered
// them.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(email, name string) {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #28a745; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🏃 FitPulse</h1>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>Welcome to FitPulse. Lace up, start a session and your activities will show up here.</p>
        </div>
        <div class="footer">
            <p>FitPulse - track every stride</p>
        </div>
    </div>
</body>
</html>`, name)

	es.send(email, "Welcome to FitPulse", htmlBody)
}

// ChallengeCompleted congratulates a user on finishing a challenge.
// Implements CompletionNotifier.
func (es *EmailService) ChallengeCompleted(user *models.User, challenge *models.Challenge) {
	if user == nil || challenge == nil {
		return
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Challenge Completed</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #007bff; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .badge { background: #e9ecef; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0; font-size: 24px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🏃 FitPulse</h1>
            <p>Challenge Completed</p>
        </div>
        <div class="content">
            <h2>Congratulations %s!</h2>
            <div class="badge">🏅 %s</div>
            <p>You reached the goal of %.0f (%s). Great work!</p>
        </div>
        <div class="footer">
            <p>FitPulse - track every stride</p>
        </div>
    </div>
</body>
</html>`, user.Name, challenge.Title, challenge.Goal, challenge.Type)

	es.send(user.Email, fmt.Sprintf("FitPulse - You completed %q", challenge.Title), htmlBody)
}

func (es *EmailService) send(to, subject, htmlBody string) {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	go func() {
		if err := es.dialer.DialAndSend(m); err != nil {
			log.Printf("Failed to send email %q to %s: %v", subject, to, err)
		}
	}()
}
