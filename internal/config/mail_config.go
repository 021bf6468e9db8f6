package config

const (
	MailLog      = "log"
	MailSMTP     = "smtp"
	MailSendGrid = "sendgrid"
)

type Mail struct{}

var _ MailConfig = Mail{}

func (Mail) GetMailDriver() string {
	return GetEnv("MAIL_DRIVER", MailLog)
}

func (Mail) GetMailFrom() string {
	return GetEnv("MAIL_FROM", "no-reply@localhost")
}

func (Mail) GetSmtpHost() string {
	return GetEnv("SMTP_HOST", "smtp.gmail.com")
}

func (Mail) GetSmtpPort() int {
	return GetEnvAsInt("SMTP_PORT", 587)
}

func (Mail) GetSmtpAccount() string {
	return GetEnv("SMTP_ACCOUNT", "")
}

func (Mail) GetSmtpPassword() string {
	return GetEnv("SMTP_PASSWORD", "")
}

func (Mail) GetSendGridAPIKey() string {
	return GetEnv("SENDGRID_API_KEY", "")
}
