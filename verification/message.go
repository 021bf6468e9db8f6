package verification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jrsteele09/go-account-service/mail"
)

var htmlTemplate = template.Must(template.New("verify").Parse(
	`<p>Hi {{.Name}},</p>
<p>Thanks for signing up to {{.AppName}}. Please confirm your email address:</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>If you did not create this account you can ignore this message.</p>
`))

// NewMessage builds the verification email sent to a newly registered user.
func NewMessage(appName, name, email, link string) (mail.Message, error) {
	data := struct {
		AppName string
		Name    string
		Link    string
	}{appName, name, link}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to execute verification template: %w", err)
	}
	return mail.Message{
		To:      email,
		Subject: fmt.Sprintf("Verify your %s account", appName),
		Text:    fmt.Sprintf("Hi %s,\n\nPlease confirm your email address by opening this link:\n%s\n", name, link),
		HTML:    html.String(),
	}, nil
}
