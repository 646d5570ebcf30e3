package utils

import (
	"bytes"
	"context"
	"errors"
	"text/template"

	brevo "github.com/sendinblue/APIv3-go-library/v2/lib"
)

const welcomeTemplate = `<html>
<body>
	<h2>Welcome to Storefront, {{.Name}}!</h2>
	<p>Your shop account for {{.Email}} is ready. Log in to add your first products.</p>
</body>
</html>`

// SendRegisterNotification sends the welcome email for a freshly
// registered shop. Callers treat failures as non-fatal.
func SendRegisterNotification(apiKey, email, name string) error {
	if apiKey == "" {
		return errors.New("brevo API key not configured")
	}

	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	client := brevo.NewAPIClient(cfg)

	tmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, map[string]string{"Name": name, "Email": email}); err != nil {
		return err
	}

	emailRequest := &brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  "Storefront Team",
			Email: "no-reply@storefront.example",
		},
		To: []brevo.SendSmtpEmailTo{
			{Name: name, Email: email},
		},
		Subject:     "Welcome to Storefront!",
		HtmlContent: body.String(),
	}

	_, _, err = client.TransactionalEmailsApi.SendTransacEmail(context.Background(), *emailRequest)
	return err
}
