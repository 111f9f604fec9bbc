package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names understood by the email worker.
const (
	VerificationCode     = "verification_code"
	AdminNewRegistration = "admin_new_registration"
	RegistrationDecision = "registration_decision"
	PasswordReset        = "password_reset"
)

var subjects = map[string]string{
	VerificationCode:     "Your verification code",
	AdminNewRegistration: "New registration awaiting review",
	RegistrationDecision: "Your registration has been reviewed",
	PasswordReset:        "Reset your password",
}

// Subject returns the subject line for a template name.
func Subject(name string) string {
	if s, ok := subjects[name]; ok {
		return s
	}
	return "Notification"
}

// Render renders the text and HTML bodies for the named template.
func Render(name string, data map[string]any) (subject string, text string, html string, err error) {
	subject = Subject(name)

	tt, err := texttpl.ParseFS(FS, name+".txt.tmpl")
	if err != nil {
		return "", "", "", fmt.Errorf("parse %s.txt.tmpl: %w", name, err)
	}
	var tb bytes.Buffer
	if err = tt.Execute(&tb, data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}

	ht, err := htmpl.ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return "", "", "", fmt.Errorf("parse %s.html.tmpl: %w", name, err)
	}
	var hb bytes.Buffer
	if err = ht.Execute(&hb, data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}

	return subject, tb.String(), hb.String(), nil
}
