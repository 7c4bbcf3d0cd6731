package usecase

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*
var templateFS embed.FS

var (
	otpHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/otp.html"))
	otpText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/otp.txt"))
)

const (
	defaultChurchName    = "Immaculate Conception Catholic Church"
	defaultChurchAddress = "123 Church Street, Your City, State 12345"
	otpSubjectPrefix     = "Verify Your Email - "
)

type otpEmailData struct {
	Church        string
	Address       string
	FirstName     string
	Code          string
	ExpiryMinutes int
}

// greetingName title-cases each word, so "mary ann" greets as "Mary Ann".
// A Caser keeps state between calls, so each call gets its own.
func greetingName(firstName string) string {
	return cases.Title(language.English).String(strings.TrimSpace(firstName))
}

func renderOTPEmail(data otpEmailData) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := otpHTML.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := otpText.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
