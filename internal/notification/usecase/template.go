package usecase

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	welcomeHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/welcome.html"))
	welcomeText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/welcome.txt"))
)

const (
	defaultChurchName    = "Immaculate Conception Catholic Church"
	defaultChurchAddress = "123 Church Street, Your City, State 12345"
	welcomeSubjectPrefix = "Welcome to "
)

type welcomeEmailData struct {
	Church    string
	Address   string
	FirstName string
	Email     string
}

func renderWelcomeEmail(data welcomeEmailData) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := welcomeHTML.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := welcomeText.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
