package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	tmplNotification   = "notification.html"
	tmplDeadlineDigest = "deadline_digest.html"
)

// views holds each body template already combined with the shared layout.
var views = map[string]*template.Template{
	tmplNotification:   mustView(tmplNotification),
	tmplDeadlineDigest: mustView(tmplDeadlineDigest),
}

func mustView(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+name))
}

// frame is the layout every mail shares.
type frame struct {
	Title       string
	Heading     string
	Intro       string
	ActionLabel string
	ActionURL   string
}

type notificationView struct {
	frame
	Message string
}

type digestView struct {
	frame
	RecipientName string
	Items         []DeadlineItem
}

// rendered is one mail body in both MIME alternatives.
type rendered struct {
	HTML string
	Text string
}

func renderView(name string, data any) (string, error) {
	view, ok := views[name]
	if !ok {
		return "", fmt.Errorf("email view %s not registered", name)
	}
	var buf bytes.Buffer
	if err := view.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("render email view %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderNotification(title, message, actionURL string) (rendered, error) {
	v := notificationView{frame: frame{Title: title, Heading: title}, Message: message}
	if actionURL != "" {
		v.ActionLabel = "Open in RAF Case Management"
		v.ActionURL = actionURL
	}
	html, err := renderView(tmplNotification, v)
	if err != nil {
		return rendered{}, err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n%s\n", title, message)
	if actionURL != "" {
		fmt.Fprintf(&text, "\n%s\n", actionURL)
	}
	return rendered{HTML: html, Text: text.String()}, nil
}

func renderDeadlineDigest(recipientName string, items []DeadlineItem) (rendered, error) {
	html, err := renderView(tmplDeadlineDigest, digestView{
		frame: frame{
			Title:   digestSubject,
			Heading: "Deadlines approaching",
			Intro:   fmt.Sprintf("%d case deadline(s) need attention", len(items)),
		},
		RecipientName: recipientName,
		Items:         items,
	})
	if err != nil {
		return rendered{}, err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\nThe following deadlines on your team's cases are approaching:\n\n", recipientName)
	for _, it := range items {
		fmt.Fprintf(&text, "- %s: %s on %s (%d days)\n", it.CaseNumber, it.Deadline, it.Date, it.DaysRemaining)
	}
	return rendered{HTML: html, Text: text.String()}, nil
}
