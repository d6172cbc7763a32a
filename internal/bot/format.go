package bot

import (
	"fmt"
	"strings"

	"go-smartapply-bot/internal/models"
)

const (
	searchJobsButton   = "🔍 Search Jobs"
	analyzeAgainButton = "🔄 Analyze CV Again"

	maxSearchTitles     = 3
	maxListingsPerTitle = 5
)

// markdownEscaper backslash-escapes every character Telegram MarkdownV2 treats
// as formatting syntax.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func formatJobLink(url, label string) string {
	return fmt.Sprintf("[%s](%s)", EscapeMarkdown(label), EscapeMarkdown(url))
}

// formatJobsMessage renders one search result message for a single title.
func formatJobsMessage(title, location string, listings []models.JobListing) string {
	header := fmt.Sprintf("💼 Jobs for %s in %s:", EscapeMarkdown(title), EscapeMarkdown(location))
	return header + "\n\n" + formatListings(listings)
}

func formatListings(listings []models.JobListing) string {
	if len(listings) > maxListingsPerTitle {
		listings = listings[:maxListingsPerTitle]
	}

	lines := make([]string, 0, len(listings))
	for _, job := range listings {
		title := job.Title
		if title == "" {
			title = "Untitled Position"
		}
		company := job.Employer
		if company == "" {
			company = "Unknown Company"
		}
		link := job.ApplyLink
		if link == "" {
			link = "No application link available"
		}

		line := fmt.Sprintf("• %s at %s\n  ", EscapeMarkdown(title), EscapeMarkdown(company))
		if strings.HasPrefix(link, "http") {
			line += formatJobLink(link, "Apply Here")
		} else {
			line += link
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n\n")
}

func numberedList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func welcomeMessage(name string) string {
	return fmt.Sprintf(`👋 Hello %s, and welcome to Smart Apply Bot!

This bot helps you find the most relevant job opportunities based on your CV.
Here's what you can do:

%s

📄 To get started, please upload your CV (PDF or DOCX).`, name, commandList())
}

func commandList() string {
	return `/start - Start a new session
/upload_new_cv - Upload a new CV
/suggest_new_job_titles - Get AI-powered job title suggestions
/search_for_jobs - Discover job listings based on your profile
/update_location - Update your preferred job location
/help - Show this list`
}
