package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"llmstxt-go/pkg/api"
)

const systemPrompt = `You are an expert at generating llms.txt files. Generate a well-structured llms.txt file following the exact format specified. Use markdown-style formatting with titles, descriptions, sections, and bullet points.`

const userPromptFmt = `Generate an llms.txt file for the domain %s based on these level 1 pages:

%s
%s

IMPORTANT: Follow this exact format:

# Title

> Optional description goes here

Optional details go here

## Section name

- [Link title](https://link_url): Optional link details

Requirements:
1. Start with a # Title (the main title for the website)
2. Add an optional description using > quote format
3. Add optional details as plain text
4. Create sections using ## Section name
5. List links using - [Link title](url): Optional details format
6. Group related pages into logical sections
7. Use descriptive link titles based on the URL path
8. Keep it concise but informative

Generate only the llms.txt content in the exact format above, no markdown code blocks or explanations.`

var codeFencePattern = regexp.MustCompile("```(?:txt|llms-txt)?\n?")

// BuildPrompt lists at most limit URLs and notes how many were left out.
func BuildPrompt(urls []string, domain string, limit int) api.Prompt {
	shown := urls
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	more := ""
	if len(urls) > len(shown) {
		more = fmt.Sprintf("\n... and %d more pages", len(urls)-len(shown))
	}

	return api.Prompt{
		System: systemPrompt,
		User:   fmt.Sprintf(userPromptFmt, domain, strings.Join(shown, "\n"), more),
	}
}

// StripCodeFences removes markdown fences a model may wrap its answer in.
func StripCodeFences(s string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(s, ""))
}
