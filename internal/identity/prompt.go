// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"bytes"
	"text/template"
)

// ExcerptRunes is the number of leading characters of the markdown sent to
// the model.
const ExcerptRunes = 2000

// namePromptTmpl asks the model for the document owner's name and nothing else.
var namePromptTmpl = template.Must(template.New("name").Parse(`Extract ONLY the full name of the person whose CV/resume is represented in the following markdown text.
Return ONLY the name, nothing else.

Markdown text:
{{.Excerpt}}
`))

// Excerpt returns the first ExcerptRunes characters of markdown. Shorter
// input is returned whole.
func Excerpt(markdown string) string {
	n := 0
	for i := range markdown {
		if n == ExcerptRunes {
			return markdown[:i]
		}
		n++
	}
	return markdown
}

// RenderPrompt executes the name prompt template over the excerpt of markdown.
func RenderPrompt(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := namePromptTmpl.Execute(&buf, struct{ Excerpt string }{Excerpt: Excerpt(markdown)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
