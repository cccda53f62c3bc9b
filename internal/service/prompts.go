package service

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"lifelens/internal/config"
	"lifelens/internal/model"
)

//go:embed prompts/*.tmpl
var embeddedPrompts embed.FS

const (
	freePromptFile         = "free.tmpl"
	premiumJSONPromptFile  = "premium_json.tmpl"
	premiumProsePromptFile = "premium_prose.tmpl"
)

type promptSection struct {
	Key   model.SectionKey
	Title string
}

// promptData is what the templates see.
type promptData struct {
	model.UserInput
	Challenge     string
	Areas         string
	Sections      []promptSection
	SectionTitles string
}

// PromptBuilder renders the free and premium prompts.
type PromptBuilder struct {
	style   string
	free    *template.Template
	premium *template.Template
}

// NewPromptBuilder loads templates from dir, or the embedded set when dir is
// empty. style selects the premium variant.
func NewPromptBuilder(dir, style string) (*PromptBuilder, error) {
	var source fs.FS
	if dir != "" {
		source = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embeddedPrompts, "prompts")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded prompts: %w", err)
		}
		source = sub
	}

	premiumFile := premiumJSONPromptFile
	switch style {
	case config.PromptStyleJSON, "":
		style = config.PromptStyleJSON
	case config.PromptStyleProse:
		premiumFile = premiumProsePromptFile
	default:
		return nil, fmt.Errorf("unknown prompt style %q", style)
	}

	free, err := template.ParseFS(source, freePromptFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt %s: %w", freePromptFile, err)
	}
	premium, err := template.ParseFS(source, premiumFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt %s: %w", premiumFile, err)
	}
	return &PromptBuilder{style: style, free: free, premium: premium}, nil
}

// Style returns the premium prompt variant in use.
func (b *PromptBuilder) Style() string {
	return b.style
}

// WantsJSON reports whether the premium prompt asks for a JSON object.
func (b *PromptBuilder) WantsJSON() bool {
	return b.style == config.PromptStyleJSON
}

// Build renders the prompt for input.
func (b *PromptBuilder) Build(input model.UserInput, premium bool) (string, error) {
	tmpl := b.free
	if premium {
		tmpl = b.premium
	}

	data := promptData{
		UserInput: input,
		Challenge: strings.TrimSpace(input.Challenge),
		Areas:     strings.Join(input.AreaOfFocus, ", "),
	}
	if data.Challenge == "" {
		data.Challenge = "None"
	}
	titles := make([]string, 0, len(model.SectionOrder))
	for _, key := range model.SectionOrder {
		data.Sections = append(data.Sections, promptSection{Key: key, Title: key.Title()})
		titles = append(titles, key.Title())
	}
	data.SectionTitles = strings.Join(titles, ", ")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
