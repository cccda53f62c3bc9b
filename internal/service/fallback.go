package service

import (
	"fmt"
	"strings"

	"lifelens/internal/model"
)

const (
	fallbackPremiumSuffix = "Detailed strategies include..."
	fallbackFreeSuffix    = "Consider a premium report for deeper insights."
)

// FallbackContent is the deterministic report text used when generation is
// unavailable. It depends only on input and premium.
func FallbackContent(input model.UserInput, premium bool) string {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Friend"
	}
	areas := strings.Join(input.AreaOfFocus, ", ")
	if strings.TrimSpace(areas) == "" {
		areas = "your chosen areas"
	}
	suffix := fallbackFreeSuffix
	if premium {
		suffix = fallbackPremiumSuffix
	}
	return fmt.Sprintf("%s, your life path is shaped by your %s personality and %s mood. Focus on %s by setting clear goals in %s. %s",
		name,
		orDefault(input.PersonalityWord, "unique"),
		orDefault(input.CurrentMood, "current"),
		orDefault(input.BiggestGoal, "your goals"),
		areas,
		suffix,
	)
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
