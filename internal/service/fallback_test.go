package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifelens/internal/model"
	"lifelens/internal/service"
)

func TestFallbackContent(t *testing.T) {
	input := avaInput()
	input.AreaOfFocus = []string{"Career", "Travel"}

	assert.Equal(t,
		"Ava, your life path is shaped by your curious personality and Hopeful mood. Focus on Career Success by setting clear goals in Career, Travel. Consider a premium report for deeper insights.",
		service.FallbackContent(input, false),
	)
	assert.Equal(t,
		"Ava, your life path is shaped by your curious personality and Hopeful mood. Focus on Career Success by setting clear goals in Career, Travel. Detailed strategies include...",
		service.FallbackContent(input, true),
	)
}

func TestFallbackContent_EmptyInput(t *testing.T) {
	text := service.FallbackContent(model.UserInput{}, true)

	assert.Contains(t, text, "Friend, ")
	assert.Contains(t, text, "your chosen areas")
}

func TestFallbackContent_Deterministic(t *testing.T) {
	assert.Equal(t, service.FallbackContent(avaInput(), true), service.FallbackContent(avaInput(), true))
}
