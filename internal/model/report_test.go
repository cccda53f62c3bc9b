package model_test

import (
	"testing"

	"lifelens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() model.UserInput {
	return model.UserInput{
		Name:            "Ava",
		AgeRange:        "25-34",
		BiggestGoal:     "Career Success",
		PersonalityWord: "curious",
		CurrentMood:     "Hopeful",
		AreaOfFocus:     []string{"Career"},
	}
}

func TestUserInput_Validate(t *testing.T) {
	assert.NoError(t, validInput().Validate())

	in := validInput()
	in.Name = "   "
	in.CurrentMood = ""
	in.AreaOfFocus = nil

	err := in.Validate()

	require.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Contains(t, err.Error(), "missing name, currentMood, areaOfFocus")
}

func TestUserInput_ValidateIgnoresVocabulary(t *testing.T) {
	in := validInput()
	in.AgeRange = "ancient"
	in.AreaOfFocus = []string{"Knitting"}

	assert.NoError(t, in.Validate())
}

func TestReportRecord_Validate(t *testing.T) {
	sections := model.Uniform("text")
	cases := map[string]model.ReportRecord{
		"no id":             {Content: "x"},
		"premium no secs":   {ReportID: "r", IsPremium: true},
		"premium + content": {ReportID: "r", IsPremium: true, Sections: &sections, Content: "x"},
		"free with secs":    {ReportID: "r", Content: "x", Sections: &sections},
		"free blank":        {ReportID: "r", Content: " \n"},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, rec.Validate(), model.ErrInvalidReport)
		})
	}

	assert.NoError(t, model.NewFreeRecord("r", validInput(), "hello").Validate())
	assert.NoError(t, model.NewPremiumRecord("r", validInput(), sections).Validate())
}

func TestSectionDocument_FillEmptyAndComplete(t *testing.T) {
	assert.True(t, model.SectionDocument{Strengths: " \n"}.IsEmpty())

	d := model.SectionDocument{Introduction: "hi", Conclusion: "  "}
	assert.False(t, d.Complete())
	assert.False(t, d.IsEmpty())

	d.FillEmpty("raw")

	assert.True(t, d.Complete())
	assert.Equal(t, "hi", d.Introduction)
	assert.Equal(t, "raw", d.Conclusion)
	assert.Equal(t, "raw", d.Get(model.SectionLifePath))
}

func TestSectionKey_Title(t *testing.T) {
	assert.Equal(t, "Life Path Overview", model.SectionLifePath.Title())
	assert.Equal(t, "bogus", model.SectionKey("bogus").Title())
	assert.True(t, model.IsSectionKey("aspirationalVision"))
	assert.False(t, model.IsSectionKey("Introduction"))
	assert.Len(t, model.SectionOrder, 7)
}
