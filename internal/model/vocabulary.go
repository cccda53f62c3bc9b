package model

// Questionnaire vocabulary offered by the form. The backend passes these through
// to prompts as opaque strings.
var (
	AgeRanges   = []string{"Under 18", "18-24", "25-34", "35-44", "45+"}
	Goals       = []string{"Career Success", "Personal Growth", "Relationships", "Health", "Adventure/Travel", "Other"}
	Moods       = []string{"Excited", "Curious", "Stressed", "Hopeful", "Other"}
	RiskLevels  = []string{"Low", "Medium", "High"}
	FateBeliefs = []string{"Fate", "My Own Path", "A Mix"}
	FocusAreas  = []string{"Career", "Relationships", "Personal Growth", "Health", "Finances"}
)
