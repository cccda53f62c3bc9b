package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names in validation errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// UserInput is the questionnaire submitted by a user. It is the only input to generation.
type UserInput struct {
	Name             string   `json:"name" validate:"notblank"`
	AgeRange         string   `json:"ageRange"`
	BiggestGoal      string   `json:"biggestGoal"`
	PersonalityWord  string   `json:"personalityWord" validate:"notblank"`
	CurrentMood      string   `json:"currentMood" validate:"notblank"`
	Challenge        string   `json:"challenge,omitempty"`
	AreaOfFocus      []string `json:"areaOfFocus" validate:"min=1"`
	RiskComfortLevel string   `json:"riskComfortLevel"`
	DreamDestination string   `json:"dreamDestination"`
	FateVsPath       string   `json:"fateVsPath"`
}

// Validate checks the fields the prompts cannot do without.
// Vocabulary membership is not enforced.
func (u UserInput) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
}

// SectionDocument holds the seven premium sections. Field order is rendering order.
type SectionDocument struct {
	Introduction       string `json:"introduction"`
	LifePath           string `json:"lifePath"`
	Strengths          string `json:"strengths"`
	ActionPlan         string `json:"actionPlan"`
	Challenges         string `json:"challenges"`
	AspirationalVision string `json:"aspirationalVision"`
	Conclusion         string `json:"conclusion"`
}

// SectionKey names a SectionDocument field by its JSON key.
type SectionKey string

const (
	SectionIntroduction       SectionKey = "introduction"
	SectionLifePath           SectionKey = "lifePath"
	SectionStrengths          SectionKey = "strengths"
	SectionActionPlan         SectionKey = "actionPlan"
	SectionChallenges         SectionKey = "challenges"
	SectionAspirationalVision SectionKey = "aspirationalVision"
	SectionConclusion         SectionKey = "conclusion"
)

// SectionOrder is the fixed order of sections in every presentation.
var SectionOrder = []SectionKey{
	SectionIntroduction,
	SectionLifePath,
	SectionStrengths,
	SectionActionPlan,
	SectionChallenges,
	SectionAspirationalVision,
	SectionConclusion,
}

var sectionTitles = map[SectionKey]string{
	SectionIntroduction:       "Introduction",
	SectionLifePath:           "Life Path Overview",
	SectionStrengths:          "Strengths and Opportunities",
	SectionActionPlan:         "Action Plan",
	SectionChallenges:         "Overcoming Challenges",
	SectionAspirationalVision: "Aspirational Vision",
	SectionConclusion:         "Conclusion",
}

// Title returns the display header for the section.
func (k SectionKey) Title() string {
	if t, ok := sectionTitles[k]; ok {
		return t
	}
	return string(k)
}

// IsSectionKey reports whether key is one of the seven known keys.
func IsSectionKey(key string) bool {
	_, ok := sectionTitles[SectionKey(key)]
	return ok
}

// Get returns the text stored under key.
func (d SectionDocument) Get(key SectionKey) string {
	switch key {
	case SectionIntroduction:
		return d.Introduction
	case SectionLifePath:
		return d.LifePath
	case SectionStrengths:
		return d.Strengths
	case SectionActionPlan:
		return d.ActionPlan
	case SectionChallenges:
		return d.Challenges
	case SectionAspirationalVision:
		return d.AspirationalVision
	case SectionConclusion:
		return d.Conclusion
	}
	return ""
}

// Set stores value under key. Unknown keys are ignored.
func (d *SectionDocument) Set(key SectionKey, value string) {
	switch key {
	case SectionIntroduction:
		d.Introduction = value
	case SectionLifePath:
		d.LifePath = value
	case SectionStrengths:
		d.Strengths = value
	case SectionActionPlan:
		d.ActionPlan = value
	case SectionChallenges:
		d.Challenges = value
	case SectionAspirationalVision:
		d.AspirationalVision = value
	case SectionConclusion:
		d.Conclusion = value
	}
}

// FillEmpty sets every empty section to value.
func (d *SectionDocument) FillEmpty(value string) {
	for _, key := range SectionOrder {
		if strings.TrimSpace(d.Get(key)) == "" {
			d.Set(key, value)
		}
	}
}

// Complete reports whether all seven sections are non-empty.
func (d SectionDocument) Complete() bool {
	for _, key := range SectionOrder {
		if strings.TrimSpace(d.Get(key)) == "" {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no section has any text.
func (d SectionDocument) IsEmpty() bool {
	for _, key := range SectionOrder {
		if strings.TrimSpace(d.Get(key)) != "" {
			return false
		}
	}
	return true
}

// Uniform returns a document with value in all seven sections.
func Uniform(value string) SectionDocument {
	var d SectionDocument
	for _, key := range SectionOrder {
		d.Set(key, value)
	}
	return d
}

// ReportRecord is a generated report. Exactly one of Content or Sections is set,
// chosen by IsPremium.
type ReportRecord struct {
	ReportID  string           `json:"reportId"`
	Input     UserInput        `json:"input"`
	IsPremium bool             `json:"isPremium"`
	Content   string           `json:"content,omitempty"`
	Sections  *SectionDocument `json:"sections,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewFreeRecord builds a free report record.
func NewFreeRecord(id string, input UserInput, content string) ReportRecord {
	return ReportRecord{ReportID: id, Input: input, Content: content, CreatedAt: time.Now().UTC()}
}

// NewPremiumRecord builds a premium report record.
func NewPremiumRecord(id string, input UserInput, sections SectionDocument) ReportRecord {
	return ReportRecord{ReportID: id, Input: input, IsPremium: true, Sections: &sections, CreatedAt: time.Now().UTC()}
}

// Validate checks the one-of invariant between Content and Sections.
func (r ReportRecord) Validate() error {
	if r.ReportID == "" {
		return fmt.Errorf("%w: report id is empty", ErrInvalidReport)
	}
	if r.IsPremium {
		if r.Sections == nil {
			return fmt.Errorf("%w: premium report %s has no sections", ErrInvalidReport, r.ReportID)
		}
		if r.Content != "" {
			return fmt.Errorf("%w: premium report %s also carries free content", ErrInvalidReport, r.ReportID)
		}
		return nil
	}
	if r.Sections != nil {
		return fmt.Errorf("%w: free report %s carries sections", ErrInvalidReport, r.ReportID)
	}
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: free report %s has no content", ErrInvalidReport, r.ReportID)
	}
	return nil
}
