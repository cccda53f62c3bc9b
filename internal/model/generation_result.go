package model

import (
	"time"

	"github.com/google/uuid"
)

// Content sources recorded for a generated report.
const (
	SourceAIStructured   = "ai_structured"
	SourceAIUnstructured = "ai_unstructured"
	SourceAIText         = "ai_text"
	SourceFallback       = "fallback"
)

// GenerationResult is the audit row written after each report generation.
type GenerationResult struct {
	ID               uuid.UUID     `json:"id"`
	ReportID         string        `json:"reportId"`
	Premium          bool          `json:"premium"`
	Provider         string        `json:"provider"`
	Model            string        `json:"model"`
	PromptStyle      string        `json:"promptStyle"`
	Source           string        `json:"source"`
	Attempts         int           `json:"attempts"`
	FailureReason    string        `json:"failureReason,omitempty"`
	Error            string        `json:"error,omitempty"`
	PromptTokens     int           `json:"promptTokens"`
	CompletionTokens int           `json:"completionTokens"`
	Duration         time.Duration `json:"duration"`
	CreatedAt        time.Time     `json:"createdAt"`
}
