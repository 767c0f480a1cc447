package api

import (
	"encoding/json"
	"fmt"

	"github.com/danmuck/markview/internal/overlay"
)

// Subject is one entry of GET /api/subjects.
type Subject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// EssayListing is the payload of GET /api/essays/subject/{id}.
type EssayListing struct {
	SubjectName string         `json:"subject_name"`
	Essays      []EssaySummary `json:"essays"`
}

type EssaySummary struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	ExamBoard     string `json:"exam_board,omitempty"`
	ResponseCount int    `json:"response_count"`
}

// EssayDetail is the payload of GET /api/essays/{id}. Responses arrive ordered
// by grade, highest first.
type EssayDetail struct {
	ID           int               `json:"id"`
	Title        string            `json:"title"`
	Subject      Subject           `json:"subject"`
	FullQuestion string            `json:"full_question"`
	MarkScheme   string            `json:"mark_scheme,omitempty"`
	TotalMarks   int               `json:"total_marks"`
	AverageGrade float64           `json:"average_grade"`
	Responses    []StudentResponse `json:"responses"`
}

type StudentResponse struct {
	StudentName     string               `json:"student_name"`
	CandidateNumber Code                 `json:"candidate_number"`
	Grade           float64              `json:"grade"`
	FullText        string               `json:"full_text"`
	Highlights      []overlay.Annotation `json:"highlights,omitempty"`
	Feedback        Feedback             `json:"feedback"`
}

type Feedback struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	NextSteps    string   `json:"next_steps"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Code is an identifier the backend may send as either a JSON string or number.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("code must be string or number: %w", err)
	}
	*c = Code(n.String())
	return nil
}
