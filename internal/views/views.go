// Package views builds the marking pages from backend payloads.
//
// Every builder is a pure transform from decoded JSON to a Page; fetching and
// writing the response belong to the caller.
package views

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/danmuck/markview/internal/api"
	"github.com/danmuck/markview/internal/observability"
	"github.com/danmuck/markview/internal/overlay"
	"github.com/danmuck/markview/internal/router"
	"github.com/rs/zerolog/log"
)

const DefaultSiteTitle = "TheMarkingProject"

// Page is one rendered view ready to be wrapped in the layout.
type Page struct {
	Title  string
	View   router.Kind
	Status int
	Body   template.HTML
}

// Failed reports whether the page stands in for a view that could not be built.
func (p Page) Failed() bool {
	return p.Status >= http.StatusBadRequest
}

// Builder holds the parsed templates. It is safe for concurrent use.
type Builder struct {
	tmpl      *template.Template
	siteTitle string
}

func New(siteTitle string) (*Builder, error) {
	if strings.TrimSpace(siteTitle) == "" {
		siteTitle = DefaultSiteTitle
	}
	tmpl, err := template.New("views").Funcs(template.FuncMap{
		"href_subject": func(id int) string { return router.Href(router.KindEssayList, strconv.Itoa(id)) },
		"href_essay":   func(id int) string { return router.Href(router.KindMarkingTool, strconv.Itoa(id)) },
	}).ParseFS(ContentFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("views: parse templates: %w", err)
	}
	return &Builder{tmpl: tmpl, siteTitle: siteTitle}, nil
}

func (b *Builder) SiteTitle() string {
	return b.siteTitle
}

// Home lists every subject.
func (b *Builder) Home(subjects []api.Subject) (Page, error) {
	body, err := b.execute("home", subjects)
	if err != nil {
		return Page{}, err
	}
	return Page{Title: b.siteTitle, View: router.KindHome, Status: http.StatusOK, Body: body}, nil
}

// EssayList lists the essays of one subject.
func (b *Builder) EssayList(listing api.EssayListing) (Page, error) {
	body, err := b.execute("essays", listing)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title:  listing.SubjectName + " Essays",
		View:   router.KindEssayList,
		Status: http.StatusOK,
		Body:   body,
	}, nil
}

type markingView struct {
	EssayID    int
	SubjectID  int
	Question   string
	MarkScheme string
	TotalMarks int
	Average    string
	Options    []studentOption
	Student    template.HTML
}

type studentOption struct {
	Index    int
	Label    string
	Selected bool
}

// MarkingTool shows essay details, the student selector, and the selected
// student's marked work. selected is the raw "student" query value; anything
// that is not an index into essay.Responses leaves the placeholder in place.
func (b *Builder) MarkingTool(essay api.EssayDetail, selected string) (Page, error) {
	idx, ok := selectedIndex(selected, len(essay.Responses))

	view := markingView{
		EssayID:    essay.ID,
		SubjectID:  essay.Subject.ID,
		Question:   essay.FullQuestion,
		MarkScheme: essay.MarkScheme,
		TotalMarks: essay.TotalMarks,
		Average:    fmt.Sprintf("%.1f", essay.AverageGrade),
		Options:    make([]studentOption, 0, len(essay.Responses)),
	}
	for i, resp := range essay.Responses {
		view.Options = append(view.Options, studentOption{
			Index:    i,
			Label:    fmt.Sprintf("%s (%s/%d marks)", resp.StudentName, FormatGrade(resp.Grade), essay.TotalMarks),
			Selected: ok && i == idx,
		})
	}
	if ok {
		student, err := b.Student(essay.Responses[idx], essay.TotalMarks)
		if err != nil {
			return Page{}, err
		}
		view.Student = student
	}

	body, err := b.execute("marking", view)
	if err != nil {
		return Page{}, err
	}
	return Page{Title: essay.Title, View: router.KindMarkingTool, Status: http.StatusOK, Body: body}, nil
}

type studentView struct {
	Name         string
	Candidate    api.Code
	Grade        string
	TotalMarks   int
	Answer       template.HTML
	Strengths    []string
	Improvements []string
	NextSteps    string
}

// Student renders one response with its highlights and feedback. Invalid
// highlights are dropped and the response text is shown unmarked.
func (b *Builder) Student(resp api.StudentResponse, totalMarks int) (template.HTML, error) {
	marked, err := overlay.Render(resp.FullText, resp.Highlights)
	if err != nil {
		log.Warn().
			Str("student", resp.StudentName).
			Err(err).
			Msg("highlights_rejected")
		observability.RecordOverlay(0, true)
		marked, err = overlay.Render(resp.FullText, nil)
		if err != nil {
			return "", err
		}
	} else {
		observability.RecordOverlay(marked.Highlights(), false)
	}

	return b.execute("student", studentView{
		Name:         resp.StudentName,
		Candidate:    resp.CandidateNumber,
		Grade:        FormatGrade(resp.Grade),
		TotalMarks:   totalMarks,
		Answer:       marked.HTML(),
		Strengths:    resp.Feedback.Strengths,
		Improvements: resp.Feedback.Improvements,
		NextSteps:    resp.Feedback.NextSteps,
	})
}

// FormatGrade prints whole grades without a fraction and keeps any fraction
// the backend sent.
func FormatGrade(grade float64) string {
	return strconv.FormatFloat(grade, 'f', -1, 64)
}

// NotFound is shown for paths outside the dispatch table.
func (b *Builder) NotFound() Page {
	body, err := b.execute("not_found", nil)
	if err != nil {
		body = "<h2>404 - Page Not Found</h2>"
	}
	return Page{Title: b.siteTitle, View: router.KindNotFound, Status: http.StatusNotFound, Body: body}
}

// Failure is the fixed fallback for a view whose data could not be loaded.
func (b *Builder) Failure(kind router.Kind) Page {
	msg := FailureMessage(kind)
	body, err := b.execute("placeholder", msg)
	if err != nil {
		body = template.HTML("<h2>" + template.HTMLEscapeString(msg) + "</h2>")
	}
	return Page{Title: b.siteTitle, View: kind, Status: http.StatusBadGateway, Body: body}
}

func FailureMessage(kind router.Kind) string {
	switch kind {
	case router.KindHome:
		return "Error loading subjects. Please try again later."
	case router.KindEssayList:
		return "Error loading essays. Please try again later."
	case router.KindMarkingTool:
		return "Error loading marking tool. Please try again later."
	default:
		return "Error loading page. Please try again later."
	}
}

// Document wraps a page in the site layout.
func (b *Builder) Document(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return nil, fmt.Errorf("views: render layout: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("views: render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func selectedIndex(raw string, n int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}
