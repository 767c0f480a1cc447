package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danmuck/markview/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(" http://backend:5000/ ")
	assert.Equal(t, "http://backend:5000", client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, DefaultUserAgent, client.userAgent)
}

func TestClientOptions(t *testing.T) {
	client := NewClient("",
		WithTimeout(5*time.Second),
		WithUserAgent("MarkView/test"),
		WithNode("markview-b"),
	)
	assert.Equal(t, "", client.BaseURL())
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "MarkView/test", client.userAgent)
	assert.Equal(t, "markview-b", client.node)

	custom := &http.Client{Timeout: time.Second}
	assert.Same(t, custom, NewClient("", WithHTTPClient(custom)).httpClient)
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Second}
	client := NewClient("", WithHTTPClient(shared), WithTimeout(5*time.Second))
	assert.Equal(t, time.Second, shared.Timeout)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.NotSame(t, shared, client.httpClient)

	defaulted := NewClient("", WithTimeout(2*time.Second))
	assert.Equal(t, 2*time.Second, defaulted.httpClient.Timeout)
}

func TestEssayDecodesFractionalGrade(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"T","total_marks":25,"average_grade":17.5,"responses":[{"student_name":"Ada","grade":17.5,"full_text":"x"},{"student_name":"Bo","grade":20,"full_text":"y"}]}`))
	}))
	defer server.Close()

	essay, err := NewClient(server.URL).Essay(context.Background(), "4")
	require.NoError(t, err)
	require.Len(t, essay.Responses, 2)
	assert.InDelta(t, 17.5, essay.Responses[0].Grade, 0.001)
	assert.InDelta(t, 20, essay.Responses[1].Grade, 0.001)
}

func TestSubjects(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/subjects", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Subject{{ID: 1, Name: "Economics"}, {ID: 2, Name: "History"}})
	}))
	defer server.Close()

	subjects, err := NewClient(server.URL).Subjects(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "History", subjects[1].Name)
}

func TestEssaysBySubjectEscapesID(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/essays/subject/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"subject_name":"Economics","essays":[{"id":7,"title":"Inflation","response_count":3}]}`))
	}))
	defer server.Close()

	listing, err := NewClient(server.URL).EssaysBySubject(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "Economics", listing.SubjectName)
	require.Len(t, listing.Essays, 1)
	assert.Equal(t, 3, listing.Essays[0].ResponseCount)
	assert.Empty(t, listing.Essays[0].Description)
}

func TestEssayDecodesResponses(t *testing.T) {
	testlog.Start(t)
	body := `{
		"id": 4,
		"title": "Discuss inflation",
		"subject": {"id": 1, "name": "Economics"},
		"full_question": "Discuss the causes of inflation.",
		"total_marks": 25,
		"average_grade": 17.5,
		"responses": [{
			"student_name": "Ada",
			"candidate_number": 4012,
			"grade": 20,
			"full_text": "Demand pull inflation occurs when demand rises.",
			"highlights": [{"text": "Demand pull", "type": "good", "comment": "correct term"}],
			"feedback": {"strengths": ["terms"], "improvements": ["evaluation"], "next_steps": "add data"}
		}, {
			"student_name": "Bo",
			"candidate_number": "C-77",
			"grade": 15,
			"full_text": "Prices go up.",
			"feedback": {"strengths": [], "improvements": [], "next_steps": ""}
		}]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/essays/4", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	essay, err := NewClient(server.URL).Essay(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, 1, essay.Subject.ID)
	assert.InDelta(t, 17.5, essay.AverageGrade, 0.001)
	require.Len(t, essay.Responses, 2)
	assert.Equal(t, Code("4012"), essay.Responses[0].CandidateNumber)
	assert.Equal(t, Code("C-77"), essay.Responses[1].CandidateNumber)
	require.Len(t, essay.Responses[0].Highlights, 1)
	assert.Equal(t, "good", essay.Responses[0].Highlights[0].Category)
	assert.Nil(t, essay.Responses[1].Highlights)
	assert.Equal(t, "add data", essay.Responses[0].Feedback.NextSteps)
}

func TestFetchStatusError(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Essay not found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Essay(context.Background(), "999")
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "Essay not found", statusErr.Message)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Essay not found")
}

func TestFetchServerErrorWithoutJSONBody(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Subjects(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Empty(t, statusErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestFetchDecodeError(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"subject_name": `))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).EssaysBySubject(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchTransportError(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, WithTimeout(time.Second)).Subjects(context.Background())
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestFetchHonoursContext(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(server.URL).Subjects(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEmptyIDRejected(t *testing.T) {
	client := NewClient("http://unused")
	_, err := client.Essay(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyID)
	_, err = client.EssaysBySubject(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestFetchJSONGenericPath(t *testing.T) {
	testlog.Start(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/custom", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	var out map[string]bool
	require.NoError(t, NewClient(server.URL+"/").FetchJSON(context.Background(), "/api/custom", &out))
	assert.True(t, out["ok"])
}
