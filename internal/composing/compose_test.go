package composing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-outreach/internal/types"
)

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func testProfile() types.SenderProfile {
	return types.SenderProfile{
		Name:       "Jordan Lee",
		Role:       "Software Engineer",
		Background: "five years building payment systems",
		ResumeText: "Go, Kafka, PostgreSQL",
	}
}

func testRecord() *types.JobRecord {
	return &types.JobRecord{
		JobID:        "job-1",
		JobLink:      "https://jobs.example.com/1",
		EmployerName: "Sam Park",
		EmployerRole: "CTO",
		EmailID:      "sam@example.com",
		JobDetails: &types.JobDetails{
			JobRole:     "Backend Engineer",
			CompanyName: "Acme",
			RoleDetails: "Build billing APIs in Go.",
		},
	}
}

func newComposer(gen Generator) *Composer {
	return &Composer{Profile: testProfile(), Generator: gen, Timeout: time.Second, Logger: zerolog.Nop()}
}

func TestCompose_Generated(t *testing.T) {
	var prompt string
	c := newComposer(generatorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n{\"subject\": \" Hello Acme \", \"body\": \"Hi Sam,\\n\\nLet's talk.\"}\n```", nil
	}))

	res := c.Compose(context.Background(), testRecord())
	require.NotNil(t, res.Email)
	assert.False(t, res.Fallback)
	assert.NoError(t, res.Cause)
	assert.Equal(t, "Hello Acme", res.Email.Subject)
	assert.Equal(t, "Hi Sam,\n\nLet's talk.", res.Email.Body)

	for _, want := range []string{"Jordan Lee", "five years building payment systems", "Go, Kafka, PostgreSQL",
		"Acme", "Backend Engineer", "Sam Park", "CTO", "Build billing APIs in Go."} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "{{.")
}

func TestCompose_FallbackCases(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"generator error", generatorFunc(func(context.Context, string) (string, error) {
			return "", errors.New("service unavailable")
		})},
		{"not json", generatorFunc(func(context.Context, string) (string, error) {
			return "Sure! Here is your email: Dear Sam...", nil
		})},
		{"missing body", generatorFunc(func(context.Context, string) (string, error) {
			return `{"subject": "Hello"}`, nil
		})},
		{"extra field", generatorFunc(func(context.Context, string) (string, error) {
			return `{"subject": "Hello", "body": "Hi", "signature": "J"}`, nil
		})},
		{"blank subject", generatorFunc(func(context.Context, string) (string, error) {
			return `{"subject": "   ", "body": "Hi"}`, nil
		})},
		{"no generator", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newComposer(tt.gen).Compose(context.Background(), testRecord())
			assert.True(t, res.Fallback)
			assert.Error(t, res.Cause)
			assert.True(t, res.Email.IsComplete())
			assert.Equal(t, Fallback(testProfile(), testRecord()), res.Email)
		})
	}
}

func TestCompose_Timeout(t *testing.T) {
	c := newComposer(generatorFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}))
	c.Timeout = 10 * time.Millisecond

	res := c.Compose(context.Background(), testRecord())
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Cause, context.DeadlineExceeded)
	assert.ErrorContains(t, res.Cause, "timed out")
}

func TestBuildPrompt_Defaults(t *testing.T) {
	c := &Composer{Profile: types.SenderProfile{Name: "Jordan"}}
	prompt, err := c.BuildPrompt(&types.JobRecord{JobID: "x"})
	require.NoError(t, err)

	for _, want := range []string{"Professional", "relevant experience", "No detailed resume provided",
		"the company", "the position", "Hiring Manager", "No specific requirements provided"} {
		assert.Contains(t, prompt, want)
	}
}

func TestParseEmail(t *testing.T) {
	email, err := ParseEmail(`{"subject":"S","body":"B"}`)
	require.NoError(t, err)
	assert.Equal(t, &types.EmailContent{Subject: "S", Body: "B"}, email)

	_, err = ParseEmail(`{"subject":"S","body":42}`)
	assert.Error(t, err)

	_, err = ParseEmail(`[]`)
	assert.Error(t, err)
}
