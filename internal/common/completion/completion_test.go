package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"dining-search/internal/common/validation"
)

type venueFields struct {
	VenueName  string  `json:"venue_name"`
	VenueType  string  `json:"venue_type"`
	Confidence float64 `json:"confidence"`
}

var venueSchema = validation.MustCompile("venue", validation.Object(map[string][]string{
	"venue_name": {"string"},
	"venue_type": {"string"},
	"confidence": {"number"},
}))

func TestDecoder_Decode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    venueFields
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"venue_name":"Apollo Theatre","venue_type":"theatre","confidence":0.95}`,
			want: venueFields{"Apollo Theatre", "theatre", 0.95},
		},
		{
			name: "fenced json with prose",
			raw:  "Sure, here it is:\n```json\n{\"venue_name\": \"Odeon\", \"venue_type\": \"cinema\", \"confidence\": 0.8}\n```",
			want: venueFields{"Odeon", "cinema", 0.8},
		},
		{
			name: "trailing comma",
			raw:  `{"venue_name":"Vue","venue_type":"cinema","confidence":0.7,}`,
			want: venueFields{"Vue", "cinema", 0.7},
		},
		{
			name: "missing fields default",
			raw:  `{"venue_name":"Somewhere"}`,
			want: venueFields{VenueName: "Somewhere"},
		},
		{name: "no object", raw: "I could not find a venue.", wantErr: true},
		{name: "wrong type", raw: `{"confidence":"very"}`, wantErr: true},
		{name: "broken json", raw: `{"venue_name": "Apollo`, wantErr: true},
	}

	dec := NewDecoder(venueSchema)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got venueFields
			err := dec.Decode(tt.raw, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedOutput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_TaggedResult(t *testing.T) {
	dec := NewDecoder(venueSchema)

	ok := Extract[venueFields](context.Background(), ExtractorFunc(func(ctx context.Context, s, u string) (string, error) {
		assert.Equal(t, "system", s)
		assert.Equal(t, "user", u)
		return `{"venue_name":"Apollo Theatre","venue_type":"theatre","confidence":0.9}`, nil
	}), dec, "system", "user")

	v, isOk := ok.Get()
	require.True(t, isOk)
	assert.Equal(t, "Apollo Theatre", v.VenueName)
	assert.NoError(t, ok.Err())

	failed := Extract[venueFields](context.Background(), ExtractorFunc(func(ctx context.Context, s, u string) (string, error) {
		return "", errors.New("connection reset")
	}), dec, "system", "user")

	assert.True(t, failed.IsMalformed())
	assert.True(t, errors.Is(failed.Err(), ErrCompletionFailed))
	assert.Equal(t, venueFields{Confidence: 0.1}, failed.OrDefault(venueFields{Confidence: 0.1}))

	timedOut := Extract[venueFields](context.Background(), ExtractorFunc(func(ctx context.Context, s, u string) (string, error) {
		return "", ErrCompletionTimeout
	}), dec, "system", "user")
	assert.True(t, errors.Is(timedOut.Err(), ErrCompletionTimeout))
}

func TestGenAIClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "extract venue", req.System)
		assert.Equal(t, "near the Apollo", req.Prompt)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)

		json.NewEncoder(w).Encode(generateResponse{Response: `{"venue_name":"Apollo"}`, Done: true})
	}))
	defer server.Close()

	c := NewGenAIClient(&GenAIConfig{
		BaseURL: server.URL + "/",
		APIKey:  "key",
		Model:   "llama3",
		Timeout: time.Second,
	})

	out, err := c.Complete(context.Background(), "extract venue", "near the Apollo")
	require.NoError(t, err)
	assert.Equal(t, `{"venue_name":"Apollo"}`, out)
}

func TestGenAIClient_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewGenAIClient(&GenAIConfig{BaseURL: server.URL, Timeout: time.Second})
	_, err := c.Complete(context.Background(), "s", "u")
	assert.True(t, errors.Is(err, ErrCompletionFailed))
}

type fakeModel struct {
	reply    string
	err      error
	jsonMode bool
	messages []llms.MessageContent
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}
	m.jsonMode = opts.JSONMode
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.reply, m.err
}

func TestOpenAIClient_Complete(t *testing.T) {
	model := &fakeModel{reply: `{"group":"","cuisine_types":["Italian"]}`}
	c := NewOpenAIClientFromModel(model, 0)

	out, err := c.Complete(context.Background(), "system prompt", "Italian near Apollo")
	require.NoError(t, err)
	assert.Equal(t, model.reply, out)
	assert.True(t, model.jsonMode)
	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
}

func TestOpenAIClient_Errors(t *testing.T) {
	c := NewOpenAIClientFromModel(&fakeModel{err: context.DeadlineExceeded}, 0)
	_, err := c.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrCompletionTimeout)

	c = NewOpenAIClientFromModel(&fakeModel{err: errors.New("rate limited")}, 0)
	_, err = c.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrCompletionFailed)
}
