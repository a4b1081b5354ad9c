package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"vision-narrator-api/internal/config"
	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
)

func TestToGenaiContents(t *testing.T) {
	contents := []entity.Content{{
		Role: entity.RoleUser,
		Parts: []entity.Part{
			entity.NewInlineDataPart("image/jpeg", "aGVsbG8="),
			entity.NewTextPart("describe"),
		},
	}}

	out, err := toGenaiContents(contents)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "user", out[0].Role)
	require.Len(t, out[0].Parts, 2)
	assert.Equal(t, "image/jpeg", out[0].Parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("hello"), out[0].Parts[0].InlineData.Data)
	assert.Equal(t, "describe", out[0].Parts[1].Text)
}

func TestToGenaiContentsRejectsBadParts(t *testing.T) {
	_, err := toGenaiContents([]entity.Content{{Parts: []entity.Part{entity.NewInlineDataPart("image/jpeg", "%%%")}}})
	assert.Error(t, err)

	_, err = toGenaiContents([]entity.Content{{Parts: []entity.Part{{}}}})
	assert.Error(t, err)
}

func TestDecodeBase64AcceptsUnpadded(t *testing.T) {
	data, err := decodeBase64("aGk")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
}

func TestChunkText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: "a "}, {Text: "hidden", Thought: true}, {Text: "b"}}},
	}}}
	assert.Equal(t, "a b", chunkText(resp))
	assert.Equal(t, "", chunkText(&genai.GenerateContentResponse{}))
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), &config.LLMConfig{})
	assert.Error(t, err)
}

func TestGeminiProviderStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"A cat", " sits", " left."} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":%q}]}}]}\n\n", text)
		}
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), &config.LLMConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	reader, err := p.Stream(context.Background(), &entity.GenerationRequest{
		Model:    "gemini-1.5-flash",
		Contents: []entity.Content{{Role: entity.RoleUser, Parts: []entity.Part{entity.NewTextPart("hi")}}},
	})
	require.NoError(t, err)
	defer reader.Close()

	var got []string
	for {
		chunk, err := reader.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, chunk.Text)
	}
	assert.Equal(t, []string{"A cat", " sits", " left."}, got)
}

func TestGeminiProviderStreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), &config.LLMConfig{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	reader, err := p.Stream(context.Background(), &entity.GenerationRequest{
		Model:    "gemini-1.5-flash",
		Contents: []entity.Content{{Parts: []entity.Part{entity.NewTextPart("hi")}}},
	})
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Recv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestUnavailableProvider(t *testing.T) {
	p := NewUnavailableProvider("llm.api_key is not configured")

	reader, err := p.Stream(context.Background(), &entity.GenerationRequest{Model: "m"})
	assert.Nil(t, reader)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeServiceUnavailable))
	assert.Equal(t, "llm.api_key is not configured", apperrors.PublicMessage(err))
}
