package speech_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision-narrator-api/internal/application/speech"
	"vision-narrator-api/internal/infrastructure/storage"
	apperrors "vision-narrator-api/pkg/errors"
)

type fakeEngine struct {
	mu    sync.Mutex
	langs []string
	err   error
}

func (f *fakeEngine) Synthesize(_ context.Context, text, lang string, w io.Writer) error {
	f.mu.Lock()
	f.langs = append(f.langs, lang)
	f.mu.Unlock()

	if _, err := io.WriteString(w, "ID3:"+text); err != nil {
		return err
	}
	return f.err
}

func newSynthesizer(t *testing.T, engine speech.Engine) (*speech.Synthesizer, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "tts_audio")
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	return speech.NewSynthesizer(engine, store, ""), dir
}

func TestSynthesizer_Synthesize(t *testing.T) {
	engine := &fakeEngine{}
	s, dir := newSynthesizer(t, engine)

	art, err := s.Synthesize(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, art.ID+".mp3"), art.Path)
	assert.True(t, strings.HasSuffix(art.URL, "/tts_audio/"+art.ID+".mp3"), art.URL)
	assert.EqualValues(t, len("ID3:hello"), art.Size)
	assert.Equal(t, []string{"en"}, engine.langs)

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "ID3:hello", string(data))
}

func TestSynthesizer_IdenticalTextDistinctArtifacts(t *testing.T) {
	s, dir := newSynthesizer(t, &fakeEngine{})

	var wg sync.WaitGroup
	urls := make([]string, 8)
	for i := range urls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			art, err := s.Synthesize(context.Background(), "same text")
			assert.NoError(t, err)
			if art != nil {
				urls[i] = art.URL
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, u := range urls {
		assert.False(t, seen[u], "duplicate url %s", u)
		seen[u] = true
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(urls))
}

func TestSynthesizer_EmptyText(t *testing.T) {
	engine := &fakeEngine{}
	s, dir := newSynthesizer(t, engine)

	art, err := s.Synthesize(context.Background(), "")
	assert.Nil(t, art)
	require.Error(t, err)
	assert.Equal(t, "No text provided", apperrors.PublicMessage(err))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
	assert.Empty(t, engine.langs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSynthesizer_EngineFailureLeavesNoFile(t *testing.T) {
	s, dir := newSynthesizer(t, &fakeEngine{err: errors.New("upstream refused")})

	art, err := s.Synthesize(context.Background(), "hello")
	assert.Nil(t, art)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSynthesisFailed))
	assert.Contains(t, apperrors.PublicMessage(err), "upstream refused")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewSynthesizer_Lang(t *testing.T) {
	assert.Equal(t, "en", speech.NewSynthesizer(&fakeEngine{}, nil, "").Lang())
	assert.Equal(t, "fr", speech.NewSynthesizer(&fakeEngine{}, nil, "fr").Lang())
}
