package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
)

func interactiveContents(text string) []entity.Content {
	return []entity.Content{{
		Role: entity.RoleUser,
		Parts: []entity.Part{
			entity.NewInlineDataPart("image/png", "aW1n"),
			entity.NewTextPart(text),
		},
	}}
}

func TestInteractivePrependsPrefixVerbatim(t *testing.T) {
	c := NewComposer("")

	for _, text := range []string{"", "what is this?", "  spaced  ", "unicode ✓ текст"} {
		in := interactiveContents(text)
		req, err := c.Interactive(in, "")
		require.NoError(t, err)

		assert.Equal(t, InteractivePrefix+text, req.Contents[0].Parts[1].Text)
		assert.Equal(t, DefaultModel, req.Model)
		// 原始输入不被改写
		assert.Equal(t, text, in[0].Parts[1].Text)
		// 其余片段原样透传
		assert.Equal(t, in[0].Parts[0], req.Contents[0].Parts[0])
	}
}

func TestInteractiveModelOverride(t *testing.T) {
	c := NewComposer("configured-model")

	req, err := c.Interactive(interactiveContents("x"), "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", req.Model)

	req, err = c.Interactive(interactiveContents("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "configured-model", req.Model)
}

func TestInteractiveKeepsExtraEntries(t *testing.T) {
	in := append(interactiveContents("x"), entity.Content{Role: "model", Parts: []entity.Part{entity.NewTextPart("earlier")}})
	req, err := NewComposer("").Interactive(in, "")
	require.NoError(t, err)
	require.Len(t, req.Contents, 2)
	assert.Equal(t, "earlier", req.Contents[1].Parts[0].Text)
}

func TestInteractiveShapeErrors(t *testing.T) {
	c := NewComposer("")
	cases := map[string][]entity.Content{
		"missing contents": nil,
		"empty contents":   {},
		"one part":         {{Parts: []entity.Part{entity.NewTextPart("only")}}},
		"second part not text": {{Parts: []entity.Part{
			entity.NewTextPart("a"),
			entity.NewInlineDataPart("image/jpeg", "b"),
		}}},
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := c.Interactive(contents, "")
			assert.Nil(t, req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
		})
	}
}

func TestAutomatedBuildsSingleEntry(t *testing.T) {
	req, err := NewComposer("").Automated("ZmFrZQ==")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Contents, 1)
	content := req.Contents[0]
	assert.Equal(t, entity.RoleUser, content.Role)
	require.Len(t, content.Parts, 2)
	assert.Equal(t, entity.NewInlineDataPart("image/jpeg", "ZmFrZQ=="), content.Parts[0])
	assert.Equal(t, entity.NewTextPart(AutomatedInstruction), content.Parts[1])
}

func TestAutomatedMissingImage(t *testing.T) {
	req, err := NewComposer("").Automated("")
	assert.Nil(t, req)
	require.Error(t, err)
	assert.Equal(t, "No image provided.", apperrors.PublicMessage(err))
}
