package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartUnmarshalAcceptsBothSpellings(t *testing.T) {
	var parts []Part
	raw := `[
		{"inline_data": {"mime_type": "image/png", "data": "AAA="}},
		{"inlineData": {"mimeType": "image/jpeg", "data": "BBB="}},
		{"text": ""},
		{"other": 1}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &parts))
	require.Len(t, parts, 4)

	assert.Equal(t, PartInlineData, parts[0].Kind)
	assert.Equal(t, &Blob{MIMEType: "image/png", Data: "AAA="}, parts[0].InlineData)
	assert.Equal(t, PartInlineData, parts[1].Kind)
	assert.Equal(t, &Blob{MIMEType: "image/jpeg", Data: "BBB="}, parts[1].InlineData)
	assert.Equal(t, PartText, parts[2].Kind)
	assert.Equal(t, "", parts[2].Text)
	assert.Equal(t, PartUnknown, parts[3].Kind)
}

func TestPartUnmarshalRejectsNonStringText(t *testing.T) {
	var p Part
	assert.Error(t, json.Unmarshal([]byte(`{"text": 42}`), &p))
}

func TestPartMarshal(t *testing.T) {
	b, err := json.Marshal([]Part{NewInlineDataPart("image/jpeg", "AAA="), NewTextPart("hi")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"inline_data":{"mime_type":"image/jpeg","data":"AAA="}},{"text":"hi"}]`, string(b))
}

func TestCloneContentsIsDeep(t *testing.T) {
	src := []Content{{Role: RoleUser, Parts: []Part{NewInlineDataPart("image/jpeg", "A"), NewTextPart("x")}}}
	dst := CloneContents(src)

	dst[0].Parts[1].Text = "changed"
	dst[0].Parts[0].InlineData.Data = "B"

	assert.Equal(t, "x", src[0].Parts[1].Text)
	assert.Equal(t, "A", src[0].Parts[0].InlineData.Data)
}
