package entity

import (
	"encoding/json"
	"fmt"
)

// RoleUser 用户角色标记
const RoleUser = "user"

// PartKind 内容片段类型
type PartKind int

const (
	// PartUnknown 既无文本也无内联数据
	PartUnknown PartKind = iota
	// PartText 文本片段
	PartText
	// PartInlineData 内联二进制片段
	PartInlineData
)

// Blob 内联二进制数据，Data 保持 base64 编码的传输形态
type Blob struct {
	MIMEType string
	Data     string
}

// Part 生成请求中的一个片段：文本或内联图片
type Part struct {
	Kind       PartKind
	Text       string
	InlineData *Blob
}

// NewTextPart 创建文本片段
func NewTextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// NewInlineDataPart 创建内联数据片段
func NewInlineDataPart(mimeType, data string) Part {
	return Part{Kind: PartInlineData, InlineData: &Blob{MIMEType: mimeType, Data: data}}
}

// Content 一条带角色的内容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationRequest 单次生成请求，每个 HTTP 调用只对应一个
type GenerationRequest struct {
	Model    string
	Contents []Content
}

// GenerationChunk 模型流式输出的一个增量文本
type GenerationChunk struct {
	Text string
}

// CloneContents 深拷贝内容列表，避免改写调用方数据
func CloneContents(contents []Content) []Content {
	out := make([]Content, len(contents))
	for i, c := range contents {
		parts := make([]Part, len(c.Parts))
		for j, p := range c.Parts {
			if p.InlineData != nil {
				blob := *p.InlineData
				p.InlineData = &blob
			}
			parts[j] = p
		}
		out[i] = Content{Role: c.Role, Parts: parts}
	}
	return out
}

type blobWire struct {
	MIMEType      string `json:"mime_type,omitempty"`
	MIMETypeCamel string `json:"mimeType,omitempty"`
	Data          string `json:"data"`
}

type partWire struct {
	Text            *string   `json:"text,omitempty"`
	InlineData      *blobWire `json:"inline_data,omitempty"`
	InlineDataCamel *blobWire `json:"inlineData,omitempty"`
}

// UnmarshalJSON 同时接受 inline_data/mime_type 与 inlineData/mimeType 两种写法
func (p *Part) UnmarshalJSON(b []byte) error {
	var w partWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("invalid part: %w", err)
	}

	*p = Part{}
	blob := w.InlineData
	if blob == nil {
		blob = w.InlineDataCamel
	}
	switch {
	case w.Text != nil:
		p.Kind = PartText
		p.Text = *w.Text
	case blob != nil:
		mime := blob.MIMEType
		if mime == "" {
			mime = blob.MIMETypeCamel
		}
		p.Kind = PartInlineData
		p.InlineData = &Blob{MIMEType: mime, Data: blob.Data}
	}
	return nil
}

// MarshalJSON 输出 snake_case 形式
func (p Part) MarshalJSON() ([]byte, error) {
	var w partWire
	switch p.Kind {
	case PartText:
		text := p.Text
		w.Text = &text
	case PartInlineData:
		if p.InlineData != nil {
			w.InlineData = &blobWire{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
		}
	}
	return json.Marshal(w)
}
