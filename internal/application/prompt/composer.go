// Package prompt 负责把客户端输入组装成生成请求
package prompt

import (
	"fmt"
	"strings"

	"vision-narrator-api/internal/domain/entity"
	apperrors "vision-narrator-api/pkg/errors"
)

const (
	// InteractivePrefix 交互模式下拼接在用户文本前的固定指令
	InteractivePrefix = "Describe the image in a natural, simple, descriptive sentence, " +
		"using no more than 35 words. Start your description naturally. "

	// AutomatedInstruction 自动模式下随图片发送的固定指令
	AutomatedInstruction = "Observe the image and describe what you see. You need to say what are the major objects or people in the frame and any major action going on. " +
		"Explain which objects or actions are to the left or right. Describe only the objects, people, or actions in the frame in 35 words in a natural, simple style."

	// AutomatedImageMIMEType 自动模式图片固定按 JPEG 处理
	AutomatedImageMIMEType = "image/jpeg"

	// DefaultModel 未配置时使用的模型
	DefaultModel = "gemini-1.5-flash"

	// userTextPart 交互模式中用户文本所在的片段下标
	userTextPart = 1
)

// ErrNoImage 自动模式缺少图片
var ErrNoImage = apperrors.New(apperrors.CodeInvalidParam, "No image provided.")

// Composer 提示词组装器
type Composer struct {
	defaultModel string
}

// NewComposer 创建组装器
func NewComposer(defaultModel string) *Composer {
	if strings.TrimSpace(defaultModel) == "" {
		defaultModel = DefaultModel
	}
	return &Composer{defaultModel: defaultModel}
}

// DefaultModel 返回默认模型
func (c *Composer) DefaultModel() string {
	return c.defaultModel
}

// Interactive 交互模式：把固定指令拼到 contents[0].parts[1].text 前面
// contents 为 nil 表示请求体缺少 contents 字段。结构不符直接报错，不做修正。
func (c *Composer) Interactive(contents []entity.Content, model string) (*entity.GenerationRequest, error) {
	if contents == nil {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "missing required field: contents")
	}
	if len(contents) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "contents must not be empty")
	}
	first := contents[0]
	if len(first.Parts) <= userTextPart {
		return nil, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("contents[0].parts[%d] is required", userTextPart))
	}
	if first.Parts[userTextPart].Kind != entity.PartText {
		return nil, apperrors.New(apperrors.CodeInvalidParam,
			fmt.Sprintf("contents[0].parts[%d].text is required", userTextPart))
	}

	out := entity.CloneContents(contents)
	out[0].Parts[userTextPart].Text = InteractivePrefix + contents[0].Parts[userTextPart].Text

	if model == "" {
		model = c.defaultModel
	}
	return &entity.GenerationRequest{Model: model, Contents: out}, nil
}

// Automated 自动模式：固定指令 + 图片，模型不可覆盖
func (c *Composer) Automated(imageBase64 string) (*entity.GenerationRequest, error) {
	if imageBase64 == "" {
		return nil, ErrNoImage
	}
	return &entity.GenerationRequest{
		Model: c.defaultModel,
		Contents: []entity.Content{{
			Role: entity.RoleUser,
			Parts: []entity.Part{
				entity.NewInlineDataPart(AutomatedImageMIMEType, imageBase64),
				entity.NewTextPart(AutomatedInstruction),
			},
		}},
	}, nil
}
