package services

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// MockModel 内置离线模型，本地联调时替代外部服务
type MockModel struct {
	Response string
}

// NewMockChatModel 返回固定陪伴回复的离线模型
func NewMockChatModel() *MockModel {
	return &MockModel{
		Response: "我在听。谢谢你愿意和我分享，能再多说一点这件事带给你的感受吗？",
	}
}

// NewMockJSONModel 返回固定分类结果的离线模型
func NewMockJSONModel() *MockModel {
	return &MockModel{
		Response: `{"label": "neutral", "intensity": 0.2, "rationale": "mock classification"}`,
	}
}

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := &llms.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	// 有流式回调时逐词下发，模拟真实的增量输出
	if opts.StreamingFunc != nil {
		for _, word := range strings.SplitAfter(m.Response, "，") {
			if err := opts.StreamingFunc(ctx, []byte(word)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: m.Response},
		},
	}, nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.Response, nil
}
