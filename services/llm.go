package services

import (
	"fmt"

	"CompanionGo/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMClient 持有两个模型句柄：Chat 用于流式对话，JSON 用于结构化输出
type LLMClient struct {
	Chat llms.Model
	JSON llms.Model
}

// NewLLMClient 初始化 OpenAI 兼容客户端，LLM_MOCK_MODE 开启时返回内置离线模型
func NewLLMClient(conf config.Config) (*LLMClient, error) {
	if conf.LLMMockMode {
		return &LLMClient{
			Chat: NewMockChatModel(),
			JSON: NewMockJSONModel(),
		}, nil
	}

	chatOpts := []openai.Option{
		openai.WithToken(conf.OpenAIAPIKey),
		openai.WithModel(conf.OpenAIModel),
	}
	jsonOpts := []openai.Option{
		openai.WithToken(conf.OpenAIAPIKey),
		openai.WithModel(conf.OpenAIModel),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	}
	if conf.OpenAIAPIEndpoint != "" {
		chatOpts = append(chatOpts, openai.WithBaseURL(conf.OpenAIAPIEndpoint))
		jsonOpts = append(jsonOpts, openai.WithBaseURL(conf.OpenAIAPIEndpoint))
	}

	chatModel, err := openai.New(chatOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	jsonModel, err := openai.New(jsonOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create json model: %w", err)
	}

	return &LLMClient{
		Chat: chatModel,
		JSON: jsonModel,
	}, nil
}
