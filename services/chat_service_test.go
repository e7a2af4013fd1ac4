package services

import (
	"context"
	"errors"
	"testing"

	"CompanionGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

func streamingStub(chunks []string, capture *[]llms.MessageContent) *stubModel {
	return &stubModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
			if capture != nil {
				*capture = messages
			}
			opts := &llms.CallOptions{}
			for _, opt := range options {
				opt(opts)
			}
			full := ""
			for _, c := range chunks {
				full += c
				if opts.StreamingFunc != nil {
					if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
						return nil, err
					}
				}
			}
			return textResponse(full), nil
		},
	}
}

func TestStreamReplyChunkOrder(t *testing.T) {
	chunks := []string{"我在", "听，", "请继续", "说。"}
	service := NewChatService(&LLMClient{Chat: streamingStub(chunks, nil)})

	stream := service.StreamReply(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "最近有点累"},
	}, "")

	var got []string
	for chunk := range stream {
		require.NoError(t, chunk.Err)
		got = append(got, chunk.Content)
	}
	service.Wait()

	assert.Equal(t, chunks, got)
}

func TestStreamReplyMessageAssembly(t *testing.T) {
	var captured []llms.MessageContent
	service := NewChatService(&LLMClient{Chat: streamingStub([]string{"好的"}, &captured)})

	stream := service.StreamReply(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "你好"},
		{Role: "assistant", Content: "你好，今天感觉怎么样？"},
		{Role: "user", Content: "还行"},
	}, "用户上周谈到过学业压力")

	for range stream {
	}
	service.Wait()

	// 系统提示词 + 历史摘要 + 3条对话
	require.Len(t, captured, 5)
	assert.Equal(t, schema.ChatMessageTypeSystem, captured[0].Role)
	assert.Equal(t, schema.ChatMessageTypeSystem, captured[1].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, captured[2].Role)
	assert.Equal(t, schema.ChatMessageTypeAI, captured[3].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, captured[4].Role)
}

func TestStreamReplyModelError(t *testing.T) {
	service := NewChatService(&LLMClient{Chat: &stubModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
			return nil, errors.New("upstream unavailable")
		},
	}})

	stream := service.StreamReply(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "在吗"},
	}, "")

	var chunks []StreamChunk
	for chunk := range stream {
		chunks = append(chunks, chunk)
	}
	service.Wait()

	require.Len(t, chunks, 1)
	assert.Error(t, chunks[0].Err)
}

func TestStreamReplyContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	service := NewChatService(&LLMClient{Chat: &stubModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
			opts := &llms.CallOptions{}
			for _, opt := range options {
				opt(opts)
			}
			if err := opts.StreamingFunc(ctx, []byte("第一块")); err != nil {
				return nil, err
			}
			if err := opts.StreamingFunc(ctx, []byte("第二块")); err != nil {
				return nil, err
			}
			return textResponse("第一块第二块"), nil
		},
	}})

	stream := service.StreamReply(ctx, []models.ChatMessage{
		{Role: "user", Content: "在吗"},
	}, "")

	// 读到第一块后取消并停止消费，下发协程应能自行退出并关闭channel
	first := <-stream
	require.NoError(t, first.Err)
	assert.Equal(t, "第一块", first.Content)
	cancel()

	service.Wait()

	// channel已关闭，取消后不再有错误分片泄漏给调用方
	for chunk := range stream {
		assert.NoError(t, chunk.Err)
	}
}

func TestGenerateSummary(t *testing.T) {
	var captured []llms.MessageContent
	service := NewChatService(&LLMClient{Chat: &stubModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
			captured = messages
			return textResponse("  用户谈到考试压力，AI建议呼吸练习。\n"), nil
		},
	}})

	summary, err := service.GenerateSummary(context.Background(), "用户: 压力大\nAI: 试试深呼吸", "上次谈到睡眠问题")

	require.NoError(t, err)
	assert.Equal(t, "用户谈到考试压力，AI建议呼吸练习。", summary)
	// 规则提示 + 历史摘要 + 最新对话
	require.Len(t, captured, 3)
	assert.Equal(t, schema.ChatMessageTypeHuman, captured[2].Role)
}

func TestGenerateSummaryError(t *testing.T) {
	service := NewChatService(&LLMClient{Chat: &stubModel{
		generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
			return nil, errors.New("boom")
		},
	}})

	_, err := service.GenerateSummary(context.Background(), "abc", "")
	assert.Error(t, err)
}
