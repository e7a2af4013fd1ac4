package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

func TestMatchCrisisKeyword(t *testing.T) {
	assert.True(t, MatchCrisisKeyword("我真的不想活了"))
	assert.True(t, MatchCrisisKeyword("有时候会想伤害自己"))
	assert.True(t, MatchCrisisKeyword("I just want to end my life"))
	assert.True(t, MatchCrisisKeyword("I WANT TO KILL MYSELF"))

	assert.False(t, MatchCrisisKeyword("今天考试压力好大"))
	assert.False(t, MatchCrisisKeyword("work has been stressful lately"))
	assert.False(t, MatchCrisisKeyword(""))
}

func TestClampIntensity(t *testing.T) {
	assert.Equal(t, 0.0, ClampIntensity(-0.5))
	assert.Equal(t, 0.0, ClampIntensity(0))
	assert.Equal(t, 0.7, ClampIntensity(0.7))
	assert.Equal(t, 1.0, ClampIntensity(1.8))
}

func TestAnalyzeKeywordBypassesModel(t *testing.T) {
	// 命中关键词时不应调用模型
	called := false
	client := &LLMClient{
		JSON: &stubModel{
			generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				called = true
				return nil, errors.New("should not be called")
			},
		},
	}
	service := NewEmotionService(client)

	result := service.Analyze(context.Background(), "最近总觉得活不下去")

	assert.False(t, called)
	assert.Equal(t, "crisis", result.Label)
	assert.Equal(t, crisisKeywordIntensity, result.Intensity)
}

func TestAnalyzeParsesModelOutput(t *testing.T) {
	client := &LLMClient{
		JSON: &stubModel{
			generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				return textResponse(`{"label": "stress", "intensity": 0.72, "rationale": "提到考试压力"}`), nil
			},
		},
	}
	service := NewEmotionService(client)

	result := service.Analyze(context.Background(), "下周期末考，完全复习不完")

	assert.Equal(t, "stress", result.Label)
	assert.Equal(t, 0.72, result.Intensity)
	assert.Equal(t, "提到考试压力", result.Rationale)
}

func TestAnalyzeFallbackOnModelError(t *testing.T) {
	client := &LLMClient{
		JSON: &stubModel{
			generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				return nil, errors.New("upstream timeout")
			},
		},
	}
	service := NewEmotionService(client)

	result := service.Analyze(context.Background(), "今天过得一般")

	assert.Equal(t, "neutral", result.Label)
	assert.Equal(t, 0.0, result.Intensity)
}

func TestParseEmotionResult(t *testing.T) {
	t.Run("纯JSON", func(t *testing.T) {
		result := parseEmotionResult(`{"label": "sadness", "intensity": 0.6, "rationale": "ok"}`)
		assert.Equal(t, "sadness", result.Label)
		assert.Equal(t, 0.6, result.Intensity)
	})

	t.Run("JSON外夹带文字", func(t *testing.T) {
		result := parseEmotionResult("分类结果如下：\n{\"label\": \"anger\", \"intensity\": 0.8, \"rationale\": \"ok\"}\n以上。")
		assert.Equal(t, "anger", result.Label)
	})

	t.Run("强度越界被收敛", func(t *testing.T) {
		result := parseEmotionResult(`{"label": "joy", "intensity": 1.5, "rationale": "ok"}`)
		assert.Equal(t, 1.0, result.Intensity)
	})

	t.Run("缺少label退化为neutral", func(t *testing.T) {
		result := parseEmotionResult(`{"intensity": 0.4, "rationale": "ok"}`)
		assert.Equal(t, "neutral", result.Label)
	})

	t.Run("完全不可解析时兜底", func(t *testing.T) {
		result := parseEmotionResult("抱歉，我无法完成分类")
		assert.Equal(t, "neutral", result.Label)
		assert.Equal(t, 0.0, result.Intensity)
	})
}
