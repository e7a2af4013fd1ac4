package services

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const emotionSystemPrompt = `你是心理健康聊天消息的情绪分类器，只负责分类，不做任何回复。

返回一个 JSON，严格包含以下3个字段：
- label: 取值为 ["joy", "neutral", "stress", "sadness", "anger"] 之一
- intensity: 0 到 1 之间的浮点数
- rationale: 一句话说明分类依据

JSON 之外不要输出任何文字。`

// 危机关键词，命中任意一个直接走危机流程，不依赖外部服务
var crisisKeywords = []string{
	"自杀", "不想活", "结束生命", "活不下去", "自残", "伤害自己",
	"suicide", "kill myself", "end my life", "self-harm", "hurt myself", "want to die",
}

// 关键词命中时的固定强度，取值需不低于危机阈值
const crisisKeywordIntensity = 0.95

var jsonPattern = regexp.MustCompile(`(?s)\{.*\}`)

type EmotionService struct {
	client *LLMClient
}

func NewEmotionService(client *LLMClient) *EmotionService {
	return &EmotionService{client: client}
}

// MatchCrisisKeyword 危机关键词匹配，大小写不敏感
func MatchCrisisKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ClampIntensity 将强度收敛到 [0,1]
func ClampIntensity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Analyze 对用户文本做情绪分析。关键词优先于模型；模型失败时退化为
// neutral 结果而不是把错误抛给调用方，保证聊天链路不因分类失败而中断
func (s *EmotionService) Analyze(ctx context.Context, text string) models.EmotionResult {
	if MatchCrisisKeyword(text) {
		return models.EmotionResult{
			Label:     "crisis",
			Intensity: crisisKeywordIntensity,
			Rationale: "命中危机关键词",
		}
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(emotionSystemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	response, err := s.client.JSON.GenerateContent(ctx, messages, llms.WithTemperature(0.0))
	if err != nil {
		config.Logger.Errorw("情绪分析调用失败，使用兜底结果", "error", err)
		return fallbackEmotionResult()
	}
	if len(response.Choices) == 0 {
		config.Logger.Errorw("情绪分析未返回内容，使用兜底结果")
		return fallbackEmotionResult()
	}

	return parseEmotionResult(response.Choices[0].Content)
}

// parseEmotionResult 解析模型输出，容忍 JSON 外夹带文字的情况
func parseEmotionResult(raw string) models.EmotionResult {
	var data struct {
		Label     string  `json:"label"`
		Intensity float64 `json:"intensity"`
		Rationale string  `json:"rationale"`
	}

	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		matched := jsonPattern.FindString(raw)
		if matched == "" || json.Unmarshal([]byte(matched), &data) != nil {
			config.Logger.Errorw("情绪分析结果解析失败，使用兜底结果", "raw", raw)
			return fallbackEmotionResult()
		}
	}

	if data.Label == "" {
		data.Label = "neutral"
	}

	return models.EmotionResult{
		Label:     data.Label,
		Intensity: ClampIntensity(data.Intensity),
		Rationale: data.Rationale,
	}
}

func fallbackEmotionResult() models.EmotionResult {
	return models.EmotionResult{
		Label:     "neutral",
		Intensity: 0,
		Rationale: "fallback",
	}
}
