package services

import (
	"context"
	"errors"
	"testing"

	"CompanionGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestTemplatesForUserType(t *testing.T) {
	assert.Equal(t, "student_1", TemplatesForUserType(models.UserTypeStudent)[0].ID)
	assert.Equal(t, "prof_1", TemplatesForUserType(models.UserTypeYoungProfessional)[0].ID)
	assert.Equal(t, "preg_1", TemplatesForUserType(models.UserTypePregnantWoman)[0].ID)
	assert.Equal(t, "gen_1", TemplatesForUserType(models.UserTypeGeneral)[0].ID)
	// 未知分类按通用处理
	assert.Equal(t, "gen_1", TemplatesForUserType("whatever")[0].ID)
}

func TestSelectSuggestionsLowMoodPrioritizesCalming(t *testing.T) {
	summary := models.MoodSummary{AverageMood: 3.2, Trend: "stable", EntryCount: 5}

	cards := SelectSuggestions(models.UserTypeStudent, summary)

	require.Len(t, cards, 3)
	assert.Equal(t, "breathing", cards[0].Category)
	for _, c := range cards {
		assert.True(t, c.UserTypeSpecific)
	}
}

func TestSelectSuggestionsDecliningTrend(t *testing.T) {
	summary := models.MoodSummary{AverageMood: 6.0, Trend: "declining", EntryCount: 5}

	cards := SelectSuggestions(models.UserTypeGeneral, summary)

	require.Len(t, cards, 3)
	assert.Equal(t, "breathing", cards[0].Category)
	for _, c := range cards {
		assert.False(t, c.UserTypeSpecific)
	}
}

func TestSelectSuggestionsHighMoodPrioritizesActivity(t *testing.T) {
	summary := models.MoodSummary{AverageMood: 8.0, Trend: "improving", EntryCount: 5}

	cards := SelectSuggestions(models.UserTypeYoungProfessional, summary)

	require.Len(t, cards, 3)
	assert.Equal(t, "exercise", cards[0].Category)
}

func TestSelectSuggestionsBackfillsToThree(t *testing.T) {
	// 通用模板只有3条，各类目都命中后仍需补齐到3条且不重复
	summary := models.MoodSummary{AverageMood: 5.0, Trend: "stable", EntryCount: 5}

	cards := SelectSuggestions(models.UserTypeGeneral, summary)

	require.Len(t, cards, 3)
	seen := map[string]bool{}
	for _, c := range cards {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}
}

func TestSummaryMessage(t *testing.T) {
	assert.Contains(t, SummaryMessage(models.MoodSummary{EntryCount: 2}), "至少记录3条")
	assert.Contains(t, SummaryMessage(models.MoodSummary{EntryCount: 5, Trend: "improving"}), "变好")
	assert.Contains(t, SummaryMessage(models.MoodSummary{EntryCount: 5, Trend: "declining"}), "低落")
	assert.Contains(t, SummaryMessage(models.MoodSummary{EntryCount: 5, Trend: "stable"}), "建议")
}

func TestGenerateAISuggestions(t *testing.T) {
	summary := models.MoodSummary{AverageMood: 4.0, Trend: "declining", EntryCount: 6}

	t.Run("解析模型输出", func(t *testing.T) {
		service := NewSuggestionService(&LLMClient{Chat: &stubModel{
			generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				return textResponse(`[
					{"title": "正念呼吸", "description": "找个安静的地方深呼吸。", "category": "breathing", "durationMinutes": 5},
					{"title": "写心情日记", "description": "写下此刻的感受。", "category": "mindfulness", "durationMinutes": 10}
				]`), nil
			},
		}})

		cards, err := service.GenerateAISuggestions(context.Background(), "user-1", models.UserTypeStudent, summary)

		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, "正念呼吸", cards[0].Title)
		assert.Contains(t, cards[0].ID, "ai_user-1")
		assert.True(t, cards[0].UserTypeSpecific)
	})

	t.Run("模型失败回退模板", func(t *testing.T) {
		service := NewSuggestionService(&LLMClient{Chat: &stubModel{
			generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				return nil, errors.New("upstream timeout")
			},
		}})

		cards, err := service.GenerateAISuggestions(context.Background(), "user-1", models.UserTypeStudent, summary)

		require.NoError(t, err)
		require.Len(t, cards, 3)
		assert.Equal(t, "breathing", cards[0].Category)
	})

	t.Run("输出不可解析时回退模板", func(t *testing.T) {
		service := NewSuggestionService(&LLMClient{Chat: &stubModel{
			generate: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				return textResponse("抱歉，我现在无法生成建议"), nil
			},
		}})

		cards, err := service.GenerateAISuggestions(context.Background(), "user-1", models.UserTypeGeneral, summary)

		require.NoError(t, err)
		require.Len(t, cards, 3)
	})
}

func TestParseSuggestionCards(t *testing.T) {
	t.Run("数组外夹带文字", func(t *testing.T) {
		cards, err := ParseSuggestionCards("为你生成了这些建议：\n[{\"title\": \"散步\", \"category\": \"exercise\", \"durationMinutes\": 10}]")
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "散步", cards[0].Title)
	})

	t.Run("超过3条截断", func(t *testing.T) {
		cards, err := ParseSuggestionCards(`[{"title":"a"},{"title":"b"},{"title":"c"},{"title":"d"}]`)
		require.NoError(t, err)
		assert.Len(t, cards, 3)
	})

	t.Run("缺省字段填默认值", func(t *testing.T) {
		cards, err := ParseSuggestionCards(`[{"description": "只有描述"}]`)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "放松活动", cards[0].Title)
		assert.Equal(t, "mindfulness", cards[0].Category)
		assert.Equal(t, 5, cards[0].DurationMinutes)
	})

	t.Run("空数组报错", func(t *testing.T) {
		_, err := ParseSuggestionCards(`[]`)
		assert.Error(t, err)
	})

	t.Run("无数组报错", func(t *testing.T) {
		_, err := ParseSuggestionCards("没有JSON")
		assert.Error(t, err)
	})
}
