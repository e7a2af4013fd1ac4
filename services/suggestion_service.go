package services

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// 各用户分类的建议模板
var studentSuggestions = []models.SuggestionCard{
	{ID: "student_1", Title: "5分钟学习间歇", Description: "起身做几组拉伸，让大脑在继续学习前得到放松。", Category: "study_break", DurationMinutes: 5},
	{ID: "student_2", Title: "考前焦虑缓解", Description: "练习箱式呼吸：吸气4拍，屏息4拍，呼气4拍，屏息4拍，重复5次。", Category: "breathing", DurationMinutes: 3},
	{ID: "student_3", Title: "番茄工作法", Description: "专注学习25分钟后休息5分钟，帮助保持注意力、减少倦怠。", Category: "study_break", DurationMinutes: 30},
	{ID: "student_4", Title: "校园散步", Description: "在校园或学习区附近走10分钟，清空思绪、提升专注力。", Category: "exercise", DurationMinutes: 10},
}

var professionalSuggestions = []models.SuggestionCard{
	{ID: "prof_1", Title: "工位拉伸", Description: "用简单的颈部、肩部和手腕拉伸缓解工作紧张。", Category: "exercise", DurationMinutes: 5},
	{ID: "prof_2", Title: "办公室正念", Description: "在工位上做3分钟正念练习，专注呼吸，放下工作压力。", Category: "mindfulness", DurationMinutes: 3},
	{ID: "prof_3", Title: "认真吃午饭", Description: "离开工位吃午饭，不看邮件和消息，专心用餐。", Category: "break", DurationMinutes: 30},
	{ID: "prof_4", Title: "下班前复位", Description: "下班前花5分钟列出明天的优先事项，在心里为今天收尾。", Category: "planning", DurationMinutes: 5},
}

var pregnantSuggestions = []models.SuggestionCard{
	{ID: "preg_1", Title: "孕期呼吸练习", Description: "适合孕期的温和呼吸练习，舒服地坐好，深呼吸放松。", Category: "breathing", DurationMinutes: 5},
	{ID: "preg_2", Title: "孕期积极暗示", Description: "读一读关于孕育和成为母亲的正向语句，关注自己的力量。", Category: "mindfulness", DurationMinutes: 5},
	{ID: "preg_3", Title: "温和孕期瑜伽", Description: "做为孕妇设计的温和拉伸，重点是髋部和骨盆底练习。", Category: "exercise", DurationMinutes: 15},
	{ID: "preg_4", Title: "和宝宝建立联结", Description: "安静地感受宝宝的活动，想象与宝宝见面的时刻。", Category: "bonding", DurationMinutes: 10},
}

var generalSuggestions = []models.SuggestionCard{
	{ID: "gen_1", Title: "深呼吸练习", Description: "做5分钟深呼吸，缓解压力和焦虑。", Category: "breathing", DurationMinutes: 5},
	{ID: "gen_2", Title: "感恩日记", Description: "写下今天值得感谢的3件事，把注意力转向生活中积极的一面。", Category: "mindfulness", DurationMinutes: 5},
	{ID: "gen_3", Title: "短途散步", Description: "到户外走10分钟，新鲜空气和活动能明显改善心情。", Category: "exercise", DurationMinutes: 10},
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

type SuggestionService struct {
	client *LLMClient
}

func NewSuggestionService(client *LLMClient) *SuggestionService {
	return &SuggestionService{client: client}
}

// TemplatesForUserType 按用户分类取建议模板
func TemplatesForUserType(userType string) []models.SuggestionCard {
	switch userType {
	case models.UserTypeStudent:
		return studentSuggestions
	case models.UserTypeYoungProfessional:
		return professionalSuggestions
	case models.UserTypePregnantWoman:
		return pregnantSuggestions
	default:
		return generalSuggestions
	}
}

// SelectSuggestions 根据用户分类和近期心情选出最多3条建议。
// 心情偏低优先呼吸/正念类，状态不错时推进一步的活动类
func SelectSuggestions(userType string, summary models.MoodSummary) []models.SuggestionCard {
	all := TemplatesForUserType(userType)

	var priority []string
	switch {
	case summary.AverageMood > 0 && summary.AverageMood < 4, summary.Trend == "declining":
		priority = []string{"breathing", "mindfulness"}
	case summary.AverageMood >= 7:
		priority = []string{"exercise", "break", "study_break"}
	default:
		priority = []string{"mindfulness", "exercise", "breathing"}
	}

	selected := make([]models.SuggestionCard, 0, 3)
	picked := make(map[string]bool)

	for _, category := range priority {
		for _, s := range all {
			if s.Category == category && !picked[s.ID] {
				selected = append(selected, s)
				picked[s.ID] = true
				break
			}
		}
		if len(selected) >= 3 {
			break
		}
	}

	// 不够3条时按模板顺序补齐
	for _, s := range all {
		if len(selected) >= 3 {
			break
		}
		if !picked[s.ID] {
			selected = append(selected, s)
			picked[s.ID] = true
		}
	}

	for i := range selected {
		selected[i].UserTypeSpecific = userType != models.UserTypeGeneral
	}

	return selected
}

// SummaryMessage 根据数据量和走势生成提示文案
func SummaryMessage(summary models.MoodSummary) string {
	if summary.EntryCount < 3 {
		return "数据还不够多，至少记录3条心情后可以获得更准确的个性化建议。"
	}
	switch summary.Trend {
	case "improving":
		return "很棒！你最近的心情在变好，继续保持。"
	case "declining":
		return "注意到你最近的心情有些低落，下面这些建议也许能帮到你。"
	default:
		return "这里是为你准备的一些心理健康建议。"
	}
}

// GenerateAISuggestions 调用模型生成个性化建议。解析失败时回退到模板建议，
// 不把原始错误抛给用户
func (s *SuggestionService) GenerateAISuggestions(ctx context.Context, userID, userType string, summary models.MoodSummary) ([]models.SuggestionCard, error) {
	userContext := map[string]string{
		models.UserTypeStudent:           "一名面对学业压力的学生",
		models.UserTypeYoungProfessional: "一名在平衡工作与生活的职场新人",
		models.UserTypePregnantWoman:     "一名处于孕期的准妈妈",
		models.UserTypeGeneral:           "一名寻求心理支持的用户",
	}[userType]
	if userContext == "" {
		userContext = "一名寻求心理支持的用户"
	}

	moodContext := "用户刚开始记录心情，需要温和、容易上手的活动。"
	if summary.EntryCount >= 3 {
		moodContext = fmt.Sprintf("近期心情走势为 %s，平均分 %.1f/10。", summary.Trend, summary.AverageMood)
		if summary.Trend == "declining" {
			moodContext += "用户最近状态不佳，需要额外的支持。"
		} else if summary.Trend == "improving" {
			moodContext += "用户正在好转，可以给一些巩固性的活动。"
		}
	}

	systemPrompt := `你是心理健康陪伴应用的建议生成器。根据用户情况生成3条具体、安全、可立即执行的放松活动，
每条活动耗时3到15分钟。只返回符合以下结构的 JSON 数组，不要输出其他文字：
[
  {"title": "活动名称", "description": "清晰的说明", "category": "breathing|mindfulness|exercise|break|planning", "durationMinutes": 5}
]`

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf("为%s生成3条个性化建议。%s", userContext, moodContext))},
		},
	}

	response, err := s.client.Chat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		config.Logger.Errorw("AI建议生成失败，回退模板建议", "error", err, "uid", userID)
		return SelectSuggestions(userType, summary), nil
	}
	if len(response.Choices) == 0 {
		return SelectSuggestions(userType, summary), nil
	}

	cards, err := ParseSuggestionCards(response.Choices[0].Content)
	if err != nil {
		config.Logger.Errorw("AI建议解析失败，回退模板建议",
			"error", err,
			"uid", userID,
			"raw", response.Choices[0].Content,
		)
		return SelectSuggestions(userType, summary), nil
	}

	for i := range cards {
		cards[i].ID = fmt.Sprintf("ai_%s_%d_%d", userID, time.Now().Unix(), i)
		cards[i].UserTypeSpecific = true
	}

	return cards, nil
}

// ParseSuggestionCards 解析模型输出的建议数组，容忍 JSON 外夹带文字
func ParseSuggestionCards(raw string) ([]models.SuggestionCard, error) {
	var cards []models.SuggestionCard

	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		matched := jsonArrayPattern.FindString(raw)
		if matched == "" {
			return nil, fmt.Errorf("no JSON array found in response")
		}
		if err := json.Unmarshal([]byte(matched), &cards); err != nil {
			return nil, err
		}
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("empty suggestion list")
	}
	if len(cards) > 3 {
		cards = cards[:3]
	}

	for i := range cards {
		if cards[i].Title == "" {
			cards[i].Title = "放松活动"
		}
		if cards[i].Category == "" {
			cards[i].Category = "mindfulness"
		}
		if cards[i].DurationMinutes <= 0 {
			cards[i].DurationMinutes = 5
		}
	}

	return cards, nil
}
