package services

import (
	"CompanionGo/config"
	"CompanionGo/models"
	"CompanionGo/utils"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// 决策阈值。原型阶段验证过的取值：负面情绪强度达到 0.85 升级危机干预，
// 达到 0.55 给支持建议。关键词命中的消息不看阈值，直接走危机流程
const (
	CrisisThreshold  = 0.85
	SupportThreshold = 0.55
)

// 高风险情绪标签
var highRiskLabels = map[string]bool{
	"sadness": true,
	"stress":  true,
	"anger":   true,
	"crisis":  true,
}

type AgentService struct {
	db *gorm.DB
}

func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{db: db}
}

// Decide 根据情绪分析结果决定下一步系统行为：
// - normal_reply：正常聊天
// - support_suggestion：提供情绪支持建议
// - crisis_flow：触发危机干预流程
func Decide(emotion models.EmotionResult) models.DecisionResponse {
	// 关键词直判或负面情绪非常严重 → 危机干预
	if emotion.Label == "crisis" || (highRiskLabels[emotion.Label] && emotion.Intensity >= CrisisThreshold) {
		return models.DecisionResponse{
			NextAction: models.ActionCrisisFlow,
			Reason:     "检测到高风险情绪状态，升级危机干预",
			Emotion:    emotion,
			Metadata:   map[string]string{"escalation": "crisis_flow"},
		}
	}

	// 情绪偏负面但未到危机 → 给支持建议
	if highRiskLabels[emotion.Label] && emotion.Intensity >= SupportThreshold {
		return models.DecisionResponse{
			NextAction: models.ActionSupportSuggestion,
			Reason:     "检测到负面情绪，提供应对建议",
			Emotion:    emotion,
			Metadata:   map[string]string{"suggestions": "breathing, grounding_54321, journaling"},
		}
	}

	// 情绪正常 → 继续正常聊天
	return models.DecisionResponse{
		NextAction: models.ActionNormalReply,
		Reason:     "情绪处于正常范围，继续普通对话",
		Emotion:    emotion,
		Metadata:   map[string]string{},
	}
}

// DecideAndPersist 生成决策并落库。决策记录无条件写入，危机事件仅在
// crisis_flow 时写入，两者在同一事务中提交。落库失败只记日志，
// 内存中的决策仍返回给调用方，聊天不能因为记录失败而中断
func (s *AgentService) DecideAndPersist(userID, sessionID string, emotion models.EmotionResult) models.DecisionResponse {
	decision := Decide(emotion)

	metadataJSON, _ := json.Marshal(decision.Metadata)

	record := models.AgentDecision{
		ID:               utils.GenerateID(),
		UserID:           userID,
		SessionID:        sessionID,
		EmotionLabel:     emotion.Label,
		EmotionIntensity: ClampIntensity(emotion.Intensity),
		EmotionRationale: emotion.Rationale,
		NextAction:       decision.NextAction,
		ActionReason:     decision.Reason,
		ActionMetadata:   string(metadataJSON),
		CreatedAt:        time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if decision.NextAction == models.ActionCrisisFlow {
			event := models.CrisisEvent{
				ID:               utils.GenerateID(),
				UserID:           userID,
				SessionID:        sessionID,
				DecisionID:       record.ID,
				EmotionIntensity: record.EmotionIntensity,
				EmotionRationale: record.EmotionRationale,
				ActionTaken:      "crisis_payload_sent",
				CreatedAt:        time.Now(),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.Logger.Errorw("决策记录落库失败",
			"error", err,
			"uid", userID,
			"sessionID", sessionID,
			"nextAction", decision.NextAction,
		)
		return decision
	}

	decision.DecisionID = record.ID
	return decision
}
