package models

import "time"

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

// NewUserResponse 构造用户响应
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		UserType: u.UserType,
	}
}

// TokenResponse 登录/刷新响应结构体
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	User         UserResponse `json:"user"`
}

// MoodEntryResponse 心情记录响应结构体
type MoodEntryResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	MoodScore  int                `json:"moodScore"`
	Note       string             `json:"note"`
	Tags       []string           `json:"tags"`
	Sentiment  *SentimentSnapshot `json:"sentiment,omitempty"`
	RecordedAt time.Time          `json:"recordedAt"`
}

// NewMoodEntryResponse 构造心情记录响应
func NewMoodEntryResponse(e *MoodEntry) MoodEntryResponse {
	resp := MoodEntryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		MoodScore:  e.MoodScore,
		Note:       e.Note,
		Tags:       StringToTags(e.Tags),
		RecordedAt: e.RecordedAt,
	}
	if e.SentimentLabel != "" {
		resp.Sentiment = &SentimentSnapshot{
			Label:     e.SentimentLabel,
			Intensity: e.SentimentIntensity,
			Rationale: e.SentimentRationale,
		}
	}
	return resp
}

// TrendPoint 趋势图单个数据点，空桶 averageScore 为 0 且 entryCount 为 0
type TrendPoint struct {
	Date         string  `json:"date"`
	AverageScore float64 `json:"averageScore"`
	EntryCount   int     `json:"entryCount"`
}

// MoodSummary 近期心情统计
type MoodSummary struct {
	AverageMood  float64 `json:"averageMood"`
	Trend        string  `json:"trend"` // improving / declining / stable / unknown
	EntryCount   int     `json:"entryCount"`
	RecentScores []int   `json:"recentScores"`
}

// SuggestionsResponse 建议响应结构体
type SuggestionsResponse struct {
	Suggestions     []SuggestionCard `json:"suggestions"`
	UserMoodSummary MoodSummary      `json:"userMoodSummary"`
	Message         string           `json:"message"`
}

// DecisionResponse 决策响应结构体
type DecisionResponse struct {
	NextAction string            `json:"nextAction"`
	Reason     string            `json:"reason"`
	Emotion    EmotionResult     `json:"emotion"`
	Metadata   map[string]string `json:"metadata"`
	DecisionID string            `json:"decisionId,omitempty"`
}
