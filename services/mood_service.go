package services

import (
	"CompanionGo/apperrors"
	"CompanionGo/models"
	"fmt"
	"math"
	"time"
)

// BuildDailyTrend 按自然日分桶计算平均分。返回从 start 起连续 days 天的序列，
// 没有记录的日期也会返回（均分为 0，entryCount 为 0），保证前端能画出连续曲线
func BuildDailyTrend(entries []models.MoodEntry, start time.Time, days int) []models.TrendPoint {
	type bucket struct {
		total int
		count int
	}
	grouped := make(map[string]*bucket)

	for _, e := range entries {
		key := e.RecordedAt.Format("2006-01-02")
		if b, ok := grouped[key]; ok {
			b.total += e.MoodScore
			b.count++
		} else {
			grouped[key] = &bucket{total: e.MoodScore, count: 1}
		}
	}

	points := make([]models.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")

		var avg float64
		var count int
		if b, ok := grouped[key]; ok {
			count = b.count
			avg = math.Round(float64(b.total)/float64(b.count)*10) / 10
		}

		points = append(points, models.TrendPoint{
			Date:         key,
			AverageScore: avg,
			EntryCount:   count,
		})
	}

	return points
}

// AnalyzeMoodTrend 统计近期心情：均分，以及前后半段对比得出的走势
func AnalyzeMoodTrend(entries []models.MoodEntry) models.MoodSummary {
	if len(entries) == 0 {
		return models.MoodSummary{
			AverageMood:  0,
			Trend:        "unknown",
			EntryCount:   0,
			RecentScores: []int{},
		}
	}

	scores := make([]int, 0, len(entries))
	total := 0
	for _, e := range entries {
		scores = append(scores, e.MoodScore)
		total += e.MoodScore
	}
	avg := math.Round(float64(total)/float64(len(scores))*10) / 10

	trend := "stable"
	if len(scores) >= 4 {
		mid := len(scores) / 2
		firstTotal, secondTotal := 0, 0
		for _, s := range scores[:mid] {
			firstTotal += s
		}
		for _, s := range scores[mid:] {
			secondTotal += s
		}
		firstAvg := float64(firstTotal) / float64(mid)
		secondAvg := float64(secondTotal) / float64(len(scores)-mid)

		if secondAvg > firstAvg+1 {
			trend = "improving"
		} else if secondAvg < firstAvg-1 {
			trend = "declining"
		}
	}

	recent := scores
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	return models.MoodSummary{
		AverageMood:  avg,
		Trend:        trend,
		EntryCount:   len(scores),
		RecentScores: recent,
	}
}

// TrendRangeWindow 根据 range 参数解析时间窗口，custom 需要提供起止日期
func TrendRangeWindow(rangeParam, startParam, endParam string) (start time.Time, end time.Time, days int, err error) {
	now := time.Now()
	switch rangeParam {
	case "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, now, 1, nil
	case "week":
		days = 7
	case "month":
		days = 30
	case "custom":
		if startParam == "" || endParam == "" {
			return start, end, 0, fmt.Errorf("%w: custom range requires startDate and endDate", apperrors.ErrValidation)
		}
		start, err = time.ParseInLocation("2006-01-02", startParam, now.Location())
		if err != nil {
			return start, end, 0, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", apperrors.ErrValidation)
		}
		end, err = time.ParseInLocation("2006-01-02", endParam, now.Location())
		if err != nil {
			return start, end, 0, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", apperrors.ErrValidation)
		}
		if end.Before(start) {
			return start, end, 0, fmt.Errorf("%w: endDate must not be before startDate", apperrors.ErrValidation)
		}
		end = end.Add(24*time.Hour - time.Second)
		days = int(end.Sub(start).Hours()/24) + 1
		return start, end, days, nil
	default:
		return start, end, 0, fmt.Errorf("%w: invalid range, must be today, week, month or custom", apperrors.ErrValidation)
	}

	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	return start, now, days, nil
}
