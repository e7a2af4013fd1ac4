package services

import (
	"database/sql/driver"
	"errors"
	"testing"

	"CompanionGo/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAgentTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

// stringArg 捕获 SQL 参数，用于断言两条记录引用同一决策ID
type stringArg struct {
	dst *string
}

func (a stringArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*a.dst = s
	}
	return ok
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestDecideAndPersistCrisisWritesBothInOneTransaction(t *testing.T) {
	db, mock := newAgentTestDB(t)

	var decisionID, referencedID string
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `agent_decisions`").
		WithArgs(append([]driver.Value{stringArg{&decisionID}}, anyArgs(9)...)...).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `crisis_events`").
		WithArgs(append(append(anyArgs(3), stringArg{&referencedID}), anyArgs(6)...)...).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	decision := NewAgentService(db).DecideAndPersist("user-1", "sess-1", models.EmotionResult{
		Label:     "crisis",
		Intensity: 0.95,
		Rationale: "命中危机关键词",
	})

	assert.Equal(t, models.ActionCrisisFlow, decision.NextAction)
	assert.Equal(t, decisionID, decision.DecisionID)
	assert.Equal(t, decisionID, referencedID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideAndPersistNormalSkipsCrisisEvent(t *testing.T) {
	db, mock := newAgentTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `agent_decisions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	decision := NewAgentService(db).DecideAndPersist("user-1", "sess-1", models.EmotionResult{
		Label:     "neutral",
		Intensity: 0.2,
	})

	assert.Equal(t, models.ActionNormalReply, decision.NextAction)
	assert.NotEmpty(t, decision.DecisionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecideAndPersistRollsBackWhenCrisisEventFails(t *testing.T) {
	db, mock := newAgentTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `agent_decisions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `crisis_events`").
		WillReturnError(errors.New("write failed"))
	mock.ExpectRollback()

	decision := NewAgentService(db).DecideAndPersist("user-1", "sess-1", models.EmotionResult{
		Label:     "sadness",
		Intensity: 0.9,
	})

	// 事务整体回滚，不留下没有危机事件的孤儿决策；内存中的决策照常返回
	assert.Equal(t, models.ActionCrisisFlow, decision.NextAction)
	assert.Empty(t, decision.DecisionID)
	require.NoError(t, mock.ExpectationsWereMet())
}
