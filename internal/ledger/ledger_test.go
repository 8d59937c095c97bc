package ledger

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"ppms/internal/models"
	"ppms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LedgerTestSuite covers the expense ledger over a seeded store
type LedgerTestSuite struct {
	suite.Suite
	db      *storage.DB
	records *storage.Records
	ledger  *Ledger
	ctx     context.Context
	now     time.Time
}

// SetupTest runs before each test
func (suite *LedgerTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()
	suite.records = storage.NewRecords(db)
	suite.now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err = suite.records.Bootstrap(suite.ctx, storage.DefaultSeed(suite.now))
	require.NoError(suite.T(), err)

	suite.ledger = New(suite.records, Latency{}, nil)
	suite.ledger.now = func() time.Time { return suite.now }
	seq := 0
	suite.ledger.newID = func() string {
		seq++
		return fmt.Sprintf("x_%d", seq)
	}
}

// TearDownTest runs after each test
func (suite *LedgerTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *LedgerTestSuite) TestAppendToEmptyHistory() {
	// The admin has no expenses in the seed
	history, err := suite.ledger.ListByEmployee(suite.ctx, "u_1")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), history)

	e, err := suite.ledger.Append(suite.ctx, "u_1", "Admin Owner", "Team dinner", 2300)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "x_1", e.ID)
	assert.Equal(suite.T(), suite.now, e.Date)

	history, err = suite.ledger.ListByEmployee(suite.ctx, "u_1")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), history, 1)
	assert.Equal(suite.T(), e.ID, history[0].ID)
	assert.Equal(suite.T(), "Team dinner", history[0].Reason)
	assert.Equal(suite.T(), 2300.0, history[0].Amount)
}

func (suite *LedgerTestSuite) TestAppendInsertsAtHead() {
	_, err := suite.ledger.Append(suite.ctx, "u_2", "Pintu Kumar Yadav", "Taxi", 250)
	require.NoError(suite.T(), err)
	_, err = suite.ledger.Append(suite.ctx, "u_2", "Pintu Kumar Yadav", "Hotel", 3000)
	require.NoError(suite.T(), err)

	all, err := suite.ledger.ListAll(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 5)
	assert.Equal(suite.T(), "Hotel", all[0].Reason)
	assert.Equal(suite.T(), "Taxi", all[1].Reason)
	assert.Equal(suite.T(), "e_1", all[2].ID, "seed order must follow the new entries")

	mine, err := suite.ledger.ListByEmployee(suite.ctx, "u_2")
	require.NoError(suite.T(), err)
	ids := make([]string, 0, len(mine))
	for _, e := range mine {
		ids = append(ids, e.ID)
	}
	assert.Equal(suite.T(), []string{"x_2", "x_1", "e_1", "e_2"}, ids)
}

func (suite *LedgerTestSuite) TestTotalsAgree() {
	_, err := suite.ledger.Append(suite.ctx, "u_3", "Sarah Johnson", "Conference", 999.5)
	require.NoError(suite.T(), err)
	_, err = suite.ledger.Append(suite.ctx, "u_1", "Admin Owner", "Printer", 0)
	require.NoError(suite.T(), err)

	all, err := suite.ledger.ListAll(suite.ctx)
	require.NoError(suite.T(), err)

	seen := map[string]bool{}
	var sum float64
	for _, e := range all {
		if seen[e.EmployeeID] {
			continue
		}
		seen[e.EmployeeID] = true
		mine, err := suite.ledger.ListByEmployee(suite.ctx, e.EmployeeID)
		require.NoError(suite.T(), err)
		sum += Total(mine)
	}
	assert.InDelta(suite.T(), Total(all), sum, 1e-9)
	assert.InDelta(suite.T(), 500+1200+4500+999.5, Total(all), 1e-9)
}

func (suite *LedgerTestSuite) TestAppendValidation() {
	tests := []struct {
		name   string
		reason string
		amount float64
	}{
		{"blank reason", "   ", 10},
		{"negative amount", "Taxi", -1},
		{"NaN amount", "Taxi", math.NaN()},
		{"infinite amount", "Taxi", math.Inf(1)},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.ledger.Append(suite.ctx, "u_2", "Pintu Kumar Yadav", tt.reason, tt.amount)
			assert.ErrorIs(suite.T(), err, ErrInvalidExpense)
		})
	}

	all, err := suite.ledger.ListAll(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), all, 3, "rejected submissions must not be stored")
}

func (suite *LedgerTestSuite) TestAppendUnknownEmployee() {
	_, err := suite.ledger.Append(suite.ctx, "u_404", "Ghost", "Lunch", 10)
	assert.ErrorIs(suite.T(), err, ErrUnknownEmployee)
}

func (suite *LedgerTestSuite) TestAppendTrimsReason() {
	e, err := suite.ledger.Append(suite.ctx, "u_2", "Pintu Kumar Yadav", "  Parking  ", 40)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Parking", e.Reason)
}

func (suite *LedgerTestSuite) TestListByUnknownEmployee() {
	got, err := suite.ledger.ListByEmployee(suite.ctx, "u_404")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), got)
}

func (suite *LedgerTestSuite) TestDenormalizedNameIsSnapshot() {
	_, err := suite.ledger.Append(suite.ctx, "u_2", "Pintu K.", "Snacks", 60)
	require.NoError(suite.T(), err)

	mine, err := suite.ledger.ListByEmployee(suite.ctx, "u_2")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Pintu K.", mine[0].EmployeeName)
	assert.Equal(suite.T(), "Pintu Kumar Yadav", mine[1].EmployeeName)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func TestAppendCancelledBeforeWrite(t *testing.T) {
	ctx := context.Background()
	records := storage.NewRecords(storage.NewMemory())
	_, err := records.Bootstrap(ctx, storage.DefaultSeed(time.Now()))
	require.NoError(t, err)

	l := New(records, Latency{Write: time.Minute}, nil)
	cctx, cancel := context.WithCancel(ctx)
	cancel()

	_, err = l.Append(cctx, "u_2", "Pintu Kumar Yadav", "Taxi", 100)
	require.ErrorIs(t, err, context.Canceled)

	all, err := records.Expenses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFilterByEmployee(t *testing.T) {
	expenses := []models.Expense{
		{ID: "3", EmployeeID: "a"},
		{ID: "2", EmployeeID: "b"},
		{ID: "1", EmployeeID: "a"},
	}
	got := FilterByEmployee(expenses, "a")
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "1", got[1].ID)

	assert.Empty(t, FilterByEmployee(nil, "a"))
}
