package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite drives the built binary against one database file per test.
type E2ETestSuite struct {
	suite.Suite
	dir    string
	dbPath string
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.dbPath = filepath.Join(suite.dir, "ppms.db")
}

// ppms runs the binary and returns stdout. A non-zero exit fails the test
// unless wantErr is set.
func (suite *E2ETestSuite) ppms(wantErr bool, args ...string) string {
	cmd := exec.Command(binPath, append([]string{"-db", suite.dbPath, "-env", filepath.Join(suite.dir, "none.env")}, args...)...)
	cmd.Dir = suite.dir
	cmd.Env = append(os.Environ(),
		"PPMS_BCRYPT_COST=4",
		"PPMS_LOGIN_LATENCY=0s",
		"PPMS_READ_LATENCY=0s",
		"PPMS_WRITE_LATENCY=0s",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if wantErr {
		require.Error(suite.T(), err, "ppms %s should fail", strings.Join(args, " "))
		return stdout.String() + stderr.String()
	}
	require.NoError(suite.T(), err, "ppms %s: %s", strings.Join(args, " "), stderr.String())
	return stdout.String()
}

func (suite *E2ETestSuite) login(email, password string) {
	out := suite.ppms(false, "login", "-email", email, "-password", password)
	require.Contains(suite.T(), out, "Logged in as", "login did not succeed")
}

func (suite *E2ETestSuite) TestCompleteEmployeeFlow() {
	// Login
	suite.login("pintu@ppms", "pintu@1234")

	// Submit an expense
	out := suite.ppms(false, "submit", "-reason", "Lunch Test", "-amount", "12.50")
	require.Contains(suite.T(), out, `Recorded ₹ 12.5 for "Lunch Test"`)

	// Verify it tops the history
	out = suite.ppms(false, "history")
	require.Contains(suite.T(), out, "across 3 entries")
	require.Contains(suite.T(), out, "TODAY")
	require.Contains(suite.T(), out, "Lunch Test")

	// Employees cannot reach the dashboard
	out = suite.ppms(true, "dashboard")
	require.Contains(suite.T(), out, "access denied")

	suite.ppms(false, "logout")
	out = suite.ppms(true, "history")
	require.Contains(suite.T(), out, "not logged in")
}

func (suite *E2ETestSuite) TestAdminSeesSubmittedExpense() {
	suite.login("sarah@ppms", "password123")
	suite.ppms(false, "submit", "-reason", "Conference Pass", "-amount", "1000")

	// Logging in as admin ends Sarah's session
	suite.login("admin@ppms", "admin@1234")
	out := suite.ppms(false, "dashboard")
	require.Contains(suite.T(), out, "Top spender:     Sarah Johnson (₹ 5,500)")
	require.Contains(suite.T(), out, "0 active now")

	out = suite.ppms(false, "export", "-id", "u_3")
	require.Contains(suite.T(), out, "Exported 2 expenses to Sarah_Johnson_expenses.csv")

	data, err := os.ReadFile(filepath.Join(suite.dir, "Sarah_Johnson_expenses.csv"))
	require.NoError(suite.T(), err)
	require.Contains(suite.T(), string(data), "Sarah Johnson,Conference Pass,1000")
}

func (suite *E2ETestSuite) TestWrongPasswordExitsNonZero() {
	out := suite.ppms(true, "login", "-email", "admin@ppms", "-password", "nope")
	require.Contains(suite.T(), out, "invalid credentials")

	out = suite.ppms(false, "whoami")
	require.Contains(suite.T(), out, "Not logged in")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
