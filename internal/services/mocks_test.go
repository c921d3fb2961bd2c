package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vvka-141/starload/pkg/starload"
)

type mockConnector struct {
	conn *mockDBConnection
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (starload.DBConnection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conn, nil
}

type mockApprover struct {
	approved bool
	err      error
	calls    int
	dbName   string
	tables   []string
}

func (m *mockApprover) RequestApproval(_ context.Context, dbName string, tables []string) (bool, error) {
	m.calls++
	m.dbName = dbName
	m.tables = tables
	return m.approved, m.err
}

type mockChecker struct {
	missing map[string]bool
	checked []string
}

func (m *mockChecker) Check(_ context.Context, location string) error {
	m.checked = append(m.checked, location)
	if m.missing[location] {
		return starload.ErrSourceNotFound
	}
	return nil
}

// mockDBConnection records executed statements. failOn makes the first
// statement containing that text fail; rows is returned for every Exec.
type mockDBConnection struct {
	mu       sync.Mutex
	executed []string
	failOn   string
	execErr  error
	rows     int64
	counts   map[string]int64
	closed   bool
}

func (m *mockDBConnection) Exec(_ context.Context, sql string, _ ...any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && strings.Contains(sql, m.failOn) {
		err := m.execErr
		if err == nil {
			err = errors.New("statement failed")
		}
		return 0, err
	}
	m.executed = append(m.executed, sql)
	return m.rows, nil
}

func (m *mockDBConnection) QueryRow(_ context.Context, sql string, _ ...any) starload.Row {
	for table, n := range m.counts {
		if strings.Contains(sql, `"`+table+`"`) {
			return &mockRow{value: n}
		}
	}
	return &mockRow{err: errors.New("relation does not exist")}
}

func (m *mockDBConnection) Close() error {
	m.closed = true
	return nil
}

type mockRow struct {
	value int64
	err   error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.value
	return nil
}

type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(format string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, format)
}
