package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
)

// scriptDriver — минимальный SQL-драйвер для тестов хранилища.
// Каждый запрос забирает следующий шаг из script и записывается в scriptQueries.
type scriptDriver struct{}

type scriptConn struct{}

type scriptRows struct {
	columns []string
	data    [][]driver.Value
	idx     int
}

type scriptResult struct{ affected int64 }

// scriptStep описывает ответ на очередной запрос.
type scriptStep struct {
	columns  []string
	rows     [][]driver.Value
	affected int64
	err      error
}

var (
	script        []scriptStep
	scriptQueries []string
	scriptArgs    [][]driver.Value
)

func (scriptDriver) Open(name string) (driver.Conn, error) { return &scriptConn{}, nil }

func (c *scriptConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}
func (c *scriptConn) Close() error              { return nil }
func (c *scriptConn) Begin() (driver.Tx, error) { return nil, errors.New("not implemented") }

func (c *scriptConn) next(query string, args []driver.NamedValue) (scriptStep, error) {
	scriptQueries = append(scriptQueries, query)
	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	scriptArgs = append(scriptArgs, vals)
	if len(script) == 0 {
		return scriptStep{}, errors.New("unexpected query")
	}
	step := script[0]
	script = script[1:]
	return step, step.err
}

func (c *scriptConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.next(query, args)
	if err != nil {
		return nil, err
	}
	return &scriptRows{columns: step.columns, data: step.rows}, nil
}

func (c *scriptConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.next(query, args)
	if err != nil {
		return nil, err
	}
	return scriptResult{affected: step.affected}, nil
}

func (r *scriptRows) Columns() []string { return r.columns }
func (r *scriptRows) Close() error      { return nil }
func (r *scriptRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.idx])
	r.idx++
	return nil
}

func (r scriptResult) LastInsertId() (int64, error) { return 0, nil }
func (r scriptResult) RowsAffected() (int64, error) { return r.affected, nil }

func init() { sql.Register("script", scriptDriver{}) }

// openScript сбрасывает состояние драйвера и открывает хранилище с заданным сценарием.
func openScript(t *testing.T, steps ...scriptStep) *DB {
	t.Helper()
	script = steps
	scriptQueries = nil
	scriptArgs = nil

	conn, err := sql.Open("script", "")
	if err != nil {
		t.Fatalf("не удалось открыть фейковую БД: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewDB(conn)
}
