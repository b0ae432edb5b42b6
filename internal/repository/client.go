package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers this layer classifies specially.
const (
	mysqlErrAccessDenied = 1045 // ER_ACCESS_DENIED_ERROR
	mysqlErrUnknownDB    = 1049 // ER_BAD_DB_ERROR
	mysqlErrDupEntry     = 1062 // ER_DUP_ENTRY
)

// probeTimeout bounds the SELECT 1 connectivity probe at construction.
const probeTimeout = 5 * time.Second

// Client scopes every logical operation to its own short-lived connection
// and normalizes failures into the package's two-tier error model. The
// underlying pool keeps no idle connections, so each acquire dials the
// server and each release closes the session.
type Client struct {
	db   *sql.DB
	addr string // host:port reported in connection failure messages
}

// NewClient verifies connectivity with a SELECT 1 probe and returns a
// ready client. Construction fails fatally when the probe fails, so an
// unusable repository is caught at the boundary rather than on its first
// real query.
func NewClient(db *sql.DB, addr string) (*Client, error) {
	c := &Client{db: db, addr: addr}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	conn, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return nil, c.classify(err)
	}
	return c, nil
}

// acquire checks a dedicated connection out of the pool. The caller must
// Close it on every exit path. Failures are classified into infra errors.
func (c *Client) acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, c.classify(err)
	}
	return conn, nil
}

// classify maps a connection-level failure to its typed error. Credential
// rejections and a missing schema arrive as MySQL server errors; an
// unreachable server surfaces as a network error before any server
// response exists.
func (c *Client) classify(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrAccessDenied:
			return &CredentialsError{Msg: "database credentials invalid: " + myErr.Message, Cause: err}
		case mysqlErrUnknownDB:
			return &ConnectionError{Msg: "database does not exist: " + myErr.Message, Cause: err}
		}
		return &ConnectionError{Msg: "database connection failed: " + myErr.Message, Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return &ConnectionError{
			Msg:   fmt.Sprintf("cannot connect to database server at %s: server may be down or unreachable", c.addr),
			Cause: err,
		}
	}
	return &ConnectionError{Msg: "unexpected database error: " + err.Error(), Cause: err}
}

// statementErr normalizes an error raised while running a statement.
// Infra errors pass through untouched (including connections dropped
// mid-call); everything else becomes a *QueryError value.
func (c *Client) statementErr(err error) error {
	if IsInfra(err) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return c.classify(err)
	}
	return &QueryError{Cause: err}
}

// exec runs one mutating statement in its own transaction and returns the
// number of rows affected.
func (c *Client) exec(ctx context.Context, query string, args ...any) (int64, error) {
	conn, err := c.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, c.statementErr(err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, c.statementErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, c.statementErr(err)
	}
	if err := tx.Commit(); err != nil {
		return 0, c.statementErr(err)
	}
	return n, nil
}

// queryRow runs a single-row query and invokes scan on the result. A
// missing row is not an error: it returns (false, nil) so callers can
// distinguish "no such row" from "lookup mechanics failed".
func (c *Client) queryRow(ctx context.Context, query string, args []any, scan func(row *sql.Row) error) (bool, error) {
	conn, err := c.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	if err := scan(conn.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, c.statementErr(err)
	}
	return true, nil
}

// query runs a multi-row query, invoking scan once per row.
func (c *Client) query(ctx context.Context, query string, args []any, scan func(rows *sql.Rows) error) error {
	conn, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return c.statementErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return c.statementErr(err)
		}
	}
	if err := rows.Err(); err != nil {
		return c.statementErr(err)
	}
	return nil
}

// withTx runs fn inside one transaction on a dedicated connection. The
// transaction is rolled back when fn returns an error and committed
// otherwise. fn is responsible for normalizing statement errors via
// statementErr before returning them.
func (c *Client) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return c.statementErr(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return c.statementErr(err)
	}
	return nil
}
