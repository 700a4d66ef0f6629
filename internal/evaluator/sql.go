package evaluator

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// queryKeywords start statements whose rows are displayed.
var queryKeywords = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"VALUES":   true,
	"PRAGMA":   true,
	"SHOW":     true,
	"EXPLAIN":  true,
	"DESCRIBE": true,
	"DESC":     true,
}

// SQLSession runs SQL statements on a single connection, so session state
// (temporary tables, variables, the current schema) carries over between
// fragments.
type SQLSession struct {
	db      *sql.DB
	conn    *sql.Conn
	scratch string // database dropped on Close
}

// OpenSQL opens a session. For mysql a scratch database is created for the
// session and dropped when it closes.
func OpenSQL(ctx context.Context, driverName, dsn string) (*SQLSession, error) {
	var db *sql.DB
	var err error
	if driverName == "mysql" {
		cfg, perr := mysql.ParseDSN(dsn)
		if perr != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", perr)
		}
		connector, cerr := mysql.NewConnector(cfg)
		if cerr != nil {
			return nil, fmt.Errorf("mysql connector: %w", cerr)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driverName, err)
		}
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}
	s := &SQLSession{db: db, conn: conn}

	if driverName == "mysql" {
		name := ScratchDatabaseName(uuid.New())
		if _, err := conn.ExecContext(ctx, "CREATE DATABASE `"+name+"`"); err != nil {
			s.Close()
			return nil, fmt.Errorf("create scratch database: %w", err)
		}
		s.scratch = name
		if _, err := conn.ExecContext(ctx, "USE `"+name+"`"); err != nil {
			s.Close()
			return nil, fmt.Errorf("use scratch database: %w", err)
		}
	}
	return s, nil
}

// ScratchDatabaseName derives a database name from a session id.
func ScratchDatabaseName(id uuid.UUID) string {
	return "narrtest_" + strings.ReplaceAll(id.String(), "-", "")
}

// Eval executes the statements of code in order. The rows of the last
// statement are displayed when it is a query.
func (s *SQLSession) Eval(ctx context.Context, code string) (Outcome, error) {
	if s.conn == nil {
		return Outcome{}, unusable(errors.New("session closed"))
	}
	stmts := SplitStatements(code)
	var outcome Outcome
	for i, stmt := range stmts {
		last := i == len(stmts)-1
		if !isQuery(stmt) {
			if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
				return s.fail(ctx, outcome, err)
			}
			continue
		}
		text, ok, err := s.query(ctx, stmt)
		if err != nil {
			return s.fail(ctx, outcome, err)
		}
		if last {
			outcome.Value, outcome.HasValue = text, ok
		}
	}
	return outcome, nil
}

func (s *SQLSession) query(ctx context.Context, stmt string) (string, bool, error) {
	rows, err := s.conn.QueryContext(ctx, stmt)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", false, err
	}
	if len(cols) == 0 {
		return "", false, rows.Err()
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, " | "))
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", false, err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatCell(v)
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(cells, " | "))
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}
	return b.String(), true, nil
}

// fail turns a statement error into the outcome, or into a session error
// when the connection is gone.
func (s *SQLSession) fail(ctx context.Context, outcome Outcome, err error) (Outcome, error) {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return outcome, unusable(err)
	}
	outcome.Err = sqlFailure(ctx, err)
	return outcome, nil
}

func sqlFailure(ctx context.Context, err error) *Failure {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return &Failure{Kind: "timeout", Message: ctxErr.Error()}
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &Failure{Kind: fmt.Sprintf("mysql %d", myErr.Number), Message: myErr.Message}
	}
	first, rest := splitMessage(err.Error())
	return &Failure{Message: first, Trace: rest}
}

// Close drops the scratch database, if any, and closes the connection.
func (s *SQLSession) Close() error {
	if s.conn == nil {
		return nil
	}
	var errs []error
	if s.scratch != "" {
		if _, err := s.conn.ExecContext(context.Background(), "DROP DATABASE IF EXISTS `"+s.scratch+"`"); err != nil {
			errs = append(errs, fmt.Errorf("drop scratch database: %w", err))
		}
	}
	errs = append(errs, s.conn.Close(), s.db.Close())
	s.conn = nil
	return errors.Join(errs...)
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isQuery(stmt string) bool {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return false
	}
	word := strings.ToUpper(strings.TrimLeft(fields[0], "("))
	return queryKeywords[word]
}

// SplitStatements splits SQL text at semicolons outside quotes and comments.
// Comments are dropped; empty statements are skipped.
func SplitStatements(code string) []string {
	var stmts []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			j := i + 1
			for j < len(code) {
				if code[j] == c {
					if j+1 < len(code) && code[j+1] == c {
						j += 2
						continue
					}
					break
				}
				j++
			}
			if j >= len(code) {
				j = len(code) - 1
			}
			cur.WriteString(code[i : j+1])
			i = j
		case c == '-' && i+1 < len(code) && code[i+1] == '-':
			for i < len(code) && code[i] != '\n' {
				i++
			}
			cur.WriteByte('\n')
		case c == '/' && i+1 < len(code) && code[i+1] == '*':
			end := strings.Index(code[i+2:], "*/")
			if end < 0 {
				i = len(code)
			} else {
				i += end + 3
			}
			cur.WriteByte(' ')
		case c == ';':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return stmts
}
