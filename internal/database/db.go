package database

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// Addr formats the host:port string used both in the DSN and in connection
// failure messages.
func Addr(host, port string) string {
	return fmt.Sprintf("%s:%s", host, port)
}

// Open prepares a MySQL handle configured for the one-connection-per-call
// model this service uses: no idle connections are kept, so every logical
// operation dials the server, runs its statement and releases the session.
// Connectivity is not verified here; the repository client probes with
// SELECT 1 on construction so failures carry the classified error types.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	// timeout bounds connection establishment only; statements carry none.
	dsn := fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&timeout=5s",
		auth, Addr(host, port), name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(0)
	return db, nil
}
