package engine

import "fmt"

// DBCmd is a database command, each storage defines its own range of commands
type DBCmd int

// Query is a sql query with dialect-specific variants
type Query struct {
	Sqlite   string
	Postgres string
}

// QueryMap maps commands to their queries
type QueryMap struct {
	queries map[DBCmd]Query
}

// NewQueryMap makes an empty QueryMap
func NewQueryMap() *QueryMap {
	return &QueryMap{queries: make(map[DBCmd]Query)}
}

// Add sets dialect-specific queries for the command
func (q *QueryMap) Add(cmd DBCmd, query Query) *QueryMap {
	q.queries[cmd] = query
	return q
}

// AddSame sets a query shared by all dialects
func (q *QueryMap) AddSame(cmd DBCmd, query string) *QueryMap {
	return q.Add(cmd, Query{Sqlite: query, Postgres: query})
}

// Pick returns the query of the command for the given engine
func (q *QueryMap) Pick(dbType Type, cmd DBCmd) (string, error) {
	query, ok := q.queries[cmd]
	if !ok {
		return "", fmt.Errorf("unsupported command type %d", cmd)
	}

	switch dbType {
	case Sqlite:
		return query.Sqlite, nil
	case Postgres:
		return query.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}
