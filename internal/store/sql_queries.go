// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	kvTable       = "kv_entries"
	kvKeyColumn   = "storage_key"
	kvValueColumn = "storage_value"
	kvTimeColumn  = "updated_at"
)

// SQLite uses "?" placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildGetQuery(key string) (string, []any, error) {
	return psql.
		Select(kvValueColumn).
		From(kvTable).
		Where(sq.Eq{kvKeyColumn: key}).
		ToSql()
}

func buildUpsertQuery(key string, value []byte, now time.Time) (string, []any, error) {
	return psql.
		Insert(kvTable).
		Columns(kvKeyColumn, kvValueColumn, kvTimeColumn).
		Values(key, value, now).
		Suffix("ON CONFLICT(" + kvKeyColumn + ") DO UPDATE SET " +
			kvValueColumn + " = excluded." + kvValueColumn + ", " +
			kvTimeColumn + " = excluded." + kvTimeColumn).
		ToSql()
}

func buildDeleteQuery(key string) (string, []any, error) {
	return psql.
		Delete(kvTable).
		Where(sq.Eq{kvKeyColumn: key}).
		ToSql()
}

func buildScanQuery(prefix string) (string, []any, error) {
	return psql.
		Select(kvKeyColumn, kvValueColumn).
		From(kvTable).
		Where(sq.Expr(kvKeyColumn+` LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")).
		OrderBy(kvKeyColumn).
		ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
