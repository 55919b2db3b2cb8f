// Package dbmod is the "db" built-in module: SQL access over database/sql,
// wired to four real drivers the way internal/database/db_manager.go wires
// its DBManager — an ID-keyed map of open *sql.DB connections behind an
// RWMutex, a driver-name lookup table, and Query returning rows as generic
// maps — adapted from db_manager.go's Go-native []map[string]interface{}
// return value to Sentra list-of-dict objects, and from its Go ...interface{}
// varargs to Sentra's own variadic argument convention.
package dbmod

import (
	"database/sql"
	"fmt"
	"math/big"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"sentra/internal/container"
	"sentra/internal/module"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/vm"
)

var driverNames = map[string]string{
	"sqlite":    "sqlite3",
	"sqlite3":   "sqlite3",
	"postgres":  "postgres",
	"postgresql": "postgres",
	"mysql":     "mysql",
	"sqlserver": "sqlserver",
	"mssql":     "sqlserver",
}

type conn struct {
	id      string
	kind    string
	db      *sql.DB
	lastUse time.Time
}

type registry struct {
	mu    sync.RWMutex
	conns map[string]*conn
}

func newRegistry() *registry { return &registry{conns: make(map[string]*conn)} }

func New(ctx object.Ctx) (*object.Object, *object.Object) {
	r := newRegistry()
	mod := module.NewModule()
	mod.Attrs = map[string]*object.Object{
		"connect": vm.NewNative("db.connect", r.connect),
		"exec":    vm.NewNative("db.exec", r.exec),
		"query":   vm.NewNative("db.query", r.query),
		"close":   vm.NewNative("db.close", r.close),
	}
	return mod, nil
}

func (r *registry) connect(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 3 {
		return nil, ctx.Raise("ArgError", "db.connect() takes exactly 3 arguments (%d given)", len(args))
	}
	id, ok1 := container.AsString(args[0])
	kind, ok2 := container.AsString(args[1])
	dsn, ok3 := container.AsString(args[2])
	if !ok1 || !ok2 || !ok3 {
		return nil, ctx.Raise("TypeError", "db.connect() arguments must be str")
	}

	r.mu.RLock()
	_, exists := r.conns[id.Bytes]
	r.mu.RUnlock()
	if exists {
		return nil, ctx.Raise("ValError", "connection '%s' already exists", id.Bytes)
	}

	driver, ok := driverNames[kind.Bytes]
	if !ok {
		return nil, ctx.Raise("ValError", "unsupported database type '%s'", kind.Bytes)
	}

	db, err := sql.Open(driver, dsn.Bytes)
	if err != nil {
		return nil, ctx.Raise("IOError", "db.connect: %s", err.Error())
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, ctx.Raise("IOError", "db.connect: %s", err.Error())
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	r.mu.Lock()
	r.conns[id.Bytes] = &conn{id: id.Bytes, kind: kind.Bytes, db: db, lastUse: time.Now()}
	r.mu.Unlock()

	return object.New(ctx.LookupType("none"), nil), nil
}

func (r *registry) get(id string) (*conn, bool) {
	r.mu.RLock()
	c, ok := r.conns[id]
	r.mu.RUnlock()
	return c, ok
}

func (r *registry) exec(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) < 2 {
		return nil, ctx.Raise("ArgError", "db.exec() takes at least 2 arguments (%d given)", len(args))
	}
	id, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "db.exec() connection id must be a str")
	}
	query, ok := container.AsString(args[1])
	if !ok {
		return nil, ctx.Raise("TypeError", "db.exec() query must be a str")
	}
	c, ok := r.get(id.Bytes)
	if !ok {
		return nil, ctx.Raise("KeyError", "no database connection '%s'", id.Bytes)
	}

	params, exc := toGoValues(ctx, args[2:])
	if exc != nil {
		return nil, exc
	}

	c.lastUse = time.Now()
	result, err := c.db.Exec(query.Bytes, params...)
	if err != nil {
		return nil, ctx.Raise("IOError", "db.exec: %s", err.Error())
	}
	affected, _ := result.RowsAffected()
	return numeric.NewInt(ctx, bigFromInt64(affected)), nil
}

func (r *registry) query(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) < 2 {
		return nil, ctx.Raise("ArgError", "db.query() takes at least 2 arguments (%d given)", len(args))
	}
	id, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "db.query() connection id must be a str")
	}
	query, ok := container.AsString(args[1])
	if !ok {
		return nil, ctx.Raise("TypeError", "db.query() query must be a str")
	}
	c, ok := r.get(id.Bytes)
	if !ok {
		return nil, ctx.Raise("KeyError", "no database connection '%s'", id.Bytes)
	}

	params, exc := toGoValues(ctx, args[2:])
	if exc != nil {
		return nil, exc
	}

	c.lastUse = time.Now()
	rows, err := c.db.Query(query.Bytes, params...)
	if err != nil {
		return nil, ctx.Raise("IOError", "db.query: %s", err.Error())
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, ctx.Raise("IOError", "db.query: %s", err.Error())
	}

	var out []*object.Object
	scanTargets := make([]any, len(cols))
	scanValues := make([]any, len(cols))
	for i := range scanTargets {
		scanTargets[i] = &scanValues[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, ctx.Raise("IOError", "db.query: %s", err.Error())
		}
		row := container.NewDict()
		d, _ := container.AsDict(row)
		for i, col := range cols {
			d.Set(ctx, container.NewString(col), fromGoValue(ctx, scanValues[i]))
		}
		out = append(out, row)
	}
	return container.NewList(out), nil
}

func (r *registry) close(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "db.close() takes exactly one argument (%d given)", len(args))
	}
	id, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "db.close() connection id must be a str")
	}
	r.mu.Lock()
	c, ok := r.conns[id.Bytes]
	delete(r.conns, id.Bytes)
	r.mu.Unlock()
	if ok {
		c.db.Close()
	}
	return object.New(ctx.LookupType("none"), nil), nil
}

func bigFromInt64(n int64) *big.Int { return big.NewInt(n) }

func toGoValues(ctx object.Ctx, args []*object.Object) ([]any, *object.Object) {
	out := make([]any, len(args))
	for i, a := range args {
		v, exc := toGoValue(ctx, a)
		if exc != nil {
			return nil, exc
		}
		out[i] = v
	}
	return out, nil
}

func toGoValue(ctx object.Ctx, v *object.Object) (any, *object.Object) {
	if s, ok := container.AsString(v); ok {
		return s.Bytes, nil
	}
	if bi, ok := numeric.AsInt(v); ok {
		return bi.Int64(), nil
	}
	if f, ok := numeric.AsFloat(v); ok {
		return f, nil
	}
	return ctx.FormatStr(v), nil
}

func fromGoValue(ctx object.Ctx, v any) *object.Object {
	switch tv := v.(type) {
	case nil:
		return object.New(ctx.LookupType("none"), nil)
	case []byte:
		return container.NewString(string(tv))
	case string:
		return container.NewString(tv)
	case int64:
		return numeric.NewInt(ctx, bigFromInt64(tv))
	case float64:
		return numeric.NewFloat(ctx, tv)
	case bool:
		return numeric.NewBool(ctx, tv)
	case time.Time:
		return container.NewString(tv.Format(time.RFC3339))
	default:
		return container.NewString(fmt.Sprintf("%v", tv))
	}
}
