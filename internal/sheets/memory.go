package sheets

import (
	"context"
	"sync"
)

// MemoryGateway keeps tables in process. It backs the "memory" sheets backend
// and the tests. Tables behave like a real sheet: the first row appended to a
// blank table becomes its header.
type MemoryGateway struct {
	mu       sync.RWMutex
	tables   map[string]*MemoryTable
	openErrs map[string]error
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		tables:   make(map[string]*MemoryTable),
		openErrs: make(map[string]error),
	}
}

// AddTable creates (or replaces) a table. The first row is the header.
func (g *MemoryGateway) AddTable(name string, rows ...[]string) *MemoryTable {
	t := &MemoryTable{name: name}
	for _, r := range rows {
		t.values = append(t.values, append([]string(nil), r...))
	}

	g.mu.Lock()
	g.tables[name] = t
	g.mu.Unlock()

	return t
}

// FailOpen makes every Open of name fail with err (one of the package
// sentinels, usually ErrPermissionDenied).
func (g *MemoryGateway) FailOpen(name string, err error) {
	g.mu.Lock()
	g.openErrs[name] = err
	g.mu.Unlock()
}

func (g *MemoryGateway) Table(name string) (*MemoryTable, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t, ok := g.tables[name]
	return t, ok
}

func (g *MemoryGateway) Open(ctx context.Context, name string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, &OpenError{Table: name, Err: ErrUnavailable, Cause: err}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if err, ok := g.openErrs[name]; ok {
		return nil, &OpenError{Table: name, Account: "memory", Err: err}
	}

	t, ok := g.tables[name]
	if !ok {
		return nil, &OpenError{Table: name, Account: "memory", Err: ErrTableNotFound}
	}

	return t, nil
}

type MemoryTable struct {
	mu        sync.RWMutex
	name      string
	values    [][]string
	appendErr error
}

func (t *MemoryTable) Name() string {
	return t.name
}

func (t *MemoryTable) ReadAll(ctx context.Context) (Records, error) {
	if err := ctx.Err(); err != nil {
		return Records{}, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return RecordsFromValues(t.values), nil
}

func (t *MemoryTable) AppendRow(ctx context.Context, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.appendErr != nil {
		return t.appendErr
	}

	t.values = append(t.values, append([]string(nil), values...))

	return nil
}

// FailAppends makes AppendRow return err until called again with nil.
func (t *MemoryTable) FailAppends(err error) {
	t.mu.Lock()
	t.appendErr = err
	t.mu.Unlock()
}

// Values returns a copy of the raw grid, header included.
func (t *MemoryTable) Values() [][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([][]string, len(t.values))
	for i, r := range t.values {
		out[i] = append([]string(nil), r...)
	}

	return out
}
