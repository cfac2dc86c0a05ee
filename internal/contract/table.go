// Package contract holds the read-only contract reference data keyed by
// ticker index.
package contract

import (
	"os"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-oms/internal/types"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Lookup is the read side used by the engine, the position ledger and the gateways.
type Lookup interface {
	// Get returns the contract for a ticker index.
	Get(index uint64) optional.Option[types.Contract]
	// GetByTicker returns the contract for a venue ticker.
	GetByTicker(ticker string) optional.Option[types.Contract]
}

// Table is an in-memory contract table. It is safe for concurrent readers,
// contracts reported by a gateway query may be added at runtime.
type Table struct {
	mu       sync.RWMutex
	byIndex  map[uint64]types.Contract
	byTicker map[string]uint64
}

var validate = validator.New()

func NewTable() *Table {
	return &Table{
		byIndex:  make(map[uint64]types.Contract),
		byTicker: make(map[string]uint64),
	}
}

// Add inserts or replaces a contract.
func (t *Table) Add(c types.Contract) error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid contract %q", c.Ticker)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.byIndex[c.Index]; ok && prev.Ticker != c.Ticker {
		delete(t.byTicker, prev.Ticker)
	}

	t.byIndex[c.Index] = c
	t.byTicker[c.Ticker] = c.Index

	return nil
}

func (t *Table) Get(index uint64) optional.Option[types.Contract] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.byIndex[index]
	if !ok {
		return optional.None[types.Contract]()
	}

	return optional.Some(c)
}

func (t *Table) GetByTicker(ticker string) optional.Option[types.Contract] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	index, ok := t.byTicker[ticker]
	if !ok {
		return optional.None[types.Contract]()
	}

	return optional.Some(t.byIndex[index])
}

// All returns every contract ordered by index.
func (t *Table) All() []types.Contract {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.Contract, 0, len(t.byIndex))
	for _, c := range t.byIndex {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	return out
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byIndex)
}

type yamlFile struct {
	Contracts []types.Contract `yaml:"contracts"`
}

// LoadYAML reads a file of the form `contracts: [...]`.
func LoadYAML(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeLoadFailed, err, "failed to read contract file %s", path)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeLoadFailed, err, "failed to parse contract file %s", path)
	}

	table := NewTable()

	for _, c := range file.Contracts {
		if err := table.Add(c); err != nil {
			return nil, err
		}
	}

	return table, nil
}
