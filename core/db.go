package core

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

type MemoryDB struct {
	dbMap map[string]*Record
	mu    sync.RWMutex
}

func (d *MemoryDB) Setup(c *Conf) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dbMap = make(map[string]*Record)
	return nil
}

// Append stores r under its date. A later record of the same day replaces
// the earlier one.
func (d *MemoryDB) Append(r *Record) error {
	if r == nil {
		return InvalidInputf("record is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	key := r.DateKey()
	if _, ok := d.dbMap[key]; ok {
		zap.L().Debug(fmt.Sprintf("[MemoryDB] overwriting record of %s", key))
	}
	cp := *r
	d.dbMap[key] = &cp
	return nil
}

func (d *MemoryDB) List() ([]*Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	records := make([]*Record, 0, len(d.dbMap))
	for _, r := range d.dbMap {
		cp := *r
		records = append(records, &cp)
	}
	SortRecords(records)
	return records, nil
}

func SortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DateKey() < records[j].DateKey()
	})
}
