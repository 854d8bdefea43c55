package core

import (
	"fmt"

	"go.uber.org/dig"
)

// FailingDB rejects every write. It stands in for an unwritable history
// store in tests.
type FailingDB struct{}

func (f *FailingDB) Setup(*Conf) error {
	return nil
}

func (f *FailingDB) Append(*Record) error {
	return fmt.Errorf("failing db rejects appends")
}

func (f *FailingDB) List() ([]*Record, error) {
	return nil, fmt.Errorf("failing db rejects reads")
}

func SCWithMemoryDB() *SystemComponents {
	return SCWithHistoryDB(&MemoryDB{}, nil)
}

func SCWithHistoryDB(h HistoryDB, conf *Conf) *SystemComponents {
	if conf == nil {
		conf = &Conf{}
	}
	container := dig.New()
	if err := container.Provide(func() HistoryDB { return h }); err != nil {
		panic(err)
	}
	s := NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		panic(err)
	}
	return s
}
