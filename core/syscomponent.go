package core

import (
	"go.uber.org/dig"
	"go.uber.org/zap"
)

var systemComponents *SystemComponents

type HistoryDB interface {
	Setup(*Conf) error
	Append(*Record) error
	// List returns every stored record in date order.
	List() ([]*Record, error)
}

type SystemComponents struct {
	*dig.Container
}

func NewSystemComponents(con *dig.Container) *SystemComponents {
	return &SystemComponents{
		con,
	}
}

func GetSystemComponents() *SystemComponents {
	return systemComponents
}

func (s *SystemComponents) Setup(conf *Conf) error {
	zap.L().Debug("Setting up history DB")
	err := s.Invoke(
		func(h HistoryDB) error {
			return h.Setup(conf)
		})
	if err != nil {
		return err
	}
	systemComponents = s
	return nil
}

func (s *SystemComponents) TearDown() {
	systemComponents = nil
}

func (s *SystemComponents) AppendRecord(r *Record) error {
	return s.Invoke(
		func(h HistoryDB) error {
			return h.Append(r)
		})
}

func (s *SystemComponents) ListRecords() ([]*Record, error) {
	var records []*Record
	err := s.Invoke(
		func(h HistoryDB) (err error) {
			records, err = h.List()
			return
		})
	return records, err
}
