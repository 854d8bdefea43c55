//go:build unit
// +build unit

package main

import (
	"testing"

	"github.com/go-faster/errors"
	flags "github.com/jessevdk/go-flags"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntList(t *testing.T) {
	tests := []struct {
		in      string
		want    intList
		wantErr bool
	}{
		{"1,3,5", intList{1, 3, 5}, false},
		{" 4 , 6 ", intList{4, 6}, false},
		{"7", intList{7}, false},
		{"1,,2", intList{1, 2}, false},
		{"", nil, true},
		{"1,x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var l intList
			err := l.UnmarshalFlag(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrInvalidInput))
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}

func TestSweepFlags(t *testing.T) {
	c := newSweepCmd()
	_, err := flags.NewParser(c, flags.None).ParseArgs([]string{})
	require.Nil(t, err)
	assert.Equal(t, intList{1, 3, 5}, c.Depths)
	assert.Equal(t, intList{4, 6}, c.Qubits)
	assert.Equal(t, 1024, c.Samples)
	assert.Nil(t, c.Seed)

	c = newSweepCmd()
	_, err = flags.NewParser(c, flags.None).ParseArgs(
		[]string{"--depths", "2,4", "--qubits", "3", "--workers", "4", "--seed", "9"})
	require.Nil(t, err)
	g := c.grid()
	assert.Equal(t, []int{2, 4}, g.Depths)
	assert.Equal(t, []int{3}, g.Qubits)
	assert.Equal(t, 4, c.Workers)
	require.NotNil(t, g.BaseSeed)
	assert.Equal(t, uint64(9), *g.BaseSeed)
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name                   string
		args                   []string
		depth, qubits, samples int
		seed                   *uint64
	}{
		{"defaults", []string{}, 7, 10, 1024, nil},
		{"depth only", []string{"3"}, 3, 10, 1024, nil},
		{"all", []string{"0", "4", "16", "--seed", "5"}, 0, 4, 16, func() *uint64 { s := uint64(5); return &s }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRunCmd()
			_, err := flags.NewParser(c, flags.None).ParseArgs(tt.args)
			require.Nil(t, err)
			p := c.params()
			assert.Equal(t, tt.depth, p.Depth)
			assert.Equal(t, tt.qubits, p.Qubits)
			assert.Equal(t, tt.samples, p.Samples)
			assert.Equal(t, tt.seed, p.Seed)
		})
	}
}

func TestProvideDIContainer(t *testing.T) {
	tests := []struct {
		history string
		check   func(core.HistoryDB) bool
		wantErr bool
	}{
		{"memory", func(h core.HistoryDB) bool { _, ok := h.(*core.MemoryDB); return ok }, false},
		{"file", func(h core.HistoryDB) bool { _, ok := h.(*db.FileDB); return ok }, false},
		{"cloud", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.history, func(t *testing.T) {
			r := &RCS{DIContainerParameters: &DIContainerParameters{History: tt.history}}
			c, err := r.provideDIContainer()
			require.Nil(t, err)
			var h core.HistoryDB
			err = c.Invoke(func(hdb core.HistoryDB) { h = hdb })
			if tt.wantErr {
				assert.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.True(t, tt.check(h))
		})
	}
}

func TestSimulatorOptions(t *testing.T) {
	setting := &core.Setting{Simulator: core.SimulatorSetting{ParallelThreshold: 12, CheckEveryGate: true}}
	o := simulatorOptions(&core.Conf{MemoryLimitMiB: 64, GateWorkers: 3}, setting)
	assert.Equal(t, uint64(64<<20), o.MemoryLimitBytes)
	assert.Equal(t, 3, o.Workers)
	assert.Equal(t, 12, o.ParallelThreshold)
	assert.True(t, o.CheckEveryGate)
}
