package core

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/oklog/run"
	"github.com/oqtopus-team/oqtopus-rcs/common"
	"go.uber.org/zap"
)

type PeriodicTaskImplMap map[string]PeriodicTaskImpl

type PeriodicTaskMap map[string]*PeriodicTask

type RunContext struct {
	*run.Group
	context.Context

	PeriodicTasks PeriodicTaskMap
}

type runGroupSetting struct {
	RunGroup struct {
		PeriodicTasks map[string]*PeriodicTask `toml:"periodic_tasks"`
	} `toml:"run_group"`
}

func NewRunContext() *RunContext {
	return &RunContext{
		Group:         &run.Group{},
		Context:       context.Background(),
		PeriodicTasks: make(PeriodicTaskMap),
	}
}

// NewRunContextWithSettingPath reads [run_group.periodic_tasks.<name>] tables
// from the setting file, binds each to its implementation in im and adds it
// to the run group.
func NewRunContextWithSettingPath(settingsPath string, im PeriodicTaskImplMap) (*RunContext, error) {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read settings file/reason:%s", err))
		return nil, err
	}
	return newRunContextFromString(tomlString, im)
}

func newRunContextFromString(tomlString string, im PeriodicTaskImplMap) (*RunContext, error) {
	s := &runGroupSetting{}
	if metadata, err := toml.Decode(tomlString, s); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings file. Reason:%s. Metadata:%v",
			err, metadata))
		return nil, err
	}
	rc := NewRunContext()
	for name, task := range s.RunGroup.PeriodicTasks {
		impl, ok := im[name]
		if !ok {
			msg := fmt.Sprintf("failed to find %s implementation from %v", name, im)
			zap.L().Error(msg)
			return nil, fmt.Errorf("%s", msg)
		}
		if task.Period <= 0 {
			return nil, InvalidInputf("period of %s must be positive, got %v", name, task.Period)
		}
		task.PeriodicTaskImpl = impl
		if err := impl.SetParams(task.Params); err != nil {
			zap.L().Error(fmt.Sprintf("failed to set parameters/name:%s/reason:%s", name, err))
			return nil, err
		}
		if err := impl.Setup(); err != nil {
			zap.L().Error(fmt.Sprintf("failed to setup/name:%s/reason:%s", name, err))
			return nil, err
		}
		if err := rc.AddPeriodicTask(task, name); err != nil {
			zap.L().Error(fmt.Sprintf("failed to add runner/name:%s/reason:%s", name, err))
			return nil, err
		}
		zap.L().Info(fmt.Sprintf("successfully added runner/name:%s/period:%v", name, task.Period))
	}
	return rc, nil
}

type PeriodicTask struct {
	Period time.Duration `toml:"period"`
	Params interface{}   `toml:"params,omitempty"`
	PeriodicTaskImpl
}

type PeriodicTaskImpl interface {
	GetEmptyParams() interface{}
	SetParams(interface{}) error
	Setup() error
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) GetEmptyParams() interface{} {
	return v
}

func (v *DefaultTaskImpl) SetParams(p interface{}) error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

// AddPeriodicTask runs t once immediately and then every t.Period until the
// group is interrupted.
func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	if t.Period <= 0 {
		return InvalidInputf("period of %s must be positive, got %v", taskName, t.Period)
	}
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.PeriodicTasks[taskName] = t
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaning up periodic task", taskName))
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaned up periodic task", taskName))
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod > 0 && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cancelling periodic task", taskName))
			cancel()
		},
	)
	return nil
}
