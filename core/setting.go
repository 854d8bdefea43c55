package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/oqtopus-team/oqtopus-rcs/common"
	"go.uber.org/zap"
)

type SimulatorSetting struct {
	ParallelThreshold int  `toml:"parallel_threshold"`
	CheckEveryGate    bool `toml:"check_every_gate"`
}

func NewSimulatorSetting() SimulatorSetting {
	return SimulatorSetting{
		ParallelThreshold: 14,
		CheckEveryGate:    false,
	}
}

type ReportSetting struct {
	Title        string `toml:"title"`
	HistoryLimit int    `toml:"history_limit"`
	ChartDays    int    `toml:"chart_days"`
}

func NewReportSetting() ReportSetting {
	return ReportSetting{
		Title:        "Random Circuit Sampling Benchmark",
		HistoryLimit: 30,
		ChartDays:    14,
	}
}

var globalSetting *Setting

type Setting struct {
	Simulator SimulatorSetting       `toml:"simulator"`
	Report    ReportSetting          `toml:"report"`
	RunGroup  map[string]interface{} `toml:"run_group,omitempty"`
}

func newSetting() *Setting {
	return &Setting{
		Simulator: NewSimulatorSetting(),
		Report:    NewReportSetting(),
		RunGroup:  make(map[string]interface{}),
	}
}

func ResetSetting() {
	globalSetting = newSetting()
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return GetGlobalSetting().parseSetting(tomlString)
}

// GetGlobalSetting returns the parsed setting, or the defaults when no file
// was parsed.
func GetGlobalSetting() *Setting {
	if globalSetting == nil {
		ResetSetting()
	}
	return globalSetting
}

func (s *Setting) parseSetting(tomlString string) error {
	_, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("Setting is %+v", *s))
	return nil
}
