package core

type Conf struct {
	Version            string `long:"version" description:"version of rcs" env:"RCS_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"RCS_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"RCS_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"RCS_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"RCS_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"RCS_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"RCS_LOG_ROTATION_MAX_DAYS"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"RCS_SETTING_PATH"`
	ResultsDir         string `long:"results-dir" description:"directory of daily result files" default:"./results" env:"RCS_RESULTS_DIR"`
	ReadmePath         string `long:"readme-path" description:"README file rendered from the history" default:"./README.md" env:"RCS_README_PATH"`
	MemoryLimitMiB     uint64 `long:"memory-limit-mib" description:"upper bound of the state vector size in MiB" default:"512" env:"RCS_MEMORY_LIMIT_MIB"`
	GateWorkers        int    `long:"gate-workers" description:"goroutines used to apply a gate on large registers" default:"1" env:"RCS_GATE_WORKERS"`
}

func (c *Conf) MemoryLimitBytes() uint64 {
	return c.MemoryLimitMiB << 20
}
