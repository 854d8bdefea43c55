package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/db"
	"github.com/oqtopus-team/oqtopus-rcs/log"
	"github.com/oqtopus-team/oqtopus-rcs/simulator"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

var versionByBuildFlag string
var parser *flags.Parser
var rcs *RCS

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Fprintln(os.Stderr, "Found \".env\" file. Environment variables are preferred, "+
			"but non-conflicting variables are those in the \".env\" file.")
	}
	rcs = &RCS{}
	setParser(rcs)
}

type RCS struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	History string `long:"history" description:"history backend" default:"file" choice:"memory" choice:"file" env:"RCS_HISTORY"`
}

func setParser(r *RCS) {
	parser = flags.NewParser(r, flags.Default)
	parser.ShortDescription = "rcs"
	parser.LongDescription = "random circuit sampling benchmark scored with linear cross-entropy."
	parser.AddCommand("run", "run a benchmark",
		"run one random circuit benchmark and print its record as JSON", newRunCmd())
	parser.AddCommand("readme", "render README",
		"render the README from the stored history", newReadmeCmd())
	parser.AddCommand("sweep", "run a parameter sweep",
		"run every depth and qubit combination in parallel and print one record per line", newSweepCmd())
	parser.AddCommand("periodic", "run benchmarks periodically",
		"run the periodic tasks of the setting file until interrupted", newPeriodicCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Fprintf(os.Stderr, "failed to run rcs, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (r *RCS) provideDIContainer() (*dig.Container, error) {
	c := dig.New()
	err := c.Provide(func() (core.HistoryDB, error) {
		switch r.DIContainerParameters.History {
		case "memory":
			return &core.MemoryDB{}, nil
		case "file":
			return &db.FileDB{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown history backend", r.DIContainerParameters.History)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// setup installs the logger, reads the setting file and wires the system
// components. The returned function flushes and tears them down.
func (r *RCS) setup(requireSetting bool) (func(), error) {
	logger, err := log.SetZap(r.Conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger. Reason:%s\n", err)
		return nil, err
	}
	core.SetVersion(r.Conf, versionByBuildFlag)

	core.ResetSetting()
	if _, statErr := os.Stat(r.Conf.SettingPath); statErr == nil || requireSetting {
		if err := core.ParseSettingFromPath(r.Conf.SettingPath); err != nil {
			zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
			logger.Sync()
			return nil, err
		}
	} else {
		zap.L().Debug(fmt.Sprintf("no setting file at %s, using defaults", r.Conf.SettingPath))
	}

	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", r.DIContainerParameters))
	container, err := r.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to set up DI-Container. Reason:%s", err))
		logger.Sync()
		return nil, err
	}
	s := core.NewSystemComponents(container)
	if err := s.Setup(r.Conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to set up system components. Reason:%s", err))
		logger.Sync()
		return nil, err
	}
	return func() {
		s.TearDown()
		logger.Sync()
	}, nil
}

func simulatorOptions(conf *core.Conf, setting *core.Setting) simulator.Options {
	return simulator.Options{
		MemoryLimitBytes:  conf.MemoryLimitBytes(),
		Workers:           conf.GateWorkers,
		ParallelThreshold: setting.Simulator.ParallelThreshold,
		CheckEveryGate:    setting.Simulator.CheckEveryGate,
	}
}

func main() {
	parse()
}

type periodicCmd struct{}

func newPeriodicCmd() *periodicCmd {
	return &periodicCmd{}
}

func (c *periodicCmd) Execute(args []string) error {
	teardown, err := rcs.setup(true)
	if err != nil {
		return err
	}
	defer teardown()

	setting := core.GetGlobalSetting()
	im := core.PeriodicTaskImplMap{
		log.BenchmarkTaskName: &log.BenchmarkTaskImpl{
			ReadmePath: rcs.Conf.ReadmePath,
			Options:    simulatorOptions(rcs.Conf, setting),
			Report:     setting.Report,
		},
		log.StatusLogTaskName: &log.StatusLogTaskImpl{},
	}
	rc, err := core.NewRunContextWithSettingPath(rcs.Conf.SettingPath, im)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup run context/reason:%s", err.Error()))
		return err
	}
	if len(rc.PeriodicTasks) == 0 {
		return fmt.Errorf("no periodic task in %s", rcs.Conf.SettingPath)
	}
	sigCtx, stop := signal.NotifyContext(rc.Context, os.Interrupt, syscall.SIGTERM)
	rc.Add(
		func() error {
			<-sigCtx.Done()
			zap.L().Info("Received a stop signal")
			return nil
		},
		func(error) {
			stop()
		},
	)

	zap.L().Info(fmt.Sprintf("Starting %d periodic tasks", len(rc.PeriodicTasks)))
	if err := rc.Run(); err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error(fmt.Sprintf("execution error/reason:%s", err))
		return err
	}
	return nil
}
