// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	stdlog "log"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"go.elastic.co/ecszap"
	"go.uber.org/zap"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap            *zap.Config `json:"zap" yaml:"zap"`
	RedirectStdLog bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
	EcsIntegration bool        `json:"ecsIntegration" yaml:"ecsIntegration"`
}

var (
	_globalCfg        GlobalConfig
	_logMu            sync.RWMutex
	_logServeMux      = http.NewServeMux()
	_subLoggers       = make(map[string]*zap.Logger)
	_levelHandlers    = make(map[string]*zap.AtomicLevel)
	_globalLoggerName = "global"
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		stdlog.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	zap.ReplaceGlobals(l)
}

// L is alias of zap.L().
func L() *zap.Logger {
	return zap.L()
}

// S is alias of zap.S().
func S() *zap.SugaredLogger {
	return zap.S()
}

// Logger returns the sub logger registered under name, or the global logger
// tagged with the name when no sub logger was configured.
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	l, ok := _subLoggers[name]
	_logMu.RUnlock()
	if ok {
		return l
	}
	return L().Named(name)
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if _, exists := subCfgs[_globalLoggerName]; exists {
		return errors.New("'" + _globalLoggerName + "' is a reserved name for global logger")
	}
	cfgs := make(map[string]GlobalConfig, len(subCfgs)+1)
	for name, cfg := range subCfgs {
		cfgs[name] = cfg
	}
	cfgs[_globalLoggerName] = globalCfg

	_logMu.Lock()
	defer _logMu.Unlock()
	for name, cfg := range cfgs {
		if _, exists := _subLoggers[name]; exists && name != _globalLoggerName {
			return errors.Errorf("duplicate sub logger name: %s", name)
		}
		if cfg.Zap == nil {
			zapCfg := zap.NewProductionConfig()
			cfg.Zap = &zapCfg
		}
		logger, err := build(cfg, opts...)
		if err != nil {
			return errors.Wrapf(err, "failed to build logger %s", name)
		}
		registerLevel(name, cfg.Zap.Level)
		if name != _globalLoggerName {
			_subLoggers[name] = logger
			continue
		}
		_globalCfg = cfg
		if cfg.RedirectStdLog {
			zap.RedirectStdLog(logger)
		}
		zap.ReplaceGlobals(logger)
	}
	return nil
}

// registerLevel exposes the level of logger name on the config mux. The mux
// rejects duplicate patterns, so a re-initialized logger swaps the level
// behind the existing handler.
func registerLevel(name string, level zap.AtomicLevel) {
	if lvl, ok := _levelHandlers[name]; ok {
		*lvl = level
		return
	}
	lvl := &level
	_levelHandlers[name] = lvl
	_logServeMux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
		_logMu.RLock()
		h := *lvl
		_logMu.RUnlock()
		h.ServeHTTP(w, r)
	})
}

func build(cfg GlobalConfig, opts ...zap.Option) (*zap.Logger, error) {
	if !cfg.EcsIntegration {
		return cfg.Zap.Build(opts...)
	}
	cfg.Zap.EncoderConfig = ecszap.ECSCompatibleEncoderConfig(cfg.Zap.EncoderConfig)
	return cfg.Zap.Build(append([]zap.Option{ecszap.WrapCoreOption(), zap.AddCaller()}, opts...)...)
}

// RegisterLevelConfigMux registers log's level config http mux.
func RegisterLevelConfigMux(root *http.ServeMux) {
	_logMu.Lock()
	root.Handle("/logging/", http.StripPrefix("/logging", _logServeMux))
	_logMu.Unlock()
}
