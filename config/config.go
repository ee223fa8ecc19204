// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-cellvm/pkg/log"
	"github.com/iotexproject/iotex-cellvm/stack"
	"github.com/iotexproject/iotex-cellvm/vm"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

// ParamsMagic is the first entry of the parameter tuple
const ParamsMagic = 0x076ef1ea

var (
	// Default is the default config
	Default = Config{
		Engine: Engine{
			Capabilities:  uint64(vm.DefaultCapabilities),
			GasLimit:      vm.DefaultGasLimit,
			DumpRegisters: false,
			VerboseDump:   false,
			Workers:       4,
		},
		Params: Params{
			Balance:  1000000000,
			RandSeed: "0",
		},
		SubLogs: make(map[string]log.GlobalConfig),
		Metrics: Metrics{
			Enabled: false,
			Address: ":8080",
		},
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateEngine,
		ValidateParams,
		ValidateMetrics,
	}
)

type (
	// Config is the root config of the cell vm tools
	Config struct {
		Engine  Engine                      `yaml:"engine"`
		Params  Params                      `yaml:"params"`
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
		Metrics Metrics                     `yaml:"metrics"`
	}

	// Engine is the config of the engines created by the tools
	Engine struct {
		// Capabilities is the capability mask engines are created with
		Capabilities uint64 `yaml:"capabilities"`
		GasLimit     uint64 `yaml:"gasLimit"`
		// DumpRegisters dumps the control registers before and after execution
		DumpRegisters bool `yaml:"dumpRegisters"`
		VerboseDump   bool `yaml:"verboseDump"`
		// Workers bounds the number of programs a batch runs concurrently
		Workers int `yaml:"workers"`
	}

	// Params is the execution context exposed to programs through GETPARAM
	Params struct {
		UnixTime uint64 `yaml:"unixTime"`
		BlockLt  uint64 `yaml:"blockLt"`
		TransLt  uint64 `yaml:"transLt"`
		// RandSeed is a decimal or 0x-prefixed 256-bit unsigned integer
		RandSeed string `yaml:"randSeed"`
		Balance  uint64 `yaml:"balance"`
	}

	// Metrics is the config of the prometheus exporter
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// Seed returns the random seed as an integer
func (p Params) Seed() (*big.Int, error) {
	seed, ok := new(big.Int).SetString(p.RandSeed, 0)
	if !ok || seed.Sign() < 0 || seed.BitLen() > 256 {
		return nil, errors.Wrapf(ErrInvalidCfg, "random seed %q is not a 256-bit unsigned integer", p.RandSeed)
	}
	return seed, nil
}

// Tuple returns the parameter tuple: magic, actions, messages sent, unix time, block lt, transaction lt,
// random seed, balance, then the slots for the contract address, the global config and the code, and the
// storage fees
func (p Params) Tuple() (*stack.Tuple, error) {
	seed, err := p.Seed()
	if err != nil {
		return nil, err
	}
	seedItem, err := stack.NewInteger(seed)
	if err != nil {
		return nil, err
	}
	return stack.NewTuple(
		stack.Int(ParamsMagic),
		stack.Int(0),
		stack.Int(0),
		stack.Uint(p.UnixTime),
		stack.Uint(p.BlockLt),
		stack.Uint(p.TransLt),
		seedItem,
		stack.NewTuple(stack.Uint(p.Balance), stack.Null{}),
		stack.Null{},
		stack.Null{},
		stack.Null{},
		stack.Int(0),
	), nil
}

// SaveList returns control registers with c7 holding the parameter tuple
func (p Params) SaveList() (*stack.SaveList, error) {
	params, err := p.Tuple()
	if err != nil {
		return nil, err
	}
	ctrls := stack.NewSaveList()
	if err := ctrls.Put(stack.ParamsRegister, stack.NewTuple(params)); err != nil {
		return nil, err
	}
	return ctrls, nil
}

// ValidateEngine validates the engine configs
func ValidateEngine(cfg Config) error {
	if cfg.Engine.GasLimit == 0 {
		return errors.Wrap(ErrInvalidCfg, "gas limit should be greater than 0")
	}
	if cfg.Engine.Workers <= 0 {
		return errors.Wrap(ErrInvalidCfg, "number of workers should be greater than 0")
	}
	return nil
}

// ValidateParams validates the parameter tuple configs
func ValidateParams(cfg Config) error {
	_, err := cfg.Params.Seed()
	return err
}

// ValidateMetrics validates the metrics exporter configs
func ValidateMetrics(cfg Config) error {
	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		return errors.Wrap(ErrInvalidCfg, "metrics address is empty while metrics are enabled")
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
