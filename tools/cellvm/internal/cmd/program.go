// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rodaine/table"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-cellvm/config"
	"github.com/iotexproject/iotex-cellvm/exception"
	"github.com/iotexproject/iotex-cellvm/vm"
)

const (
	_outputText  = "text"
	_outputYAML  = "yaml"
	_outputTable = "table"
)

// result is the outcome of one program run
type result struct {
	Name      string   `yaml:"name"`
	Status    string   `yaml:"status"`
	ExitCode  int      `yaml:"exitCode"`
	Steps     uint64   `yaml:"steps"`
	GasUsed   uint64   `yaml:"gasUsed"`
	Stack     []string `yaml:"stack"`
	Error     string   `yaml:"error,omitempty"`
	Exception string   `yaml:"exception,omitempty"`
	Before    string   `yaml:"registersBefore,omitempty"`
	After     string   `yaml:"registersAfter,omitempty"`
}

func (r *result) failed() bool {
	return r.Error != ""
}

func readProgram(path string) (string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read program %s", path)
	}
	return string(text), nil
}

// runProgram assembles text and executes it with the engine settings and parameters of cfg. A VM
// exception is reported in the result, an error is returned only when the program cannot be started.
func runProgram(cfg config.Config, name, text string) (*result, error) {
	code, err := vm.Assemble(text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to assemble %s", name)
	}
	ctrls, err := cfg.Params.SaveList()
	if err != nil {
		return nil, err
	}
	gasLimit := cfg.Engine.GasLimit
	engine := vm.WithCapabilities(vm.Capabilities(cfg.Engine.Capabilities)).
		SetupWithLibraries(code.BeginParse(), ctrls, nil, &gasLimit, nil)

	res := &result{Name: name}
	if cfg.Engine.DumpRegisters {
		res.Before = engine.DumpCtrls(cfg.Engine.VerboseDump)
	}
	if err := engine.Execute(); err != nil {
		res.Error = err.Error()
		if ec, ok := exception.CodeOf(err); ok {
			res.Exception = ec.String()
		}
	}
	if cfg.Engine.DumpRegisters {
		res.After = engine.DumpCtrls(cfg.Engine.VerboseDump)
	}
	res.Status = engine.Status().String()
	res.ExitCode = engine.ExitCode()
	res.Steps = engine.Steps()
	res.GasUsed = engine.GasUsed()
	// top of the stack first
	items := engine.Stack().Items()
	res.Stack = make([]string, len(items))
	for i, it := range items {
		res.Stack[len(items)-1-i] = it.String()
	}
	return res, nil
}

func printResult(w io.Writer, output string, res *result) error {
	switch output {
	case _outputText:
		fmt.Fprintf(w, "%s: %s, exit code %d, steps %d, gas %d\n",
			res.Name, res.Status, res.ExitCode, res.Steps, res.GasUsed)
		if res.failed() {
			fmt.Fprintf(w, "error: %s\n", res.Error)
		}
		fmt.Fprintf(w, "stack: %s\n", strings.Join(res.Stack, " "))
		if res.Before != "" {
			fmt.Fprintf(w, "registers before:\n%s\n", res.Before)
		}
		if res.After != "" {
			fmt.Fprintf(w, "registers after:\n%s\n", res.After)
		}
	case _outputYAML:
		out, err := yaml.Marshal(res)
		if err != nil {
			return errors.Wrap(err, "failed to marshal result")
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	case _outputTable:
		fmt.Fprintf(w, "%s: %s, exit code %d, steps %d, gas %d\n",
			res.Name, res.Status, res.ExitCode, res.Steps, res.GasUsed)
		tbl := table.New("depth", "item").WithWriter(w)
		for i, it := range res.Stack {
			tbl.AddRow(i, it)
		}
		tbl.Print()
		if res.failed() {
			fmt.Fprintf(w, "error: %s\n", res.Error)
		}
	default:
		return errors.Errorf("unknown output format %q", output)
	}
	return nil
}
