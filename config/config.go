// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package config defines the configuration of the lazy command. A
// configuration is a YAML document with the following toplevel keys:
//
//	log: debug
//
//	inputs:
//	  x: {shape: [3], fill: 1, own: true}
//	  y: [1, 2, 3]
//	  s: "hello"
//
//	let:
//	  e: "5 * x"
//	  f: "e + e"
//
// The log key sets the log level: one of off, error, info or debug.
//
// Inputs are leaves of the graph. Scalars (integers, floats, strings
// and bools) are used as is; lists of numbers are one-dimensional
// arrays, and other lists are tuples. A map describes an array by
// its shape and either a fill value or its elements in row-major
// order (data); own marks the input as owned by the graph.
//
// Let bindings name expressions (see package syntax) over the inputs
// and previous bindings. Uses of a binding share its node.
//
// Inputs and bindings are constructed in document order, so that the
// order in which the configuration is written determines the order
// in which its expressions are evaluated.
package config

import (
	"fmt"
	"go/token"
	"os"

	"github.com/grailbio/lazy"
	"github.com/grailbio/lazy/errors"
	"github.com/grailbio/lazy/log"
	"github.com/grailbio/lazy/ndarray"
	"github.com/grailbio/lazy/syntax"
	"github.com/grailbio/lazy/values"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v2"
)

// Config is a lazy configuration.
type Config struct {
	// Log is the configured log level.
	Log string `yaml:"log,omitempty"`
	// Inputs are the configured leaves, in document order.
	Inputs yaml.MapSlice `yaml:"inputs,omitempty"`
	// Let are the configured bindings, in document order.
	Let yaml.MapSlice `yaml:"let,omitempty"`
}

// Parse parses and validates a configuration from the YAML-formatted
// bytes b. Unknown keys are errors.
func Parse(b []byte) (*Config, error) {
	c := new(Config)
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, errors.E("config", errors.Invalid, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.E("config", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, errors.E("config", path, err)
	}
	return c, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Level returns the configured log level, or log.InfoLevel if none
// is configured.
func (c *Config) Level() (log.Level, error) {
	if c.Log == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.Log)
	if err != nil {
		return log.OffLevel, errors.E("config", "log", errors.Invalid, err)
	}
	return level, nil
}

// validate checks every key of the configuration, returning all
// problems found.
func (c *Config) validate() error {
	var err error
	if _, e := c.Level(); e != nil {
		err = multierr.Append(err, e)
	}
	seen := make(map[string]bool)
	name := func(section string, key interface{}) (string, bool) {
		s, ok := key.(string)
		switch {
		case !ok:
			err = multierr.Append(err, errors.E("config", section, fmt.Sprint(key), errors.Invalid, errors.New("name must be a string")))
		case !token.IsIdentifier(s):
			err = multierr.Append(err, errors.E("config", section, s, errors.Invalid, errors.New("name is not an identifier")))
		case seen[s]:
			err = multierr.Append(err, errors.E("config", section, s, errors.Invalid, errors.New("name is defined more than once")))
		default:
			seen[s] = true
			return s, true
		}
		return "", false
	}
	for _, item := range c.Inputs {
		name("inputs", item.Key)
	}
	for _, item := range c.Let {
		if n, ok := name("let", item.Key); ok {
			if _, isString := item.Value.(string); !isString {
				err = multierr.Append(err, errors.E("config", "let", n, errors.Invalid, errors.New("expression must be a string")))
			}
		}
	}
	return err
}

// Bind constructs the configured inputs and then the configured
// bindings in graph g, in document order, and returns them by name.
// Errors in inputs are reported together.
func (c *Config) Bind(g *lazy.Graph) (map[string]lazy.Lazy, error) {
	env := make(map[string]lazy.Lazy)
	var err error
	for _, item := range c.Inputs {
		name := item.Key.(string)
		l, e := input(g, item.Value)
		if e != nil {
			err = multierr.Append(err, errors.E("input", name, e))
			continue
		}
		env[name] = l
	}
	if err != nil {
		return nil, err
	}
	for _, item := range c.Let {
		name := item.Key.(string)
		l, err := syntax.Parse(g, item.Value.(string), env)
		if err != nil {
			return nil, errors.E("let", name, err)
		}
		env[name] = l
	}
	return env, nil
}

func input(g *lazy.Graph, v interface{}) (lazy.Lazy, error) {
	switch v := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]interface{}, len(v))
		for _, item := range v {
			m[fmt.Sprint(item.Key)] = item.Value
		}
		return mapInput(g, m)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = e
		}
		return mapInput(g, m)
	}
	value, err := convert(v)
	if err != nil {
		return lazy.Lazy{}, err
	}
	return g.Value(value)
}

func mapInput(g *lazy.Graph, m map[string]interface{}) (lazy.Lazy, error) {
	var (
		value values.T
		err   error
	)
	for k := range m {
		switch k {
		case "shape", "fill", "data", "value", "own":
		default:
			return lazy.Lazy{}, errors.E("input", k, errors.Invalid, errors.New("unknown key"))
		}
	}
	if v, ok := m["value"]; ok {
		if value, err = convert(v); err != nil {
			return lazy.Lazy{}, err
		}
	} else if value, err = array(m); err != nil {
		return lazy.Lazy{}, err
	}
	own, _ := m["own"].(bool)
	if own {
		return g.Own(value)
	}
	return g.Value(value)
}

func array(m map[string]interface{}) (*ndarray.Array, error) {
	var shape []int
	if v, ok := m["shape"]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return nil, errors.E("shape", errors.Invalid, errors.Errorf("expected a list, got %v", v))
		}
		for _, d := range list {
			n, ok := d.(int)
			if !ok || n < 0 {
				return nil, errors.E("shape", errors.Invalid, errors.Errorf("invalid dimension %v", d))
			}
			shape = append(shape, n)
		}
	}
	if v, ok := m["data"]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return nil, errors.E("data", errors.Invalid, errors.Errorf("expected a list, got %v", v))
		}
		data, ok := floats(list)
		if !ok {
			return nil, errors.E("data", errors.Invalid, errors.New("elements must be numbers"))
		}
		if _, ok := m["shape"]; !ok {
			shape = []int{len(data)}
		}
		return ndarray.New(shape, data)
	}
	if _, ok := m["shape"]; !ok {
		return nil, errors.E("array", errors.Invalid, errors.New("either shape or data is required"))
	}
	var fill float64
	if v, ok := m["fill"]; ok {
		f, ok := number(v)
		if !ok {
			return nil, errors.E("fill", errors.Invalid, errors.Errorf("expected a number, got %v", v))
		}
		fill = f
	}
	return ndarray.NewFull(shape, fill)
}

// convert converts a YAML scalar or list to a raw value.
func convert(v interface{}) (values.T, error) {
	switch v := v.(type) {
	case int, float64, string, bool:
		return v, nil
	case []interface{}:
		if data, ok := floats(v); ok && len(data) > 0 {
			return ndarray.FromSlice(data), nil
		}
		tuple := make(values.Tuple, len(v))
		for i, e := range v {
			var err error
			if tuple[i], err = convert(e); err != nil {
				return nil, err
			}
		}
		return tuple, nil
	}
	return nil, errors.E("input", fmt.Sprintf("%T", v), errors.NotSupported)
}

func floats(list []interface{}) ([]float64, bool) {
	data := make([]float64, len(list))
	for i, e := range list {
		f, ok := number(e)
		if !ok {
			return nil, false
		}
		data[i] = f
	}
	return data, true
}

func number(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
