// Copyright 2024 The StratoFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
)

// Config is a JSON configuration file. Lines starting with '#' are treated
// as comments and stripped before parsing.
type Config struct {
	data map[string]interface{}
	Raw  []byte
}

func newConfig() *Config {
	return &Config{data: make(map[string]interface{})}
}

// LoadConfigFile loads config information from a JSON file.
func LoadConfigFile(filename string) (*Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseConfig(raw)
}

// LoadConfigString loads config information from a JSON string.
func LoadConfigString(s string) (*Config, error) {
	return parseConfig([]byte(s))
}

func parseConfig(raw []byte) (*Config, error) {
	result := newConfig()
	trimmed := trimComments(raw)
	result.Raw = trimmed
	if err := json.Unmarshal(trimmed, &result.data); err != nil {
		return nil, err
	}
	return result, nil
}

func trimComments(data []byte) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// GetString returns a string for the config key.
func (c *Config) GetString(key string) string {
	x, present := c.data[key]
	if !present {
		return ""
	}
	if result, isString := x.(string); isString {
		return result
	}
	return ""
}

// GetBool returns a bool for the config key.
func (c *Config) GetBool(key string) bool {
	x, present := c.data[key]
	if !present {
		return false
	}
	switch result := x.(type) {
	case bool:
		return result
	case string:
		return result == "true"
	}
	return false
}

// GetBoolWithDefault returns a bool for the config key, or def when the key
// is absent.
func (c *Config) GetBoolWithDefault(key string, def bool) bool {
	if _, present := c.data[key]; !present {
		return def
	}
	return c.GetBool(key)
}

// GetInt64 returns a number for the config key. JSON numbers arrive as
// float64; string values are accepted too.
func (c *Config) GetInt64(key string) int64 {
	x, present := c.data[key]
	if !present {
		return 0
	}
	switch result := x.(type) {
	case float64:
		return int64(result)
	case string:
		var v int64
		if err := json.Unmarshal([]byte(result), &v); err == nil {
			return v
		}
	}
	return 0
}

// GetInt64WithDefault returns a number for the config key, or def when the
// key is absent or zero.
func (c *Config) GetInt64WithDefault(key string, def int64) int64 {
	if v := c.GetInt64(key); v != 0 {
		return v
	}
	return def
}

// HasKey reports whether the key appears in the config file.
func (c *Config) HasKey(key string) bool {
	_, present := c.data[key]
	return present
}
