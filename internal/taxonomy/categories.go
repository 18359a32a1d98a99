// Package taxonomy holds the closed spending-category set consumed by both
// the entry forms and the aggregation queries. The list is configuration
// data, not core logic: deployments may override it from a TOML file.
package taxonomy

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// defaultCategories is the built-in closed set.
var defaultCategories = []string{
	"Housing",
	"Food",
	"Transportation",
	"Utilities",
	"Healthcare",
	"Entertainment",
	"Shopping",
	"Education",
	"Travel",
	"Savings",
	"Other",
}

type Categories struct {
	names []string
	index map[string]struct{}
}

// Default returns the built-in category set.
func Default() *Categories {
	return newCategories(defaultCategories)
}

type fileFormat struct {
	Categories []string `toml:"categories"`
}

// LoadFile reads a category override from a TOML file. An empty categories
// list in the file is rejected; the set must stay closed and non-empty.
func LoadFile(path string) (*Categories, error) {
	var ff fileFormat
	if _, err := toml.DecodeFile(path, &ff); err != nil {
		return nil, fmt.Errorf("decode taxonomy file: %w", err)
	}
	if len(ff.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy file %s defines no categories", path)
	}
	return newCategories(ff.Categories), nil
}

// LoadFileOrDefault falls back to the built-in set when path is empty or
// the file does not exist.
func LoadFileOrDefault(path string) (*Categories, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFile(path)
}

func newCategories(names []string) *Categories {
	c := &Categories{index: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if _, dup := c.index[n]; dup || n == "" {
			continue
		}
		c.index[n] = struct{}{}
		c.names = append(c.names, n)
	}
	return c
}

// Names returns the categories in declaration order.
func (c *Categories) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports membership in the closed set.
func (c *Categories) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}
