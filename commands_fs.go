// Copyright 2020 Vedran Vuk. All rights reserved.
// Use of this source code is governed by a MIT
// license that can be found in the LICENSE file.

package clikit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdaclin/cli-kit/clierr"
)

// commandFile is the JSON shape one file in a CLIParams.CommandsDir
// directory is unmarshaled into; it mirrors CommandParams plus the option
// declarations a directory-loaded command can't supply through Go struct
// literals.
type commandFile struct {
	Title   string       `json:"title"`
	Desc    string       `json:"desc"`
	Aliases []string     `json:"aliases"`
	Banner  string       `json:"banner"`
	Options []OptionDecl `json:"options"`
}

// loadCommandsDir scans dir for *.json files and registers one command per
// file, named after its stem, under the CLI's root. It does not recurse.
func (c *CLI) loadCommandsDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return clierr.Wrap(clierr.FileNotFound, err, "reading commands directory %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return clierr.Wrap(clierr.FileNotFound, err, "reading command file %s", path)
		}
		var cf commandFile
		if err := json.Unmarshal(data, &cf); err != nil {
			return clierr.Wrap(clierr.InvalidJSON, err, "parsing command file %s", path)
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		cmd, err := c.Context.Command(name, CommandParams{
			Title:   cf.Title,
			Desc:    cf.Desc,
			Aliases: cf.Aliases,
			Banner:  cf.Banner,
		})
		if err != nil {
			return err
		}
		for _, od := range cf.Options {
			if _, err := cmd.Context.Option(od.Format, od.Group, od.Params); err != nil {
				return err
			}
		}
	}
	return nil
}
