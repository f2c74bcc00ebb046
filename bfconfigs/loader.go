package bfconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/taibf/cmds"
	"github.com/reusee/taibf/configs"
	"github.com/reusee/taibf/logs"
)

//go:embed schema.cue
var schema string

var configFlag = cmds.Var[string]("-config", "use this config file instead of searching")

// ConfigPaths lists existing config files, most specific first.
type ConfigPaths []string

func (Module) ConfigPaths() ConfigPaths {
	if *configFlag != "" {
		return ConfigPaths{*configFlag}
	}

	var paths ConfigPaths
	filenames := []string{
		"taibf.cue",
		".taibf.cue",
	}
	add := func(dir string) {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		add(workingDir)
	}

	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		add(configDir)
	}

	// system wide dir
	add("/etc")

	return paths
}

func (Module) ConfigsLoader(
	paths ConfigPaths,
	logger logs.Logger,
) configs.Loader {
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", []string(paths),
		)
	}
	return configs.NewLoader(paths, schema)
}
