package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	vCfg   = viper.New()
	cfgDir string
)

const (
	ExcludeKey     = "exclude"
	WorkersKey     = "workers"
	AtomicKey      = "atomic"
	LockTimeoutKey = "lock_timeout"

	envPrefix = "MERGEREPO"
)

// DefaultExcludes are the version-control metadata directories skipped when
// cataloging a snapshot: Subversion working copies and CVS sandboxes.
var DefaultExcludes = []string{".svn/", "CVS/"}

func Load() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	return LoadFrom(filepath.Join(home, ".mergerepo"))
}

// LoadFrom reads config.yaml from dir, if present, on top of the built-in
// defaults and the MERGEREPO_* environment.
func LoadFrom(dir string) error {
	cfgDir = dir

	vCfg = viper.New()
	vCfg.SetConfigName("config")
	vCfg.SetConfigType("yaml")
	vCfg.AddConfigPath(cfgDir)

	vCfg.SetEnvPrefix(envPrefix)
	vCfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vCfg.AutomaticEnv()

	vCfg.SetDefault(ExcludeKey, DefaultExcludes)
	vCfg.SetDefault(WorkersKey, runtime.GOMAXPROCS(0))
	vCfg.SetDefault(AtomicKey, true)
	vCfg.SetDefault(LockTimeoutKey, "30s")

	if err := vCfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

func GetExcludes() []string {
	return vCfg.GetStringSlice(ExcludeKey)
}

func GetWorkers() int {
	if w := vCfg.GetInt(WorkersKey); w > 0 {
		return w
	}

	return 1
}

func GetAtomic() bool {
	return vCfg.GetBool(AtomicKey)
}

func GetLockTimeout() time.Duration {
	return vCfg.GetDuration(LockTimeoutKey)
}

func ConfigDir() string {
	return cfgDir
}
