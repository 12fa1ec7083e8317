package portfolio

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Load reads simulation parameters from a YAML file. Environment variables
// prefixed with CQUANT_ override file values (CQUANT_SEED, CQUANT_WORKERS,
// ...), which keeps batch runs scriptable without editing configs. The
// result is not validated; callers decide which fields they need.
func Load(path string) (Parameters, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("cquant")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Parameters{}, errors.Wrapf(err, "read config %s", path)
	}

	var params Parameters
	if err := v.Unmarshal(&params); err != nil {
		return Parameters{}, errors.Wrapf(err, "unmarshal config %s", path)
	}
	return params, nil
}

// setDefaults registers the keys that may be omitted from a config file.
// Portfolio fields get no default on purpose: a missing pd_mean or n should
// fail validation instead of silently simulating the reference book.
func setDefaults(v *viper.Viper) {
	v.SetDefault("quantile", 0.999)
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 0)
}
