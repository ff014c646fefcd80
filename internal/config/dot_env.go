package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad fills missing ENV variables from **a maybe available** .env file.
//
// This function will not panic if the .env file does not exist.
// Variables already present in the environment are kept.
func DotEnvTryLoad(absolutePathToEnvFile string, setEnvFn func(key string, value string) error) {
	err := DotEnvLoad(absolutePathToEnvFile, setEnvFn)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("envFile", absolutePathToEnvFile).Msg(".env parse error!")
			return
		}
		log.Debug().Str("envFile", absolutePathToEnvFile).Msg(".env does not exist, skipping")
	}
}

// DotEnvLoad loads the .env file at the given path and hands every variable
// not already set in the process environment to setEnvFn.
func DotEnvLoad(absolutePathToEnvFile string, setEnvFn func(key string, value string) error) error {
	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		return err
	}
	defer file.Close()

	envs, err := gotenv.StrictParse(file)
	if err != nil {
		return errors.Wrap(err, "failed to parse .env file")
	}

	for key, value := range envs {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		if err := setEnvFn(key, value); err != nil {
			return errors.Wrapf(err, "failed to set %s", key)
		}
	}

	return nil
}
