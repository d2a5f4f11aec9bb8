// Package config loads the optional adtsync configuration file with the
// connection profiles of known systems. CLI flags always win over the
// file.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
)

// FileName relative to the XDG config directory.
const FileName = "adtsync/config.toml"

// Profile is one remote system connection.
type Profile struct {
	Host     string `toml:"host"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Insecure bool   `toml:"insecure"`
}

// File is the on-disk configuration.
type File struct {
	DefaultProfile string             `toml:"default_profile"`
	Profiles       map[string]Profile `toml:"profiles"`
}

// Load reads the configuration from the XDG config dir. A missing file is
// not an error and yields an empty configuration.
func Load() (File, error) {
	path, err := xdg.SearchConfigFile(FileName)
	if err != nil {
		logger := logging.GetLogger("config")
		logger.Debug().Str("file", FileName).Msg("No config file found")
		return File{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return File{}, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", filepath.Base(path))
	}

	return file, nil
}

// Profile resolves a profile by name, falling back to the default profile
// when name is empty.
func (f File) Profile(name string) (Profile, error) {
	if name == "" {
		name = f.DefaultProfile
	}
	if name == "" {
		return Profile{}, nil
	}

	profile, ok := f.Profiles[name]
	if !ok {
		return Profile{}, errors.Newf(errors.ErrConfigValid, "unknown connection profile: %s", name)
	}

	return profile, nil
}
