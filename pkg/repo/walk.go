package repo

import (
	"os"
	"strings"

	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
)

// Load walks the repository tree once, top down, registering every
// directory as a package and every descriptor file of a supported object
// code as an object. A parent package is always registered before its
// children are visited; a directory without a package descriptor aborts
// the walk.
func (r *Repository) Load(supported func(code string) bool) error {
	logger := logging.GetLogger("repo.walk")

	abapDir := "./" + strings.Trim(r.config.StartingFolder, "/")
	logger.Debug().Str("dir", abapDir).Msg("Loading ABAP dir")

	if _, err := r.AddPackageDir(abapDir, nil); err != nil {
		return err
	}

	return r.walk(abapDir, supported)
}

func (r *Repository) walk(dirPath string, supported func(code string) bool) error {
	logger := logging.GetLogger("repo.walk")
	logger.Debug().Str("dir", dirPath).Msg("Analyzing package dir")

	pkg, err := r.PackageByPath(dirPath)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRepoInvalid, "cannot read package dir %s", dirPath)
	}

	// files first, so objects land in their own package before any
	// sub-package is registered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		parts := strings.Split(entry.Name(), ".")
		if len(parts) < 3 {
			continue
		}

		code, suffix := parts[len(parts)-2], parts[len(parts)-1]
		if suffix != "xml" || !supported(code) {
			continue
		}

		if _, err := r.AddObject(entry.Name(), pkg); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if _, err := r.AddPackageDir(entry.Name(), pkg); err != nil {
			return err
		}

		if err := r.walk(dirPath+"/"+entry.Name(), supported); err != nil {
			return err
		}
	}

	return nil
}
