// Package repo reconstructs the package hierarchy and object list of an
// abapGit repository from its directory layout.
package repo

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abapops/adtsync/pkg/abapgit"
	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
)

// PackageDescriptorFile marks a directory as a package.
const PackageDescriptorFile = "package.devc.xml"

// Package is one package directory of the repository. Parent points into
// the same repository and is nil for the root package.
type Package struct {
	Name    string
	Path    string // descriptor file path
	DirPath string
	Parent  *Package
}

// Object is one discovered development object: its descriptor file plus
// the sibling source files matching its naming pattern.
type Object struct {
	Code    string
	Name    string
	Path    string // descriptor file path
	Package *Package
	Files   []string
}

// Repository holds the package arena (keyed by directory path) and the
// object list in discovery order.
type Repository struct {
	name      string
	config    abapgit.Config
	dirPrefix []string
	buildName func(parts []string) string

	packages map[string]*Package
	pkgOrder []*Package
	objects  []*Object
}

// New creates a Repository for the given remote repository name and
// .abapgit.xml configuration.
func New(name string, config abapgit.Config) (*Repository, error) {
	r := &Repository{
		name:     name,
		config:   config,
		packages: make(map[string]*Package),
	}

	for _, part := range strings.Split(config.StartingFolder, "/") {
		if part != "" {
			r.dirPrefix = append(r.dirPrefix, part)
		}
	}

	switch config.FolderLogic {
	case abapgit.FolderLogicFull:
		// a $ repository keeps its packages in the local namespace
		marker := ""
		if strings.HasPrefix(name, "$") {
			marker = "$"
		}
		r.buildName = func(parts []string) string {
			return marker + parts[len(parts)-1]
		}
	case abapgit.FolderLogicPrefix:
		r.buildName = func(parts []string) string {
			return name + "_" + strings.Join(parts, "_")
		}
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "Unknown folder logic: %s", config.FolderLogic)
	}

	return r, nil
}

// Name returns the repository name.
func (r *Repository) Name() string {
	return r.name
}

// Config returns the repository configuration.
func (r *Repository) Config() abapgit.Config {
	return r.config
}

// Packages returns the packages in discovery order.
func (r *Repository) Packages() []*Package {
	return r.pkgOrder
}

// Objects returns the objects in discovery order.
func (r *Repository) Objects() []*Object {
	return r.objects
}

// PackageByPath returns the package registered for a directory path.
func (r *Repository) PackageByPath(dirPath string) (*Package, error) {
	pkg, ok := r.packages[dirPath]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "no package registered for %s", dirPath)
	}
	return pkg, nil
}

// AddPackageDir registers a directory as a package. The path is joined
// under the parent's directory when a parent is given, must be expressed
// relative to the current directory and must contain a package descriptor.
func (r *Repository) AddPackageDir(dirPath string, parent *Package) (*Package, error) {
	logger := logging.GetLogger("repo")

	if parent != nil {
		dirPath = parent.DirPath + "/" + dirPath
	}

	if !strings.HasPrefix(dirPath, "./") {
		return nil, errors.Newf(errors.ErrRepoInvalid, `Package dirs must start with "./": %s`, dirPath)
	}

	pkgFile := dirPath + "/" + PackageDescriptorFile
	info, err := os.Stat(pkgFile)
	if err != nil || info.IsDir() {
		return nil, errors.Newf(errors.ErrNotPackageDir, "Not a package directory: %s", dirPath)
	}

	logger.Debug().Str("dir", dirPath).Msg("Adding new package dir")

	// skip the leading . segment
	parts := strings.Split(dirPath, "/")[1:]
	if len(parts) < len(r.dirPrefix) {
		return nil, errors.Newf(errors.ErrRepoInvalid, "Sub-package dir %s not in starting folder %s",
			dirPath, r.config.StartingFolder)
	}

	for _, prefix := range r.dirPrefix {
		if parts[0] != prefix {
			return nil, errors.Newf(errors.ErrRepoInvalid, "Sub-package dir %s not in starting folder %s",
				dirPath, r.config.StartingFolder)
		}
		parts = parts[1:]
	}

	name := r.name
	if len(parts) > 0 && parts[0] != "" {
		name = r.buildName(parts)
	}

	pkg := &Package{
		Name:    name,
		Path:    pkgFile,
		DirPath: dirPath,
		Parent:  parent,
	}

	r.packages[dirPath] = pkg
	r.pkgOrder = append(r.pkgOrder, pkg)

	return pkg, nil
}

// AddObject registers a development object from its descriptor file name,
// collecting every sibling file of the object's naming pattern except the
// descriptor itself as source files.
func (r *Repository) AddObject(fileName string, pkg *Package) (*Object, error) {
	logger := logging.GetLogger("repo")

	dot := strings.Index(fileName, ".")
	if dot < 0 || dot+1+4 > len(fileName)-4 {
		return nil, errors.Newf(errors.ErrBadObjectFile, "Invalid ABAP file name: %s", fileName)
	}

	code := fileName[dot+1 : dot+1+4]
	name := fileName[:dot]

	logger.Debug().Str("code", code).Str("file", fileName).Msg("Handling object code")

	pattern := filepath.Join(pkg.DirPath, name+"."+code+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBadObjectFile, "cannot match object files %s", pattern)
	}

	var files []string
	for _, match := range matches {
		if strings.HasSuffix(match, ".xml") {
			continue
		}
		// Glob flattens ./ prefixes; keep paths in repository form
		if !strings.HasPrefix(match, "./") {
			match = "./" + match
		}
		files = append(files, match)
	}

	// enumeration order is platform dependent
	sort.Strings(files)

	obj := &Object{
		Code:    code,
		Name:    name,
		Path:    pkg.DirPath + "/" + fileName,
		Package: pkg,
		Files:   files,
	}

	r.objects = append(r.objects, obj)

	return obj, nil
}
