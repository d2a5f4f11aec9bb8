// Package checkin replays an abapGit directory snapshot onto a remote
// repository: packages first, then objects in dependency groups, each
// group mass-activated after it has been created and written.
package checkin

import (
	"fmt"
	"os"
	"strings"

	"github.com/abapops/adtsync/pkg/abapgit"
	"github.com/abapops/adtsync/pkg/adt"
	"github.com/abapops/adtsync/pkg/console"
	"github.com/abapops/adtsync/pkg/ddic"
	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
	"github.com/abapops/adtsync/pkg/repo"
)

// Args are the run parameters supplied by the CLI layer.
type Args struct {
	// Name is the remote repository (root package) name.
	Name string

	// StartingFolder optionally overrides the directory the layout
	// begins under, relative to the repository root.
	StartingFolder string

	// Corrnr is the optional transport request number.
	Corrnr string

	SoftwareComponent string
	AppComponent      string
	TransportLayer    string
}

// Run synchronizes the directory structure with the remote package
// structure. All progress goes to cons; a non-nil error means the run
// failed and the process should exit non-zero.
func Run(client adt.Client, cons console.Console, args Args) error {
	topDir := "."
	if args.StartingFolder != "" {
		topDir = "./" + strings.Trim(args.StartingFolder, "/")
	}

	info, err := os.Stat(topDir)
	if err != nil || !info.IsDir() {
		cons.Printerr(fmt.Sprintf(`Cannot check-in ABAP objects from "%s": not a directory`, topDir))
		return errors.Newf(errors.ErrNotFound, "not a directory: %s", topDir)
	}

	config, err := abapgit.LoadLocalConfig(args.StartingFolder, cons)
	if err != nil {
		cons.Printerr("Checkin failed:", err.Error())
		return err
	}

	repository, err := repo.New(args.Name, config)
	if err != nil {
		cons.Printerr("Checkin failed:", err.Error())
		return err
	}

	if err := run(client, cons, repository, args); err != nil {
		cons.Printerr("Checkin failed:", err.Error())
		return err
	}

	return nil
}

func run(client adt.Client, cons console.Console, repository *repo.Repository, args Args) error {
	if err := repository.Load(Supported); err != nil {
		return err
	}

	cons.Printout("Creating packages ...")
	for _, pkg := range repository.Packages() {
		if err := createPackage(client, pkg, args, cons); err != nil {
			return err
		}
	}

	groups := ResolveDependencies(repository.Objects())

	for _, group := range groups {
		cons.Printout("Creating objects ...")

		refs, err := checkinDependencyGroup(client, group, cons, args.Corrnr)
		if err != nil {
			return err
		}

		if !refs.Empty() {
			cons.Printout("Activating objects ...")
			if err := activate(client, refs, cons); err != nil {
				return err
			}
		}
	}

	return nil
}

func createPackage(client adt.Client, pkg *repo.Package, args Args, cons console.Console) error {
	logger := logging.GetLogger("checkin")

	data, err := os.ReadFile(pkg.Path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDescriptorRead, "cannot read package descriptor %s", pkg.Path)
	}

	devc, err := ddic.ParseDEVC(data)
	if err != nil {
		return err
	}

	cons.Printout("Creating Package:", pkg.Name, devc.Text)

	meta := adt.CoreData{
		Language:       "EN",
		MasterLanguage: "EN",
		Responsible:    client.User(),
		Description:    devc.Text,
	}

	attrs := adt.PackageData{
		PackageType:       "development",
		SoftwareComponent: strings.ToUpper(args.SoftwareComponent),
	}
	if pkg.Parent != nil {
		attrs.SuperPackage = strings.ToUpper(pkg.Parent.Name)
	}
	if args.AppComponent != "" {
		attrs.AppComponent = strings.ToUpper(args.AppComponent)
	}
	if args.TransportLayer != "" {
		attrs.TransportLayer = strings.ToUpper(args.TransportLayer)
	}

	remote := client.Package(strings.ToUpper(pkg.Name), meta, attrs)

	if err := remote.Create(args.Corrnr); err != nil {
		if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			logger.Info().Str("package", pkg.Name).Msg(err.Error())
			return nil
		}
		return err
	}

	return nil
}

// ResolveDependencies partitions the object list into the three activation
// groups: libraries (interfaces, classes), binaries (programs, includes)
// and everything else. Order within a group is discovery order; references
// between objects of the same group are not re-ordered.
func ResolveDependencies(objects []*repo.Object) [][]*repo.Object {
	var libs, bins, others []*repo.Object

	for _, obj := range objects {
		switch obj.Code {
		case "intf", "clas":
			libs = append(libs, obj)
		case "prog":
			bins = append(bins, obj)
		default:
			others = append(others, obj)
		}
	}

	return [][]*repo.Object{libs, bins, others}
}

func checkinDependencyGroup(client adt.Client, group []*repo.Object, cons console.Console,
	corrnr string) (*adt.References, error) {

	inactive := adt.NewReferences()

	for _, obj := range group {
		handler, ok := objectHandlers[obj.Code]
		if !ok {
			cons.Printerr("Object not supported:", obj.Path)
			continue
		}

		touched, err := handler(client, obj, corrnr, cons)
		if err != nil {
			// a structural problem skips just this object
			if errors.IsErrorCode(err, errors.ErrCheckinFailure) {
				cons.Printout("Object handled without activation:", obj.Path)
				continue
			}
			return nil, err
		}

		for _, remote := range touched {
			inactive.Add(remote)
		}
	}

	return inactive, nil
}

func activate(client adt.Client, inactive *adt.References, cons console.Console) error {
	messages, err := client.Activate(inactive)
	if err != nil {
		return errors.Wrap(err, errors.ErrActivation, "mass activation failed")
	}

	if len(messages) == 0 {
		return nil
	}

	hasError := false
	for _, msg := range messages {
		if msg.IsError {
			hasError = true
		}

		cons.Printout(fmt.Sprintf("* %s ::", msg.ObjDescr))
		cons.Printout(fmt.Sprintf("| %s: %s", msg.Type, msg.ShortText))
	}

	if hasError {
		return errors.New(errors.ErrActivation, "Aborting because of activation errors")
	}

	return nil
}
