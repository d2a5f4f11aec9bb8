package checkin

import (
	"fmt"
	"os"
	"strings"

	"github.com/abapops/adtsync/pkg/adt"
	"github.com/abapops/adtsync/pkg/console"
	"github.com/abapops/adtsync/pkg/ddic"
	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/logging"
	"github.com/abapops/adtsync/pkg/repo"
)

// sourceSuffix is the file suffix of object source bodies.
const sourceSuffix = ".abap"

// handlerFunc creates one repository object remotely and writes its source
// bodies. It returns every remote object it touched so the caller can
// register them for activation, already-existing ones included.
type handlerFunc func(client adt.Client, obj *repo.Object, corrnr string, cons console.Console) ([]adt.Object, error)

// objectHandlers is the closed dispatch table keyed by object code.
var objectHandlers = map[string]handlerFunc{
	"intf": checkinInterface,
	"clas": checkinClass,
	"prog": checkinProgram,
	"fugr": checkinFunctionGroup,
}

// Supported reports whether an object code has a check-in handler.
func Supported(code string) bool {
	_, ok := objectHandlers[code]
	return ok
}

func coreData(client adt.Client, description string) adt.CoreData {
	return adt.CoreData{
		Language:       "EN",
		MasterLanguage: "EN",
		Responsible:    client.User(),
		Description:    description,
	}
}

// createTolerant runs Create and swallows the already-exists outcome: the
// object was created by an earlier run but may still need activation.
func createTolerant(remote adt.Object, corrnr string) error {
	err := remote.Create(corrnr)
	if err == nil {
		return nil
	}

	if errors.IsErrorCode(err, errors.ErrAlreadyExists) {
		logger := logging.GetLogger("checkin")
		logger.Info().Str("object", remote.Name()).Msg(err.Error())
		return nil
	}

	return err
}

// writeSource writes one source body through a scoped edit session. The
// session is released on every exit path.
func writeSource(remote adt.Object, corrnr, source string) (err error) {
	editor, err := remote.OpenEditor(corrnr)
	if err != nil {
		return errors.Wrapf(err, errors.ErrEditorOpen, "cannot open editor for %s", remote.Name())
	}

	defer func() {
		if cerr := editor.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := editor.Write(source); err != nil {
		return errors.Wrapf(err, errors.ErrSourceWrite, "cannot write source of %s", remote.Name())
	}

	return nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCheckinFailure, "cannot read source file %s", path)
	}
	return string(data), nil
}

func checkinInterface(client adt.Client, obj *repo.Object, corrnr string, cons console.Console) ([]adt.Object, error) {
	cons.Printout("Creating Interface:", obj.Name)

	if len(obj.Files) == 0 {
		return nil, errors.Newf(errors.ErrCheckinFailure, "No source file for interface %s", obj.Name)
	}

	if len(obj.Files) > 1 {
		return nil, errors.Newf(errors.ErrCheckinFailure, "Too many source files for interface %s: %s",
			obj.Name, strings.Join(obj.Files, ","))
	}

	sourceFile := obj.Files[0]
	if !strings.HasSuffix(sourceFile, sourceSuffix) {
		return nil, errors.Newf(errors.ErrCheckinFailure, "No %s suffix of source file for interface %s",
			sourceSuffix, obj.Name)
	}

	data, err := os.ReadFile(obj.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorRead, "cannot read descriptor %s", obj.Path)
	}

	intf, err := ddic.ParseVSEOINTERF(data)
	if err != nil {
		return nil, err
	}

	remote := client.Interface(strings.ToUpper(obj.Name), obj.Package.Name, coreData(client, intf.Description))

	if err := createTolerant(remote, corrnr); err != nil {
		return nil, err
	}

	cons.Printout("Writing Interface:", obj.Name)

	source, err := readSource(sourceFile)
	if err != nil {
		return nil, err
	}

	if err := writeSource(remote, corrnr, source); err != nil {
		return nil, err
	}

	return []adt.Object{remote}, nil
}

func checkinClass(client adt.Client, obj *repo.Object, corrnr string, cons console.Console) ([]adt.Object, error) {
	cons.Printout("Creating Class:", obj.Name)

	if len(obj.Files) == 0 {
		return nil, errors.Newf(errors.ErrCheckinFailure, "No source file for class %s", obj.Name)
	}

	data, err := os.ReadFile(obj.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorRead, "cannot read descriptor %s", obj.Path)
	}

	clas, err := ddic.ParseVSEOCLASS(data)
	if err != nil {
		return nil, err
	}

	remote := client.Class(strings.ToUpper(obj.Name), obj.Package.Name, coreData(client, clas.Description))

	if err := createTolerant(remote, corrnr); err != nil {
		return nil, err
	}

	for _, sourceFile := range obj.Files {
		if !strings.HasSuffix(sourceFile, sourceSuffix) {
			return nil, errors.Newf(errors.ErrCheckinFailure, "No %s suffix of source file for class %s: %s",
				sourceSuffix, obj.Name, sourceFile)
		}

		parts := strings.Split(sourceFile, ".")
		subID := parts[len(parts)-2]

		var sub adt.Object
		switch subID {
		case "clas":
			sub = remote
		case "locals_def":
			sub = remote.Definitions()
		case "locals_imp":
			sub = remote.Implementations()
		case "testclasses":
			sub = remote.TestClasses()
		default:
			cons.Printerr("Unknown class part", sourceFile)
			continue
		}

		cons.Printout("Writing Clas:", obj.Name, subID)

		source, err := readSource(sourceFile)
		if err != nil {
			return nil, err
		}

		if err := writeSource(sub, corrnr, source); err != nil {
			return nil, err
		}
	}

	return []adt.Object{remote}, nil
}

func checkinProgram(client adt.Client, obj *repo.Object, corrnr string, cons console.Console) ([]adt.Object, error) {
	logger := logging.GetLogger("checkin")

	cons.Printout("Creating Program:", obj.Name)

	if len(obj.Files) == 0 {
		return nil, errors.Newf(errors.ErrCheckinFailure, "No source file for program %s", obj.Name)
	}

	if len(obj.Files) > 1 {
		return nil, errors.Newf(errors.ErrCheckinFailure, "Too many source files for program %s: %s",
			obj.Name, strings.Join(obj.Files, ","))
	}

	sourceFile := obj.Files[0]
	if !strings.HasSuffix(sourceFile, sourceSuffix) {
		return nil, errors.Newf(errors.ErrCheckinFailure, "No %s suffix of source file for program %s",
			sourceSuffix, obj.Name)
	}

	data, err := os.ReadFile(obj.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorRead, "cannot read descriptor %s", obj.Path)
	}

	progdir, tpool, err := ddic.ParseProgram(data)
	if err != nil {
		return nil, err
	}

	meta := coreData(client, "")
	for _, text := range tpool {
		if text.ID == ddic.TextIDReportTitle {
			meta.Description = text.Entry
		}
	}

	var remote adt.Object
	switch progdir.Subc {
	case ddic.SubcExecutableProgram:
		remote = client.Program(obj.Name, obj.Package.Name, meta)
	case ddic.SubcInclude:
		cons.Printout("Creating Include:", obj.Name)
		remote = client.Include(obj.Name, obj.Package.Name, meta)
	default:
		return nil, errors.Newf(errors.ErrCheckinFailure, "Unknown program type %s", progdir.Subc)
	}

	if err := remote.Create(corrnr); err != nil {
		benignSuffix := fmt.Sprintf("A program or include already exists with the name %s",
			strings.ToUpper(obj.Name))
		if !errors.IsErrorCode(err, errors.ErrAlreadyExists) && !strings.HasSuffix(err.Error(), benignSuffix) {
			return nil, err
		}
		logger.Info().Str("object", obj.Name).Msg(err.Error())
	}

	cons.Printout("Writing Program:", obj.Name)

	source, err := readSource(sourceFile)
	if err != nil {
		return nil, err
	}

	if err := writeSource(remote, corrnr, source); err != nil {
		return nil, err
	}

	return []adt.Object{remote}, nil
}

func checkinFunctionGroup(client adt.Client, obj *repo.Object, corrnr string, cons console.Console) ([]adt.Object, error) {
	logger := logging.GetLogger("checkin")

	cons.Printout("Creating Function Group:", obj.Name)

	data, err := os.ReadFile(obj.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorRead, "cannot read descriptor %s", obj.Path)
	}

	group, err := ddic.ParseFunctionGroup(data)
	if err != nil {
		return nil, err
	}

	if err := checkFunctionGroupSourceFiles(obj, group); err != nil {
		return nil, err
	}

	meta := coreData(client, "")

	groupMeta := meta
	groupMeta.Description = group.ShortText
	remote := client.FunctionGroup(strings.ToUpper(obj.Name), obj.Package.Name, groupMeta)

	if err := createTolerant(remote, corrnr); err != nil {
		return nil, err
	}

	touched := []adt.Object{remote}
	basePath := strings.TrimSuffix(obj.Path, ".xml")

	for _, include := range group.Includes {
		includeObj := client.FunctionGroupInclude(include, remote.Name(), meta)
		touched = append(touched, includeObj)

		cons.Printout("Creating Function Group Include:", includeObj.Name())
		if err := includeObj.Create(corrnr); err != nil {
			if !strings.HasSuffix(err.Error(), "already exists") &&
				!errors.IsErrorCode(err, errors.ErrAlreadyExists) {
				return nil, err
			}
			logger.Info().Str("object", includeObj.Name()).Msg(err.Error())
		}

		cons.Printout("Writing Function Group Include:", includeObj.Name())

		source, err := readSource(memberSourcePath(basePath, includeObj.Name()))
		if err != nil {
			return nil, err
		}

		if err := writeSource(includeObj, corrnr, source); err != nil {
			return nil, err
		}
	}

	for _, function := range group.Functions {
		moduleMeta := meta
		moduleMeta.Description = function.ShortText

		module := client.FunctionModule(function.Name, remote.Name(), moduleMeta)
		touched = append(touched, module)

		cons.Printout("Creating Function Module:", module.Name())
		if err := createTolerant(module, corrnr); err != nil {
			return nil, err
		}

		cons.Printout("Writing Function Module:", module.Name())

		source, err := readSource(memberSourcePath(basePath, module.Name()))
		if err != nil {
			return nil, err
		}

		if err := writeSource(module, corrnr, FormatFunctionSource(source)); err != nil {
			return nil, err
		}
	}

	return touched, nil
}

// memberSourcePath builds the source file path of a function group member
// from the descriptor base path.
func memberSourcePath(basePath, memberName string) string {
	return basePath + "." + strings.ToLower(memberName) + sourceSuffix
}

func checkFunctionGroupSourceFiles(obj *repo.Object, group *ddic.FunctionGroup) error {
	basePath := strings.TrimSuffix(obj.Path, ".xml")

	for _, function := range group.Functions {
		name := strings.ToLower(function.Name)
		if !containsFile(obj.Files, memberSourcePath(basePath, name)) {
			return errors.Newf(errors.ErrCheckinFailure, "No source file for function %s", name)
		}
	}

	for _, include := range group.Includes {
		name := strings.ToLower(include)
		if !containsFile(obj.Files, memberSourcePath(basePath, name)) {
			return errors.Newf(errors.ErrCheckinFailure, "No source file for include %s", name)
		}
	}

	return nil
}

func containsFile(files []string, path string) bool {
	for _, file := range files {
		if file == path {
			return true
		}
	}
	return false
}
