package checkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abapops/adtsync/pkg/adt"
	"github.com/abapops/adtsync/pkg/console"
	"github.com/abapops/adtsync/pkg/errors"
	"github.com/abapops/adtsync/pkg/repo"
)

func TestResolveDependencies_Partition(t *testing.T) {
	objects := []*repo.Object{
		{Code: "prog", Name: "zreport"},
		{Code: "intf", Name: "zif_a"},
		{Code: "fugr", Name: "zfg_a"},
		{Code: "clas", Name: "zcl_a"},
		{Code: "enho", Name: "zenh_a"},
		{Code: "intf", Name: "zif_b"},
	}

	groups := ResolveDependencies(objects)

	require.Len(t, groups, 3)

	names := func(group []*repo.Object) []string {
		var out []string
		for _, obj := range group {
			out = append(out, obj.Name)
		}
		return out
	}

	// discovery order survives within each group
	assert.Equal(t, []string{"zif_a", "zcl_a", "zif_b"}, names(groups[0]))
	assert.Equal(t, []string{"zreport"}, names(groups[1]))
	assert.Equal(t, []string{"zfg_a", "zenh_a"}, names(groups[2]))

	total := 0
	for _, group := range groups {
		total += len(group)
	}
	assert.Equal(t, len(objects), total)
}

func TestCheckinDependencyGroup_UnsupportedCode(t *testing.T) {
	cons := &console.Recorder{}
	group := []*repo.Object{{Code: "ddls", Name: "zview", Path: "./src/zview.ddls.xml"}}

	refs, err := checkinDependencyGroup(newFakeClient(), group, cons, "")

	require.NoError(t, err)
	assert.True(t, refs.Empty())
	require.Len(t, cons.Err, 1)
	assert.Equal(t, "Object not supported: ./src/zview.ddls.xml", cons.Err[0])
}

func TestCheckinDependencyGroup_StructuralErrorSkipsObject(t *testing.T) {
	dir := t.TempDir()
	cons := &console.Recorder{}

	broken := &repo.Object{
		Code:    "intf",
		Name:    "zif_broken",
		Path:    writeFile(t, dir, "zif_broken.intf.xml", intfXML),
		Package: &repo.Package{Name: "$pkg"},
		// no source files: structural failure
	}
	healthy := interfaceObject(t, dir)

	refs, err := checkinDependencyGroup(newFakeClient(), []*repo.Object{broken, healthy}, cons, "")

	require.NoError(t, err)
	assert.Equal(t, 1, refs.Len())
	assert.Contains(t, cons.Out, "Object handled without activation: "+broken.Path)
}

func TestCheckinDependencyGroup_RemoteFailureAborts(t *testing.T) {
	client := newFakeClient()
	client.createErrs["INTF/ZIF_GREETER"] = errors.New(errors.ErrCreationFailure, "Request is not authorized")

	group := []*repo.Object{interfaceObject(t, t.TempDir())}

	_, err := checkinDependencyGroup(client, group, &console.Recorder{}, "")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCreationFailure))
}

func TestCheckinDependencyGroup_AlreadyExistsStillActivated(t *testing.T) {
	client := newFakeClient()
	client.createErrs["INTF/ZIF_GREETER"] = errors.New(errors.ErrAlreadyExists, "Resource already exists")

	group := []*repo.Object{interfaceObject(t, t.TempDir())}

	refs, err := checkinDependencyGroup(client, group, &console.Recorder{}, "")

	require.NoError(t, err)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "ZIF_GREETER", refs.List()[0].Name)
}

func TestActivate_ErrorMessageAbortsAfterPrinting(t *testing.T) {
	client := newFakeClient()
	client.activationResult = []adt.ActivationMessage{
		{IsError: false, ObjDescr: "Interface ZIF_GREETER", Type: "W", ShortText: "Minor issue"},
		{IsError: true, ObjDescr: "Class ZCL_GREETER", Type: "E", ShortText: "Syntax error"},
	}

	refs := adt.NewReferences()
	refs.AddReference(adt.ObjectReference{URI: "/fake/CLAS/ZCL_GREETER", Name: "ZCL_GREETER"})

	cons := &console.Recorder{}
	err := activate(client, refs, cons)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActivation))

	// every message is surfaced before the run aborts
	require.Len(t, cons.Out, 4)
	assert.Equal(t, "* Interface ZIF_GREETER ::", cons.Out[0])
	assert.Equal(t, "| W: Minor issue", cons.Out[1])
	assert.Equal(t, "* Class ZCL_GREETER ::", cons.Out[2])
	assert.Equal(t, "| E: Syntax error", cons.Out[3])
}

func TestActivate_WarningsOnlySucceed(t *testing.T) {
	client := newFakeClient()
	client.activationResult = []adt.ActivationMessage{
		{IsError: false, ObjDescr: "Interface ZIF_GREETER", Type: "W", ShortText: "Minor issue"},
	}

	refs := adt.NewReferences()
	refs.AddReference(adt.ObjectReference{URI: "/fake/INTF/ZIF_GREETER", Name: "ZIF_GREETER"})

	require.NoError(t, activate(client, refs, &console.Recorder{}))
}

func TestRun_MissingTopDir(t *testing.T) {
	chdir(t, t.TempDir())

	client := newFakeClient()
	cons := &console.Recorder{}

	err := Run(client, cons, Args{Name: "$TEST", StartingFolder: "nope"})

	require.Error(t, err)
	require.Len(t, cons.Err, 1)
	assert.Equal(t, `Cannot check-in ABAP objects from "./nope": not a directory`, cons.Err[0])

	// no remote call was attempted
	assert.Empty(t, client.objects)
	assert.Zero(t, client.activateCalls)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/package.devc.xml", devcXML)
	writeFile(t, dir, "src/zif_greeter.intf.xml", intfXML)
	writeFile(t, dir, "src/zif_greeter.intf.abap", "INTERFACE zif_greeter PUBLIC.\nENDINTERFACE.\n")
	writeFile(t, dir, "src/sub/package.devc.xml", devcXML)
	writeFile(t, dir, "src/sub/zreport.prog.xml", progXML("1"))
	writeFile(t, dir, "src/sub/zreport.prog.abap", "REPORT zreport.\n")
	chdir(t, dir)

	client := newFakeClient()
	cons := &console.Recorder{}

	err := Run(client, cons, Args{
		Name:              "$test",
		StartingFolder:    "src",
		SoftwareComponent: "local",
	})
	require.NoError(t, err)

	// both packages were created, the child under its folder name
	require.NotNil(t, client.objects["DEVC/$TEST"])
	require.NotNil(t, client.objects["DEVC/$SUB"])

	require.NotNil(t, client.objects["INTF/ZIF_GREETER"])
	require.NotNil(t, client.objects["PROG/zreport"])

	// libraries are processed before binaries
	intfIdx := indexOf(cons.Out, "Creating Interface: zif_greeter")
	progIdx := indexOf(cons.Out, "Creating Program: zreport")
	require.GreaterOrEqual(t, intfIdx, 0)
	require.GreaterOrEqual(t, progIdx, 0)
	assert.Less(t, intfIdx, progIdx)

	// one activation per non-empty dependency group
	assert.Equal(t, 2, client.activateCalls)
}

func TestRun_ActivationErrorStopsLaterGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/package.devc.xml", devcXML)
	writeFile(t, dir, "src/zif_greeter.intf.xml", intfXML)
	writeFile(t, dir, "src/zif_greeter.intf.abap", "INTERFACE zif_greeter PUBLIC.\nENDINTERFACE.\n")
	writeFile(t, dir, "src/zreport.prog.xml", progXML("1"))
	writeFile(t, dir, "src/zreport.prog.abap", "REPORT zreport.\n")
	chdir(t, dir)

	client := newFakeClient()
	client.activationResult = []adt.ActivationMessage{
		{IsError: true, ObjDescr: "Interface ZIF_GREETER", Type: "E", ShortText: "Syntax error"},
	}
	cons := &console.Recorder{}

	err := Run(client, cons, Args{Name: "$test", StartingFolder: "src", SoftwareComponent: "LOCAL"})

	require.Error(t, err)
	assert.Equal(t, 1, client.activateCalls)
	assert.NotContains(t, cons.Out, "Creating Program: zreport")
	assert.Contains(t, cons.Err[len(cons.Err)-1], "Checkin failed:")
}

func indexOf(lines []string, want string) int {
	for i, line := range lines {
		if line == want {
			return i
		}
	}
	return -1
}
