package checkin

import (
	"github.com/abapops/adtsync/pkg/adt"
)

// fakeObject records what the pipeline did to one remote object.
type fakeObject struct {
	name    string
	objType string
	meta    adt.CoreData

	createErr   error
	createCalls int
	written     []string
	openErr     error
	closeCalls  int
}

func (o *fakeObject) Name() string {
	return o.name
}

func (o *fakeObject) Reference() adt.ObjectReference {
	return adt.ObjectReference{
		URI:  "/fake/" + o.objType + "/" + o.name,
		Type: o.objType,
		Name: o.name,
	}
}

func (o *fakeObject) Create(string) error {
	o.createCalls++
	return o.createErr
}

func (o *fakeObject) OpenEditor(string) (adt.Editor, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	return &fakeEditor{object: o}, nil
}

type fakeEditor struct {
	object *fakeObject
}

func (e *fakeEditor) Write(source string) error {
	e.object.written = append(e.object.written, source)
	return nil
}

func (e *fakeEditor) Close() error {
	e.object.closeCalls++
	return nil
}

type fakeClass struct {
	*fakeObject
	definitions     *fakeObject
	implementations *fakeObject
	testClasses     *fakeObject
}

func (c *fakeClass) Definitions() adt.Object     { return c.definitions }
func (c *fakeClass) Implementations() adt.Object { return c.implementations }
func (c *fakeClass) TestClasses() adt.Object     { return c.testClasses }

// fakeClient hands out fakeObjects and remembers them by type and name so
// tests can inspect what happened to each.
type fakeClient struct {
	user    string
	objects map[string]*fakeObject

	// createErrs seeds Create failures by "type/name"
	createErrs map[string]error

	activateCalls    int
	activated        []*adt.References
	activationResult []adt.ActivationMessage
	activateErr      error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		user:       "DEVELOPER",
		objects:    make(map[string]*fakeObject),
		createErrs: make(map[string]error),
	}
}

func (c *fakeClient) User() string {
	return c.user
}

func (c *fakeClient) object(objType, name string, meta adt.CoreData) *fakeObject {
	key := objType + "/" + name
	obj := &fakeObject{
		name:      name,
		objType:   objType,
		meta:      meta,
		createErr: c.createErrs[key],
	}
	c.objects[key] = obj
	return obj
}

func (c *fakeClient) Package(name string, meta adt.CoreData, _ adt.PackageData) adt.Object {
	return c.object("DEVC", name, meta)
}

func (c *fakeClient) Interface(name, _ string, meta adt.CoreData) adt.Object {
	return c.object("INTF", name, meta)
}

func (c *fakeClient) Class(name, _ string, meta adt.CoreData) adt.Class {
	return &fakeClass{
		fakeObject:      c.object("CLAS", name, meta),
		definitions:     c.object("CLAS.DEF", name, meta),
		implementations: c.object("CLAS.IMP", name, meta),
		testClasses:     c.object("CLAS.TST", name, meta),
	}
}

func (c *fakeClient) Program(name, _ string, meta adt.CoreData) adt.Object {
	return c.object("PROG", name, meta)
}

func (c *fakeClient) Include(name, _ string, meta adt.CoreData) adt.Object {
	return c.object("INCL", name, meta)
}

func (c *fakeClient) FunctionGroup(name, _ string, meta adt.CoreData) adt.Object {
	return c.object("FUGR", name, meta)
}

func (c *fakeClient) FunctionGroupInclude(name, _ string, meta adt.CoreData) adt.Object {
	return c.object("FUGR.I", name, meta)
}

func (c *fakeClient) FunctionModule(name, _ string, meta adt.CoreData) adt.Object {
	return c.object("FUGR.FF", name, meta)
}

func (c *fakeClient) Activate(refs *adt.References) ([]adt.ActivationMessage, error) {
	c.activateCalls++
	c.activated = append(c.activated, refs)
	return c.activationResult, c.activateErr
}
