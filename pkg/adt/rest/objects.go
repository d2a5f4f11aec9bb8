package rest

import (
	"net/http"
	"strings"

	"github.com/beevik/etree"

	"github.com/abapops/adtsync/pkg/adt"
	"github.com/abapops/adtsync/pkg/errors"
)

// objectSpec describes how one object kind maps onto the ADT protocol.
type objectSpec struct {
	rootTag    string // root element of the creation body, prefix included
	namespace  string // namespace URI bound to the prefix
	adtType    string // ADT object type, e.g. INTF/OI
	collection string // collection path creation posts to
}

var (
	packageSpec = objectSpec{
		rootTag:    "pak:package",
		namespace:  "http://www.sap.com/adt/packages",
		adtType:    "DEVC/K",
		collection: "/sap/bc/adt/packages",
	}
	interfaceSpec = objectSpec{
		rootTag:    "intf:abapInterface",
		namespace:  "http://www.sap.com/adt/oo/interfaces",
		adtType:    "INTF/OI",
		collection: "/sap/bc/adt/oo/interfaces",
	}
	classSpec = objectSpec{
		rootTag:    "class:abapClass",
		namespace:  "http://www.sap.com/adt/oo/classes",
		adtType:    "CLAS/OC",
		collection: "/sap/bc/adt/oo/classes",
	}
	programSpec = objectSpec{
		rootTag:    "program:abapProgram",
		namespace:  "http://www.sap.com/adt/programs/programs",
		adtType:    "PROG/P",
		collection: "/sap/bc/adt/programs/programs",
	}
	includeSpec = objectSpec{
		rootTag:    "include:abapInclude",
		namespace:  "http://www.sap.com/adt/programs/includes",
		adtType:    "PROG/I",
		collection: "/sap/bc/adt/programs/includes",
	}
	functionGroupSpec = objectSpec{
		rootTag:    "group:abapFunctionGroup",
		namespace:  "http://www.sap.com/adt/functions/groups",
		adtType:    "FUGR/F",
		collection: "/sap/bc/adt/functions/groups",
	}
	functionIncludeSpec = objectSpec{
		rootTag:    "finclude:functionGroupInclude",
		namespace:  "http://www.sap.com/adt/functions/fincludes",
		adtType:    "FUGR/I",
		collection: "", // nested under the group at construction time
	}
	functionModuleSpec = objectSpec{
		rootTag:    "fmodule:abapFunctionModule",
		namespace:  "http://www.sap.com/adt/functions/fmodules",
		adtType:    "FUGR/FF",
		collection: "",
	}
)

// restObject is one remote development object addressed by its ADT URI.
type restObject struct {
	client *Client
	name   string
	pkg    string
	meta   adt.CoreData
	attrs  *adt.PackageData // packages only
	spec   objectSpec

	uri        string
	sourcePath string
}

func newObject(client *Client, spec objectSpec, name, pkg string, meta adt.CoreData) *restObject {
	uri := spec.collection + "/" + strings.ToLower(name)
	return &restObject{
		client:     client,
		name:       name,
		pkg:        pkg,
		meta:       meta,
		spec:       spec,
		uri:        uri,
		sourcePath: uri + "/source/main",
	}
}

// Package constructs the remote package object.
func (c *Client) Package(name string, meta adt.CoreData, attrs adt.PackageData) adt.Object {
	obj := newObject(c, packageSpec, name, "", meta)
	obj.attrs = &attrs
	return obj
}

func (c *Client) Interface(name, pkg string, meta adt.CoreData) adt.Object {
	return newObject(c, interfaceSpec, name, pkg, meta)
}

func (c *Client) Class(name, pkg string, meta adt.CoreData) adt.Class {
	return &restClass{restObject: newObject(c, classSpec, name, pkg, meta)}
}

func (c *Client) Program(name, pkg string, meta adt.CoreData) adt.Object {
	return newObject(c, programSpec, name, pkg, meta)
}

func (c *Client) Include(name, pkg string, meta adt.CoreData) adt.Object {
	return newObject(c, includeSpec, name, pkg, meta)
}

func (c *Client) FunctionGroup(name, pkg string, meta adt.CoreData) adt.Object {
	return newObject(c, functionGroupSpec, name, pkg, meta)
}

func (c *Client) FunctionGroupInclude(name, group string, meta adt.CoreData) adt.Object {
	spec := functionIncludeSpec
	spec.collection = functionGroupSpec.collection + "/" + strings.ToLower(group) + "/includes"
	return newObject(c, spec, name, "", meta)
}

func (c *Client) FunctionModule(name, group string, meta adt.CoreData) adt.Object {
	spec := functionModuleSpec
	spec.collection = functionGroupSpec.collection + "/" + strings.ToLower(group) + "/fmodules"
	return newObject(c, spec, name, "", meta)
}

func (o *restObject) Name() string {
	return o.name
}

func (o *restObject) Reference() adt.ObjectReference {
	return adt.ObjectReference{
		URI:  o.uri,
		Type: o.spec.adtType,
		Name: o.name,
	}
}

// Create posts the object's creation body to its collection. An already
// existing object surfaces as the ALREADY_EXISTS error code; any other
// rejection as CREATION_FAILURE with the server diagnostic.
func (o *restObject) Create(transport string) error {
	body, err := o.creationBody()
	if err != nil {
		return err
	}

	path := o.spec.collection
	if query := transportQuery(transport); query != "" {
		path += "?" + query
	}

	resp, err := o.client.request(http.MethodPost, path, "application/xml", body)
	if err != nil {
		return err
	}

	if resp.status >= 200 && resp.status <= 299 {
		return nil
	}

	message := resp.message()
	if resp.exceptionType() == "ExceptionResourceAlreadyExists" || resp.status == http.StatusConflict {
		return errors.New(errors.ErrAlreadyExists, message)
	}

	return errors.New(errors.ErrCreationFailure, message)
}

// OpenEditor locks the object and returns the edit session holding the
// lock handle.
func (o *restObject) OpenEditor(transport string) (adt.Editor, error) {
	resp, err := o.client.request(http.MethodPost, o.uri+"?_action=LOCK&accessMode=MODIFY", "", "")
	if err != nil {
		return nil, err
	}

	if resp.status < 200 || resp.status > 299 {
		return nil, errors.Newf(errors.ErrEditorOpen, "cannot lock %s: %s", o.name, resp.message())
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(resp.body); err != nil {
		return nil, errors.Wrapf(err, errors.ErrEditorOpen, "invalid lock response for %s", o.name)
	}

	handle := doc.FindElement("//LOCK_HANDLE")
	if handle == nil {
		return nil, errors.Newf(errors.ErrEditorOpen, "no lock handle returned for %s", o.name)
	}

	return &editor{
		object:     o,
		lockHandle: strings.TrimSpace(handle.Text()),
		transport:  transport,
	}, nil
}

func (o *restObject) creationBody() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	prefix := strings.SplitN(o.spec.rootTag, ":", 2)[0]

	root := doc.CreateElement(o.spec.rootTag)
	root.CreateAttr("xmlns:"+prefix, o.spec.namespace)
	root.CreateAttr("xmlns:adtcore", adtCoreNamespace)
	root.CreateAttr("adtcore:name", o.name)
	root.CreateAttr("adtcore:type", o.spec.adtType)
	root.CreateAttr("adtcore:description", o.meta.Description)
	root.CreateAttr("adtcore:language", o.meta.Language)
	root.CreateAttr("adtcore:masterLanguage", o.meta.MasterLanguage)
	root.CreateAttr("adtcore:responsible", o.meta.Responsible)

	if o.pkg != "" {
		pkgRef := root.CreateElement("adtcore:packageRef")
		pkgRef.CreateAttr("adtcore:name", strings.ToUpper(o.pkg))
	}

	if o.attrs != nil {
		attrs := root.CreateElement("pak:attributes")
		attrs.CreateAttr("pak:packageType", o.attrs.PackageType)

		if o.attrs.SuperPackage != "" {
			superPkg := root.CreateElement("pak:superPackage")
			superPkg.CreateAttr("adtcore:name", o.attrs.SuperPackage)
		}

		transport := root.CreateElement("pak:transport")
		swcomp := transport.CreateElement("pak:softwareComponent")
		swcomp.CreateAttr("pak:name", o.attrs.SoftwareComponent)
		if o.attrs.TransportLayer != "" {
			layer := transport.CreateElement("pak:transportLayer")
			layer.CreateAttr("pak:name", o.attrs.TransportLayer)
		}

		if o.attrs.AppComponent != "" {
			appcomp := root.CreateElement("pak:applicationComponent")
			appcomp.CreateAttr("pak:name", o.attrs.AppComponent)
		}
	}

	return doc.WriteToString()
}

// restClass adds the class source sub-objects. The sub-objects share the
// class URI; only their source path differs, and they are never created on
// their own.
type restClass struct {
	*restObject
}

func (c *restClass) Definitions() adt.Object {
	return c.include("definitions")
}

func (c *restClass) Implementations() adt.Object {
	return c.include("implementations")
}

func (c *restClass) TestClasses() adt.Object {
	return c.include("testclasses")
}

func (c *restClass) include(includeType string) adt.Object {
	sub := *c.restObject
	sub.sourcePath = c.uri + "/includes/" + includeType
	return &classInclude{restObject: &sub, includeType: includeType}
}

type classInclude struct {
	*restObject
	includeType string
}

// Create is not supported for class includes; they come into being with
// their class.
func (i *classInclude) Create(string) error {
	return errors.Newf(errors.ErrInternal, "class include %s of %s is not created on its own",
		i.includeType, i.name)
}

// editor is a scoped edit session holding the remote lock until Close.
type editor struct {
	object     *restObject
	lockHandle string
	transport  string
	closed     bool
}

func (e *editor) Write(source string) error {
	path := e.object.sourcePath + "?lockHandle=" + e.lockHandle
	if query := transportQuery(e.transport); query != "" {
		path += "&" + query
	}

	resp, err := e.object.client.request(http.MethodPut, path, "text/plain; charset=utf-8", source)
	if err != nil {
		return err
	}

	if resp.status < 200 || resp.status > 299 {
		return errors.Newf(errors.ErrSourceWrite, "cannot write %s: %s", e.object.name, resp.message())
	}

	return nil
}

func (e *editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	resp, err := e.object.client.request(http.MethodPost,
		e.object.uri+"?_action=UNLOCK&lockHandle="+e.lockHandle, "", "")
	if err != nil {
		return err
	}

	if resp.status < 200 || resp.status > 299 {
		return errors.Newf(errors.ErrEditorOpen, "cannot unlock %s: %s", e.object.name, resp.message())
	}

	return nil
}
