// Package adt defines the interface of the remote development-object
// repository the check-in pipeline writes to. The pipeline only depends on
// these types; the wire protocol lives in subpackages.
package adt

// CoreData carries the common attributes every remote object is created
// with.
type CoreData struct {
	Language       string
	MasterLanguage string
	Responsible    string
	Description    string
}

// PackageData carries the package-only creation attributes.
type PackageData struct {
	PackageType       string
	SuperPackage      string
	SoftwareComponent string
	AppComponent      string
	TransportLayer    string
}

// ObjectReference identifies one remote object, primarily for activation.
type ObjectReference struct {
	URI  string
	Type string
	Name string
}

// Object is one remote development object. Create and OpenEditor are
// blocking round trips; the optional transport groups the change for later
// promotion.
type Object interface {
	Name() string
	Reference() ObjectReference

	// Create registers the object on the remote. Failure because the
	// object already exists carries the ALREADY_EXISTS error code.
	Create(transport string) error

	// OpenEditor acquires a writable edit session. The session holds a
	// remote lock; callers must Close it on every exit path.
	OpenEditor(transport string) (Editor, error)
}

// Editor is a scoped remote edit session.
type Editor interface {
	Write(source string) error
	Close() error
}

// Class is a remote class object with its source sub-objects.
type Class interface {
	Object

	Definitions() Object
	Implementations() Object
	TestClasses() Object
}

// ActivationMessage is one diagnostic line returned by mass activation.
type ActivationMessage struct {
	IsError   bool
	ObjDescr  string
	Type      string
	ShortText string
}

// Client is the connection to the remote repository. It constructs objects
// bound to itself and runs mass activation.
type Client interface {
	// User returns the authenticated user, recorded as the responsible
	// of created objects.
	User() string

	Package(name string, meta CoreData, attrs PackageData) Object
	Interface(name, pkg string, meta CoreData) Object
	Class(name, pkg string, meta CoreData) Class
	Program(name, pkg string, meta CoreData) Object
	Include(name, pkg string, meta CoreData) Object
	FunctionGroup(name, pkg string, meta CoreData) Object
	FunctionGroupInclude(name, group string, meta CoreData) Object
	FunctionModule(name, group string, meta CoreData) Object

	// Activate runs mass activation for the referenced objects and
	// returns the diagnostics in remote order.
	Activate(refs *References) ([]ActivationMessage, error)
}
