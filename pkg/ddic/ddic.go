// Package ddic holds the dictionary records the check-in pipeline reads
// from abapGit object descriptors, and their parsers.
package ddic

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/abapops/adtsync/pkg/abapgit"
	"github.com/abapops/adtsync/pkg/errors"
)

// Program subtype values of PROGDIR.SUBC.
const (
	SubcExecutableProgram = "1"
	SubcInclude           = "I"
)

// DEVC is the package descriptor record.
type DEVC struct {
	Text string // CTEXT
}

// VSEOINTERF is the interface descriptor record.
type VSEOINTERF struct {
	Name        string
	Description string
}

// VSEOCLASS is the class descriptor record.
type VSEOCLASS struct {
	Name        string
	Description string
}

// PROGDIR is the program directory record.
type PROGDIR struct {
	Name string
	Subc string
}

// TextPoolEntry is one row of a program's text pool.
type TextPoolEntry struct {
	ID     string
	Entry  string
	Length string
}

// TextIDReportTitle marks the text pool entry carrying the report title.
const TextIDReportTitle = "R"

// FunctionModule is one member function of a function group descriptor.
type FunctionModule struct {
	Name      string // FUNCNAME
	ShortText string // SHORT_TEXT
}

// FunctionGroup is the parsed function group descriptor: the AREAT short
// text plus the member includes and function modules.
type FunctionGroup struct {
	ShortText string
	Includes  []string
	Functions []FunctionModule
}

// ParseDEVC parses a package.devc.xml descriptor.
func ParseDEVC(data []byte) (*DEVC, error) {
	record, err := record(data, "DEVC")
	if err != nil {
		return nil, err
	}
	return &DEVC{Text: abapgit.ChildText(record, "CTEXT")}, nil
}

// ParseVSEOINTERF parses an interface descriptor.
func ParseVSEOINTERF(data []byte) (*VSEOINTERF, error) {
	record, err := record(data, "VSEOINTERF")
	if err != nil {
		return nil, err
	}
	return &VSEOINTERF{
		Name:        abapgit.ChildText(record, "CLSNAME"),
		Description: abapgit.ChildText(record, "DESCRIPT"),
	}, nil
}

// ParseVSEOCLASS parses a class descriptor.
func ParseVSEOCLASS(data []byte) (*VSEOCLASS, error) {
	record, err := record(data, "VSEOCLASS")
	if err != nil {
		return nil, err
	}
	return &VSEOCLASS{
		Name:        abapgit.ChildText(record, "CLSNAME"),
		Description: abapgit.ChildText(record, "DESCRIPT"),
	}, nil
}

// ParseProgram parses a program descriptor into its directory record and
// text pool.
func ParseProgram(data []byte) (*PROGDIR, []TextPoolEntry, error) {
	values, err := abapgit.Values(data)
	if err != nil {
		return nil, nil, err
	}

	progdirElem := values.FindElement(".//PROGDIR")
	if progdirElem == nil {
		return nil, nil, errors.New(errors.ErrConfigParse, "missing PROGDIR record")
	}

	progdir := &PROGDIR{
		Name: abapgit.ChildText(progdirElem, "NAME"),
		Subc: abapgit.ChildText(progdirElem, "SUBC"),
	}

	var tpool []TextPoolEntry
	if tpoolElem := values.FindElement(".//TPOOL"); tpoolElem != nil {
		for _, item := range tpoolElem.ChildElements() {
			tpool = append(tpool, TextPoolEntry{
				ID:     abapgit.ChildText(item, "ID"),
				Entry:  abapgit.ChildText(item, "ENTRY"),
				Length: abapgit.ChildText(item, "LENGTH"),
			})
		}
	}

	return progdir, tpool, nil
}

// ParseFunctionGroup parses a function group descriptor.
func ParseFunctionGroup(data []byte) (*FunctionGroup, error) {
	values, err := abapgit.Values(data)
	if err != nil {
		return nil, err
	}

	group := &FunctionGroup{}

	if areat := values.FindElement(".//AREAT"); areat != nil {
		group.ShortText = strings.TrimSpace(areat.Text())
	}

	if includes := values.FindElement(".//INCLUDES"); includes != nil {
		group.Includes = abapgit.TableStrings(includes)
	}

	if functions := values.FindElement(".//FUNCTIONS"); functions != nil {
		for _, item := range functions.ChildElements() {
			group.Functions = append(group.Functions, FunctionModule{
				Name:      abapgit.ChildText(item, "FUNCNAME"),
				ShortText: abapgit.ChildText(item, "SHORT_TEXT"),
			})
		}
	}

	return group, nil
}

func record(data []byte, tag string) (*etree.Element, error) {
	values, err := abapgit.Values(data)
	if err != nil {
		return nil, err
	}

	elem := values.FindElement(".//" + tag)
	if elem == nil {
		return nil, errors.Newf(errors.ErrConfigParse, "missing %s record", tag)
	}

	return elem, nil
}
