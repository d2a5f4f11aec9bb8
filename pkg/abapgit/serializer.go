package abapgit

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/abapops/adtsync/pkg/errors"
)

// Values parses an asx:abap document and returns its asx:values element,
// the container all abapGit records live under.
func Values(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid XML document")
	}

	values := doc.FindElement("//asx:values")
	if values == nil {
		values = doc.FindElement("//values")
	}
	if values == nil {
		return nil, errors.New(errors.ErrConfigParse, "missing asx:values element")
	}

	return values, nil
}

// ChildText returns the trimmed text of a direct child element, or the
// empty string when the child is absent.
func ChildText(parent *etree.Element, tag string) string {
	child := parent.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// TableStrings returns the trimmed texts of all child elements of an
// internal-table element, regardless of the row tag abapGit used.
func TableStrings(table *etree.Element) []string {
	var rows []string
	for _, item := range table.ChildElements() {
		rows = append(rows, strings.TrimSpace(item.Text()))
	}
	return rows
}
