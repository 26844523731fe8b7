package confreader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const (
	oksDataTag   = "oks-data"
	schemaSuffix = ".schema.xml"
	SessionClass = "Session"
)

// Object is one <obj> of an OKS data file.
type Object struct {
	Class   string
	ID      string
	element *etree.Element
}

func (o *Object) String() string {
	return o.ID + "@" + o.Class
}

// Database is a parsed, fully in-memory OKS data file.
type Database struct {
	Filename string
	doc      *etree.Document
	objects  map[string][]*Object
	includes []string
}

// newDocument accepts the ASCII encoding declared by OKS writers.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "ascii", "us-ascii", "utf-8", "utf8":
			return input, nil
		}
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return doc
}

// OpenDatabase reads and indexes an OKS data file.
func OpenDatabase(filename string) (*Database, error) {
	doc := newDocument()
	if err := doc.ReadFromFile(filename); err != nil {
		return nil, &ErrParse{Filename: filename, Err: err}
	}
	return newDatabase(filename, doc)
}

// ParseDatabase indexes an OKS data file already held in memory. The name
// is only used in error messages.
func ParseDatabase(name string, data []byte) (*Database, error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ErrParse{Filename: name, Err: err}
	}
	return newDatabase(name, doc)
}

func newDatabase(filename string, doc *etree.Document) (*Database, error) {
	root := doc.Root()
	if root == nil {
		return nil, &ErrParse{Filename: filename, Err: errors.New("empty document")}
	}
	if root.Tag != oksDataTag {
		return nil, &ErrParse{Filename: filename, Err: fmt.Errorf("unexpected root element <%s>, expected <%s>", root.Tag, oksDataTag)}
	}

	db := &Database{
		Filename: filename,
		doc:      doc,
		objects:  make(map[string][]*Object),
	}

	for _, include := range root.SelectElements("include") {
		for _, file := range include.SelectElements("file") {
			db.includes = append(db.includes, file.SelectAttrValue("path", ""))
		}
	}

	for i, element := range root.SelectElements("obj") {
		id := element.SelectAttrValue("id", "")
		class := element.SelectAttrValue("class", "")
		if id == "" || class == "" {
			return nil, &ErrParse{Filename: filename, Err: fmt.Errorf("object %d has no class or id", i)}
		}
		db.objects[id] = append(db.objects[id], &Object{Class: class, ID: id, element: element})
	}

	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Indexed %d object ids, %d includes", len(db.objects), len(db.includes)), "oks")
	}
	return db, nil
}

// DataIncludes returns the included files that are not schema files. Data
// includes mean the configuration was not consolidated into one file.
func (db *Database) DataIncludes() []string {
	var data []string
	for _, path := range db.includes {
		if !strings.HasSuffix(path, schemaSuffix) {
			data = append(data, path)
		}
	}
	return data
}

func (db *Database) HasDataIncludes() bool {
	return len(db.DataIncludes()) > 0
}

// lookup finds an object by id. The class of a reference may name a
// superclass, so it is only used to choose between objects sharing an id.
func (db *Database) lookup(class string, id string) (*Object, bool) {
	candidates := db.objects[id]
	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		return candidates[0], true
	}
	for _, candidate := range candidates {
		if candidate.Class == class {
			return candidate, true
		}
	}
	return candidates[0], true
}

// FindSession returns the Session object with the given id.
func (db *Database) FindSession(name string) (*Object, error) {
	for _, candidate := range db.objects[name] {
		if candidate.Class == SessionClass {
			return candidate, nil
		}
	}
	return nil, &ErrNotFound{Class: SessionClass, ID: name}
}

func findChild(element *etree.Element, tag string, name string) *etree.Element {
	for _, child := range element.SelectElements(tag) {
		if child.SelectAttrValue("name", "") == name {
			return child
		}
	}
	return nil
}

// Relation returns the targets of a named relation in declaration order.
// An absent or unset relation yields no targets.
func (db *Database) Relation(obj *Object, name string) ([]*Object, error) {
	rel := findChild(obj.element, "rel", name)
	if rel == nil {
		if verbosity > 2 {
			logger.Info(fmt.Sprintf("Relation %s of %s is absent", name, obj), "oks")
		}
		return nil, nil
	}

	type reference struct{ class, id string }
	var refs []reference
	if id := rel.SelectAttrValue("id", ""); id != "" {
		refs = append(refs, reference{rel.SelectAttrValue("class", ""), id})
	}
	for _, ref := range rel.SelectElements("ref") {
		refs = append(refs, reference{ref.SelectAttrValue("class", ""), ref.SelectAttrValue("id", "")})
	}

	targets := make([]*Object, 0, len(refs))
	for _, ref := range refs {
		target, ok := db.lookup(ref.class, ref.id)
		if !ok {
			return nil, &ErrNotFound{Class: ref.class, ID: ref.id, Relation: name, From: obj.String()}
		}
		targets = append(targets, target)
	}

	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Relation %s of %s -> %d objects", name, obj, len(targets)), "oks")
	}
	return targets, nil
}

// RelationOne resolves a single-valued relation that must be set.
func (db *Database) RelationOne(obj *Object, name string) (*Object, error) {
	targets, err := db.Relation(obj, name)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, &ErrNotFound{Relation: name, From: obj.String()}
	}
	return targets[0], nil
}

// Attribute reads an attribute of obj coerced to its declared type.
func (db *Database) Attribute(obj *Object, name string) (Value, error) {
	attr := findChild(obj.element, "attr", name)
	if attr == nil {
		return Value{}, &ErrAttributeMissing{Class: obj.Class, ID: obj.ID, Attribute: name}
	}

	oksType := attr.SelectAttrValue("type", "")
	wrap := func(err error) error {
		return &ErrParse{Filename: db.Filename, Err: fmt.Errorf("attribute %q of %s: %w", name, obj, err)}
	}

	items := attr.SelectElements("data")
	if len(items) > 0 || attr.SelectAttr("num") != nil {
		list := Value{Kind: KindList, List: make([]Value, 0, len(items))}
		for _, item := range items {
			v, err := parseValue(oksType, item.SelectAttrValue("val", ""))
			if err != nil {
				return Value{}, wrap(err)
			}
			list.List = append(list.List, v)
		}
		return list, nil
	}

	v, err := parseValue(oksType, attr.SelectAttrValue("val", ""))
	if err != nil {
		return Value{}, wrap(err)
	}
	return v, nil
}

// BoolAttribute reads a bool attribute.
func (db *Database) BoolAttribute(obj *Object, name string) (bool, error) {
	v, err := db.Attribute(obj, name)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, &ErrTypeMismatch{Class: obj.Class, ID: obj.ID, Attribute: name, Want: KindBool, Got: v.Kind}
	}
	return b, nil
}

// IntAttribute reads a signed or unsigned integer attribute.
func (db *Database) IntAttribute(obj *Object, name string) (int64, error) {
	v, err := db.Attribute(obj, name)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, &ErrTypeMismatch{Class: obj.Class, ID: obj.ID, Attribute: name, Want: KindInt, Got: v.Kind}
	}
	return i, nil
}
