// Package classfile reads the parts of a compiled Java class that name
// resolution needs: the class hierarchy, member signatures and the
// exceptions each method declares. Code, annotations and debug attributes
// are skipped.
package classfile

import "strings"

const Magic = 0xCAFEBABE

type AccessFlags uint16

const (
	AccPublic    AccessFlags = 0x0001
	AccPrivate   AccessFlags = 0x0002
	AccStatic    AccessFlags = 0x0008
	AccBridge    AccessFlags = 0x0040
	AccVarargs   AccessFlags = 0x0080
	AccInterface AccessFlags = 0x0200
	AccSynthetic AccessFlags = 0x1000
	AccModule    AccessFlags = 0x8000
)

func (f AccessFlags) IsPrivate() bool   { return f&AccPrivate != 0 }
func (f AccessFlags) IsStatic() bool    { return f&AccStatic != 0 }
func (f AccessFlags) IsBridge() bool    { return f&AccBridge != 0 }
func (f AccessFlags) IsVarargs() bool   { return f&AccVarargs != 0 }
func (f AccessFlags) IsInterface() bool { return f&AccInterface != 0 }
func (f AccessFlags) IsSynthetic() bool { return f&AccSynthetic != 0 }
func (f AccessFlags) IsModule() bool    { return f&AccModule != 0 }

// ClassFile holds names in their internal form, such as java/util/Map$Entry.
type ClassFile struct {
	MajorVersion uint16
	AccessFlags  AccessFlags
	Name         string
	SuperName    string
	Interfaces   []string
	Fields       []Member
	Methods      []Member
}

// Member is a field or method. Exceptions is only set for methods.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Exceptions  []string
}

// JavaName turns an internal class name into the dotted form used in
// source, p/Outer$Inner becoming p.Outer.Inner.
func JavaName(internal string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(internal)
}
