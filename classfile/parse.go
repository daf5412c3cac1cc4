package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int64) {
	if r.err != nil {
		return
	}
	_, r.err = io.CopyN(io.Discard, r.r, n)
}

const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// pool keeps the two entry kinds names are read from; index 0 is unused.
type pool struct {
	utf8    map[uint16]string
	classes map[uint16]uint16
}

func (p *pool) utf(i uint16) string {
	return p.utf8[i]
}

func (p *pool) className(i uint16) string {
	return p.utf8[p.classes[i]]
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	cf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X", magic)
	}
	r.readU2()
	cf := &ClassFile{MajorVersion: r.readU2()}

	cp, err := readPool(r)
	if err != nil {
		return nil, err
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.Name = cp.className(r.readU2())
	if super := r.readU2(); super != 0 {
		cf.SuperName = cp.className(super)
	}
	n := r.readU2()
	for i := uint16(0); i < n; i++ {
		cf.Interfaces = append(cf.Interfaces, cp.className(r.readU2()))
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class info: %w", r.err)
	}

	if cf.Fields, err = readMembers(r, cp); err != nil {
		return nil, fmt.Errorf("read fields: %w", err)
	}
	if cf.Methods, err = readMembers(r, cp); err != nil {
		return nil, fmt.Errorf("read methods: %w", err)
	}
	return cf, nil
}

func readPool(r *reader) (*pool, error) {
	cp := &pool{utf8: make(map[uint16]string), classes: make(map[uint16]uint16)}
	count := r.readU2()
	for i := uint16(1); i < count; i++ {
		tag := r.readU1()
		switch tag {
		case tagUtf8:
			cp.utf8[i] = string(r.readBytes(int(r.readU2())))
		case tagClass:
			cp.classes[i] = r.readU2()
		case tagString, tagMethodType, tagModule, tagPackage:
			r.skip(2)
		case tagMethodHandle:
			r.skip(3)
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.skip(4)
		case tagLong, tagDouble:
			// Eight-byte constants take two slots.
			r.skip(8)
			i++
		default:
			if r.err == nil {
				return nil, fmt.Errorf("constant pool entry %d: unknown tag %d", i, tag)
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("constant pool entry %d: %w", i, r.err)
		}
	}
	return cp, nil
}

func readMembers(r *reader, cp *pool) ([]Member, error) {
	n := r.readU2()
	members := make([]Member, 0, n)
	for i := uint16(0); i < n; i++ {
		m := Member{
			AccessFlags: AccessFlags(r.readU2()),
			Name:        cp.utf(r.readU2()),
			Descriptor:  cp.utf(r.readU2()),
		}
		attrs := r.readU2()
		for j := uint16(0); j < attrs; j++ {
			name := cp.utf(r.readU2())
			length := r.readU4()
			if name != "Exceptions" {
				r.skip(int64(length))
				continue
			}
			count := r.readU2()
			for k := uint16(0); k < count; k++ {
				m.Exceptions = append(m.Exceptions, cp.className(r.readU2()))
			}
		}
		if r.err != nil {
			return nil, r.err
		}
		members = append(members, m)
	}
	return members, nil
}
