package classfile

import (
	"bytes"
	"os"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	cf, err := ParseFile("testdata/lib/Store.class")
	require.NoError(t, err)

	assert.Equal(t, uint16(61), cf.MajorVersion)
	assert.Equal(t, "lib/Store", cf.Name)
	assert.Equal(t, "java/lang/Object", cf.SuperName)
	assert.Equal(t, []string{"java/io/Closeable"}, cf.Interfaces)
	assert.False(t, cf.AccessFlags.IsInterface())

	want := []Member{
		{AccessFlags: 0x0019, Name: "DEFAULT", Descriptor: "Llib/Store;"},
		{AccessFlags: 0x0002, Name: "count", Descriptor: "I"},
	}
	if diff := deep.Equal(cf.Fields, want); diff != nil {
		t.Error(diff)
	}

	require.Len(t, cf.Methods, 7)
	save := cf.Methods[1]
	assert.Equal(t, "save", save.Name)
	assert.Equal(t, []string{"java/io/IOException"}, save.Exceptions)
	assert.True(t, cf.Methods[2].AccessFlags.IsVarargs())
	assert.True(t, cf.Methods[3].AccessFlags.IsPrivate())
	assert.True(t, cf.Methods[4].AccessFlags.IsBridge())
	assert.True(t, cf.Methods[4].AccessFlags.IsSynthetic())
	assert.True(t, cf.Methods[6].AccessFlags.IsStatic())
	assert.Empty(t, cf.Methods[6].Exceptions)
}

func TestParseErrors(t *testing.T) {
	data, err := os.ReadFile("testdata/lib/Store.class")
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "read magic"},
		{"bad magic", []byte{0xCA, 0xFE, 0xD0, 0x0D, 0, 0, 0, 61}, "invalid magic"},
		{"truncated pool", data[:40], "constant pool"},
		{"truncated methods", data[:len(data)-30], "read methods"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err = ParseFile("testdata/Missing.class")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc   string
		params []string
		result string
	}{
		{"()V", nil, "void"},
		{"(ILjava/lang/String;)Z", []string{"int", "java.lang.String"}, "boolean"},
		{"([[J[Ljava/util/Map$Entry;)[B", []string{"long[][]", "java.util.Map.Entry[]"}, "byte[]"},
	}
	for _, tt := range tests {
		md, err := ParseMethodDescriptor(tt.desc)
		require.NoError(t, err, tt.desc)
		assert.Equal(t, tt.params, md.Parameters, tt.desc)
		assert.Equal(t, tt.result, md.Result, tt.desc)
	}

	for _, bad := range []string{"V", "(I", "(Q)V", "(Ljava/lang/String)V", "()", "()VV"} {
		_, err := ParseMethodDescriptor(bad)
		assert.Error(t, err, bad)
	}
}

func TestFieldDescriptor(t *testing.T) {
	typ, err := ParseFieldDescriptor("[[I")
	require.NoError(t, err)
	assert.Equal(t, "int[][]", typ)

	_, err = ParseFieldDescriptor("II")
	assert.Error(t, err)
	assert.Equal(t, "p.Outer.Inner", JavaName("p/Outer$Inner"))
}
