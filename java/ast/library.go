package ast

// LibraryType describes a type that is known without source, such as the
// JDK classes every program can reference.
type LibraryType struct {
	Name       string
	Super      string
	Interfaces []string
	Interface  bool
	Methods    []LibraryMethod
	// Fields maps static field names to their type names.
	Fields map[string]string
}

// LibraryMethod is a library method or constructor; constructors are named
// "<init>". Arity -1 accepts any number of arguments.
type LibraryMethod struct {
	Name   string
	Arity  int
	Throws []string
	Result string
}

func (m LibraryMethod) accepts(n int) bool {
	return m.Arity < 0 || m.Arity == n
}

func exceptionClass(name, super string) LibraryType {
	return LibraryType{Name: name, Super: super}
}

// jdkTypes is the slice of the JDK needed to classify exceptions and to know
// the checked exceptions of commonly called library members.
var jdkTypes = []LibraryType{
	{Name: "java.lang.Object", Methods: []LibraryMethod{
		{Name: "wait", Arity: -1, Throws: []string{"java.lang.InterruptedException"}, Result: "void"},
		{Name: "clone", Arity: 0, Throws: []string{"java.lang.CloneNotSupportedException"}, Result: "java.lang.Object"},
		{Name: "toString", Arity: 0, Result: "java.lang.String"},
		{Name: "hashCode", Arity: 0, Result: "int"},
		{Name: "equals", Arity: 1, Result: "boolean"},
		{Name: "getClass", Arity: 0, Result: "java.lang.Class"},
	}},
	{Name: "java.lang.String", Super: "java.lang.Object", Interfaces: []string{"java.lang.CharSequence", "java.lang.Comparable"}, Methods: []LibraryMethod{
		{Name: "length", Arity: 0, Result: "int"},
		{Name: "getBytes", Arity: 1, Throws: []string{"java.io.UnsupportedEncodingException"}, Result: "byte[]"},
	}},
	{Name: "java.lang.CharSequence", Interface: true},
	{Name: "java.lang.Comparable", Interface: true},
	{Name: "java.lang.Runnable", Interface: true},
	{Name: "java.lang.AutoCloseable", Interface: true, Methods: []LibraryMethod{
		{Name: "close", Arity: 0, Throws: []string{"java.lang.Exception"}, Result: "void"},
	}},
	{Name: "java.io.Closeable", Interface: true, Interfaces: []string{"java.lang.AutoCloseable"}, Methods: []LibraryMethod{
		{Name: "close", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "void"},
	}},
	{Name: "java.lang.Iterable", Interface: true},
	{Name: "java.lang.Integer", Super: "java.lang.Number", Methods: []LibraryMethod{
		{Name: "parseInt", Arity: -1, Result: "int"},
	}},
	{Name: "java.lang.Number", Super: "java.lang.Object"},
	{Name: "java.lang.Enum", Super: "java.lang.Object", Interfaces: []string{"java.lang.Comparable"}},
	{Name: "java.lang.Record", Super: "java.lang.Object"},
	{Name: "java.lang.Boolean", Super: "java.lang.Object"},
	{Name: "java.lang.Long", Super: "java.lang.Number"},
	{Name: "java.lang.Double", Super: "java.lang.Number"},
	{Name: "java.lang.Character", Super: "java.lang.Object"},
	{Name: "java.lang.Math", Super: "java.lang.Object"},
	{Name: "java.lang.StringBuilder", Super: "java.lang.Object", Interfaces: []string{"java.lang.CharSequence"}},
	{Name: "java.lang.System", Super: "java.lang.Object", Fields: map[string]string{
		"out": "java.io.PrintStream",
		"err": "java.io.PrintStream",
		"in":  "java.io.InputStream",
	}},
	{Name: "java.lang.Class", Super: "java.lang.Object", Methods: []LibraryMethod{
		{Name: "forName", Arity: -1, Throws: []string{"java.lang.ClassNotFoundException"}, Result: "java.lang.Class"},
		{Name: "newInstance", Arity: 0, Throws: []string{"java.lang.InstantiationException", "java.lang.IllegalAccessException"}, Result: "java.lang.Object"},
	}},
	{Name: "java.lang.Thread", Super: "java.lang.Object", Interfaces: []string{"java.lang.Runnable"}, Methods: []LibraryMethod{
		{Name: "sleep", Arity: -1, Throws: []string{"java.lang.InterruptedException"}, Result: "void"},
		{Name: "join", Arity: -1, Throws: []string{"java.lang.InterruptedException"}, Result: "void"},
		{Name: "start", Arity: 0, Result: "void"},
	}},

	{Name: "java.lang.Throwable", Super: "java.lang.Object", Methods: []LibraryMethod{
		{Name: "getMessage", Arity: 0, Result: "java.lang.String"},
		{Name: "getCause", Arity: 0, Result: "java.lang.Throwable"},
		{Name: "printStackTrace", Arity: -1, Result: "void"},
	}},
	exceptionClass("java.lang.Exception", "java.lang.Throwable"),
	exceptionClass("java.lang.Error", "java.lang.Throwable"),
	exceptionClass("java.lang.RuntimeException", "java.lang.Exception"),
	exceptionClass("java.lang.InterruptedException", "java.lang.Exception"),
	exceptionClass("java.lang.CloneNotSupportedException", "java.lang.Exception"),
	exceptionClass("java.lang.ReflectiveOperationException", "java.lang.Exception"),
	exceptionClass("java.lang.ClassNotFoundException", "java.lang.ReflectiveOperationException"),
	exceptionClass("java.lang.InstantiationException", "java.lang.ReflectiveOperationException"),
	exceptionClass("java.lang.IllegalAccessException", "java.lang.ReflectiveOperationException"),
	exceptionClass("java.lang.NoSuchMethodException", "java.lang.ReflectiveOperationException"),
	exceptionClass("java.lang.NoSuchFieldException", "java.lang.ReflectiveOperationException"),
	exceptionClass("java.lang.IllegalArgumentException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.NumberFormatException", "java.lang.IllegalArgumentException"),
	exceptionClass("java.lang.IllegalStateException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.NullPointerException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.ArithmeticException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.ClassCastException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.IndexOutOfBoundsException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.ArrayIndexOutOfBoundsException", "java.lang.IndexOutOfBoundsException"),
	exceptionClass("java.lang.StringIndexOutOfBoundsException", "java.lang.IndexOutOfBoundsException"),
	exceptionClass("java.lang.UnsupportedOperationException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.SecurityException", "java.lang.RuntimeException"),
	exceptionClass("java.lang.AssertionError", "java.lang.Error"),
	exceptionClass("java.lang.OutOfMemoryError", "java.lang.VirtualMachineError"),
	exceptionClass("java.lang.StackOverflowError", "java.lang.VirtualMachineError"),
	exceptionClass("java.lang.VirtualMachineError", "java.lang.Error"),

	exceptionClass("java.io.IOException", "java.lang.Exception"),
	exceptionClass("java.io.FileNotFoundException", "java.io.IOException"),
	exceptionClass("java.io.EOFException", "java.io.IOException"),
	exceptionClass("java.io.UnsupportedEncodingException", "java.io.IOException"),
	exceptionClass("java.io.UncheckedIOException", "java.lang.RuntimeException"),
	{Name: "java.io.File", Super: "java.lang.Object", Methods: []LibraryMethod{
		{Name: "getCanonicalPath", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "java.lang.String"},
		{Name: "createNewFile", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "boolean"},
	}},
	{Name: "java.io.Reader", Super: "java.lang.Object", Interfaces: []string{"java.io.Closeable"}, Methods: []LibraryMethod{
		{Name: "read", Arity: -1, Throws: []string{"java.io.IOException"}, Result: "int"},
		{Name: "close", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "void"},
	}},
	{Name: "java.io.InputStreamReader", Super: "java.io.Reader"},
	{Name: "java.io.FileReader", Super: "java.io.InputStreamReader", Methods: []LibraryMethod{
		{Name: "<init>", Arity: -1, Throws: []string{"java.io.FileNotFoundException"}},
	}},
	{Name: "java.io.BufferedReader", Super: "java.io.Reader", Methods: []LibraryMethod{
		{Name: "readLine", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "java.lang.String"},
	}},
	{Name: "java.io.InputStream", Super: "java.lang.Object", Interfaces: []string{"java.io.Closeable"}, Methods: []LibraryMethod{
		{Name: "read", Arity: -1, Throws: []string{"java.io.IOException"}, Result: "int"},
		{Name: "close", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "void"},
	}},
	{Name: "java.io.FileInputStream", Super: "java.io.InputStream", Methods: []LibraryMethod{
		{Name: "<init>", Arity: -1, Throws: []string{"java.io.FileNotFoundException"}},
	}},
	{Name: "java.io.OutputStream", Super: "java.lang.Object", Interfaces: []string{"java.io.Closeable"}, Methods: []LibraryMethod{
		{Name: "write", Arity: -1, Throws: []string{"java.io.IOException"}, Result: "void"},
		{Name: "flush", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "void"},
		{Name: "close", Arity: 0, Throws: []string{"java.io.IOException"}, Result: "void"},
	}},
	{Name: "java.io.PrintStream", Super: "java.io.OutputStream", Methods: []LibraryMethod{
		{Name: "println", Arity: -1, Result: "void"},
		{Name: "print", Arity: -1, Result: "void"},
		{Name: "printf", Arity: -1, Result: "java.io.PrintStream"},
		{Name: "write", Arity: -1, Result: "void"},
		{Name: "flush", Arity: 0, Result: "void"},
		{Name: "close", Arity: 0, Result: "void"},
	}},
	{Name: "java.io.FileOutputStream", Super: "java.io.OutputStream", Methods: []LibraryMethod{
		{Name: "<init>", Arity: -1, Throws: []string{"java.io.FileNotFoundException"}},
	}},

	exceptionClass("java.net.MalformedURLException", "java.io.IOException"),
	exceptionClass("java.net.URISyntaxException", "java.lang.Exception"),
	exceptionClass("java.sql.SQLException", "java.lang.Exception"),
	exceptionClass("java.text.ParseException", "java.lang.Exception"),
	exceptionClass("java.util.NoSuchElementException", "java.lang.RuntimeException"),
	exceptionClass("java.util.ConcurrentModificationException", "java.lang.RuntimeException"),
	exceptionClass("java.util.concurrent.TimeoutException", "java.lang.Exception"),
	exceptionClass("java.util.concurrent.ExecutionException", "java.lang.Exception"),
	{Name: "java.util.concurrent.Future", Interface: true, Methods: []LibraryMethod{
		{Name: "get", Arity: -1, Throws: []string{"java.lang.InterruptedException", "java.util.concurrent.ExecutionException"}, Result: "java.lang.Object"},
	}},
	{Name: "java.util.concurrent.Callable", Interface: true, Methods: []LibraryMethod{
		{Name: "call", Arity: 0, Throws: []string{"java.lang.Exception"}, Result: "java.lang.Object"},
	}},
	{Name: "java.util.Collection", Interface: true, Interfaces: []string{"java.lang.Iterable"}},
	{Name: "java.util.List", Interface: true, Interfaces: []string{"java.util.Collection"}},
	{Name: "java.util.Map", Interface: true},
	{Name: "java.util.Set", Interface: true, Interfaces: []string{"java.util.Collection"}},
	{Name: "java.util.ArrayList", Super: "java.lang.Object", Interfaces: []string{"java.util.List"}},
	{Name: "java.util.HashMap", Super: "java.lang.Object", Interfaces: []string{"java.util.Map"}},
	{Name: "java.util.HashSet", Super: "java.lang.Object", Interfaces: []string{"java.util.Set"}},
	{Name: "java.util.Objects", Super: "java.lang.Object"},
	{Name: "java.util.Optional", Super: "java.lang.Object"},
}
