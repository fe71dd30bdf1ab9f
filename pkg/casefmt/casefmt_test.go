package casefmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Consensys/errorprone-checks/pkg/casefmt"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want casefmt.Convention
	}{
		{"paramName", casefmt.LowerCamel},
		{"myAST", casefmt.LowerCamel},
		{"ParamName", casefmt.UpperCamel},
		{"Foo", casefmt.UpperCamel},
		{"HTTPServer", casefmt.UpperCamel},
		{"LRUCache", casefmt.UpperCamel},
		{"PARAM_NAME", casefmt.ConstantCase},
		{"MAX_2", casefmt.ConstantCase},
		{"param_name", casefmt.None},
		{"lower", casefmt.None},
		{"UPPER", casefmt.None},
		{"Invalid_Func_Name", casefmt.None},
		{"_", casefmt.None},
		{"A__B", casefmt.None},
		{"", casefmt.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, casefmt.Classify(tt.name))
		})
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		to   casefmt.Convention
		want string
	}{
		{"param_name", casefmt.LowerCamel, "paramName"},
		{"paramName", casefmt.ConstantCase, "PARAM_NAME"},
		{"ParamName", casefmt.ConstantCase, "PARAM_NAME"},
		{"PARAM_NAME", casefmt.UpperCamel, "ParamName"},
		{"PARAM_NAME", casefmt.LowerCamel, "paramName"},
		{"paramName", casefmt.UpperCamel, "ParamName"},
		{"HTTPServer", casefmt.LowerCamel, "httpServer"},
		{"HTTPServer", casefmt.ConstantCase, "HTTP_SERVER"},
		{"anything_goes", casefmt.None, "anything_goes"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"->"+tt.to.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, casefmt.Convert(tt.name, tt.to))
		})
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	t.Parallel()

	targets := []casefmt.Convention{casefmt.LowerCamel, casefmt.UpperCamel, casefmt.ConstantCase}

	for _, name := range []string{"param_name", "paramName", "ParamName", "PARAM_NAME", "Invalid_Func_Name", "HTTPServer"} {
		for _, to := range targets {
			converted := casefmt.Convert(name, to)
			assert.Equal(t, to, casefmt.Classify(converted), "%s -> %s gave %s", name, to, converted)
			assert.Equal(t, converted, casefmt.Convert(converted, to))
		}
	}
}

func TestCamelRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"paramName", "myAST", "parseJsonValue", "toByteArray2"} {
		upper := casefmt.ConvertFrom(name, casefmt.LowerCamel, casefmt.UpperCamel)
		assert.Equal(t, name, casefmt.ConvertFrom(upper, casefmt.UpperCamel, casefmt.LowerCamel))
	}
}

func TestWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"param", "name"}, casefmt.Words("paramName"))
	assert.Equal(t, []string{"param", "name"}, casefmt.Words("PARAM_NAME"))
	assert.Equal(t, []string{"param", "name"}, casefmt.Words("param__name"))
	assert.Equal(t, []string{"bytes8"}, casefmt.Words("Bytes8"))
	assert.Equal(t, []string{"http", "server"}, casefmt.Words("HTTPServer"))
	assert.Equal(t, []string{"parse", "xml", "file"}, casefmt.Words("parseXMLFile"))
	assert.Equal(t, []string{"my", "a", "s", "t"}, casefmt.Words("myAST"))
}

func TestConformance(t *testing.T) {
	t.Parallel()

	assert.True(t, casefmt.ConformsLowerCamel("lower"))
	assert.True(t, casefmt.ConformsLowerCamel("myAST"))
	assert.False(t, casefmt.ConformsLowerCamel("param_name"))
	assert.True(t, casefmt.ConformsUpperCamel("LRUCache"))
	assert.False(t, casefmt.ConformsUpperCamel("BLS"))
	assert.True(t, casefmt.IsAllUpper("BLS"))
	assert.False(t, casefmt.IsAllUpper("INVALID_CLASS_NAME"))
	assert.True(t, casefmt.ConformsConstant("INVALID_CLASS_NAME"))
	assert.True(t, casefmt.IsUnderscores("__"))
	assert.False(t, casefmt.IsUnderscores(""))
}

func TestRenameHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PARAM_NAME", casefmt.ToConstant("param_name"))
	assert.Equal(t, "PARAM_NAME", casefmt.ToConstant("ParamName"))
	assert.Equal(t, "upper", casefmt.ToLowerCamel("UPPER"))
	assert.Equal(t, "invalidFuncName", casefmt.ToLowerCamel("Invalid_Func_Name"))
	assert.Equal(t, "invalidFuncName", casefmt.ToLowerCamel("INVALID_FUNC_NAME"))
	assert.Equal(t, "InvalidClassName", casefmt.ToUpperCamel("invalidClassName"))
	assert.Equal(t, "InvalidClassName", casefmt.ToUpperCamel("INVALID_CLASS_NAME"))
	assert.Equal(t, "NUMBER_TWO", casefmt.ToConstant("NumberTwo"))
}
