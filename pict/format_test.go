package pict

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maelig/go-cafuzz/ipm"
)

type fakeNode struct {
	domain   *ipm.Group
	children []ipm.Child
}

func (n *fakeNode) IPMDomain() *ipm.Group {
	return n.domain
}

func (n *fakeNode) IPMChildren() []ipm.Child {
	return n.children
}

type fakeObject struct {
	class  ipm.Class
	params []ipm.Param
}

func (o *fakeObject) IPMClass() ipm.Class {
	return o.class
}

func (o *fakeObject) IPMParams() []ipm.Param {
	return o.params
}

func (o *fakeObject) Concretize(map[string]string) error {
	return nil
}

func leafModel(t *testing.T, symbolName, fieldName string, obj ipm.Object) *ipm.Model {
	t.Helper()
	root := &fakeNode{children: []ipm.Child{
		{Name: fieldName, Node: &fakeNode{domain: ipm.ObjectGroup("data", obj)}},
	}}
	model, err := ipm.BuildModel(symbolName, root)
	require.NoError(t, err)

	return model
}

func TestParseFormat(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		input       string
		expected    Format
		expectErr   bool
	}{
		{
			description: "canonical identifier",
			input:       "pict",
			expected:    FormatPICT,
			expectErr:   false,
		},
		{
			description: "case insensitive",
			input:       "PICT",
			expected:    FormatPICT,
			expectErr:   false,
		},
		{
			description: "empty identifier",
			input:       "",
			expectErr:   true,
		},
		{
			description: "unknown identifier",
			input:       "csv",
			expectErr:   true,
		},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		f, err := ParseFormat(test.input)
		if test.expectErr {
			require.ErrorIs(err, ErrUnsupportedFormat)
			continue
		}
		require.NoError(err)
		require.Equal(test.expected, f)
	}

	require.Equal("pict", FormatPICT.String())
}

func TestWriteModel(t *testing.T) {
	require := require.New(t)

	obj := &fakeObject{
		class: ipm.ClassType,
		params: []ipm.Param{
			{Name: "BoundaryValue", Candidates: []ipm.Candidate{
				{Tag: "VALUE_LEGAL", Valid: true},
				{Tag: "VALUE_ILLEGAL_START", Valid: false},
				{Tag: "VALUE_ILLEGAL_END", Valid: false},
			}},
			{Name: "Size", Candidates: []ipm.Candidate{
				{Tag: "8", Valid: true},
				{Tag: "16", Valid: true},
			}},
		},
	}
	model := leafModel(t, "msg", "payload", obj)

	var buf bytes.Buffer
	require.NoError(WriteModel(&buf, model))

	expected := "msg_payload_type_BoundaryValue: VALUE_LEGAL,~VALUE_ILLEGAL_START,~VALUE_ILLEGAL_END\n" +
		"msg_payload_type_Size: 8,16\n"
	require.Equal(expected, buf.String())
}

func TestWriteModelSkipsObjectColumns(t *testing.T) {
	require := require.New(t)

	obj := &fakeObject{class: ipm.ClassVar, params: []ipm.Param{
		{Name: "BoundaryValue", Candidates: []ipm.Candidate{{Tag: "VALUE_CORRECT", Valid: true}}},
	}}
	model := leafModel(t, "msg", "size", obj)

	// the object reference column exists in the model but not in the output
	require.Equal(2, model.Len())

	var buf bytes.Buffer
	require.NoError(WriteModel(&buf, model))
	require.Equal("msg_size_var_BoundaryValue: VALUE_CORRECT\n", buf.String())
}

func TestWriteModelReservedPrefix(t *testing.T) {
	require := require.New(t)

	obj := &fakeObject{class: ipm.ClassType, params: []ipm.Param{
		{Name: "BoundaryValue", Candidates: []ipm.Candidate{{Tag: "VALUE_NONE", Valid: true}}},
	}}

	var buf bytes.Buffer
	err := WriteModel(&buf, leafModel(t, "~msg", "payload", obj))
	require.ErrorIs(err, ErrReservedPrefix)

	obj.params[0].Candidates[0].Tag = "~VALUE_NONE"
	err = WriteModel(&buf, leafModel(t, "msg", "payload", obj))
	require.ErrorIs(err, ErrReservedPrefix)
}

func TestReadArray(t *testing.T) {
	require := require.New(t)

	input := "msg_f1_type_BoundaryValue\tmsg_f1_type_Size\n" +
		"VALUE_NONE\t8\n" +
		"~VALUE_ILLEGAL_START\t~3\n"

	arr, err := ReadArray(strings.NewReader(input))
	require.NoError(err)
	require.Equal([]string{"msg_f1_type_BoundaryValue", "msg_f1_type_Size"}, arr.Params)
	require.Equal([][]string{
		{"VALUE_NONE", "8"},
		{"VALUE_ILLEGAL_START", "3"},
	}, arr.Rows)

	require.Equal(1, arr.Column("msg_f1_type_Size"))
	require.Equal(-1, arr.Column("msg_f1_type_Endianness"))
}

func TestReadArrayCRLF(t *testing.T) {
	require := require.New(t)

	arr, err := ReadArray(strings.NewReader("a\tb\r\n1\t2\r\n\r\n"))
	require.NoError(err)
	require.Equal([]string{"a", "b"}, arr.Params)
	require.Equal([][]string{{"1", "2"}}, arr.Rows)
}

func TestReadArrayErrors(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		description string
		input       string
	}{
		{
			description: "empty input",
			input:       "",
		},
		{
			description: "blank lines only",
			input:       "\n\n",
		},
		{
			description: "row shorter than header",
			input:       "a\tb\n1\n",
		},
		{
			description: "row longer than header",
			input:       "a\tb\n1\t2\t3\n",
		},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		_, err := ReadArray(strings.NewReader(test.input))
		require.ErrorIs(err, ErrMalformedArray)
	}
}

// FuzzReadArray fuzzes the array parser. It must never panic; accepted
// input must yield a non-empty header and rows exactly as wide as it.
func FuzzReadArray(f *testing.F) {
	f.Add("a\tb\n1\t2\n")
	f.Add("single\nvalue\n")
	f.Add("a\tb\n~1\t~2\n")
	f.Add("")
	f.Add("a\tb\n1\n")
	f.Add("a\tb\r\n1\t2\r\n")

	f.Fuzz(func(t *testing.T, input string) {
		arr, err := ReadArray(strings.NewReader(input))
		if err != nil {
			return
		}
		if len(arr.Params) == 0 {
			t.Fatal("accepted array without header")
		}
		for _, row := range arr.Rows {
			if len(row) != len(arr.Params) {
				t.Fatalf("row width %d differs from header width %d", len(row), len(arr.Params))
			}
		}
	})
}
