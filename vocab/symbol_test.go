package vocab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maelig/go-cafuzz/fieldtype"
	"github.com/maelig/go-cafuzz/ipm"
)

func newByteField(t *testing.T, name string, nbytes uint) *Field {
	t.Helper()
	dt, err := fieldtype.NewBytes(fieldtype.WithSizeBytes(nbytes, nbytes))
	require.NoError(t, err)

	return NewField(name, NewData(dt))
}

func newBitsField(t *testing.T, name string, nbits uint) *Field {
	t.Helper()
	dt, err := fieldtype.NewBits(fieldtype.WithSizeRange(nbits, nbits))
	require.NoError(t, err)

	return NewField(name, NewData(dt))
}

func TestNewSymbolValidation(t *testing.T) {
	require := require.New(t)

	foreign := newByteField(t, "foreign", 1)

	tests := []struct {
		description string
		name        string
		fields      func(t *testing.T) []*Field
		expectedErr error
	}{
		{
			description: "empty symbol name",
			name:        "",
			fields: func(t *testing.T) []*Field {
				return []*Field{newByteField(t, "f", 1)}
			},
			expectedErr: ErrEmptyName,
		},
		{
			description: "no fields",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return nil
			},
			expectedErr: ErrNoFields,
		},
		{
			description: "nil field",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{newByteField(t, "f", 1), nil}
			},
			expectedErr: ErrNilField,
		},
		{
			description: "empty field name",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{newByteField(t, "", 1)}
			},
			expectedErr: ErrEmptyName,
		},
		{
			description: "duplicate sibling names",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{newByteField(t, "f", 1), newByteField(t, "f", 2)}
			},
			expectedErr: ErrDuplicateField,
		},
		{
			description: "same name in different groups",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{
					NewFieldGroup("a", newByteField(t, "f", 1)),
					NewFieldGroup("b", newByteField(t, "f", 1)),
				}
			},
			expectedErr: nil,
		},
		{
			description: "leaf without domain",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{NewField("f", nil)}
			},
			expectedErr: ErrNoDomain,
		},
		{
			description: "data domain without type",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{NewField("f", NewData(nil))}
			},
			expectedErr: ErrNoDomain,
		},
		{
			description: "size without targets",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{NewField("size", NewSizeOf(nil))}
			},
			expectedErr: ErrNoTargets,
		},
		{
			description: "size target outside the symbol",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				return []*Field{NewField("size", NewSizeOf([]*Field{foreign}))}
			},
			expectedErr: ErrForeignTarget,
		},
		{
			description: "size width zero",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				payload := newByteField(t, "payload", 1)
				size := NewField("size", NewSizeOf([]*Field{payload}, WithWidth(0)))
				return []*Field{size, payload}
			},
			expectedErr: ErrInvalidWidth,
		},
		{
			description: "size width over 64",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				payload := newByteField(t, "payload", 1)
				size := NewField("size", NewSizeOf([]*Field{payload}, WithWidth(65)))
				return []*Field{size, payload}
			},
			expectedErr: ErrInvalidWidth,
		},
		{
			description: "size factor zero",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				payload := newByteField(t, "payload", 1)
				size := NewField("size", NewSizeOf([]*Field{payload}, WithFactor(0)))
				return []*Field{size, payload}
			},
			expectedErr: ErrInvalidFactor,
		},
		{
			description: "valid size prefix symbol",
			name:        "msg",
			fields: func(t *testing.T) []*Field {
				payload := newByteField(t, "payload", 5)
				size := NewField("size", NewSizeOf([]*Field{payload}))
				return []*Field{size, payload}
			},
			expectedErr: nil,
		},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		sym, err := NewSymbol(test.name, test.fields(t)...)
		if test.expectedErr != nil {
			require.ErrorIs(err, test.expectedErr)
			require.Nil(sym)
			continue
		}
		require.NoError(err)
		require.NotNil(sym)
	}
}

func TestSymbolBuildModel(t *testing.T) {
	require := require.New(t)

	payload := newByteField(t, "payload", 5)
	sizeDomain := NewSizeOf([]*Field{payload})
	size := NewField("size", sizeDomain)
	sym, err := NewSymbol("msg", size, payload)
	require.NoError(err)

	model, err := sym.BuildModel()
	require.NoError(err)
	require.Equal([]string{
		"msg_size",
		"msg_size_var_BoundaryValue",
		"msg_payload",
		"msg_payload_type_BoundaryValue",
	}, model.Names())

	kind, ok := model.Column("msg_size")
	require.True(ok)
	oc, ok := kind.(ipm.ObjectColumn)
	require.True(ok)
	require.Same(sizeDomain, oc.Object)
	require.Equal(ipm.ClassVar, oc.Object.IPMClass())

	kind, ok = model.Column("msg_payload_type_BoundaryValue")
	require.True(ok)
	list, ok := kind.(ipm.CandidateList)
	require.True(ok)
	// 5 byte maximum keeps every generic bit pattern applicable
	require.Len(list, 7)
	require.Equal("VALUE_NONE", list[0].Tag)
	require.True(list[0].Valid)

	types, vars := model.Split()
	require.Equal([]string{"msg_payload", "msg_payload_type_BoundaryValue"}, types.Names())
	require.Equal([]string{"msg_size", "msg_size_var_BoundaryValue"}, vars.Names())
}

func TestSymbolBuildModelNested(t *testing.T) {
	require := require.New(t)

	length := newBitsField(t, "len", 8)
	flags := newBitsField(t, "flags", 8)
	hdr := NewFieldGroup("hdr", length, flags)
	body := newByteField(t, "body", 2)
	sym, err := NewSymbol("pkt", hdr, body)
	require.NoError(err)

	model, err := sym.BuildModel()
	require.NoError(err)
	require.Equal([]string{
		"pkt_hdr_len",
		"pkt_hdr_len_type_BoundaryValue",
		"pkt_hdr_flags",
		"pkt_hdr_flags_type_BoundaryValue",
		"pkt_body",
		"pkt_body_type_BoundaryValue",
	}, model.Names())
}

func TestSymbolFieldByName(t *testing.T) {
	require := require.New(t)

	length := newBitsField(t, "len", 8)
	flags := newBitsField(t, "flags", 8)
	hdr := NewFieldGroup("hdr", length, flags)
	body := newByteField(t, "body", 2)
	sym, err := NewSymbol("pkt", hdr, body)
	require.NoError(err)

	f, ok := sym.FieldByName("flags")
	require.True(ok)
	require.Same(flags, f)

	f, ok = sym.FieldByName("hdr")
	require.True(ok)
	require.Same(hdr, f)

	_, ok = sym.FieldByName("checksum")
	require.False(ok)
}

func TestSymbolAccessors(t *testing.T) {
	require := require.New(t)

	payload := newByteField(t, "payload", 1)
	sym, err := NewSymbol("msg", payload)
	require.NoError(err)

	require.Equal("msg", sym.Name())

	fields := sym.Fields()
	require.Len(fields, 1)
	fields[0] = nil
	require.NotNil(sym.Fields()[0])
}
