package vocab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maelig/go-cafuzz/fieldtype"
	"github.com/maelig/go-cafuzz/ipm"
)

func TestDataAccessors(t *testing.T) {
	require := require.New(t)

	dt, err := fieldtype.NewBits()
	require.NoError(err)

	d := NewData(dt)
	require.Same(dt, d.DataType())
}

func TestSizeOfIPMParams(t *testing.T) {
	require := require.New(t)

	so := NewSizeOf([]*Field{newByteField(t, "payload", 1)})
	require.Equal(ipm.ClassVar, so.IPMClass())

	params := so.IPMParams()
	require.Len(params, 1)
	require.Equal(fieldtype.BoundaryParam, params[0].Name)
	require.Equal([]ipm.Candidate{
		{Tag: TagSizeCorrect, Valid: true},
		{Tag: TagSizeTooLow, Valid: false},
		{Tag: TagSizeTooHigh, Valid: false},
		{Tag: TagSizeZero, Valid: false},
	}, params[0].Candidates)
}

func TestSizeOfConcretize(t *testing.T) {
	require := require.New(t)

	so := NewSizeOf([]*Field{newByteField(t, "payload", 1)})

	tests := []struct {
		description string
		values      map[string]string
		expectedErr error
	}{
		{
			description: "correct tag",
			values:      map[string]string{fieldtype.BoundaryParam: TagSizeCorrect},
			expectedErr: nil,
		},
		{
			description: "zero tag",
			values:      map[string]string{fieldtype.BoundaryParam: TagSizeZero},
			expectedErr: nil,
		},
		{
			description: "missing boundary selector",
			values:      map[string]string{"Size": "8"},
			expectedErr: fieldtype.ErrNoBoundarySpec,
		},
		{
			description: "unknown tag",
			values:      map[string]string{fieldtype.BoundaryParam: "VALUE_BOGUS"},
			expectedErr: fieldtype.ErrUnknownBoundaryTag,
		},
	}

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		err := so.Concretize(test.values)
		if test.expectedErr != nil {
			require.ErrorIs(err, test.expectedErr)
			continue
		}
		require.NoError(err)
	}
}

func TestSizeOfAccessors(t *testing.T) {
	require := require.New(t)

	payload := newByteField(t, "payload", 1)
	so := NewSizeOf([]*Field{payload}, WithWidth(16))
	require.Equal(uint(16), so.Width())

	targets := so.Targets()
	require.Len(targets, 1)
	require.Same(payload, targets[0])
	targets[0] = nil
	require.NotNil(so.Targets()[0])
}
