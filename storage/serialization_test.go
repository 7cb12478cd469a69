package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/usageload/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleDocument() *core.Document {
	return &core.Document{
		ID: "u1",
		Fields: []core.Field{
			{Name: "age", Value: "30"},
			{Name: "gender", Value: "F"},
			{Name: "device_info", Group: []core.Field{
				{Name: "device_model", Value: "Pixel"},
				{Name: "operating_system", Value: "Android"},
			}},
			{Name: "behavior_class", Value: "3"},
		},
	}
}

func TestEncodeDocument_Shape(t *testing.T) {
	encoded := EncodeDocument(sampleDocument())

	expected := bson.D{
		{Key: "_id", Value: "u1"},
		{Key: "age", Value: "30"},
		{Key: "gender", Value: "F"},
		{Key: "device_info", Value: bson.D{
			{Key: "device_model", Value: "Pixel"},
			{Key: "operating_system", Value: "Android"},
		}},
		{Key: "behavior_class", Value: "3"},
	}
	assert.Equal(t, expected, encoded)
}

func TestMarshalUnmarshalDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *core.Document
	}{
		{"identifier only", &core.Document{ID: "only"}},
		{"nested groups", sampleDocument()},
		{"numeric looking strings stay strings", &core.Document{
			ID:     "007",
			Fields: []core.Field{{Name: "age", Value: "031"}, {Name: "screen", Value: "6.40"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalDocument(tt.doc)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, decoded)
		})
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	nonString, err := bson.Marshal(bson.D{{Key: "_id", Value: "u1"}, {Key: "age", Value: int32(30)}})
	require.NoError(t, err)

	nonStringID, err := bson.Marshal(bson.D{{Key: "_id", Value: int64(1)}})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", []byte{0x05, 0x00}},
		{"non-string value", nonString},
		{"non-string identifier", nonStringID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("%w: dial tcp", ErrConnection), true},
		{fmt.Errorf("%w: bad quote", core.ErrInput), true},
		{fmt.Errorf("%w: u1", ErrDuplicateKey), false},
		{fmt.Errorf("%w: rejected", ErrWrite), false},
		{fmt.Errorf("%w: no id", core.ErrMapping), false},
		{errors.New("other"), false},
		{nil, false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}
