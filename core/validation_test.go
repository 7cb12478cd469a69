package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				ID: "u1",
				Fields: []Field{
					{Name: "age", Value: "30"},
					{Name: "device_info", Group: []Field{{Name: "device_model", Value: "Pixel"}}},
				},
			},
			wantErr: nil,
		},
		{
			name:    "valid document without fields",
			doc:     &Document{ID: "u1"},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty ID",
			doc:     &Document{Fields: []Field{{Name: "age", Value: "30"}}},
			wantErr: ErrMissingIdentifier,
		},
		{
			name:    "reserved field name",
			doc:     &Document{ID: "u1", Fields: []Field{{Name: "_id", Value: "x"}}},
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "dotted field name",
			doc:     &Document{ID: "u1", Fields: []Field{{Name: "a.b", Value: "x"}}},
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty nested field name",
			doc: &Document{ID: "u1", Fields: []Field{
				{Name: "usage_metrics", Group: []Field{{Name: "", Value: "1"}}},
			}},
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr error
	}{
		{"valid", Target{Database: "user_data", Collection: "Users"}, nil},
		{"missing database", Target{Collection: "Users"}, ErrEmptyDatabase},
		{"blank database", Target{Database: "  ", Collection: "Users"}, ErrEmptyDatabase},
		{"missing collection", Target{Database: "user_data"}, ErrEmptyCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTarget() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTarget() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("ValidateTarget() error = %v, want wrapped %v", err, ErrInvalidTarget)
			}
		})
	}
}
