package core

import (
	"testing"
)

func TestRecordGet(t *testing.T) {
	header := NewHeader([]string{"User ID", "Age", "Gender", "Age"})

	tests := []struct {
		name   string
		values []string
		column string
		want   string
		wantOK bool
	}{
		{"present column", []string{"u1", "30", "F"}, "Age", "30", true},
		{"empty value is present", []string{"u1", "", "F"}, "Age", "", true},
		{"unknown column", []string{"u1", "30", "F"}, "Device Model", "", false},
		{"short row", []string{"u1"}, "Gender", "", false},
		{"duplicate header resolves to first", []string{"u1", "30", "F", "99"}, "Age", "30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord(header, 2, tt.values)
			got, ok := rec.Get(tt.column)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Get(%q) = (%q, %v), want (%q, %v)", tt.column, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRecordIsImmutable(t *testing.T) {
	values := []string{"u1", "30"}
	rec := NewRecord(NewHeader([]string{"User ID", "Age"}), 2, values)
	values[1] = "99"

	if got, _ := rec.Get("Age"); got != "30" {
		t.Errorf("record changed after source slice mutation: got %q", got)
	}
	if rec.Line() != 2 {
		t.Errorf("Line() = %d, want 2", rec.Line())
	}
}

func TestDocumentLookup(t *testing.T) {
	doc := &Document{
		ID: "u1",
		Fields: []Field{
			{Name: "age", Value: "30"},
			{Name: "device_info", Group: []Field{{Name: "device_model", Value: "Pixel"}}},
		},
	}

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"_id", "u1", true},
		{"age", "30", true},
		{"device_info.device_model", "Pixel", true},
		{"device_info", "", false},
		{"device_info.operating_system", "", false},
		{"age.nested", "", false},
		{"gender", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := doc.Lookup(tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTargetString(t *testing.T) {
	target := Target{Database: "user_data", Collection: "Users"}
	if got := target.String(); got != "user_data.Users" {
		t.Errorf("String() = %q", got)
	}
}
