// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Field names must not be empty or contain '.'
//   - No top-level field may be named "_id"
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingIdentifier)
	}

	for _, f := range doc.Fields {
		if f.Name == IDField {
			return fmt.Errorf("%w: field %q is reserved", ErrInvalidDocument, IDField)
		}
	}

	return validateFields(doc.Fields)
}

func validateFields(fields []Field) error {
	for _, f := range fields {
		if f.Name == "" || strings.Contains(f.Name, ".") {
			return fmt.Errorf("%w: invalid field name %q", ErrInvalidDocument, f.Name)
		}
		if f.IsGroup() {
			if err := validateFields(f.Group); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateTarget validates that both database and collection are named.
func ValidateTarget(target Target) error {
	if strings.TrimSpace(target.Database) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, ErrEmptyDatabase)
	}
	if strings.TrimSpace(target.Collection) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, ErrEmptyCollection)
	}
	return nil
}
