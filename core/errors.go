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

import "errors"

// Input errors
var (
	// ErrInput indicates the source could not be read or is malformed.
	// It halts the pipeline.
	ErrInput = errors.New("input error")

	// ErrEmptyInput indicates the source has no header line.
	ErrEmptyInput = errors.New("input has no header")
)

// Domain validation errors
var (
	// ErrMapping indicates a record could not be mapped to a document.
	ErrMapping = errors.New("mapping error")

	// ErrMissingIdentifier indicates the identifier column is absent or empty.
	ErrMissingIdentifier = errors.New("identifier is missing")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidTarget indicates a Target failed validation.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrEmptyDatabase indicates the Target database name is empty.
	ErrEmptyDatabase = errors.New("database name cannot be empty")

	// ErrEmptyCollection indicates the Target collection name is empty.
	ErrEmptyCollection = errors.New("collection name cannot be empty")
)
