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


package storage

import (
	"errors"

	"github.com/poiesic/usageload/core"
)

var (
	// ErrConnection indicates the store cannot be reached. It aborts the run.
	ErrConnection = errors.New("store connection failed")

	// ErrNotFound indicates that the requested document was not found.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey indicates a duplicate key violation.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrWrite indicates the store rejected a document for any other reason.
	ErrWrite = errors.New("write rejected")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrUnsupportedLocation indicates a store location with an unknown scheme.
	ErrUnsupportedLocation = errors.New("unsupported store location")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)

// IsFatal reports whether err must stop an ingestion run rather than skip
// the current record.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConnection) || errors.Is(err, core.ErrInput)
}
