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



// Package storage provides the document store abstraction for usageload.
//
// A store is reached through an OpenFunc, which returns a Connection bound to
// one core.Target (database and collection). Connections accept one document
// per Insert call and report failures through the sentinel errors in this
// package:
//
//   - ErrConnection: the store is unreachable; the run must stop
//   - ErrDuplicateKey: the document identifier already exists; skip it
//   - ErrWrite: the store rejected the document; skip it
//
// # Backends
//
//   - storage/mongo: MongoDB through the official driver
//   - storage/badger: an embedded BadgerDB store, on disk or in memory
//
// Both encode documents as BSON with EncodeDocument, so a document written to
// either backend has the same shape.
//
// # Usage
//
//	conn, err := mongo.Open(ctx, uri, core.Target{Database: "user_data", Collection: "Users"})
//	if err != nil {
//	    return err
//	}
//	defer conn.Close(ctx)
//
//	if err := conn.Insert(ctx, doc); errors.Is(err, storage.ErrDuplicateKey) {
//	    ...
//	}
//
// # Context Support
//
// All operations accept context.Context for cancellation and timeouts.
package storage
