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



// Package usageload loads delimited user behaviour records into a document
// store. The ingestion, mapping and storage packages hold the pipeline; this
// package resolves store locations to concrete backends.
package usageload

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/usageload/core"
	"github.com/poiesic/usageload/storage"
	"github.com/poiesic/usageload/storage/badger"
	"github.com/poiesic/usageload/storage/mongo"
)

// Location schemes understood by the store opener.
const (
	SchemeMongo    = "mongodb"
	SchemeMongoSRV = "mongodb+srv"
	SchemeBadger   = "badger"

	// badgerMemoryHost selects an in-memory badger store: badger://memory
	badgerMemoryHost = "memory"
)

// StoreOption configures NewStoreOpener.
type StoreOption func(*storeOptions)

type storeOptions struct {
	connectTimeout time.Duration
	logger         *slog.Logger
}

// WithConnectTimeout bounds how long opening a network store may take.
func WithConnectTimeout(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		o.connectTimeout = d
	}
}

// WithStoreLogger sets the logger used while opening stores.
// Default is slog.Default().
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewStoreOpener returns a storage.OpenFunc that selects a backend from the
// location's scheme:
//
//	mongodb://host/ and mongodb+srv://host/   MongoDB
//	badger:///var/lib/usageload              BadgerDB on disk
//	badger://memory                          BadgerDB in memory
//
// Unknown schemes fail with storage.ErrConnection wrapping
// storage.ErrUnsupportedLocation.
func NewStoreOpener(opts ...StoreOption) storage.OpenFunc {
	o := &storeOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	return func(ctx context.Context, location string, target core.Target) (storage.Connection, error) {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %s", storage.ErrConnection, storage.ErrUnsupportedLocation, RedactLocation(location))
		}

		o.logger.Debug("opening store", "location", RedactLocation(location), "target", target.String())

		switch strings.ToLower(u.Scheme) {
		case SchemeMongo, SchemeMongoSRV:
			var mopts []mongo.Option
			if o.connectTimeout > 0 {
				mopts = append(mopts, mongo.WithConnectTimeout(o.connectTimeout))
			}
			return mongo.Open(ctx, location, target, mopts...)

		case SchemeBadger:
			bopts := []badger.BackendOption{badger.WithBackendLogger(o.logger)}
			if u.Host == badgerMemoryHost {
				return badger.Open("", target, append(bopts, badger.InMemory())...)
			}
			if u.Host != "" || u.Path == "" {
				return nil, fmt.Errorf("%w: %w: badger location must be badger:///path or badger://memory",
					storage.ErrConnection, storage.ErrUnsupportedLocation)
			}
			return badger.Open(u.Path, target, bopts...)

		default:
			return nil, fmt.Errorf("%w: %w: scheme %q", storage.ErrConnection, storage.ErrUnsupportedLocation, u.Scheme)
		}
	}
}

// OpenStore opens location with default options.
func OpenStore(ctx context.Context, location string, target core.Target) (storage.Connection, error) {
	return NewStoreOpener()(ctx, location, target)
}

// RedactLocation hides any password in a store location so it can be logged.
func RedactLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return "<unparseable location>"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
