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
	"fmt"

	"github.com/poiesic/usageload/core"
	"go.mongodb.org/mongo-driver/bson"
)

// EncodeDocument converts a Document into an ordered BSON document with the
// identifier first and the remaining fields in mapping order.
func EncodeDocument(doc *core.Document) bson.D {
	out := make(bson.D, 0, len(doc.Fields)+1)
	out = append(out, bson.E{Key: core.IDField, Value: doc.ID})
	return append(out, encodeFields(doc.Fields)...)
}

func encodeFields(fields []core.Field) bson.D {
	out := make(bson.D, 0, len(fields))
	for _, f := range fields {
		if f.IsGroup() {
			out = append(out, bson.E{Key: f.Name, Value: encodeFields(f.Group)})
			continue
		}
		out = append(out, bson.E{Key: f.Name, Value: f.Value})
	}
	return out
}

// MarshalDocument serializes a Document to BSON bytes.
func MarshalDocument(doc *core.Document) ([]byte, error) {
	data, err := bson.Marshal(EncodeDocument(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDocument deserializes a Document from BSON bytes.
// Only string values and embedded documents are accepted.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	var raw bson.D
	if err := bson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	doc := &core.Document{}
	for _, e := range raw {
		if e.Key == core.IDField {
			id, ok := e.Value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s is %T, not string", ErrSerializationFailed, core.IDField, e.Value)
			}
			doc.ID = id
			continue
		}
		f, err := decodeField(e)
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, f)
	}
	return doc, nil
}

func decodeField(e bson.E) (core.Field, error) {
	switch v := e.Value.(type) {
	case string:
		return core.Field{Name: e.Key, Value: v}, nil
	case bson.D:
		group := make([]core.Field, 0, len(v))
		for _, child := range v {
			f, err := decodeField(child)
			if err != nil {
				return core.Field{}, err
			}
			group = append(group, f)
		}
		return core.Field{Name: e.Key, Group: group}, nil
	default:
		return core.Field{}, fmt.Errorf("%w: field %q is %T", ErrSerializationFailed, e.Key, e.Value)
	}
}
