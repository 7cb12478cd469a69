// Package mapping turns flat input records into nested documents.
//
// A Table binds every output path of a document to exactly one input column.
// Paths are dot separated; "device_info.device_model" places the value in
// the device_model field of the device_info group. The identifier column is
// bound separately and becomes the document's "_id".
//
// Values are copied as strings. Columns absent from a record produce absent
// fields, and a group none of whose columns are present is omitted entirely.
package mapping
