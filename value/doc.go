// Package value provides the generic parsed form of a sheet
// description: a read-only tree of dictionaries, arrays, strings,
// numbers and booleans, decoded from plist, JSON or YAML bytes.
//
// The accessors are strict. A Value holding a string does not answer
// Float; the consumer decides whether a mismatch is an error, which is
// what the atlas decoder does per field.
package value
