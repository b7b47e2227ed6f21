// Package value implements a closed tagged-union representation of JSON
// values used throughout the key-value store.
//
// A Value is always one of six kinds: Null, String, Number, Bool, Object or
// Array. Because the set of kinds is closed, JSON serialization of a Value
// is exhaustive and total - every Value that can be constructed can also be
// marshaled, which in turn means the store's data file and the transaction
// log never encounter an unserializable payload.
//
// The package contains:
//   - Value: the immutable tagged union with one constructor per kind
//   - Parse/FromAny: conversion from raw JSON bytes and from dynamically
//     typed Go values (as produced by encoding/json)
//   - Equal: deep structural equality between two values
//
// Values are treated as immutable: constructors copy nothing, so callers
// must not mutate maps or slices after handing them to a constructor.
package value
