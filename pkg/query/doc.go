// Package query translates between the filter rules an editor works with and
// the structured query filter that gets persisted.
//
// A QueryFilter is an AND conjunction of single-column conditions. Each
// condition uses one of two primitives:
//
//   - Eq: case-sensitive strict equality ($eq on the wire)
//   - ILike: case-insensitive pattern match ($iLike on the wire), where '%'
//     matches zero or more characters and '\%' is a literal percent sign
//
// DecodeFilters and EncodeFilters are pure and safe for concurrent use.
package query
