// Package models defines the composition entity, its projections, and the addressing strategies for the tracklab store.
//
// The package contains three groups of types:
//
// 1. Entities and projections
//   - [Composition] : A named, opaque blob of serialized track/clip data
//   - [Summary] : The list projection of a composition, without tracks
//   - [Draft] : Caller input for a save, before an address is resolved
//
// 2. Addressing
//   - [Address] : Either a normalized opaque code or a store-assigned sequence number
//   - [Strategy] : Per-deployment policy deciding how a composition acquires its [Address]
//
// 3. Serialization
//   - [Tracks] : The opaque payload; stored and returned byte for byte
//
// The [Store] interface defines the operations the HTTP and CLI layers depend on.
package models
