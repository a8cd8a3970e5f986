// Package merge reconciles a stored child collection against an incoming,
// authoritative list keyed by a natural key.
//
// The incoming list is complete, not a delta: records whose key is missing
// from it are dropped, matching records are updated in place (the pointer,
// and with it the surrogate id, survives), and unknown keys become new
// records.
package merge

import "cookingapp/internal/apperr"

// Merger describes how to key, update and create records of type R from
// incoming values of type V.
type Merger[K comparable, R any, V any] struct {
	// KeyName labels the key in duplicate-key errors, e.g. "step".
	KeyName     string
	RecordKey   func(*R) K
	IncomingKey func(V) K
	// Apply overwrites the mutable fields of r. It must not touch identity
	// or the parent link.
	Apply func(r *R, v V)
	// New builds a record for a key that is not stored yet, linked to the parent.
	New func(v V) *R
}

// Result is the outcome of a merge. Records is the reconciled collection in
// incoming order; the other slices partition what happened to get there.
type Result[R any] struct {
	Records  []*R
	Updated  []*R
	Inserted []*R
	Deleted  []*R
}

// Merge reconciles existing against incoming. On a repeated incoming key it
// returns a *apperr.DuplicateKeyError and existing is left untouched.
func (m Merger[K, R, V]) Merge(existing []*R, incoming []V) (Result[R], error) {
	keys, err := CheckUnique(incoming, m.IncomingKey, m.KeyName)
	if err != nil {
		return Result[R]{}, err
	}

	byKey := make(map[K]*R, len(existing))
	var res Result[R]
	for _, r := range existing {
		k := m.RecordKey(r)
		if _, keep := keys[k]; !keep {
			res.Deleted = append(res.Deleted, r)
			continue
		}
		byKey[k] = r
	}

	res.Records = make([]*R, 0, len(incoming))
	for _, v := range incoming {
		if r, ok := byKey[m.IncomingKey(v)]; ok {
			m.Apply(r, v)
			res.Updated = append(res.Updated, r)
			res.Records = append(res.Records, r)
			continue
		}
		r := m.New(v)
		res.Inserted = append(res.Inserted, r)
		res.Records = append(res.Records, r)
	}
	return res, nil
}

// CheckUnique returns the incoming key set, or a duplicate-key error naming
// the first repeated key.
func CheckUnique[K comparable, V any](incoming []V, key func(V) K, name string) (map[K]struct{}, error) {
	seen := make(map[K]struct{}, len(incoming))
	for _, v := range incoming {
		k := key(v)
		if _, dup := seen[k]; dup {
			return nil, &apperr.DuplicateKeyError{Name: name, Key: k}
		}
		seen[k] = struct{}{}
	}
	return seen, nil
}
