// Package params turns flat request key/value pairs into a nested parameter tree.
//
// Keys may carry a bracket suffix that describes where the value lands:
//
//	name=ann             -> {"name": "ann"}
//	flag                 -> {"flag": true}
//	tags[]=a&tags[]=b    -> {"tags": ["a", "b"]}
//	user[name]=ann       -> {"user": {"name": "ann"}}
//	a[b][]=1&a[b][]=2    -> {"a": {"b": ["1", "2"]}}
//
// All bracket segments except the last name nested maps. The last segment names the
// terminal field of a map, or appends to a list when it is empty. Once a key has been
// given a container type during a parse it cannot change (ErrTypeConflict), and a
// terminal map field cannot be written twice (ErrCollision). List appends never collide.
//
// The same parser handles query strings and form bodies. The dispatcher merges the form
// tree into the query tree under a reserved prefix, and rejects query keys that already
// use that prefix before any parsing happens:
//
//	pairs, err := params.SplitQuery(r.URL.RawQuery)
//	if err := params.CheckReserved(pairs, "p_"); err != nil {
//		return err
//	}
//	tree, err := params.Parse(pairs)
//
// Flatten and Encode produce pairs that parse back into an equal tree, with map keys
// sorted and list order kept.
package params
