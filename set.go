// Copy-on-write updates.
//
// Stored documents are immutable blobs, so an update never mutates in
// place: Set and Delete rebuild the ancestor chain of the target path
// and share every untouched subtree with the original. Sibling values
// re-encode byte-identically because they are the same values.
package bcol

import "strings"

// Set returns a new document with the value at path replaced, or
// created when only the final segment is missing. Intermediate segments
// must resolve to existing documents or arrays. On an array, the final
// segment must be an existing index or the next free one, which
// appends. ok is false when the path cannot be applied; the receiver is
// never modified either way.
func (d *Document) Set(path string, v Value) (*Document, bool) {
	if path == "" {
		return nil, false
	}
	return setIn(d, false, strings.Split(path, "."), v)
}

// Delete returns a new document with the field at path removed. Array
// elements re-index after removal so the "0", "1", … invariant holds.
// ok is false when the path does not resolve.
func (d *Document) Delete(path string) (*Document, bool) {
	if path == "" {
		return nil, false
	}
	return deleteIn(d, false, strings.Split(path, "."))
}

func setIn(d *Document, isArray bool, segs []string, v Value) (*Document, bool) {
	name := segs[0]
	idx := -1
	for i, f := range d.fields {
		if f.name == name {
			idx = i
			break
		}
	}

	if len(segs) == 1 {
		if idx < 0 {
			if isArray && name != indexName(len(d.fields)) {
				return nil, false // only the next index may append
			}
			nd := d.copyShallow()
			nd.fields = append(nd.fields, field{name: name, value: v})
			return nd, true
		}
		nd := d.copyShallow()
		nd.fields[idx].value = v
		return nd, true
	}

	if idx < 0 || !d.fields[idx].value.IsComposite() {
		return nil, false
	}
	child := d.fields[idx].value
	sub, ok := setIn(child.doc, child.kind == KindArray, segs[1:], v)
	if !ok {
		return nil, false
	}
	nd := d.copyShallow()
	if child.kind == KindArray {
		nd.fields[idx].value = arrayFromDoc(sub)
	} else {
		nd.fields[idx].value = Doc(sub)
	}
	return nd, true
}

func deleteIn(d *Document, isArray bool, segs []string) (*Document, bool) {
	name := segs[0]
	idx := -1
	for i, f := range d.fields {
		if f.name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	if len(segs) == 1 {
		nd := &Document{fields: make([]field, 0, len(d.fields)-1)}
		for i, f := range d.fields {
			if i == idx {
				continue
			}
			if isArray {
				f.name = indexName(len(nd.fields))
			}
			nd.fields = append(nd.fields, f)
		}
		return nd, true
	}

	if !d.fields[idx].value.IsComposite() {
		return nil, false
	}
	child := d.fields[idx].value
	sub, ok := deleteIn(child.doc, child.kind == KindArray, segs[1:])
	if !ok {
		return nil, false
	}
	nd := d.copyShallow()
	if child.kind == KindArray {
		nd.fields[idx].value = arrayFromDoc(sub)
	} else {
		nd.fields[idx].value = Doc(sub)
	}
	return nd, true
}
