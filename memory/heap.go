package memory

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// HeapObject is a heap-resident record of a Core program. It maps string keys to
// integers. One of the keys, fixed at allocation time, is the default key used by
// unqualified loads and stores.
//
// The owner count reflects the number of variable slots currently holding a handle to
// the object. It is changed exclusively by the reference counter of a Memory.
type HeapObject struct {
	defaultKey string
	fields     *treemap.Map // string -> int64, ordered by key
	owners     int
}

// newHeapObject creates an object with exactly one field, which is its default key.
func newHeapObject(key string, value int64) *HeapObject {
	obj := &HeapObject{
		defaultKey: key,
		fields:     treemap.NewWithStringComparator(),
	}
	obj.fields.Put(key, value)
	return obj
}

// DefaultKey returns the key used for unqualified access.
func (obj *HeapObject) DefaultKey() string {
	return obj.defaultKey
}

// OwnerCount returns the number of slots holding a handle to obj.
func (obj *HeapObject) OwnerCount() int {
	return obj.owners
}

// Get returns the field stored under key, or 0 if there is none.
func (obj *HeapObject) Get(key string) int64 {
	if v, found := obj.fields.Get(key); found {
		return v.(int64)
	}
	return 0
}

// Put overwrites or inserts the field at key.
func (obj *HeapObject) Put(key string, value int64) {
	obj.fields.Put(key, value)
}

// Keys returns the field keys in ascending order.
func (obj *HeapObject) Keys() []string {
	keys := make([]string, 0, obj.fields.Size())
	for _, k := range obj.fields.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

func (obj *HeapObject) String() string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	obj.fields.Each(func(k, v interface{}) {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		if k.(string) == obj.defaultKey {
			b.WriteString("*")
		}
		b.WriteString(fmt.Sprintf("%s=%d", k, v))
	})
	b.WriteString(fmt.Sprintf(" }#%d", obj.owners))
	return b.String()
}

// --- Reference counting ----------------------------------------------------

// acquire records a new owner for obj. Acquiring a nil handle is a no-op.
// A transition from 0 to 1 makes obj reachable and is reported.
func (m *Memory) acquire(obj *HeapObject) {
	if obj == nil {
		return
	}
	if obj.owners == 0 {
		m.reachable++
		m.reportTransition(obj, "reachable")
	}
	obj.owners++
}

// release removes an owner from obj. Releasing a nil handle is a no-op.
// A transition from 1 to 0 makes obj unreachable and is reported.
func (m *Memory) release(obj *HeapObject) {
	if obj == nil {
		return
	}
	if obj.owners == 0 {
		// invariant broken: more releases than acquisitions
		panic(fmt.Sprintf("release of unowned heap object %v", obj))
	}
	obj.owners--
	if obj.owners == 0 {
		m.reachable--
		m.reportTransition(obj, "unreachable")
	}
}

func (m *Memory) reportTransition(obj *HeapObject, what string) {
	tracer().P("gc", m.reachable).Debugf("object %v became %s", obj, what)
	fmt.Fprintf(m.diag, "gc:%d\n", m.reachable)
}

// Reachable returns the number of heap objects currently owned by at least one slot.
func (m *Memory) Reachable() int {
	return m.reachable
}
