package vm

import "github.com/wyvernscript/smog/pkg/object"

// captureUpvalue returns the open upvalue for the stack slot at index,
// reusing an existing one if the sorted open-upvalue list already has
// one for that exact slot (identity matters: two closures capturing the
// same local must observe each other's writes through one shared
// upvalue), otherwise inserting a new one in descending-slot order.
func (vm *VM) captureUpvalue(slot int) *object.ObjUpvalue {
	var prev *object.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Slot == slot {
		return cur
	}

	created := vm.heap.NewUpvalue(&vm.stack[slot], slot)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue pointing at or above limit,
// copying each aliased slot's current value into the upvalue's own
// storage and unlinking it from the open list.
func (vm *VM) closeUpvalues(limit int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= limit {
		up := vm.openUpvalues
		up.Close()
		vm.openUpvalues = up.Next
	}
}
