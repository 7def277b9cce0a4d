package vm

import (
	"time"

	"github.com/wyvernscript/smog/pkg/value"
)

var processStart = time.Now()

// clockNative is the single native binding the builtin contract allows:
// seconds elapsed since an unspecified process-start epoch.
func clockNative(args []value.Value) (value.Value, error) {
	return value.Number(time.Since(processStart).Seconds()), nil
}

func (vm *VM) defineNative(name string, fn func(args []value.Value) (value.Value, error)) {
	native := vm.heap.NewNative(name, fn)
	nameStr := vm.heap.InternString(name)
	vm.globals.Set(nameStr, value.FromObj(native))
}
