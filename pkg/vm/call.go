package vm

import (
	"github.com/wyvernscript/smog/pkg/object"
	"github.com/wyvernscript/smog/pkg/value"
)

// callValue dispatches CALL's callee per its runtime type: closures push
// a new frame, natives invoke directly, classes instantiate (routing
// through init if present), and bound methods rebind slot 0 to their
// receiver before calling the underlying closure.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	if !callee.IsObj() {
		return vm.runtimeError("Can only call functions and classes.")
	}
	switch fn := callee.Obj.(type) {
	case *object.ObjClosure:
		return vm.callClosure(fn, argCount)
	case *object.ObjNative:
		args := vm.stack[vm.stackTop-argCount : vm.stackTop]
		result, err := fn.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stackTop -= argCount + 1
		vm.push(result)
		return nil
	case *object.ObjClass:
		instance := vm.heap.NewInstance(fn)
		vm.stack[vm.stackTop-argCount-1] = value.FromObj(instance)
		if initializer, ok := fn.Methods.Get(vm.heap.InternString("init")); ok {
			return vm.callClosure(initializer.Obj.(*object.ObjClosure), argCount)
		}
		if argCount != 0 {
			return vm.runtimeError("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	case *object.ObjBoundMethod:
		vm.stack[vm.stackTop-argCount-1] = fn.Receiver
		return vm.callClosure(fn.Method, argCount)
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

func (vm *VM) callClosure(closure *object.ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount == maxFrames {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames[vm.frameCount] = callFrame{
		closure: closure,
		ip:      0,
		slots:   vm.stackTop - argCount - 1,
	}
	vm.frameCount++
	return nil
}

// invoke fuses GET_PROPERTY+CALL: the receiver's field table is checked
// first (a field holding a callable still behaves like one), then its
// class's method table.
func (vm *VM) invoke(name *value.ObjString, argCount int) error {
	receiverVal := vm.peek(argCount)
	receiver, ok := receiverVal.Obj.(*object.ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have methods.")
	}
	if v, ok := receiver.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = v
		return vm.callValue(v, argCount)
	}
	return vm.invokeFromClass(receiver.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *object.ObjClass, name *value.ObjString, argCount int) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined property '%s'.", name.Chars)
	}
	return vm.callClosure(methodVal.Obj.(*object.ObjClosure), argCount)
}
