package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/wyvernscript/smog/pkg/chunk"
	"github.com/wyvernscript/smog/pkg/object"
	"github.com/wyvernscript/smog/pkg/value"
)

func (vm *VM) frame() *callFrame { return &vm.frames[vm.frameCount-1] }

func (vm *VM) readByte() byte {
	f := vm.frame()
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort() int {
	f := vm.frame()
	v := binary.BigEndian.Uint16(f.closure.Function.Chunk.Code[f.ip : f.ip+2])
	f.ip += 2
	return int(v)
}

func (vm *VM) readConstant() value.Value {
	return vm.frame().closure.Function.Chunk.Constants[vm.readByte()]
}

func (vm *VM) readString() *value.ObjString {
	return vm.readConstant().Obj.(*value.ObjString)
}

// run is the main dispatch loop: fetch one opcode relative to the
// current frame's instruction pointer, execute it, repeat until the
// outermost frame returns or a runtime error aborts execution.
func (vm *VM) run() error {
	for {
		op := chunk.OpCode(vm.readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(vm.readConstant())

		case chunk.OpNil:
			vm.push(value.Nil())
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := vm.readByte()
			vm.push(vm.stack[vm.frame().slots+int(slot)])
		case chunk.OpSetLocal:
			slot := vm.readByte()
			vm.stack[vm.frame().slots+int(slot)] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := vm.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case chunk.OpDefineGlobal:
			name := vm.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case chunk.OpSetGlobal:
			name := vm.readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case chunk.OpGetUpvalue:
			slot := vm.readByte()
			vm.push(*vm.frame().closure.Upvalues[slot].Location)
		case chunk.OpSetUpvalue:
			slot := vm.readByte()
			*vm.frame().closure.Upvalues[slot].Location = vm.peek(0)

		case chunk.OpGetProperty:
			if err := vm.getProperty(); err != nil {
				return err
			}
		case chunk.OpSetProperty:
			if err := vm.setProperty(); err != nil {
				return err
			}
		case chunk.OpGetSuper:
			name := vm.readString()
			superclass := vm.pop().Obj.(*object.ObjClass)
			if err := vm.bindMethod(superclass, name); err != nil {
				return err
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case chunk.OpGreater:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Bool(a > b) }); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Bool(a < b) }); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a - b) }); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a * b) }); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a / b) }); err != nil {
				return err
			}

		case chunk.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))
		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().Number))

		case chunk.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case chunk.OpJump:
			offset := vm.readShort()
			vm.frame().ip += offset
		case chunk.OpJumpIfFalse:
			offset := vm.readShort()
			if vm.peek(0).IsFalsey() {
				vm.frame().ip += offset
			}
		case chunk.OpLoop:
			offset := vm.readShort()
			vm.frame().ip -= offset

		case chunk.OpCall:
			argCount := int(vm.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
		case chunk.OpInvoke:
			method := vm.readString()
			argCount := int(vm.readByte())
			if err := vm.invoke(method, argCount); err != nil {
				return err
			}
		case chunk.OpSuperInvoke:
			method := vm.readString()
			argCount := int(vm.readByte())
			superclass := vm.pop().Obj.(*object.ObjClass)
			if err := vm.invokeFromClass(superclass, method, argCount); err != nil {
				return err
			}

		case chunk.OpClosure:
			fn := vm.readConstant().Obj.(*object.ObjFunction)
			closure := vm.heap.NewClosure(fn)
			vm.push(value.FromObj(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte()
				index := vm.readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(vm.frame().slots + int(index))
				} else {
					closure.Upvalues[i] = vm.frame().closure.Upvalues[index]
				}
			}
		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case chunk.OpReturn:
			result := vm.pop()
			f := vm.frame()
			vm.closeUpvalues(f.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.stackTop = f.slots
			vm.push(result)

		case chunk.OpClass:
			name := vm.readString()
			vm.push(value.FromObj(vm.heap.NewClass(name)))
		case chunk.OpInherit:
			superVal := vm.peek(1)
			superclass, ok := superVal.Obj.(*object.ObjClass)
			if !ok {
				return vm.runtimeError("Superclass must be a class.")
			}
			subclass := vm.peek(0).Obj.(*object.ObjClass)
			subclass.Methods.AddAll(superclass.Methods)
			vm.pop() // subclass
		case chunk.OpMethod:
			vm.defineMethod(vm.readString())

		default:
			return vm.runtimeError("Unknown opcode %d.", op)
		}
	}
}

func (vm *VM) numericBinary(fn func(a, b float64) value.Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().Number
	a := vm.pop().Number
	vm.push(fn(a, b))
	return nil
}

func (vm *VM) add() error {
	bVal, aVal := vm.peek(0), vm.peek(1)
	switch {
	case aVal.IsNumber() && bVal.IsNumber():
		b := vm.pop().Number
		a := vm.pop().Number
		vm.push(value.Number(a + b))
		return nil
	case isString(aVal) && isString(bVal):
		b := vm.pop().Obj.(*value.ObjString)
		a := vm.pop().Obj.(*value.ObjString)
		result := vm.heap.Concat(a, b)
		vm.push(value.FromObj(result))
		return nil
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := v.Obj.(*value.ObjString)
	return ok
}

func (vm *VM) defineMethod(name *value.ObjString) {
	method := vm.peek(0).Obj.(*object.ObjClosure)
	class := vm.peek(1).Obj.(*object.ObjClass)
	class.Methods.Set(name, value.FromObj(method))
	vm.pop()
}

// getProperty implements GET_PROPERTY: the field table is checked
// before the method table, so an instance field shadows a same-named
// method.
func (vm *VM) getProperty() error {
	name := vm.readString()
	receiver, ok := vm.peek(0).Obj.(*object.ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have properties.")
	}
	if v, ok := receiver.Fields.Get(name); ok {
		vm.pop()
		vm.push(v)
		return nil
	}
	return vm.bindMethod(receiver.Class, name)
}

func (vm *VM) setProperty() error {
	name := vm.readString()
	receiver, ok := vm.peek(1).Obj.(*object.ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have fields.")
	}
	receiver.Fields.Set(name, vm.peek(0))
	v := vm.pop()
	vm.pop()
	vm.push(v)
	return nil
}

func (vm *VM) bindMethod(class *object.ObjClass, name *value.ObjString) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined property '%s'.", name.Chars)
	}
	method := methodVal.Obj.(*object.ObjClosure)
	bound := vm.heap.NewBoundMethod(vm.peek(0), method)
	vm.pop()
	vm.push(value.FromObj(bound))
	return nil
}
