package context

import (
	"time"

	"github.com/tinscript-go/tinscript/internal/bytecode"
	"github.com/tinscript-go/tinscript/internal/threadbind"
	"github.com/tinscript-go/tinscript/pkg/script"
	"github.com/tinscript-go/tinscript/script/namespace"
	"github.com/tinscript-go/tinscript/script/object"
	"github.com/tinscript-go/tinscript/script/sched"
	"github.com/tinscript-go/tinscript/script/stack"
	"github.com/tinscript-go/tinscript/script/strtab"
	"github.com/tinscript-go/tinscript/script/typereg"
	"github.com/tinscript-go/tinscript/script/value"
	"github.com/tinscript-go/tinscript/script/vector3f"
	"github.com/tinscript-go/tinscript/script/vm"
)

// Context is the single binding point a host embeds against: it owns
// every registry, the execution stack, the VM, and the scheduler, and
// asserts that every Exec*/ObjectExec/Tick entry point is driven from the
// same OS thread that created it (spec §5's thread-affinity requirement);
// GetGlobal and SetGlobal do not check the thread.
type Context struct {
	Types      *typereg.Registry
	Namespaces *namespace.Registry
	Objects    *object.Registry
	Strings    *strtab.Table
	Stack      *stack.Stack
	Machine    *vm.Machine
	Scheduler  *sched.Scheduler

	binder *threadbind.Binder
	halted bool
}

// New builds a ready-to-use Context with every built-in type, including
// vector3f, already registered.
func New() *Context {
	types := typereg.New()
	namespaces := namespace.New()
	objects := object.New()
	strings := strtab.New()
	stk := stack.New(strings)
	machine := vm.New(types, namespaces, objects, strings, stk)

	vector3f.Register(types, namespaces)

	return &Context{
		Types:      types,
		Namespaces: namespaces,
		Objects:    objects,
		Strings:    strings,
		Stack:      stk,
		Machine:    machine,
		Scheduler:  sched.New(),
		binder:     threadbind.New(),
	}
}

// SetHooks installs VM debugger hooks (console breakpoints, call tracing).
func (c *Context) SetHooks(h vm.Hooks) { c.Machine.Hooks = h }

func (c *Context) checkThread() error {
	if err := c.binder.Check(); err != nil {
		return script.ErrWrongThread
	}
	if c.halted {
		return script.NewError(script.ErrRuntime, "context has been halted", script.Location{})
	}
	return nil
}

// RegisterNative installs fn as a callable global function under name,
// recording returnType as its declared return type (Function.ReturnType).
// The VM hands back whatever cell fn returns without converting it to
// returnType (callers that never read the result may pass script.TypeVoid).
func (c *Context) RegisterNative(name string, returnType script.VarType, fn namespace.NativeDispatcher) {
	fnHash := c.Strings.Intern(name)
	ret := value.NewScalar(fnHash, returnType, value.StorageStack, 0)
	ret.Flags |= value.FlagReturnSlot
	c.Namespaces.Root().DefineFunction(&namespace.Function{
		Name:   fnHash,
		Kind:   namespace.KindNativeGlobal,
		Native: fn,
		Params: []*value.Entry{ret},
	})
}

// ExecFunction calls a previously registered or scripted global/object
// function by name. objID is script.NilObjectID for a free function.
func (c *Context) ExecFunction(name script.Hash, objID script.ObjectID, args []script.Cell) (vm.Result, error) {
	if err := c.checkThread(); err != nil {
		return vm.Result{}, err
	}
	ns := c.Namespaces.Root()
	if objID != script.NilObjectID {
		obj, ok := c.Objects.Lookup(objID)
		if !ok {
			return vm.Result{}, script.ErrNilObject
		}
		ns = obj.Namespace
	}
	fn, owner, ok := ns.LookupFunction(name)
	if !ok {
		return vm.Result{}, script.ErrUnresolvedFunc
	}
	return c.Machine.Call(fn, owner, objID, args)
}

// ExecScript runs a bytecode Block (produced by the host's out-of-scope
// compiler) as a parameterless, void-returning top-level command, the
// spec's "exec an ad hoc statement against the running context" entry
// point (spec §2's ExecCommand/ExecScript, folded into one since both
// hand the Context an already-compiled Block).
func (c *Context) ExecScript(block *bytecode.Block) (vm.Result, error) {
	if err := c.checkThread(); err != nil {
		return vm.Result{}, err
	}
	ret := value.NewScalar(script.NoHash, script.TypeVoid, value.StorageStack, 0)
	ret.Flags |= value.FlagReturnSlot
	anon := &namespace.Function{
		Name:   script.NoHash,
		Kind:   namespace.KindScripted,
		Params: []*value.Entry{ret},
		Locals: []*value.Entry{ret},
		Block:  block,
	}
	return c.Machine.Call(anon, c.Namespaces.Root(), script.NilObjectID, nil)
}

// ExecCommand is an alias for ExecScript: the host-bridge protocol draws
// no runtime distinction between a one-off command and a script body once
// both have been compiled to a Block.
func (c *Context) ExecCommand(block *bytecode.Block) (vm.Result, error) {
	return c.ExecScript(block)
}

// ObjectExec calls method on objID, the spec's host-bridge "call a method
// on an object the host holds a handle to" entry point.
func (c *Context) ObjectExec(objID script.ObjectID, method script.Hash, args []script.Cell) (vm.Result, error) {
	return c.ExecFunction(method, objID, args)
}

// GetGlobal reads a root-namespace global variable's current value.
func (c *Context) GetGlobal(name script.Hash) (script.Cell, bool) {
	e, owner, ok := c.Namespaces.Root().LookupGlobal(name)
	if !ok {
		return script.Cell{}, false
	}
	return owner.GlobalCell(e.Slot), true
}

// SetGlobal writes a root-namespace global variable, defining it (as t)
// first if it doesn't already exist.
func (c *Context) SetGlobal(name script.Hash, t script.VarType, val script.Cell) {
	root := c.Namespaces.Root()
	e, owner, ok := root.LookupGlobal(name)
	if !ok {
		e = root.DefineGlobal(name, t)
		owner = root
	}
	owner.SetGlobalCell(e.Slot, val)
}

// Tick drains every scheduler event due at or before now and dispatches
// it through the VM, matching spec §5's cooperative-scheduler contract:
// nothing fires except from inside a Tick call. It re-checks the queue
// against now after every dispatch rather than snapshotting the due set up
// front, so an event a native call schedules synchronously with its own
// wakeAt <= now fires within this same tick instead of waiting for the
// next one.
func (c *Context) Tick(now time.Time) error {
	if err := c.checkThread(); err != nil {
		return err
	}
	for {
		fire, ok := c.Scheduler.Next(now)
		if !ok {
			return nil
		}
		if _, err := c.ExecFunction(fire.Fn, fire.ObjID, fire.Args); err != nil {
			return err
		}
	}
}

// Halt discards all stack state so a subsequent Exec* call starts clean.
// Intended for recovering from a hard error or a host-initiated abort.
func (c *Context) Halt() {
	c.Stack.Reset()
	c.halted = false
}
