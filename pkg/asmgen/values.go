// Register allocation and value tracking.
// The ValueManager owns the mapping between Koopa values and their current
// store, in both directions. Registers are handed out from a fixed pool in
// allocation order. Within a statement they are released only by relocation;
// ReleaseAll empties the pool once the statement's store or ret is emitted.

package asmgen

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/raymyers/sysyc/pkg/asm"
	"github.com/raymyers/sysyc/pkg/koopa"
)

// ErrOutOfRegisters is returned when the pool has no free register left
var ErrOutOfRegisters = errors.New("out of registers")

// ValueStore is where a value currently lives: a ConstStore or a RegStore
type ValueStore interface {
	implValueStore()
}

// ConstStore is a value known at emission time
type ConstStore struct {
	Value int32
}

// RegStore is a value held in a register
type RegStore struct {
	Reg asm.Reg
}

func (ConstStore) implValueStore() {}
func (RegStore) implValueStore()   {}

// StoreName returns the operand text for a store: a decimal literal or a register name
func StoreName(s ValueStore) string {
	switch st := s.(type) {
	case ConstStore:
		return strconv.Itoa(int(st.Value))
	case RegStore:
		return st.Reg.String()
	}
	return "?"
}

// ValueManager tracks which register holds which value
type ValueManager struct {
	usedRegs map[asm.Reg]koopa.Value
	values   map[koopa.Value]ValueStore
}

// NewValueManager creates a manager with every register free.
func NewValueManager() *ValueManager {
	return &ValueManager{
		usedRegs: map[asm.Reg]koopa.Value{},
		values:   map[koopa.Value]ValueStore{},
	}
}

// Value returns the current store of v.
func (m *ValueManager) Value(v koopa.Value) (ValueStore, bool) {
	s, ok := m.values[v]
	return s, ok
}

// SetValue binds v to a constant store, releasing any register it held.
func (m *ValueManager) SetValue(v koopa.Value, c ConstStore) {
	m.unbind(v)
	m.values[v] = c
}

// ReleaseAll frees every register. Values that lived in registers are
// forgotten; constant stores stay known.
func (m *ValueManager) ReleaseAll() {
	for r, v := range m.usedRegs {
		delete(m.values, v)
		delete(m.usedRegs, r)
	}
}

// FreeRegs returns the number of registers still available.
func (m *ValueManager) FreeRegs() int {
	return asm.NumPoolRegs - 1 - len(m.usedRegs)
}

// firstFree returns the first empty register in pool order. x0 is never a candidate.
func (m *ValueManager) firstFree() (asm.Reg, bool) {
	for r := asm.T0; r <= asm.A0; r++ {
		if _, used := m.usedRegs[r]; !used {
			return r, true
		}
	}
	return 0, false
}

// AllocReg takes the first empty register in pool order and binds v to it.
func (m *ValueManager) AllocReg(v koopa.Value) (asm.Reg, error) {
	r, ok := m.firstFree()
	if !ok {
		return 0, ErrOutOfRegisters
	}
	m.bind(v, r)
	return r, nil
}

// ResetReg frees r. A live value in r is first relocated to another free
// register, and the move performing the relocation is returned. The result
// is nil when r was already empty.
func (m *ValueManager) ResetReg(r asm.Reg) (asm.Instruction, error) {
	v, used := m.usedRegs[r]
	if !used {
		return nil, nil
	}
	target, ok := m.firstFree()
	if !ok {
		return nil, fmt.Errorf("evicting %s: %w", r, ErrOutOfRegisters)
	}
	m.bind(v, target)
	return asm.MV{Rd: target, Rs: r}, nil
}

// LoadReg makes sure v is in a register. For a constant it allocates one and
// returns the li that fills it; for a value already in a register it returns nil.
func (m *ValueManager) LoadReg(v koopa.Value) (asm.Instruction, error) {
	s, ok := m.values[v]
	if !ok {
		return nil, fmt.Errorf("load of unknown value %d", v)
	}
	c, ok := s.(ConstStore)
	if !ok {
		return nil, nil
	}
	r, err := m.AllocReg(v)
	if err != nil {
		return nil, err
	}
	return asm.LI{Rd: r, Imm: c.Value}, nil
}

// Reg returns the register holding v.
func (m *ValueManager) Reg(v koopa.Value) (asm.Reg, bool) {
	rs, ok := m.values[v].(RegStore)
	return rs.Reg, ok
}

func (m *ValueManager) bind(v koopa.Value, r asm.Reg) {
	m.unbind(v)
	m.usedRegs[r] = v
	m.values[v] = RegStore{Reg: r}
}

func (m *ValueManager) unbind(v koopa.Value) {
	if rs, ok := m.values[v].(RegStore); ok {
		delete(m.usedRegs, rs.Reg)
	}
}

// check verifies that both directions of the mapping agree.
func (m *ValueManager) check() error {
	for r, v := range m.usedRegs {
		if r == asm.X0 || r > asm.A0 {
			return fmt.Errorf("register %s is not allocatable", r)
		}
		rs, ok := m.values[v].(RegStore)
		if !ok || rs.Reg != r {
			return fmt.Errorf("register %s holds value %d, which is stored in %v", r, v, m.values[v])
		}
	}
	for v, s := range m.values {
		rs, ok := s.(RegStore)
		if !ok {
			continue
		}
		if holder, used := m.usedRegs[rs.Reg]; !used || holder != v {
			return fmt.Errorf("value %d claims %s, which holds %d", v, rs.Reg, holder)
		}
	}
	return nil
}
