package validators

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Roster is the fixed, ordered list of authority addresses for the testbed
// chain. A validator's identity in every report is its position in this list.
type Roster struct {
	addrs []common.Address
	index map[common.Address]int
}

// UnknownValidatorError reports a block author that is not in the roster.
type UnknownValidatorError struct {
	Address common.Address
}

func (e *UnknownValidatorError) Error() string {
	return fmt.Sprintf("author %s is not in the validator roster", strings.ToLower(e.Address.Hex()))
}

// NewRoster builds a roster from the configured address strings. Order is
// preserved; malformed or duplicate addresses are rejected.
func NewRoster(addrs []string) (*Roster, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}

	r := &Roster{
		addrs: make([]common.Address, 0, len(addrs)),
		index: make(map[common.Address]int, len(addrs)),
	}

	for i, s := range addrs {
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("roster entry %d: %q is not a hex address", i, s)
		}
		addr := common.HexToAddress(s)
		if prev, dup := r.index[addr]; dup {
			return nil, fmt.Errorf("roster entry %d: %s already present at position %d", i, s, prev)
		}
		r.addrs = append(r.addrs, addr)
		r.index[addr] = i
	}

	return r, nil
}

// Size returns the number of validators in the roster.
func (r *Roster) Size() int {
	return len(r.addrs)
}

// Index returns the roster position of addr.
func (r *Roster) Index(addr common.Address) (int, error) {
	i, ok := r.index[addr]
	if !ok {
		return 0, &UnknownValidatorError{Address: addr}
	}
	return i, nil
}

// Address returns the validator address at position i.
func (r *Roster) Address(i int) common.Address {
	return r.addrs[i]
}

// Addresses returns the roster in order, as lowercase 0x-prefixed strings.
// This is the form the generated TOML configs and shell scripts expect.
func (r *Roster) Addresses() []string {
	out := make([]string, len(r.addrs))
	for i, a := range r.addrs {
		out[i] = strings.ToLower(a.Hex())
	}
	return out
}
