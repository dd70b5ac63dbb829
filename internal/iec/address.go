// internal/iec/address.go
package iec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAddress is returned for names that are not located-variable addresses.
var ErrBadAddress = errors.New("iec: bad address")

// Area is the memory area of a located variable.
type Area byte

const (
	AreaInput  Area = 'I'
	AreaOutput Area = 'Q'
	AreaMemory Area = 'M'
)

// Size is the data width of a located variable.
type Size byte

const (
	SizeBit  Size = 'X'
	SizeWord Size = 'W'
)

// Address is a parsed located variable such as IX0.3 or QW12.
// The sentinel is not part of the address.
type Address struct {
	Area  Area
	Size  Size
	Index uint16 // byte index for bits, word index for words
	Bit   uint8  // 0..7, bits only
}

// Code returns the area/size pair, e.g. "IX".
func (a Address) Code() string { return string([]byte{byte(a.Area), byte(a.Size)}) }

// Linear returns the flat bit number for bits and the word index for words.
func (a Address) Linear() int {
	if a.Size == SizeBit {
		return int(a.Index)*8 + int(a.Bit)
	}
	return int(a.Index)
}

func (a Address) String() string {
	if a.Size == SizeBit {
		return fmt.Sprintf("%s%d.%d", a.Code(), a.Index, a.Bit)
	}
	return fmt.Sprintf("%s%d", a.Code(), a.Index)
}

// Parse reads IX/QX/MX byte.bit and IW/QW/MW index forms.
func Parse(name string) (Address, error) {
	if len(name) < 3 {
		return Address{}, fmt.Errorf("%w: %q", ErrBadAddress, name)
	}

	var a Address

	switch Area(name[0]) {
	case AreaInput, AreaOutput, AreaMemory:
		a.Area = Area(name[0])
	default:
		return Address{}, fmt.Errorf("%w: %q: unknown area %q", ErrBadAddress, name, name[0])
	}

	rest := name[2:]

	switch Size(name[1]) {
	case SizeBit:
		a.Size = SizeBit

		byteStr, bitStr, ok := strings.Cut(rest, ".")
		if !ok {
			return Address{}, fmt.Errorf("%w: %q: bit address needs byte.bit", ErrBadAddress, name)
		}
		idx, err := strconv.ParseUint(byteStr, 10, 16)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: byte index: %v", ErrBadAddress, name, err)
		}
		bit, err := strconv.ParseUint(bitStr, 10, 8)
		if err != nil || bit > 7 {
			return Address{}, fmt.Errorf("%w: %q: bit must be 0-7", ErrBadAddress, name)
		}
		a.Index = uint16(idx)
		a.Bit = uint8(bit)

	case SizeWord:
		a.Size = SizeWord

		idx, err := strconv.ParseUint(rest, 10, 16)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: word index: %v", ErrBadAddress, name, err)
		}
		a.Index = uint16(idx)

	default:
		return Address{}, fmt.Errorf("%w: %q: unsupported size %q", ErrBadAddress, name, name[1])
	}

	return a, nil
}
