// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Ondrej Zary

package norflash

// Algorithm selects the programming command set a chip requires
type Algorithm int

// Supported algorithm variants
const (
	AlgIntel Algorithm = iota
	AlgAMD
)

func (a Algorithm) String() string {
	switch a {
	case AlgIntel:
		return "Intel"
	case AlgAMD:
		return "AMD"
	default:
		return "unknown"
	}
}

// BlockDesc describes Count consecutive erase blocks of Size bytes each
type BlockDesc struct {
	Count uint32
	Size  uint32
}

// ChipID is the (manufacturer, device) identifier pair read in
// autoselect/identifier mode
type ChipID struct {
	Mfg uint16
	Dev uint16
}

// Chip is a static flash chip profile. Blocks are listed in address
// order, starting at offset 0 and covering the chip contiguously.
type Chip struct {
	Name      string
	Size      uint32
	Blocks    []BlockDesc
	Algorithm Algorithm
	Lockable  bool
}

var knownChips = map[ChipID]Chip{
	{0x0089, 0x88C5}: {
		Name:      "Intel 28F320C3B",
		Size:      0x400000,
		Blocks:    []BlockDesc{{8, 8192}, {63, 65536}},
		Algorithm: AlgIntel,
		Lockable:  true,
	},
	{0x0089, 0x88C4}: {
		Name:      "Intel 28F320C3T",
		Size:      0x400000,
		Blocks:    []BlockDesc{{63, 65536}, {8, 8192}},
		Algorithm: AlgIntel,
		Lockable:  true,
	},
	{0x0089, 0x88C3}: {
		Name:      "Intel 28F160C3B",
		Size:      0x200000,
		Blocks:    []BlockDesc{{8, 8192}, {31, 65536}},
		Algorithm: AlgIntel,
		Lockable:  true,
	},
	{0x00C2, 0x2249}: {
		Name:      "MXIC MX29LV160AB",
		Size:      0x200000,
		Blocks:    []BlockDesc{{1, 16384}, {2, 8192}, {1, 32768}, {31, 65536}},
		Algorithm: AlgAMD,
	},
	{0x00C2, 0x22C4}: {
		Name:      "MXIC MX29LV160AT",
		Size:      0x200000,
		Blocks:    []BlockDesc{{31, 65536}, {1, 32768}, {2, 8192}, {1, 16384}},
		Algorithm: AlgAMD,
	},
	{0x0001, 0x2249}: {
		Name:      "AMD AM29LV160DB",
		Size:      0x200000,
		Blocks:    []BlockDesc{{1, 16384}, {2, 8192}, {1, 32768}, {31, 65536}},
		Algorithm: AlgAMD,
	},
}

// LookupChip returns the profile for an identifier pair, or false if the
// chip is not in the catalog
func LookupChip(id ChipID) (*Chip, bool) {
	chip, ok := knownChips[id]
	if !ok {
		return nil, false
	}
	return &chip, true
}
