package hashring

import (
	"errors"
	"fmt"
	"hash/crc32"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// ErrUnknownHasher is returned by HasherByName for names it does not know.
var ErrUnknownHasher = errors.New("hashring: unknown hasher")

// Hasher abstracts the hashing algorithm used by the ring.
//
// The same Hasher places virtual nodes and hashes lookup keys, so swapping
// it changes every position on the ring.
type Hasher interface {
	Sum64(data []byte) uint64
}

// HasherFunc adapts an ordinary function to the Hasher interface.
type HasherFunc func(data []byte) uint64

func (f HasherFunc) Sum64(data []byte) uint64 {
	return f(data)
}

// xxHasher is the default hash implementation.
type xxHasher struct{}

func (xxHasher) Sum64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

type murmur3Hasher struct{}

func (murmur3Hasher) Sum64(b []byte) uint64 {
	return murmur3.Sum64(b)
}

type fnvHasher struct{}

func (fnvHasher) Sum64(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// crc32Hasher widens IEEE CRC32 to the ring's 64-bit position space.
// Positions only ever occupy the low 32 bits.
type crc32Hasher struct{}

func (crc32Hasher) Sum64(b []byte) uint64 {
	return uint64(crc32.ChecksumIEEE(b))
}

// decimalHasher treats numeric input as its own ring position.
// Anything that does not parse as a base-10 uint64 goes through xxHash.
type decimalHasher struct{}

func (decimalHasher) Sum64(b []byte) uint64 {
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return xxhash.Sum64(b)
	}
	return v
}

// Built-in strategies.
var (
	XXHash  Hasher = xxHasher{}
	Murmur3 Hasher = murmur3Hasher{}
	FNV1a   Hasher = fnvHasher{}
	CRC32   Hasher = crc32Hasher{}
	Decimal Hasher = decimalHasher{}
)

// HasherByName resolves a strategy by its configuration name.
// The empty name selects the default, XXHash.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xxhash":
		return XXHash, nil
	case "murmur3":
		return Murmur3, nil
	case "fnv", "fnv1a":
		return FNV1a, nil
	case "crc32":
		return CRC32, nil
	case "decimal":
		return Decimal, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}
