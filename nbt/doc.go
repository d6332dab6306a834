package nbt

/*

# Named Binary Tag (NBT) codec

This package decodes and encodes the NBT binary format: the hierarchical,
named, typed tag structure used throughout minecraft world data (level.dat,
playerdata, chunk data inside region files) and inside several network
packets (registry codecs, block entities).

It mirrors the style of the region package:

- explicit byte layouts
- bounds checked cursor arithmetic on byte slices
- sentinel errors for every distinct failure mode
- pure computation: no I/O, no logging, no goroutines

## Wire grammar

A document is optionally gzip compressed (magic 0x1f 0x8b). Once plain, it is
a single named tag whose type MUST be Compound:

	+------+-------------------+---------------------------+
	| 0x0a | name (u16 + utf8) | compound payload ... 0x00 |
	+------+-------------------+---------------------------+

Every multi byte integer is big endian two's complement. Floats are the IEEE
754 bit patterns of the corresponding unsigned read.

Payload forms, by the one byte type discriminant:

	 0 End        no payload; terminates a compound
	 1 Byte       1 byte signed
	 2 Short      2 byte signed
	 3 Int        4 byte signed
	 4 Long       8 byte signed
	 5 Float      4 byte IEEE 754
	 6 Double     8 byte IEEE 754
	 7 ByteArray  i32 count, then count bytes
	 8 String     u16 length, then utf8 bytes
	 9 List       elem type byte, i32 count, then count payloads of elem type
	10 Compound   repeated (type byte, name, payload) until a 0x00 type byte
	11 IntArray   i32 count, then count big endian i32 values
	12 LongArray  i32 count, then count big endian i64 values

## Safety posture

The decoder is routinely pointed at hostile bytes (network payloads, files
from untrusted worlds). Every failure is a typed error: no panic, no partial
tree, no unbounded allocation driven by a length field. Array and list counts
are checked against the remaining buffer before any allocation, nesting depth
is capped (DefaultMaxDepth, see WithMaxDepth), and strings are validated as
utf8 before they escape the decoder.

ByteArray payloads are views into the parse buffer rather than copies. The
garbage collector keeps the backing buffer alive for as long as any view is
retained; callers that need an isolated copy make one explicitly. IntArray
and LongArray payloads are decoded per element into owned slices, because a
raw reinterpretation of the underlying bytes is only correct on a big endian
host.

*/
