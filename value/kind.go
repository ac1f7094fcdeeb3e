package value

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind identifies the variant stored in a [Value].
type Kind uint8

// Value kinds.
const (
	KindEmpty Kind = iota // empty
	KindU8                // u8
	KindU16               // u16
	KindU32               // u32
	KindU64               // u64
	KindI8                // i8
	KindI16               // i16
	KindI32               // i32
	KindI64               // i64
	KindF64               // f64
	KindString            // string
	KindBool              // bool
	KindRational          // rational
	KindSRational         // srational
	KindRationalArray     // rational[]
	KindSRationalArray    // srational[]
	KindBytes             // bytes
	KindArray             // array
)

// IsUnsigned reports whether k is one of the unsigned integer kinds.
func (k Kind) IsUnsigned() bool { return k >= KindU8 && k <= KindU64 }

// IsSigned reports whether k is one of the signed integer kinds.
func (k Kind) IsSigned() bool { return k >= KindI8 && k <= KindI64 }

// IsNumeric reports whether values of kind k have a scalar numeric reading.
func (k Kind) IsNumeric() bool {
	return k.IsUnsigned() || k.IsSigned() ||
		k == KindF64 || k == KindBool || k == KindRational || k == KindSRational
}
