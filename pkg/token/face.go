package token

// Bit layout of a custom-encoded Type, per spec.md §6:
//
//	bit 63     CUSTOM
//	bit 62     CUSTOM_FOREGROUND_IS_COLOR (themed index vs RGB)
//	bit 61     CUSTOM_BACKGROUND_IS_COLOR
//	bit 60     CUSTOM_FACE_INVISIBLE (one of the five flag bits)
//	bits 24-27 remaining flags: BOLD, UNDERSCORE, REVERSE, ITALICS
//	bits 32-47 foreground, themed: signed 16-bit index
//	bits 32-55 foreground, RGB: r<<48 | g<<40 | b<<32
//	bits 0-15  background, themed: signed 16-bit index
//	bits 0-23  background, RGB: r<<16 | g<<8 | b
const (
	bitCustom            = 63
	bitForegroundIsColor = 62
	bitBackgroundIsColor = 61
	bitInvisible         = 60

	bitBold       = 24
	bitUnderscore = 25
	bitReverse    = 26
	bitItalics    = 27

	foregroundShift = 32
	backgroundShift = 0
)

// Flags holds the five boolean face attributes.
type Flags struct {
	Bold       bool
	Underscore bool
	Reverse    bool
	Italics    bool
	Invisible  bool
}

// Face is the decoded form of a custom Type: either a themed palette
// index or a raw RGB triple for each of foreground and background.
type Face struct {
	Flags Flags

	ForegroundIsColor bool
	ForegroundThemed  int16
	ForegroundRGB     [3]byte

	BackgroundIsColor bool
	BackgroundThemed  int16
	BackgroundRGB     [3]byte
}

// IsCustom reports whether t has the CUSTOM bit set.
func IsCustom(t Type) bool {
	return uint64(t)&(1<<bitCustom) != 0
}

// EncodeFace packs f into a custom Type. Each channel stores only its
// active field (the RGB triple when IsColor is set, else the themed
// index), so DecodeFace(EncodeFace(f)) == f for every f whose inactive
// channel fields are zero.
func EncodeFace(f Face) Type {
	var v uint64

	v |= 1 << bitCustom
	v |= flagBit(f.Flags.Invisible, bitInvisible)
	v |= flagBit(f.Flags.Bold, bitBold)
	v |= flagBit(f.Flags.Underscore, bitUnderscore)
	v |= flagBit(f.Flags.Reverse, bitReverse)
	v |= flagBit(f.Flags.Italics, bitItalics)

	if f.ForegroundIsColor {
		v |= 1 << bitForegroundIsColor
		v |= uint64(f.ForegroundRGB[0]) << (foregroundShift + 16)
		v |= uint64(f.ForegroundRGB[1]) << (foregroundShift + 8)
		v |= uint64(f.ForegroundRGB[2]) << foregroundShift
	} else {
		v |= (uint64(uint16(f.ForegroundThemed)) & 0xFFFF) << foregroundShift
	}

	if f.BackgroundIsColor {
		v |= 1 << bitBackgroundIsColor
		v |= uint64(f.BackgroundRGB[0]) << (backgroundShift + 16)
		v |= uint64(f.BackgroundRGB[1]) << (backgroundShift + 8)
		v |= uint64(f.BackgroundRGB[2]) << backgroundShift
	} else {
		v |= (uint64(uint16(f.BackgroundThemed)) & 0xFFFF) << backgroundShift
	}

	return Type(v)
}

// DecodeFace unpacks a custom Type produced by EncodeFace. Calling it on a
// Type without the CUSTOM bit set returns the zero Face and false.
func DecodeFace(t Type) (Face, bool) {
	v := uint64(t)
	if v&(1<<bitCustom) == 0 {
		return Face{}, false
	}

	f := Face{
		Flags: Flags{
			Bold:       v&(1<<bitBold) != 0,
			Underscore: v&(1<<bitUnderscore) != 0,
			Reverse:    v&(1<<bitReverse) != 0,
			Italics:    v&(1<<bitItalics) != 0,
			Invisible:  v&(1<<bitInvisible) != 0,
		},
		ForegroundIsColor: v&(1<<bitForegroundIsColor) != 0,
		BackgroundIsColor: v&(1<<bitBackgroundIsColor) != 0,
	}

	if f.ForegroundIsColor {
		f.ForegroundRGB = [3]byte{
			byte(v >> (foregroundShift + 16)),
			byte(v >> (foregroundShift + 8)),
			byte(v >> foregroundShift),
		}
	} else {
		f.ForegroundThemed = int16(uint16(v >> foregroundShift))
	}

	if f.BackgroundIsColor {
		f.BackgroundRGB = [3]byte{
			byte(v >> (backgroundShift + 16)),
			byte(v >> (backgroundShift + 8)),
			byte(v >> backgroundShift),
		}
	} else {
		f.BackgroundThemed = int16(uint16(v >> backgroundShift))
	}

	return f, true
}

func flagBit(set bool, bit uint) uint64 {
	if set {
		return 1 << bit
	}

	return 0
}
