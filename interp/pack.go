package interp

import (
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/metaconv/value"
)

// packItem is one letter of a pack template with its repeat count; a
// count of -1 stands for '*'.
type packItem struct {
	letter byte
	count  int
}

func parseTemplate(tmpl string) ([]packItem, error) {
	var items []packItem

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		i++

		if c == ' ' || c == '\t' {
			continue
		}

		if !strings.ContainsRune("CcnNvVsSlLHhAaZx", rune(c)) {
			return nil, ErrUnsupported.With(slog.String("template", tmpl))
		}

		it := packItem{letter: c, count: 1}

		switch {
		case i < len(tmpl) && tmpl[i] == '*':
			it.count = -1
			i++
		case i < len(tmpl) && isDigit(tmpl[i]):
			j := i
			for j < len(tmpl) && isDigit(tmpl[j]) {
				j++
			}

			it.count, _ = strconv.Atoi(tmpl[i:j])
			i = j
		}

		items = append(items, it)
	}

	return items, nil
}

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// intWidth returns the byte width, byte order, and signedness of an
// integer letter.
func intWidth(c byte) (int, byteOrder, bool) {
	switch c {
	case 'C', 'c':
		return 1, binary.BigEndian, c == 'c'
	case 'n':
		return 2, binary.BigEndian, false
	case 'N':
		return 4, binary.BigEndian, false
	case 'v', 'S':
		return 2, binary.LittleEndian, false
	case 's':
		return 2, binary.LittleEndian, true
	case 'V', 'L':
		return 4, binary.LittleEndian, false
	case 'l':
		return 4, binary.LittleEndian, true
	}

	return 0, nil, false
}

func dataBytes(v value.Value) []byte {
	if b, ok := v.Raw(); ok {
		return b
	}

	return []byte(v.Text())
}

// callUnpack is unpack(TEMPLATE, EXPR) for the integer, hex, and string
// letters.
func callUnpack(f *Frame, args []value.Value) value.Value {
	items, err := parseTemplate(arg(args, 0).Text())
	if err != nil {
		return f.fail(err)
	}

	data := dataBytes(arg(args, 1))

	var out []value.Value

	for _, it := range items {
		rest := len(data)

		switch it.letter {
		case 'H', 'h':
			n := it.count
			if n < 0 {
				n = rest * 2
			}

			nb := min((n+1)/2, rest)
			s := hex.EncodeToString(data[:nb])

			if it.letter == 'h' {
				sw := []byte(s)
				for i := 0; i+1 < len(sw); i += 2 {
					sw[i], sw[i+1] = sw[i+1], sw[i]
				}

				s = string(sw)
			}

			out = append(out, value.String(s[:min(n, len(s))]))
			data = data[nb:]
		case 'A', 'a', 'Z':
			n := it.count
			if n < 0 || n > rest {
				n = rest
			}

			s := string(data[:n])

			switch it.letter {
			case 'A':
				s = strings.TrimRight(s, " \x00")
			case 'Z':
				if i := strings.IndexByte(s, 0); i >= 0 {
					s = s[:i]
				}
			}

			out = append(out, value.String(s))
			data = data[n:]
		case 'x':
			n := it.count
			if n < 0 || n > rest {
				n = rest
			}

			data = data[n:]
		default:
			w, order, signed := intWidth(it.letter)

			for k := 0; (it.count < 0 || k < it.count) && len(data) >= w; k++ {
				out = append(out, readInt(data[:w], order, signed))
				data = data[w:]
			}
		}
	}

	return value.Array(out...)
}

func readInt(b []byte, order byteOrder, signed bool) value.Value {
	switch len(b) {
	case 1:
		if signed {
			return value.I64(int64(int8(b[0])))
		}

		return value.U64(uint64(b[0]))
	case 2:
		u := order.Uint16(b)
		if signed {
			return value.I64(int64(int16(u)))
		}

		return value.U64(uint64(u))
	default:
		u := order.Uint32(b)
		if signed {
			return value.I64(int64(int32(u)))
		}

		return value.U64(uint64(u))
	}
}

// callPack is pack(TEMPLATE, LIST). The result is a byte string.
func callPack(f *Frame, args []value.Value) value.Value {
	items, err := parseTemplate(arg(args, 0).Text())
	if err != nil {
		return f.fail(err)
	}

	list := flatten(args[min(1, len(args)):])

	var out []byte

	for _, it := range items {
		switch it.letter {
		case 'H', 'h':
			s := arg(list, 0).Text()
			list = list[min(1, len(list)):]

			if it.count >= 0 && it.count < len(s) {
				s = s[:it.count]
			}

			if len(s)%2 == 1 {
				s += "0"
			}

			if it.letter == 'h' {
				sw := []byte(s)
				for i := 0; i+1 < len(sw); i += 2 {
					sw[i], sw[i+1] = sw[i+1], sw[i]
				}

				s = string(sw)
			}

			b, err := hex.DecodeString(s)
			if err != nil {
				return f.fail(ErrUnsupported.Wrap(err).With(slog.String("function", "pack")))
			}

			out = append(out, b...)
		case 'A', 'a', 'Z':
			s := arg(list, 0).Text()
			list = list[min(1, len(list)):]

			if it.count >= 0 {
				pad := byte(0)
				if it.letter == 'A' {
					pad = ' '
				}

				for len(s) < it.count {
					s += string(pad)
				}

				s = s[:it.count]
			}

			out = append(out, s...)
		case 'x':
			for range max(it.count, 1) {
				out = append(out, 0)
			}
		default:
			w, order, _ := intWidth(it.letter)

			for k := 0; (it.count < 0 && len(list) > 0) || k < it.count; k++ {
				n := uint64(int64(arg(list, 0).Num()))
				list = list[min(1, len(list)):]

				switch w {
				case 1:
					out = append(out, byte(n))
				case 2:
					out = order.AppendUint16(out, uint16(n))
				default:
					out = order.AppendUint32(out, uint32(n))
				}
			}
		}
	}

	return value.String(string(out))
}
