// Package input turns the raw terminal byte stream into key events.
package input

import (
	"bufio"
	"unicode"
	"unicode/utf8"
)

// KeyKind classifies a key event.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
	KeyClearLine // Ctrl-U or Ctrl-W
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Key is one key event. Rune is set for KeyRune only.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Input is everything pressed since the previous frame.
type Input struct {
	Keys    []Key // In arrival order
	Quit    bool  // Ctrl-C or Ctrl-D
	Escape  bool
	Enter   bool
	Tab     bool
	Up      bool
	Down    bool
	Closed  bool   // The reader hit EOF or an error
	Pressed []byte // Raw bytes, for activity tracking
}

// Typed returns the printable runes of the frame in order.
func (in Input) Typed() []rune {
	var out []rune
	for _, k := range in.Keys {
		if k.Kind == KeyRune {
			out = append(out, k.Rune)
		}
	}
	return out
}

// HasRune reports whether any of runes was typed this frame.
func (in Input) HasRune(runes ...rune) bool {
	for _, k := range in.Keys {
		if k.Kind != KeyRune {
			continue
		}
		for _, r := range runes {
			if k.Rune == r {
				return true
			}
		}
	}
	return false
}

// Stream delivers input bytes via a channel filled by a reader goroutine.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete UTF-8 sequence carried to the next frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// drain collects every byte available without blocking.
func (s *Stream) drain() []byte {
	buf := s.pending
	s.pending = nil
	if s.closed {
		return buf
	}
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them into key events.
func ReadInput(s *Stream) Input {
	buf := s.drain()
	in, rest := Parse(buf)
	if len(rest) > 0 && !s.closed {
		s.pending = append(s.pending, rest...)
	}
	in.Closed = s.closed && len(s.pending) == 0
	return in
}

// ResetKeyInput discards everything pressed but not yet read, so a key that
// ended one screen does not leak into the next.
func ResetKeyInput(s *Stream) {
	s.drain()
	s.pending = nil
}

// Parse decodes buf into an Input. A trailing incomplete UTF-8 sequence is
// returned unparsed.
func Parse(buf []byte) (Input, []byte) {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == 0x1b:
			n := parseEscape(&in, buf[i:])
			i += n
			continue
		case b == 0x03 || b == 0x04:
			in.Quit = true
		case b == '\r' || b == '\n':
			in.Enter = true
			in.Keys = append(in.Keys, Key{Kind: KeyEnter})
			if b == '\r' && i+1 < len(buf) && buf[i+1] == '\n' {
				i++
			}
		case b == '\t':
			in.Tab = true
			in.Keys = append(in.Keys, Key{Kind: KeyTab})
		case b == '\b' || b == 0x7f:
			in.Keys = append(in.Keys, Key{Kind: KeyBackspace})
		case b == 0x15 || b == 0x17:
			in.Keys = append(in.Keys, Key{Kind: KeyClearLine})
		case b < 0x20:
			// Other control bytes are ignored.
		default:
			if !utf8.FullRune(buf[i:]) {
				in.Pressed = buf[:i]
				return in, buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError && unicode.IsPrint(r) {
				in.Keys = append(in.Keys, Key{Kind: KeyRune, Rune: r})
			}
			i += size
			continue
		}
		i++
	}
	return in, nil
}

// parseEscape handles an ESC at the start of buf and returns the bytes
// consumed. CSI and SS3 sequences are consumed whole; arrows become keys and
// other sequences are dropped. Anything else is a lone Escape.
func parseEscape(in *Input, buf []byte) int {
	if len(buf) < 3 || (buf[1] != '[' && buf[1] != 'O') {
		in.Escape = true
		in.Keys = append(in.Keys, Key{Kind: KeyEscape})
		return 1
	}
	// Parameters and intermediates run until a final byte in 0x40..0x7e.
	end := 2
	for end < len(buf) && (buf[end] < 0x40 || buf[end] > 0x7e) {
		end++
	}
	if end == len(buf) {
		// Unterminated sequence: drop it.
		return len(buf)
	}
	switch buf[end] {
	case 'A':
		in.Up = true
		in.Keys = append(in.Keys, Key{Kind: KeyUp})
	case 'B':
		in.Down = true
		in.Keys = append(in.Keys, Key{Kind: KeyDown})
	case 'C':
		in.Keys = append(in.Keys, Key{Kind: KeyRight})
	case 'D':
		in.Keys = append(in.Keys, Key{Kind: KeyLeft})
	}
	return end + 1
}
