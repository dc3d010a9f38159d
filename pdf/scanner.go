// seehuhn.de/go/image2pdf - convert raster images into annotated PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// scanner reads PDF objects from a file, starting at a given offset.
//
// Objects are parsed from a stream of tokens.  Up to two tokens of
// lookahead are needed to recognise references; these are kept on the
// pending stack.  The byte level methods Peek, Discard and SkipWhiteSpace
// must only be used while no tokens are pending.
type scanner struct {
	ra     io.ReaderAt
	r      *bufio.Reader
	base   int64
	offset int64

	pending []token

	getInt func(Object) (Integer, error)
}

func newScanner(ra io.ReaderAt, size, start int64, getInt func(Object) (Integer, error)) *scanner {
	return &scanner{
		ra:     ra,
		r:      bufio.NewReader(io.NewSectionReader(ra, start, size-start)),
		base:   start,
		getInt: getInt,
	}
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokInteger
	tokReal
	tokName
	tokString
	tokKeyword // null, true, obj, R, stream, ...
	tokOpen    // "[" or "<<"
	tokClose   // "]" or ">>"
)

type token struct {
	kind tokenKind
	pos  int64
	word string // keywords and brackets
	val  Object // numbers, names and strings
}

func (t token) is(kind tokenKind, word string) bool {
	return t.kind == kind && t.word == word
}

// filePos returns the current position, relative to the start of the file.
func (s *scanner) filePos() int64 {
	return s.base + s.offset
}

func (s *scanner) errorf(format string, args ...any) error {
	return s.errorAt(s.filePos(), fmt.Errorf(format, args...))
}

func (s *scanner) errorAt(pos int64, err error) error {
	return &MalformedFileError{Pos: pos, Err: err}
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
func (s *scanner) ReadIndirectObject() (Object, Reference, error) {
	number, err := s.expectInt()
	if err != nil {
		return nil, Reference{}, err
	}
	generation, err := s.expectInt()
	if err != nil {
		return nil, Reference{}, err
	}
	ref, err := s.makeRef(number, generation)
	if err != nil {
		return nil, Reference{}, err
	}
	err = s.expectKeyword("obj")
	if err != nil {
		return nil, Reference{}, err
	}

	obj, err := s.ReadObject()
	if err != nil {
		return nil, Reference{}, err
	}

	err = s.expectKeyword("endobj")
	if err != nil {
		return nil, Reference{}, err
	}
	return obj, ref, nil
}

// ReadObject reads one PDF object.  Integers followed by a second integer
// and the keyword "R" are combined into a [Reference].
func (s *scanner) ReadObject() (Object, error) {
	t, err := s.next()
	if err != nil {
		return nil, err
	}
	return s.parse(t)
}

func (s *scanner) parse(t token) (Object, error) {
	switch t.kind {
	case tokEOF:
		return nil, s.errorAt(t.pos, io.ErrUnexpectedEOF)
	case tokInteger:
		return s.maybeReference(t.val.(Integer))
	case tokReal, tokName, tokString:
		return t.val, nil
	case tokKeyword:
		switch t.word {
		case "null":
			return nil, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
	case tokOpen:
		if t.word == "[" {
			return s.parseArray()
		}
		dict, err := s.parseDict()
		if err != nil {
			return nil, err
		}
		return s.maybeStream(dict)
	}
	return nil, s.errorAt(t.pos, fmt.Errorf("unexpected %q", t.word))
}

// maybeReference checks whether the integer a is the start of
// an "a b R" reference.
func (s *scanner) maybeReference(a Integer) (Object, error) {
	t2, err := s.next()
	if err != nil {
		return nil, err
	}
	if t2.kind != tokInteger {
		s.unread(t2)
		return a, nil
	}
	t3, err := s.next()
	if err != nil {
		return nil, err
	}
	if !t3.is(tokKeyword, "R") {
		s.unread(t3)
		s.unread(t2)
		return a, nil
	}
	return s.makeRef(a, t2.val.(Integer))
}

func (s *scanner) makeRef(number, generation Integer) (Reference, error) {
	if number < 0 || generation < 0 || generation > 65535 {
		return Reference{}, s.errorf("invalid object reference %d %d", number, generation)
	}
	return Reference{Number: int(number), Generation: uint16(generation)}, nil
}

func (s *scanner) parseArray() (Array, error) {
	array := Array{}
	for {
		t, err := s.next()
		if err != nil {
			return nil, err
		}
		if t.is(tokClose, "]") {
			return array, nil
		}
		obj, err := s.parse(t)
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
}

// parseDict reads a dictionary, starting after the opening "<<".
// Keys with a null value are dropped.
func (s *scanner) parseDict() (Dict, error) {
	dict := Dict{}
	for {
		t, err := s.next()
		if err != nil {
			return nil, err
		}
		if t.is(tokClose, ">>") {
			return dict, nil
		}
		if t.kind != tokName {
			return nil, s.errorAt(t.pos, errors.New("expected dictionary key"))
		}
		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[t.val.(Name)] = val
		}
	}
}

// ReadDict reads a PDF dictionary.
func (s *scanner) ReadDict() (Dict, error) {
	t, err := s.next()
	if err != nil {
		return nil, err
	}
	if !t.is(tokOpen, "<<") {
		return nil, s.errorAt(t.pos, errors.New("expected dictionary"))
	}
	return s.parseDict()
}

// maybeStream checks whether dict is followed by stream data.
// The data is not copied; the returned stream reads directly from the
// underlying file.
func (s *scanner) maybeStream(dict Dict) (Object, error) {
	t, err := s.next()
	if err != nil {
		return nil, err
	}
	if !t.is(tokKeyword, "stream") {
		s.unread(t)
		return dict, nil
	}

	length, err := s.getInt(dict["Length"])
	if err != nil {
		return nil, err
	} else if length < 0 {
		return nil, s.errorf("stream with negative length")
	}

	// The keyword is followed by either LF or CR LF.
	buf, err := s.Peek(2)
	if err != nil {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(buf, []byte("\n")):
		err = s.Discard(1)
	case bytes.HasPrefix(buf, []byte("\r\n")):
		err = s.Discard(2)
	default:
		return nil, s.errorf("missing end of line after \"stream\"")
	}
	if err != nil {
		return nil, err
	}

	data := io.NewSectionReader(s.ra, s.filePos(), int64(length))
	err = s.Discard(int64(length))
	if err != nil {
		return nil, err
	}
	err = s.expectKeyword("endstream")
	if err != nil {
		return nil, err
	}
	return &Stream{Dict: dict, R: data}, nil
}

func (s *scanner) expectInt() (Integer, error) {
	t, err := s.next()
	if err != nil {
		return 0, err
	}
	if t.kind != tokInteger {
		return 0, s.errorAt(t.pos, fmt.Errorf("expected integer but found %q", t.word))
	}
	return t.val.(Integer), nil
}

func (s *scanner) expectKeyword(word string) error {
	t, err := s.next()
	if err != nil {
		return err
	}
	if !t.is(tokKeyword, word) {
		return s.errorAt(t.pos, fmt.Errorf("expected %q but found %q", word, t.word))
	}
	return nil
}

func (s *scanner) unread(t token) {
	s.pending = append(s.pending, t)
}

// next returns the next token of the input.  At the end of input, a token
// of kind tokEOF is returned.
func (s *scanner) next() (token, error) {
	if n := len(s.pending); n > 0 {
		t := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return t, nil
	}

	err := s.SkipWhiteSpace()
	if err != nil {
		return token{}, err
	}
	pos := s.filePos()
	c, err := s.readByte()
	if err == io.EOF {
		return token{kind: tokEOF, pos: pos}, nil
	} else if err != nil {
		return token{}, err
	}

	t := token{pos: pos, word: string(c)}
	switch c {
	case '[':
		t.kind = tokOpen
	case ']':
		t.kind = tokClose
	case '<', '>':
		if buf, _ := s.r.Peek(1); len(buf) > 0 && buf[0] == c {
			s.readByte()
			t.word += t.word
			t.kind = tokOpen
			if c == '>' {
				t.kind = tokClose
			}
		} else if c == '<' {
			t.kind = tokString
			t.val, err = s.lexHexString()
		} else {
			err = s.errorAt(pos, errors.New("unexpected \">\""))
		}
	case '(':
		t.kind = tokString
		t.val, err = s.lexLiteralString()
	case '/':
		t.kind = tokName
		t.val, err = s.lexName()
	case ')', '{', '}':
		err = s.errorAt(pos, fmt.Errorf("unexpected %q", c))
	default:
		var word []byte
		word, err = s.lexRegular(c)
		t.word = string(word)
		t.kind, t.val = classifyWord(word)
		if t.kind == tokEOF {
			err = s.errorAt(pos, fmt.Errorf("malformed number %q", word))
		}
	}
	if err != nil {
		return token{}, err
	}
	return t, nil
}

// classifyWord decides whether a run of regular characters is a number or
// a keyword.  Malformed numbers are reported as tokEOF.
func classifyWord(word []byte) (tokenKind, Object) {
	numeric := true
	dots := 0
	for i, c := range word {
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
			dots++
		case (c == '+' || c == '-') && i == 0:
		default:
			numeric = false
		}
	}
	if !numeric {
		return tokKeyword, nil
	}
	if dots == 0 {
		x, err := strconv.ParseInt(string(word), 10, 64)
		if err != nil {
			return tokEOF, nil
		}
		return tokInteger, Integer(x)
	}
	x, err := strconv.ParseFloat(string(word), 64)
	if err != nil || dots > 1 {
		return tokEOF, nil
	}
	return tokReal, Real(x)
}

func (s *scanner) lexRegular(first byte) ([]byte, error) {
	word := []byte{first}
	for {
		buf, err := s.r.Peek(1)
		if len(buf) == 0 {
			if err == io.EOF {
				err = nil
			}
			return word, err
		}
		c := buf[0]
		if isSpace[c] || isDelimiter[c] {
			return word, nil
		}
		s.readByte()
		word = append(word, c)
	}
}

// lexName reads a name, starting after the "/".
// "#xx" sequences are replaced by the byte with hex code xx.
func (s *scanner) lexName() (Name, error) {
	word, err := s.lexRegular('/')
	if err != nil {
		return "", err
	}
	word = word[1:]

	var res []byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c == '#' && i+2 < len(word) && isHex(word[i+1]) && isHex(word[i+2]) {
			c = hexVal(word[i+1])<<4 | hexVal(word[i+2])
			i += 2
		}
		res = append(res, c)
	}
	return Name(res), nil
}

// lexLiteralString reads a ()-delimited string, starting after the opening
// parenthesis.
func (s *scanner) lexLiteralString() (String, error) {
	var res []byte
	depth := 0
	for {
		c, err := s.readByteNoEOF()
		if err != nil {
			return nil, err
		}
		switch c {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return String(res), nil
			}
			depth--
		case '\r':
			// all end-of-line markers are read as a single LF
			c = '\n'
			s.skipByte('\n')
		case '\\':
			c, err = s.readByteNoEOF()
			if err != nil {
				return nil, err
			}
			switch c {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '\r':
				s.skipByte('\n')
				continue
			case '\n':
				continue
			case '0', '1', '2', '3', '4', '5', '6', '7':
				c -= '0'
				for range 2 {
					buf, _ := s.r.Peek(1)
					if len(buf) == 0 || buf[0] < '0' || buf[0] > '7' {
						break
					}
					s.readByte()
					c = c<<3 | (buf[0] - '0')
				}
			}
		}
		res = append(res, c)
	}
}

// lexHexString reads a <>-delimited string, starting after the opening
// angle bracket.  White space is ignored and a missing final digit is
// taken to be zero.
func (s *scanner) lexHexString() (String, error) {
	var res []byte
	odd := false
	for {
		c, err := s.readByteNoEOF()
		if err != nil {
			return nil, err
		}
		switch {
		case c == '>':
			return String(res), nil
		case isHex(c):
			if odd {
				res[len(res)-1] |= hexVal(c)
			} else {
				res = append(res, hexVal(c)<<4)
			}
			odd = !odd
		case isSpace[c]:
		default:
			return nil, s.errorf("invalid character %q in hex string", c)
		}
	}
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

func (s *scanner) readHeaderVersion() (Version, error) {
	buf, err := s.Peek(16)
	if err != nil {
		return 0, err
	}

	const magic = "%PDF-1."
	if !bytes.HasPrefix(buf, []byte(magic)) || len(buf) < len(magic)+2 {
		return 0, &MalformedFileError{Err: errors.New("PDF header not found")}
	}
	minor, next := buf[len(magic)], buf[len(magic)+1]
	if minor < '0' || minor > '9' || next >= '0' && next <= '9' {
		return 0, &MalformedFileError{Pos: 7, Err: errVersion}
	}
	version := V1_0 + Version(minor-'0')
	if version >= tooHighVersion {
		return 0, &MalformedFileError{Pos: 7, Err: errVersion}
	}
	return version, nil
}

func (s *scanner) readByte() (byte, error) {
	c, err := s.r.ReadByte()
	if err == nil {
		s.offset++
	}
	return c, err
}

func (s *scanner) readByteNoEOF() (byte, error) {
	c, err := s.readByte()
	if err == io.EOF {
		return 0, s.errorf("unterminated string: %w", io.ErrUnexpectedEOF)
	}
	return c, err
}

// skipByte consumes the next byte, if it equals c.
func (s *scanner) skipByte(c byte) {
	if buf, _ := s.r.Peek(1); len(buf) > 0 && buf[0] == c {
		s.readByte()
	}
}

// Peek returns a view of the next n bytes of input.  On EOF, short buffers
// without an error code are returned.
func (s *scanner) Peek(n int) ([]byte, error) {
	buf, err := s.r.Peek(n)
	if err == io.EOF {
		err = nil
	}
	return buf, err
}

// Discard skips the next n bytes of input.
func (s *scanner) Discard(n int64) error {
	m, err := io.CopyN(io.Discard, s.r, n)
	s.offset += m
	if err == io.EOF {
		return s.errorf("%w", io.ErrUnexpectedEOF)
	}
	return err
}

// SkipWhiteSpace skips white space and comments.
func (s *scanner) SkipWhiteSpace() error {
	inComment := false
	for {
		buf, err := s.r.Peek(1)
		if len(buf) == 0 {
			if err == io.EOF {
				// white space at the end of the file is fine
				err = nil
			}
			return err
		}
		c := buf[0]
		switch {
		case inComment:
			inComment = c != '\r' && c != '\n'
		case c == '%':
			inComment = true
		case !isSpace[c]:
			return nil
		}
		s.readByte()
	}
}
