package wikidump

import "fmt"

// A CompressionError reports an invalid or corrupt bzip2 container:
// a bad stream header at an expected stream boundary, or a corrupt
// stream body mid-decode. Offset is the compressed-input byte offset
// at which the problem was detected.
type CompressionError struct {
	Offset int64
	Detail string
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("wikidump: bad bzip2 data at input offset %d: %s",
		e.Offset, e.Detail)
}

// A SyntaxError reports non-well-formed XML in the dump, such as an
// unterminated tag or a mismatched close tag. Offset is the byte
// offset into the (decompressed) dump at which it was detected.
type SyntaxError struct {
	Offset int64
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("wikidump: XML syntax error on line %d (offset %d): %s",
		e.Line, e.Offset, e.Msg)
}

// A StructuralError reports well-formed XML that does not conform to
// the dump schema: a required field is missing, or an element shows
// up outside its expected scope. Element names the offending or
// missing element.
type StructuralError struct {
	Offset  int64
	Element string
	Msg     string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("wikidump: structural error at offset %d: <%s> %s",
		e.Offset, e.Element, e.Msg)
}

// An EncodingError reports an invalid entity reference or invalid
// character encoding inside a text node.
type EncodingError struct {
	Offset int64
	Msg    string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("wikidump: encoding error at offset %d: %s",
		e.Offset, e.Msg)
}
