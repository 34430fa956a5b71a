package wikidump

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	dbzip2 "github.com/dsnet/compress/bzip2"
)

func bzCompress(t *testing.T, s string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := dbzip2.NewWriter(buf, &dbzip2.WriterConfig{Level: dbzip2.BestSpeed})
	if err != nil {
		t.Fatalf("Error creating bzip2 writer: %v", err)
	}
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("Error compressing: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Error closing bzip2 writer: %v", err)
	}
	return buf.Bytes()
}

func TestMultiStreamRoundTrip(t *testing.T) {
	for _, streams := range []int{1, 2, 5} {
		var compressed []byte
		var plain string
		for i := 0; i < streams; i++ {
			part := strings.Repeat("stream content\n", 20+i)
			plain += part
			compressed = append(compressed, bzCompress(t, part)...)
		}

		got, err := ioutil.ReadAll(NewMultiStreamReader(bytes.NewReader(compressed)))
		if err != nil {
			t.Errorf("Error reading %v streams: %v", streams, err)
			continue
		}
		if string(got) != plain {
			t.Errorf("%v streams: decompressed output doesn't match input (%v bytes vs. %v)",
				streams, len(got), len(plain))
		}
	}
}

func TestMultiStreamCorruptSecondHeader(t *testing.T) {
	first := bzCompress(t, "first stream\n")
	second := bzCompress(t, "second stream\n")
	second[0] ^= 0xff

	r := NewMultiStreamReader(bytes.NewReader(append(first, second...)))
	got, err := ioutil.ReadAll(r)
	if err == nil {
		t.Fatalf("Expected error on corrupt second stream, got %q", got)
	}
	if _, ok := err.(*CompressionError); !ok {
		t.Fatalf("Expected CompressionError, got %T: %v", err, err)
	}
	if string(got) != "first stream\n" {
		t.Errorf("Expected intact first stream before the error, got %q", got)
	}
}

func TestMultiStreamTruncatedSecondStream(t *testing.T) {
	first := bzCompress(t, "first stream\n")
	second := bzCompress(t, "second stream\n")
	truncated := append(first, second[:len(second)/2]...)

	_, err := ioutil.ReadAll(NewMultiStreamReader(bytes.NewReader(truncated)))
	if err == nil {
		t.Fatal("Expected error on truncated second stream")
	}
	if _, ok := err.(*CompressionError); !ok {
		t.Fatalf("Expected CompressionError, got %T: %v", err, err)
	}
}

func TestMultiStreamNotBzip2(t *testing.T) {
	_, err := ioutil.ReadAll(NewMultiStreamReader(strings.NewReader("<mediawiki/>")))
	ce, ok := err.(*CompressionError)
	if !ok {
		t.Fatalf("Expected CompressionError, got %T: %v", err, err)
	}
	if ce.Offset != 0 {
		t.Errorf("Expected error at offset 0, got %v", ce.Offset)
	}
}

func TestMultiStreamTruncatedHeader(t *testing.T) {
	_, err := ioutil.ReadAll(NewMultiStreamReader(strings.NewReader("BZ")))
	if _, ok := err.(*CompressionError); !ok {
		t.Fatalf("Expected CompressionError, got %T: %v", err, err)
	}
}

var errDiskFault = errors.New("simulated read failure")

// faultReader yields its underlying content and then fails instead of
// reporting EOF.
type faultReader struct {
	r io.Reader
}

func (f *faultReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		err = errDiskFault
	}
	return n, err
}

func TestMultiStreamUnderlyingReadError(t *testing.T) {
	compressed := bzCompress(t, strings.Repeat("payload\n", 100))
	src := &faultReader{r: bytes.NewReader(compressed[:len(compressed)/2])}

	_, err := ioutil.ReadAll(NewMultiStreamReader(src))
	if err != errDiskFault {
		t.Fatalf("Expected the underlying reader's error untouched, got %T: %v",
			err, err)
	}
}

func TestMultiStreamEmptyInput(t *testing.T) {
	n, err := NewMultiStreamReader(strings.NewReader("")).Read(make([]byte, 16))
	if n != 0 || err != io.EOF {
		t.Fatalf("Expected 0, EOF on empty input, got %v, %v", n, err)
	}
}

func TestMultiStreamSmallReads(t *testing.T) {
	compressed := bzCompress(t, "small read check\n")
	r := NewMultiStreamReader(bytes.NewReader(compressed))

	var got []byte
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Error reading: %v", err)
		}
	}
	if string(got) != "small read check\n" {
		t.Errorf("Got %q", got)
	}
	if r.InputOffset() != int64(len(compressed)) {
		t.Errorf("Expected %v compressed bytes consumed, got %v",
			len(compressed), r.InputOffset())
	}
}
