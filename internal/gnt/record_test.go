package gnt

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/lucaskjaero/casia/internal/testutil"
)

func TestReaderRoundTrip(t *testing.T) {
	pixels := testutil.Gradient(3, 2)
	data := testutil.AppendRecord(nil, testutil.LabelNi, 3, 2, pixels)

	r := NewReader(bytes.NewReader(data))
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	if rec.Label != "你" {
		t.Errorf("expected label 你, got %q", rec.Label)
	}
	if rec.Width != 3 || rec.Height != 2 {
		t.Errorf("expected 3x2, got %dx%d", rec.Width, rec.Height)
	}
	if !bytes.Equal(rec.Pixels, pixels) {
		t.Errorf("pixel payload changed: %v != %v", rec.Pixels, pixels)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestReaderEmptyStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	rec, err := r.Next()
	if err != io.EOF {
		t.Fatalf("expected io.EOF for empty stream, got %v", err)
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}
}

func TestReaderSequencing(t *testing.T) {
	labels := [][2]byte{testutil.LabelNi, testutil.LabelHao, testutil.LabelZhong}
	want := []string{"你", "好", "中"}

	var data []byte
	for i, label := range labels {
		w, h := uint16(i+1), uint16(i+2)
		data = testutil.AppendRecord(data, label, w, h, testutil.Gradient(w, h))
	}

	r := NewReader(bytes.NewReader(data))
	for i := range labels {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: Next failed: %v", i, err)
		}
		if rec.Label != want[i] {
			t.Errorf("record %d: expected label %q, got %q", i, want[i], rec.Label)
		}
		if rec.Width != i+1 || rec.Height != i+2 {
			t.Errorf("record %d: expected %dx%d, got %dx%d", i, i+1, i+2, rec.Width, rec.Height)
		}
		if !bytes.Equal(rec.Pixels, testutil.Gradient(uint16(i+1), uint16(i+2))) {
			t.Errorf("record %d: pixel payload changed", i)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after %d records, got %v", len(labels), err)
	}
	if r.Offset() != int64(len(data)) {
		t.Errorf("expected final offset %d, got %d", len(data), r.Offset())
	}
}

func TestReaderTruncation(t *testing.T) {
	full := testutil.AppendRecord(nil, testutil.LabelNi, 4, 4, testutil.Gradient(4, 4))

	tests := []struct {
		name  string
		cut   int // bytes kept from the full record
		field string
	}{
		{"mid length field", 2, "record length"},
		{"before label", 4, "label"},
		{"mid dimensions", 7, "dimensions"},
		{"before payload", 10, "pixel payload"},
		{"mid payload", len(full) - 3, "pixel payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(full[:tt.cut]))
			_, err := r.Next()
			if err == nil {
				t.Fatal("expected truncation error, got none")
			}
			if err == io.EOF {
				t.Fatal("truncated record must not terminate as io.EOF")
			}
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("expected ErrTruncated, got %v", err)
			}
			var te *TruncatedError
			if !errors.As(err, &te) {
				t.Fatalf("expected *TruncatedError, got %T", err)
			}
			if te.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, te.Field)
			}
		})
	}
}

func TestReaderTruncationAfterGoodRecords(t *testing.T) {
	data := testutil.AppendRecord(nil, testutil.LabelNi, 2, 2, testutil.Gradient(2, 2))
	data = testutil.AppendRecord(data, testutil.LabelHao, 2, 2, testutil.Gradient(2, 2))
	data = append(data, testutil.AppendRecord(nil, testutil.LabelZhong, 8, 8, testutil.Gradient(8, 8))[:20]...)

	r := NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected the 2 complete records back, got %d", len(records))
	}
}

func TestReaderInvalidLabel(t *testing.T) {
	data := testutil.AppendRecord(nil, [2]byte{0xFF, 0xFF}, 2, 2, testutil.Gradient(2, 2))

	r := NewReader(bytes.NewReader(data))
	_, err := r.Next()
	if !errors.Is(err, ErrBadLabel) {
		t.Fatalf("expected ErrBadLabel, got %v", err)
	}
	var le *LabelError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LabelError, got %T", err)
	}
	if le.Raw != [2]byte{0xFF, 0xFF} {
		t.Errorf("expected raw bytes FF FF, got %02X %02X", le.Raw[0], le.Raw[1])
	}
}

func TestReaderLengthMismatch(t *testing.T) {
	pixels := testutil.Gradient(2, 2)
	data := testutil.AppendRecordDeclared(nil, 999, testutil.LabelNi, 2, 2, pixels)

	r := NewReader(bytes.NewReader(data))
	_, err := r.Next()
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	var me *LengthMismatchError
	if !errors.As(err, &me) {
		t.Fatalf("expected *LengthMismatchError, got %T", err)
	}
	if me.Declared != 999 || me.Computed != 14 {
		t.Errorf("expected declared=999 computed=14, got declared=%d computed=%d", me.Declared, me.Computed)
	}

	// The reference tooling never checks the field; the option restores
	// that behavior.
	r = NewReaderOptions(bytes.NewReader(data), Options{TrustDeclaredLength: true})
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("lenient Next failed: %v", err)
	}
	if rec.Label != "你" || !bytes.Equal(rec.Pixels, pixels) {
		t.Error("lenient decode produced a different record")
	}
}

func TestReaderBoundaryDimensions(t *testing.T) {
	var data []byte
	data = testutil.AppendRecord(data, testutil.LabelNi, 1, 1, []byte{0xAB})
	data = testutil.AppendRecord(data, testutil.LabelHao, 0, 5, nil)
	data = testutil.AppendRecord(data, testutil.LabelZhong, 5, 0, nil)
	data = testutil.AppendRecord(data, testutil.LabelWen, 1, 1, []byte{0xCD})

	r := NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	if records[0].Pixels[0] != 0xAB {
		t.Errorf("expected single pixel 0xAB, got %02X", records[0].Pixels[0])
	}
	if records[1].Width != 0 || records[1].Height != 5 || len(records[1].Pixels) != 0 {
		t.Errorf("zero-width record decoded wrong: %+v", records[1])
	}
	if records[2].Width != 5 || records[2].Height != 0 || len(records[2].Pixels) != 0 {
		t.Errorf("zero-height record decoded wrong: %+v", records[2])
	}
	// A zero-payload record must leave the cursor on the next boundary.
	if records[3].Label != "文" || records[3].Pixels[0] != 0xCD {
		t.Errorf("record after zero-payload records decoded wrong: %+v", records[3])
	}
}

func TestReaderErrorIsSticky(t *testing.T) {
	data := testutil.AppendRecord(nil, testutil.LabelNi, 4, 4, testutil.Gradient(4, 4))
	r := NewReader(bytes.NewReader(data[:6]))

	_, first := r.Next()
	if first == nil {
		t.Fatal("expected an error")
	}
	_, second := r.Next()
	if second != first {
		t.Errorf("expected the same error on repeated calls, got %v then %v", first, second)
	}
}

func TestRecordAccessors(t *testing.T) {
	pixels := testutil.Gradient(3, 2)
	rec := &Record{Label: "你", Width: 3, Height: 2, Pixels: pixels}

	// Row-major: height is the outer dimension.
	if rec.At(2, 1) != pixels[1*3+2] {
		t.Errorf("At(2,1) = %d, expected %d", rec.At(2, 1), pixels[5])
	}

	img := rec.Gray()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("expected 3x2 bounds, got %v", img.Bounds())
	}
	if img.GrayAt(2, 1).Y != rec.At(2, 1) {
		t.Error("image pixel does not match record pixel")
	}
}
