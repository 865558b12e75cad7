package stub

import (
	"bytes"
	"testing"
)

func TestTxWriteRecordsWrites(t *testing.T) {
	tr := New()
	if n := tr.TxWrite([]byte("hello")); n != 5 {
		t.Fatalf("TxWrite() = %d, want 5", n)
	}
	writes := tr.Writes()
	if len(writes) != 1 || !bytes.Equal(writes[0], []byte("hello")) {
		t.Fatalf("Writes() = %v, want [[hello]]", writes)
	}
}

func TestTxWriteNotReady(t *testing.T) {
	tr := New()
	tr.Ready = false
	if n := tr.TxWrite([]byte("x")); n != 0 {
		t.Fatalf("TxWrite() while not ready = %d, want 0", n)
	}
}

func TestInjectRXDeliversToHandler(t *testing.T) {
	tr := New()
	var got []byte
	tr.SetRXHandler(func(data []byte) { got = append(got, data...) })
	tr.InjectRX([]byte{1, 2, 3})
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("handler got %v, want [1 2 3]", got)
	}
}

func TestWriteOverrideSimulatesBusy(t *testing.T) {
	tr := New()
	tr.SetWriteOverride(func(data []byte) int { return 0 })
	if n := tr.TxWrite([]byte("x")); n != 0 {
		t.Fatalf("TxWrite() with busy override = %d, want 0", n)
	}
}
