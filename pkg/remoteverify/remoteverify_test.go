package remoteverify

import (
	"io"
	"testing"

	"github.com/oisee/loadstore-chip/pkg/chip"
	"github.com/oisee/loadstore-chip/pkg/opcode"
	"github.com/oisee/loadstore-chip/pkg/step"
	"github.com/oisee/loadstore-chip/pkg/trace"
)

// buildSampleTrace populates a two-row trace: one valid memory row and one
// left all-zero (also a valid, non-memory row), to get a nontrivial verdict
// bitmap out of a batch.
func buildSampleTrace(t *testing.T) *trace.Trace {
	t.Helper()
	tr := trace.New(2)
	c := chip.New(tr, nil, nil)
	st := &step.ExecutionStep{
		Opcode: opcode.SB,
		ValueA: 0x81008,
		Offset: 0,
		MemoryRecords: []step.MemoryRecord{{
			Address: 0x81008, Size: 1, Value: 128, HasPrevValue: true, Timestamp: 1,
		}},
	}
	if err := c.FillRow(0, st); err != nil {
		t.Fatalf("FillRow(0): %v", err)
	}
	if err := c.FillRow(1, nil); err != nil {
		t.Fatalf("FillRow(1): %v", err)
	}
	return tr
}

func TestClientServerRoundTripOverInProcessPipe(t *testing.T) {
	tr := buildSampleTrace(t)
	rows := []trace.RowView{tr.Row(0), tr.Row(1)}

	serverIn, clientToServer := io.Pipe()
	serverOut, serverToClient := io.Pipe()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- ServeConstraints(serverIn, serverToClient, trace.NumColumns())
	}()

	got, err := VerifyBatchOverPipe(rows, trace.NumColumns(), clientToServer, serverOut)
	if err != nil {
		t.Fatalf("VerifyBatchOverPipe: %v", err)
	}
	clientToServer.Close()

	want := []bool{true, true}
	if len(got) != len(want) {
		t.Fatalf("got %d verdicts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: verdict = %v, want %v", i, got[i], want[i])
		}
	}

	serverOut.Close()
	<-serverErr
}

func TestRemoteVerdictMatchesInProcessCheck(t *testing.T) {
	tr := buildSampleTrace(t)
	rows := []trace.RowView{tr.Row(0), tr.Row(1)}

	serverIn, clientToServer := io.Pipe()
	serverOut, serverToClient := io.Pipe()
	go ServeConstraints(serverIn, serverToClient, trace.NumColumns())

	remote, err := VerifyBatchOverPipe(rows, trace.NumColumns(), clientToServer, serverOut)
	if err != nil {
		t.Fatalf("VerifyBatchOverPipe: %v", err)
	}
	clientToServer.Close()
	serverOut.Close()

	for i, row := range rows {
		local, _ := trace.CheckRow(row)
		if remote[i] != local {
			t.Errorf("row %d: remote verdict %v disagrees with local %v", i, remote[i], local)
		}
	}
}
