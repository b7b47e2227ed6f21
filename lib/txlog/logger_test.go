package txlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ere11i/KV-Store-CLI-Utility/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileLogger(t *testing.T) (ITransactionLogger, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "log.json")
	l, err := New(Options{LogFile: logFile})
	require.NoError(t, err)
	return l, logFile
}

func valuePtr(v value.Value) *value.Value {
	return &v
}

func TestNewInitializesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "dir", "log.json")
	_, err := New(Options{LogFile: logFile})
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestAppendAssignsGaplessIDs(t *testing.T) {
	l, _ := newFileLogger(t)

	ops := []Operation{OpPut, OpGet, OpPut, OpDelete, OpClear}
	for _, op := range ops {
		l.Append(Transaction{Operation: op, Key: "k"})
	}

	records := l.Query(Filter{})
	require.Len(t, records, len(ops))
	for i, rec := range records {
		assert.Equal(t, uint64(i+1), rec.TransactionID)
		assert.Equal(t, ops[i], rec.Operation)
		assert.False(t, rec.Timestamp.IsZero())
	}
}

func TestQueryFiltersAreANDCombined(t *testing.T) {
	l, _ := newFileLogger(t)

	l.Append(Transaction{Operation: OpPut, Key: "a"})
	l.Append(Transaction{Operation: OpPut, Key: "b"})
	l.Append(Transaction{Operation: OpGet, Key: "a"})
	l.Append(Transaction{Operation: OpDelete, Key: "a"})

	puts := l.Query(Filter{Operation: OpPut})
	require.Len(t, puts, 2)
	assert.Equal(t, "a", puts[0].Key)
	assert.Equal(t, "b", puts[1].Key)

	keyA := l.Query(Filter{Key: "a"})
	require.Len(t, keyA, 3)

	putA := l.Query(Filter{Operation: OpPut, Key: "a"})
	require.Len(t, putA, 1)
	assert.Equal(t, uint64(1), putA[0].TransactionID)
}

func TestQueryLimitKeepsLastRecords(t *testing.T) {
	l, _ := newFileLogger(t)

	for i := 0; i < 5; i++ {
		l.Append(Transaction{Operation: OpPut, Key: "k"})
	}

	limited := l.Query(Filter{Limit: 2})
	require.Len(t, limited, 2)
	assert.Equal(t, uint64(4), limited[0].TransactionID)
	assert.Equal(t, uint64(5), limited[1].TransactionID)

	// limit larger than the log returns everything
	assert.Len(t, l.Query(Filter{Limit: 100}), 5)
}

func TestClearKeepsCounterRunning(t *testing.T) {
	l, _ := newFileLogger(t)

	l.Append(Transaction{Operation: OpPut, Key: "a"})
	l.Append(Transaction{Operation: OpPut, Key: "b"})
	require.NoError(t, l.Clear())

	assert.Empty(t, l.Query(Filter{}))

	l.Append(Transaction{Operation: OpPut, Key: "c"})
	records := l.Query(Filter{})
	require.Len(t, records, 1)
	assert.Equal(t, uint64(3), records[0].TransactionID)
}

func TestCorruptLogReadsAsEmpty(t *testing.T) {
	l, logFile := newFileLogger(t)

	require.NoError(t, os.WriteFile(logFile, []byte(`{not json`), 0o644))
	assert.Empty(t, l.Query(Filter{}))

	// appending to a corrupted log starts over instead of failing
	l.Append(Transaction{Operation: OpPut, Key: "k"})
	assert.Len(t, l.Query(Filter{}), 1)
}

func TestFilelessLoggerRetainsNothing(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)

	l.Append(Transaction{Operation: OpPut, Key: "k", Value: valuePtr(value.Number(1))})
	assert.Empty(t, l.Query(Filter{}))
	require.NoError(t, l.Clear())

	// the append is still counted in-process
	info := l.Info()
	assert.False(t, info.Retained)
	assert.Equal(t, uint64(1), info.LastID)
	assert.Equal(t, uint64(1), info.Appends[OpPut])
}

func TestAbsentFieldsOmittedFromWireFormat(t *testing.T) {
	l, logFile := newFileLogger(t)

	l.Append(Transaction{Operation: OpClear})
	l.Append(Transaction{
		Operation: OpPut,
		Key:       "k",
		Value:     valuePtr(value.Bool(false)),
		OldValue:  valuePtr(value.Number(0)),
		Metadata:  map[string]string{"source": "test"},
	})

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	clearRec := raw[0]
	assert.Contains(t, clearRec, "transaction_id")
	assert.Contains(t, clearRec, "operation")
	assert.Contains(t, clearRec, "timestamp")
	assert.NotContains(t, clearRec, "key")
	assert.NotContains(t, clearRec, "value")
	assert.NotContains(t, clearRec, "old_value")
	assert.NotContains(t, clearRec, "metadata")

	putRec := raw[1]
	assert.Contains(t, putRec, "key")
	// falsy payloads still serialize, they are present, not omitted
	assert.Equal(t, "false", string(putRec["value"]))
	assert.Equal(t, "0", string(putRec["old_value"]))
	assert.Contains(t, putRec, "metadata")
}

func TestAppendFailureIsSwallowed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	l, err := New(Options{LogFile: filepath.Join(dir, "log.json")})
	require.NoError(t, err)
	l.Append(Transaction{Operation: OpPut, Key: "a"})

	// make the log rewrite fail
	require.NoError(t, os.RemoveAll(dir))

	// best-effort: the append must not panic or surface an error
	l.Append(Transaction{Operation: OpPut, Key: "b"})

	info := l.Info()
	assert.Equal(t, uint64(2), info.LastID)
	assert.Equal(t, uint64(1), info.Dropped)
}

func TestExplicitTimestampIsKept(t *testing.T) {
	l, _ := newFileLogger(t)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.Append(Transaction{Operation: OpPut, Key: "k", Timestamp: ts})

	records := l.Query(Filter{})
	require.Len(t, records, 1)
	assert.True(t, records[0].Timestamp.Equal(ts))
}

func TestInfoCountsPerOperation(t *testing.T) {
	l, _ := newFileLogger(t)

	l.Append(Transaction{Operation: OpPut, Key: "a"})
	l.Append(Transaction{Operation: OpPut, Key: "b"})
	l.Append(Transaction{Operation: OpGet, Key: "a"})

	info := l.Info()
	assert.True(t, info.Retained)
	assert.Equal(t, uint64(3), info.LastID)
	assert.Equal(t, uint64(2), info.Appends[OpPut])
	assert.Equal(t, uint64(1), info.Appends[OpGet])
	assert.Zero(t, info.Dropped)
}
