// internal/integration/integration_test.go
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"razor/internal/output"
	"razor/pkg/api"
)

func TestEndToEnd_Directory(t *testing.T) {
	srv := newClassifierServer(t)
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "result")
	writeFASTA(t, in, "b.fa", proteins)
	writeFASTA(t, in, "a.fa", ">only\nMKVLAAGIVALLLAAGCSSA\n")
	writeFASTA(t, in, "notes.txt", "ignored")

	r := run(t, context.Background(), "-p", in, "-o", out, "--classifier-url", srv.URL, "-n", "4")
	require.Equal(t, 0, r.code, r.stderr)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.csv", "b.csv"}, names)

	b := lines(readFile(t, filepath.Join(out, "b.csv")))
	require.Len(t, b, 8, "header plus seven surviving records")
	assert.Equal(t, output.TSVHeader, b[0])
	assert.Equal(t, int32(8), srv.calls.Load())
	assert.Equal(t, 1, strings.Count(r.stderr, "3 sequences were removed due to inconsistencies in the provided file."))
}

func TestRowContent(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "one.fa", ">id1 desc\nMKVLUAGIVALLLAAGCSSA\n>s\nMKV\n")

	r := run(t, context.Background(), "-p", p, "-o", "-", "--classifier-url", srv.URL, "-q")
	require.Equal(t, 0, r.code, r.stderr)

	got := lines(r.stdout)
	require.Len(t, got, 3)
	// 20 residues: y = 20/300 rounds to 0.07; sp_score = 80/100
	assert.Equal(t,
		"id1 desc\tMKVLCAGIVALLLAAGCSSA\t[0.07, 0.33]\t[1, 0]\t[0.91, 0.5]\t[10]\t10\t0.8\t[0.25]\t[0]\t0.25\t[0.75]\t[1]\t0.75",
		got[1])
	assert.Equal(t,
		"s\tMKV\t[0.01, 0.33]\t[1, 0]\t[0.91, 0.5]\t[1]\t1\t0.8\t[0.25]\t[0]\t0.25\t[]\t[]\t0.0",
		got[2], "skipped toxin stage is zero-filled")
	assert.Empty(t, r.stderr)
}

func TestSerialMatchesParallel(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "p.fa", proteins)

	var outputs []string
	for _, n := range []string{"1", "2", "8"} {
		r := run(t, context.Background(), "-p", p, "-o", "-", "-n", n, "--classifier-url", srv.URL, "-q")
		require.Equal(t, 0, r.code, r.stderr)
		outputs = append(outputs, r.stdout)
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[0], outputs[2])
}

func TestIdempotentRerun(t *testing.T) {
	srv := newClassifierServer(t)
	in := t.TempDir()
	out := t.TempDir()
	writeFASTA(t, in, "p.fa", proteins)

	args := []string{"-p", in, "-o", out, "--classifier-url", srv.URL, "-q"}
	require.Equal(t, 0, run(t, context.Background(), args...).code)
	first := readFile(t, filepath.Join(out, "p.csv"))
	require.Equal(t, 0, run(t, context.Background(), args...).code)
	assert.Equal(t, first, readFile(t, filepath.Join(out, "p.csv")))
}

func TestIdentifierRoundTrip(t *testing.T) {
	srv := newClassifierServer(t)
	ids := []string{
		"sp|P01308|INS_HUMAN Insulin OS=Homo sapiens",
		"weird id with  two spaces",
		"quotes\"and'apostrophes",
		"unicode-é-ß",
	}
	var fa strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&fa, ">%s\nMKVLAAGIVALLL\n", id)
	}
	p := writeFASTA(t, t.TempDir(), "ids.fa", fa.String())

	r := run(t, context.Background(), "-p", p, "-o", "-", "--format", "jsonl", "--classifier-url", srv.URL, "-q")
	require.Equal(t, 0, r.code, r.stderr)

	got := lines(r.stdout)
	require.Len(t, got, len(ids))
	for i, line := range got {
		var row api.RowV1
		require.NoError(t, json.Unmarshal([]byte(line), &row))
		assert.Equal(t, ids[i], row.Accession)
	}
}

func TestClassifierFailureIsolated(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "f.fa", ">ok1\nMKVLAAG\n>boom\nMKWWWAAG\n>ok2\nMLLAG\n")

	r := run(t, context.Background(), "-p", p, "-o", "-", "--classifier-url", srv.URL, "-n", "3")
	require.Equal(t, 0, r.code, r.stderr)

	got := lines(r.stdout)
	require.Len(t, got, 4)
	assert.True(t, strings.HasPrefix(got[1], "ok1\t"))
	assert.Equal(t, "boom\tMKWWWAAG"+strings.Repeat("\tNA", 12), got[2])
	assert.True(t, strings.HasPrefix(got[3], "ok2\t"))
	assert.Contains(t, r.stderr, "classification failed for 1 sequences")
}

func TestMalformedFileIsolated(t *testing.T) {
	srv := newClassifierServer(t)
	in := t.TempDir()
	out := t.TempDir()
	writeFASTA(t, in, "a.fa", "this is not fasta\nMKV\n")
	writeFASTA(t, in, "b.fa", proteins)

	r := run(t, context.Background(), "-p", in, "-o", out, "--classifier-url", srv.URL)
	assert.Equal(t, 3, r.code)
	assert.Contains(t, r.stderr, "malformed FASTA")
	assert.NoFileExists(t, filepath.Join(out, "a.csv"))
	assert.FileExists(t, filepath.Join(out, "b.csv"))
}

func TestBannerLineDroppedRestAnnotated(t *testing.T) {
	srv := newClassifierServer(t)
	out := t.TempDir()
	p := writeFASTA(t, t.TempDir(), "banner.fa", "generated by tool\n>a\nMKVLAAGIVALLLAAGCSSA\n>b\nMKVLLAGIVALLLAAGCSSA\n")

	r := run(t, context.Background(), "-p", p, "-o", out, "--classifier-url", srv.URL)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "1 sequences were removed due to inconsistencies in the provided file.")

	got := lines(readFile(t, filepath.Join(out, "banner.csv")))
	require.Len(t, got, 3)
	assert.True(t, strings.HasPrefix(got[1], "a\t"))
	assert.True(t, strings.HasPrefix(got[2], "b\t"))
}

func TestConfigurationErrors(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "p.fa", proteins)
	out := t.TempDir()

	cases := map[string][]string{
		"max scan too small": {"-p", p, "-o", out, "-m", "15", "--classifier-url", srv.URL},
		"no classifier":      {"-p", p, "-o", out},
		"two classifiers":    {"-p", p, "-o", out, "--classifier-url", srv.URL, "--classifier-cmd", "x"},
		"bad format":         {"-p", p, "-o", out, "--format", "xlsx", "--classifier-url", srv.URL},
		"zero cores":         {"-p", p, "-o", out, "-n", "0", "--classifier-url", srv.URL},
		"unknown flag":       {"-p", p, "--bogus"},
		"missing path":       {"--classifier-url", srv.URL},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			r := run(t, context.Background(), args...)
			assert.Equal(t, 2, r.code, r.stderr)
			assert.Contains(t, r.stderr, "ERROR:")
		})
	}
	assert.Zero(t, srv.calls.Load(), "rejected runs never reach the classifier")
	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries, "rejected runs write nothing")
}

func TestMaxScanMessage(t *testing.T) {
	r := run(t, context.Background(), "-p", "x.fa", "-m", "10", "--classifier-cmd", "x")
	assert.Equal(t, 2, r.code)
	assert.Contains(t, r.stderr, "Max scan should be greater than 16")
}

func TestMaxScanTruncates(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "long.fa", ">long\n"+strings.Repeat("A", 40)+"\n")

	r := run(t, context.Background(), "-p", p, "-o", "-", "-m", "16", "--classifier-url", srv.URL, "-q")
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(lines(r.stdout)[1], "long\t"+strings.Repeat("A", 31)+"\t"))
}

func TestQuietSuppressesWarnings(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "p.fa", proteins)

	r := run(t, context.Background(), "-p", p, "-o", "-", "-q", "--classifier-url", srv.URL)
	require.Equal(t, 0, r.code)
	assert.Empty(t, r.stderr)

	r = run(t, context.Background(), "-p", p, "-o", "-", "--classifier-url", srv.URL)
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stderr, "WARN:")
}

func TestJSONFormat(t *testing.T) {
	srv := newClassifierServer(t)
	in := t.TempDir()
	out := t.TempDir()
	writeFASTA(t, in, "p.fa", proteins)

	r := run(t, context.Background(), "-p", in, "-o", out, "--format", "json", "--classifier-url", srv.URL, "-q")
	require.Equal(t, 0, r.code, r.stderr)

	var table api.TableV1
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "p.json"))), &table))
	assert.NotEmpty(t, table.RunID)
	assert.Equal(t, filepath.Join(in, "p.fa"), table.Source)
	assert.Equal(t, 80, table.MaxScan)
	assert.Equal(t, 10, table.Total)
	assert.Equal(t, 3, table.Dropped)
	require.Len(t, table.Rows, 7)
	assert.Equal(t, []string{"toxin"}, table.Rows[6].Annotation.SkippedStages)
}

func TestCacheSkipsClassifier(t *testing.T) {
	srv := newClassifierServer(t)
	p := writeFASTA(t, t.TempDir(), "p.fa", proteins)
	cache := filepath.Join(t.TempDir(), "cache", "bundles.db")

	args := []string{"-p", p, "-o", "-", "--cache", cache, "--classifier-url", srv.URL, "-q"}
	first := run(t, context.Background(), args...)
	require.Equal(t, 0, first.code, first.stderr)
	calls := srv.calls.Load()
	assert.Equal(t, int32(7), calls)

	second := run(t, context.Background(), args...)
	require.Equal(t, 0, second.code, second.stderr)
	assert.Equal(t, calls, srv.calls.Load(), "every bundle came from the cache")
	assert.Equal(t, first.stdout, second.stdout)
}

func TestConfigFile(t *testing.T) {
	srv := newClassifierServer(t)
	dir := t.TempDir()
	p := writeFASTA(t, dir, "p.fa", proteins)
	cfg := filepath.Join(dir, "razor.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(
		"path: %s\noutput: \"-\"\nmax_scan: 16\nquiet: true\nclassifier:\n  url: %s\n", p, srv.URL)), 0o644))

	r := run(t, context.Background(), "--config", cfg)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\t0.16\t", "max_scan from the file reaches the classifier")

	r = run(t, context.Background(), "--config", cfg, "-m", "20")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\t0.2\t", "explicit flag overrides the file")
}

func TestVersion(t *testing.T) {
	r := run(t, context.Background(), "--version")
	assert.Equal(t, 0, r.code)
	assert.True(t, strings.HasPrefix(r.stdout, "razor version "))
}

func TestCtrlC_Exit130(t *testing.T) {
	release := make(chan struct{})
	slow := newSlowServer(t, release)

	p := writeFASTA(t, t.TempDir(), "p.fa", proteins)
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	r := run(t, ctx, "-p", p, "-o", out, "--classifier-url", slow.URL, "-n", "2")
	close(release)
	assert.Equal(t, 130, r.code, r.stderr)
	assert.NoFileExists(t, filepath.Join(out, "p.csv"))
}
