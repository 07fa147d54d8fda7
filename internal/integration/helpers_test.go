package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"razor/internal/app"
	"razor/pkg/api"
)

// proteins has ten records: seven valid, one with a non-standard residue,
// one with an empty sequence and one "NONE".
const proteins = `>sp|P01308|INS_HUMAN Insulin OS=Homo sapiens
MALWMRLLPLLALLALWGPDPAAAFVNQHLCGSHLVEALYLVCGERGFFYTPKTRREAEDLQVGQVELGGGPGAGSLQPLALEGSLQKRGIVEQCCTSICSLYQLENYCN
>tr|A0A0|TOXIN_1
MKTLLLTLVVVTIVCLDLGYTRICFNHQSSQPQTTKTCSPGESSCYNKQWSDFRGTIIERGCGCPTVKPGIKLSCCESEVCNN
>bad_residue
MKVLAXGIVALLL
>empty
>none
NONE
>plain
MSTNPKPQRKTKRNTNRRPQDVKFPGG
>lower case id
mkkllptaaaglllLAAQPAMA
>with_u
MKVLUAGIVALLLAAGCSSA
>x|y|z a=b c=d
MAKWVTFISLLLLFSSAYSRGVFRRDTHKSEIAHRFKDLGEEHFKGLVLIAFSQYLQQCPFDEHVKLVNELTEFAKTCVADESHENCDKSLHTLFGDELCKVASLRETYGDMADCCEKQEPERNECFLSHKDDSPDLPKLKPDPNTLCDEFKADEKKFWGKYLYEIARRHPYFYAPELLYYANKYNGVFQECCQAEDKGACLLPKIETMREKVLASSARQRLRCASIQKFGERALKAWSVARLSQKFPKAEFVEVTKLVTDLTKVHKECCHGDLLECADDRADLAKYICDNQDTISSKLKECCDKPLLEKSHCIAEVEKDAIPENLPPLTADFAEDKDVCKNYQEAKDAFLGSFLYEYSRRHPEYAVSVLLRLAKEYEATLEECCAKDDPHACYSTVFDKLKHLVDEPQNLIKQNCDQFEKLGEYGFQNALIVRYTRKVPQVSTPTLVEVSRSLGKVGTRCCTKPESERMPCTEDYLSLILNRLCVLHEKTPVSEKVTKCCTESLVNRRPCFSALTPDETYVPKAFDEKLFTFHADICTLPDTEKQIKKQTALVELLKHKPKATEEQLKTVMENFVAFVDKCCAADDKEACFAVEGPKLVVSTQTALA
>short
MKV
`

// classifierServer fakes a remote model. Bundles are a pure function of the
// request; sequences containing "WWW" get a 500.
type classifierServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newClassifierServer(t *testing.T) *classifierServer {
	t.Helper()
	cs := &classifierServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.calls.Add(1)
		var req api.RequestV1
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.Contains(req.Sequence, "WWW") {
			http.Error(w, "model exploded", http.StatusInternalServerError)
			return
		}
		n := len(req.Sequence)
		b := api.BundleV1{
			YScores:            []float64{float64(n) / 300, 0.3333},
			Predictions:        []int{1, 0},
			MaxCScores:         []float64{0.91, 0.5},
			CandidateCleavages: []int{n / 2},
			Cleavage:           n / 2,
			SPScore:            float64(req.MaxScan) / 100,
			FungiScores:        []float64{0.25},
			FungiPredictions:   []int{0},
			FungiMedian:        0.25,
			ToxinScores:        []float64{0.75},
			ToxinPredictions:   []int{1},
			ToxinMedian:        0.75,
		}
		if n < 5 {
			b.ToxinScores, b.ToxinPredictions, b.ToxinMedian = nil, nil, 0
			b.SkippedStages = []string{"toxin"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func writeFASTA(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, ctx context.Context, args ...string) result {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.RunContext(ctx, args, &out, &errBuf)
	return result{code: code, stdout: out.String(), stderr: errBuf.String()}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// newSlowServer answers nothing until release is closed or the client goes away.
func newSlowServer(t *testing.T, release <-chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
		http.Error(w, "too late", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return srv
}
