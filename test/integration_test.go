// Package test contains cross-package integration tests for the full
// resolution pipeline: dataset load, cascade resolution against a mocked
// PubChem service, enrichment, and write-out.
package test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phytocore/smiq/internal/dataset"
	"github.com/phytocore/smiq/internal/pubchem"
	"github.com/phytocore/smiq/internal/resolver"
)

const (
	curcuminSMILES  = `COc1cc(C=CC(=O)CC(=O)C=Cc2ccc(O)c(OC)c2)ccc1O`
	quercetinSMILES = `C1=CC(=C(C=C1C2=C(C(=O)C3=C(C=C(C=C3O2)O)O)O)O)O`
)

// mockPubChem serves the direct-lookup PUG REST endpoint for a fixed set
// of compounds and 404s everything else, which is exactly how the real
// service answers unknown names.
func mockPubChem(t *testing.T) *httptest.Server {
	t.Helper()

	known := map[string]string{
		"curcumin":  curcuminSMILES,
		"Curcumin":  curcuminSMILES,
		"quercetin": quercetinSMILES,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

		// compound/name/{name}/property/CanonicalSMILES/JSON
		if len(parts) == 6 && parts[1] == "name" && parts[3] == "property" {
			if s, ok := known[parts[2]]; ok {
				io.WriteString(w, `{"PropertyTable":{"Properties":[{"CID":1,"CanonicalSMILES":"`+s+`"}]}}`)
				return
			}
		}

		http.NotFound(w, r)
	}))

	t.Cleanup(srv.Close)

	return srv
}

func writeDataset(t *testing.T) string {
	t.Helper()

	content := `Plant,Part,Phytochemical_name,References
Curcuma longa,Rhizome,curcumin,ref1
Curcuma longa,Leaf,Curcumin (95%),ref2
Curcuma longa,Rhizome,quercetin,ref3
Curcuma longa,Rhizome,curcumin,ref4
Curcuma longa,Root,unknownol,ref5
`

	path := filepath.Join(t.TempDir(), "phytochemicals.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func newEngine(t *testing.T, mode resolver.Mode) *resolver.Controller {
	t.Helper()

	srv := mockPubChem(t)

	client := pubchem.New(pubchem.Config{
		BaseURL:      srv.URL,
		Timeout:      2 * time.Second,
		RetryCount:   1,
		RetryWait:    time.Millisecond,
		RetryMaxWait: 2 * time.Millisecond,
		MaxInflight:  8,
	})

	// Fuzzy off: the mock has no wildcard endpoint and the scenario
	// must not depend on it.
	return resolver.NewController(resolver.NewResolver(client, false), resolver.ControllerConfig{
		Workers: 4,
		Mode:    mode,
	})
}

func TestIntegration_ResolvePipeline(t *testing.T) {
	path := writeDataset(t)

	ds, err := dataset.Load(path, "Phytochemical_name")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	names := ds.Names()
	if len(names) != 4 {
		t.Fatalf("unique names = %v, want 4 entries", names)
	}

	ctrl := newEngine(t, resolver.ModeAuto)

	outcomes := ctrl.Run(context.Background(), names)

	if o := outcomes["curcumin"]; o.Status != resolver.StatusSuccess || o.Strategy != resolver.StrategyDirect {
		t.Errorf("curcumin outcome = %+v, want direct success", o)
	}

	// The parenthetical-stripped variant matches "Curcumin".
	if o := outcomes["Curcumin (95%)"]; o.Status != resolver.StatusSuccess || o.SMILES != curcuminSMILES {
		t.Errorf("Curcumin (95%%) outcome = %+v, want success via stripped variant", o)
	}

	if o := outcomes["unknownol"]; o.Status != resolver.StatusNotFound {
		t.Errorf("unknownol outcome = %+v, want not_found", o)
	}

	ds.Enrich(resolver.SMILESMap(outcomes))

	out := filepath.Join(t.TempDir(), "enriched.csv")
	if err := ds.Write(out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	enriched, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(enriched)), "\n")
	if len(lines) != 6 {
		t.Fatalf("enriched file has %d lines, want 6", len(lines))
	}

	if !strings.HasSuffix(lines[0], dataset.SMILESColumn) {
		t.Errorf("header = %q, want trailing %s column", lines[0], dataset.SMILESColumn)
	}

	// Rows 1 and 4 share the name "curcumin" and must carry the same value.
	if !strings.HasSuffix(lines[1], curcuminSMILES) || !strings.HasSuffix(lines[4], curcuminSMILES) {
		t.Errorf("curcumin rows not both enriched:\n%s\n%s", lines[1], lines[4])
	}

	// The unresolved row keeps an empty trailing cell.
	if !strings.HasSuffix(lines[5], ",") {
		t.Errorf("unresolved row should end with empty cell: %q", lines[5])
	}

	snap := ctrl.Stats()
	if got := snap.Succeeded + snap.Failed + snap.Invalid; got != snap.Processed {
		t.Errorf("stats invariant violated: %d+%d+%d != %d",
			snap.Succeeded, snap.Failed, snap.Invalid, snap.Processed)
	}
}

func TestIntegration_ModeEquivalence(t *testing.T) {
	path := writeDataset(t)

	ds, err := dataset.Load(path, "Phytochemical_name")
	if err != nil {
		t.Fatal(err)
	}

	names := ds.Names()

	flight := resolver.SMILESMap(newEngine(t, resolver.ModeFlight).Run(context.Background(), names))
	pool := resolver.SMILESMap(newEngine(t, resolver.ModePool).Run(context.Background(), names))

	if len(flight) != len(pool) {
		t.Fatalf("mapping sizes differ: flight %d, pool %d", len(flight), len(pool))
	}

	for name, s := range flight {
		if pool[name] != s {
			t.Errorf("mode mismatch for %q: flight %q, pool %q", name, s, pool[name])
		}
	}
}
